package utils

import (
	"encoding/json"
	"lms/config"
	"log"

	"github.com/go-resty/resty/v2"
)

// ResolveScreenshotURL exchanges a payment-evidence reference for a signed
// URL the admin panel can display. The media service is best-effort: on any
// failure the admin just sees the raw reference.
func ResolveScreenshotURL(ref string) string {
	if ref == "" || config.AppConfig.MediaApiUrl == "" {
		return ""
	}

	client := resty.New()
	resp, err := client.R().
		SetHeader("Authorization", "Bearer "+config.AppConfig.MediaApiKey).
		SetQueryParam("ref", ref).
		Get(config.AppConfig.MediaApiUrl + "/sign")
	if err != nil {
		log.Printf("Error resolving screenshot %s: %v", ref, err)
		return ""
	}
	if resp.StatusCode() != 200 {
		log.Printf("Media service returned %d for screenshot %s", resp.StatusCode(), ref)
		return ""
	}

	var signed struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(resp.Body(), &signed); err != nil {
		log.Printf("Invalid media service response for %s: %v", ref, err)
		return ""
	}

	return signed.URL
}
