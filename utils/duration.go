package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var durationNumber = regexp.MustCompile(`\d+`)

// ParseDurationDays extracts a day count from a course's free-text duration
// field ("30 Days", "6 Weeks", "2 Months"). The field is UI-authored text,
// so anything without a positive integer is an error.
func ParseDurationDays(duration string) (int, error) {
	match := durationNumber.FindString(duration)
	if match == "" {
		return 0, fmt.Errorf("no day count in course duration %q", duration)
	}

	n, err := strconv.Atoi(match)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid day count in course duration %q", duration)
	}

	lower := strings.ToLower(duration)
	switch {
	case strings.Contains(lower, "week"):
		n *= 7
	case strings.Contains(lower, "month"):
		n *= 30
	}

	return n, nil
}
