package enrollmentController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/routers/courseRoutes"
	"lms/routers/enrollmentRoutes"
	"lms/utils"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	testDBSeq   int64
	testUserSeq int64
)

// setupTest wires a fresh in-memory database into the global instance and
// returns it together with a fiber app carrying the full route table.
func setupTest(t *testing.T) (*gorm.DB, *fiber.App) {
	t.Helper()

	config.AppConfig = &config.Config{
		Port:                 "0",
		JWTKey:               "test-secret",
		ArchiveRetentionDays: 90,
	}

	dsn := fmt.Sprintf("file:enrolltest%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Enrollment{},
		&models.EnrollmentRequest{},
		&models.ArchivedEnrollmentRequest{},
		&models.Review{},
	))

	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	enrollmentRoutes.SetupEnrollmentRoutes(app)
	enrollmentRoutes.SetupAdminEnrollmentRoutes(app)

	return db, app
}

func seedUser(t *testing.T, db *gorm.DB, role string) models.User {
	t.Helper()

	seq := atomic.AddInt64(&testUserSeq, 1)
	user := models.User{
		Name:     fmt.Sprintf("User %d", seq),
		Email:    fmt.Sprintf("user%d@example.com", seq),
		Role:     role,
		Password: "hashed-password",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedCourse(t *testing.T, db *gorm.DB, title, duration string) models.Course {
	t.Helper()

	course := models.Course{
		Title:       title,
		Slug:        utils.Slugify(title),
		Author:      "Test Author",
		Duration:    duration,
		Status:      "ACTIVE",
		IsPublished: true,
	}
	require.NoError(t, db.Create(&course).Error)
	return course
}

func authToken(t *testing.T, user models.User) string {
	t.Helper()

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return "Bearer " + token
}

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// doRequest performs a JSON request against the test app and decodes the
// standard response envelope
func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, apiResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed apiResponse
	require.NoError(t, json.Unmarshal(raw, &parsed))

	return resp.StatusCode, parsed
}

func submitRequestBody(paymentRef, referrerCode string) fiber.Map {
	return fiber.Map{
		"fullName":         "Jordan Learner",
		"email":            "jordan@example.com",
		"mobile":           "5551234567",
		"paymentReference": paymentRef,
		"screenshotRef":    "payments/jordan.png",
		"referrerCode":     referrerCode,
	}
}

func submitPath(courseID uint) string {
	return fmt.Sprintf("/course/%d/request", courseID)
}

func jsonUnmarshal(raw json.RawMessage, v interface{}) error {
	return json.Unmarshal(raw, v)
}
