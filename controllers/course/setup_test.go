package courseController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/routers/courseRoutes"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	testDBSeq   int64
	testUserSeq int64
)

func setupTest(t *testing.T) (*gorm.DB, *fiber.App) {
	t.Helper()

	config.AppConfig = &config.Config{
		Port:                 "0",
		JWTKey:               "test-secret",
		ArchiveRetentionDays: 90,
	}

	dsn := fmt.Sprintf("file:coursetest%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
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

	return db, app
}

func seedUser(t *testing.T, db *gorm.DB, role string) models.User {
	t.Helper()

	seq := atomic.AddInt64(&testUserSeq, 1)
	user := models.User{
		Name:     fmt.Sprintf("Reviewer %d", seq),
		Email:    fmt.Sprintf("reviewer%d@example.com", seq),
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

func seedEnrolledUser(t *testing.T, db *gorm.DB, courseID uint) models.User {
	t.Helper()

	user := seedUser(t, db, "USER")
	enrollment := models.Enrollment{UserID: user.ID, CourseID: courseID, Status: models.EnrollmentEnrolled}
	require.NoError(t, db.Create(&enrollment).Error)
	return user
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

func reviewPath(courseID uint) string {
	return fmt.Sprintf("/course/%d/review", courseID)
}

func reviewBody(rating int, comment string) fiber.Map {
	return fiber.Map{"rating": rating, "comment": comment}
}

func jsonUnmarshal(raw json.RawMessage, v interface{}) error {
	return json.Unmarshal(raw, v)
}
