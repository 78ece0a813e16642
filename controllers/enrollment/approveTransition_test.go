package enrollmentController

import (
	"fmt"
	"sync/atomic"
	"testing"

	"lms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var transitionDBSeq int64

func setupTransitionDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:transitiontest%d?mode=memory&cache=shared", atomic.AddInt64(&transitionDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Enrollment{},
		&models.EnrollmentRequest{},
	))
	return db
}

func seedApprovalFixture(t *testing.T, db *gorm.DB, referrerCode string) (models.User, models.Course, models.EnrollmentRequest) {
	t.Helper()

	code := referrerCode
	referrer := models.User{
		Name:         "Riley Referrer",
		Email:        fmt.Sprintf("referrer%d@example.com", transitionDBSeq),
		Password:     "hashed-password",
		ReferralCode: &code,
	}
	require.NoError(t, db.Create(&referrer).Error)

	learner := models.User{
		Name:     "Jordan Learner",
		Email:    fmt.Sprintf("learner%d@example.com", transitionDBSeq),
		Password: "hashed-password",
	}
	require.NoError(t, db.Create(&learner).Error)

	course := models.Course{
		Title:       "Raced Course",
		Slug:        fmt.Sprintf("raced-course-%d", transitionDBSeq),
		Duration:    "30 Days",
		Status:      "ACTIVE",
		IsPublished: true,
	}
	require.NoError(t, db.Create(&course).Error)

	request := models.EnrollmentRequest{
		UserID:           learner.ID,
		CourseID:         course.ID,
		FullName:         "Jordan Learner",
		Email:            "jordan@example.com",
		PaymentReference: fmt.Sprintf("TXNRACE%d", transitionDBSeq),
		Status:           models.RequestPending,
		ReferrerCode:     referrerCode,
	}
	require.NoError(t, db.Create(&request).Error)

	enrollment := models.Enrollment{UserID: learner.ID, CourseID: course.ID, Status: models.EnrollmentPending}
	require.NoError(t, db.Create(&enrollment).Error)

	return referrer, course, request
}

// Two admins double-clicking the same approval both read the request as
// PENDING before either commits. Only the call that wins the conditional
// transition may move the student counter and the referral credit.
func TestOverlappingApprovalsSideEffectsLandOnce(t *testing.T) {
	db := setupTransitionDB(t)
	referrer, course, request := seedApprovalFixture(t, db, "RACEREF123")

	var snapA, snapB models.EnrollmentRequest
	require.NoError(t, db.First(&snapA, request.ID).Error)
	require.NoError(t, db.First(&snapB, request.ID).Error)
	require.Equal(t, models.RequestPending, snapA.Status)
	require.Equal(t, models.RequestPending, snapB.Status)

	okA, err := approvePendingRequest(db, &snapA, 1)
	require.NoError(t, err)
	assert.True(t, okA)

	// The second call holds a stale PENDING snapshot, as a racing handler
	// would after passing its status check
	okB, err := approvePendingRequest(db, &snapB, 2)
	require.NoError(t, err)
	assert.False(t, okB)

	var updated models.EnrollmentRequest
	require.NoError(t, db.First(&updated, request.ID).Error)
	assert.Equal(t, models.RequestApproved, updated.Status)
	require.NotNil(t, updated.ApprovedBy)
	assert.Equal(t, uint(1), *updated.ApprovedBy)

	var updatedCourse models.Course
	require.NoError(t, db.First(&updatedCourse, course.ID).Error)
	assert.Equal(t, uint(1), updatedCourse.StudentCount)

	var updatedReferrer models.User
	require.NoError(t, db.First(&updatedReferrer, referrer.ID).Error)
	assert.Equal(t, uint(1), updatedReferrer.ReferralCount)

	var enrollment models.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", request.UserID, request.CourseID).First(&enrollment).Error)
	assert.Equal(t, models.EnrollmentEnrolled, enrollment.Status)
}

func TestApprovalLosesToConcurrentRejection(t *testing.T) {
	db := setupTransitionDB(t)
	referrer, course, request := seedApprovalFixture(t, db, "RACEREF456")

	var snap models.EnrollmentRequest
	require.NoError(t, db.First(&snap, request.ID).Error)
	require.Equal(t, models.RequestPending, snap.Status)

	// A rejection commits between the snapshot read and the approval
	require.NoError(t, db.Model(&models.EnrollmentRequest{}).
		Where("id = ?", request.ID).Update("status", models.RequestRejected).Error)

	ok, err := approvePendingRequest(db, &snap, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	var updated models.EnrollmentRequest
	require.NoError(t, db.First(&updated, request.ID).Error)
	assert.Equal(t, models.RequestRejected, updated.Status)
	assert.Nil(t, updated.ApprovedBy)

	var updatedCourse models.Course
	require.NoError(t, db.First(&updatedCourse, course.ID).Error)
	assert.Equal(t, uint(0), updatedCourse.StudentCount)

	var updatedReferrer models.User
	require.NoError(t, db.First(&updatedReferrer, referrer.ID).Error)
	assert.Equal(t, uint(0), updatedReferrer.ReferralCount)
}
