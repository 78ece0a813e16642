package enrollmentController_test

import (
	"fmt"
	"net/http"
	"testing"

	"lms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func approvePath(requestID uint) string {
	return fmt.Sprintf("/admin/enrollment-request/%d/approve", requestID)
}

func rejectPath(requestID uint) string {
	return fmt.Sprintf("/admin/enrollment-request/%d/reject", requestID)
}

func seedReferrer(t *testing.T, db *gorm.DB, code string) models.User {
	t.Helper()

	referrer := seedUser(t, db, "USER")
	require.NoError(t, db.Model(&referrer).Update("referral_code", code).Error)
	referrer.ReferralCode = &code
	return referrer
}

func submitRequest(t *testing.T, db *gorm.DB, userID, courseID uint, paymentRef, referrerCode string) models.EnrollmentRequest {
	t.Helper()

	request := models.EnrollmentRequest{
		UserID:           userID,
		CourseID:         courseID,
		FullName:         "Jordan Learner",
		Email:            "jordan@example.com",
		PaymentReference: paymentRef,
		Status:           models.RequestPending,
		ReferrerCode:     referrerCode,
	}
	require.NoError(t, db.Create(&request).Error)

	enrollment := models.Enrollment{UserID: userID, CourseID: courseID, Status: models.EnrollmentPending}
	require.NoError(t, db.Create(&enrollment).Error)

	return request
}

func TestApproveRequest(t *testing.T) {
	db, app := setupTest(t)

	admin := seedUser(t, db, "ADMIN")
	learner := seedUser(t, db, "USER")
	referrer := seedReferrer(t, db, "REFCODE123")
	course := seedCourse(t, db, "Approval Flow Course", "30 Days")

	request := submitRequest(t, db, learner.ID, course.ID, "TXNAPPROVE1", "REFCODE123")

	status, resp := doRequest(t, app, "POST", approvePath(request.ID), authToken(t, admin), nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, resp.Status)

	var updated models.EnrollmentRequest
	require.NoError(t, db.First(&updated, request.ID).Error)
	assert.Equal(t, models.RequestApproved, updated.Status)
	require.NotNil(t, updated.ApprovedAt)
	require.NotNil(t, updated.ApprovedBy)
	assert.Equal(t, admin.ID, *updated.ApprovedBy)

	var enrollment models.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", learner.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, models.EnrollmentEnrolled, enrollment.Status)

	var updatedCourse models.Course
	require.NoError(t, db.First(&updatedCourse, course.ID).Error)
	assert.Equal(t, uint(1), updatedCourse.StudentCount)

	var updatedReferrer models.User
	require.NoError(t, db.First(&updatedReferrer, referrer.ID).Error)
	assert.Equal(t, uint(1), updatedReferrer.ReferralCount)
}

func TestApproveRequestIdempotent(t *testing.T) {
	db, app := setupTest(t)

	admin := seedUser(t, db, "ADMIN")
	learner := seedUser(t, db, "USER")
	referrer := seedReferrer(t, db, "REFTWICE99")
	course := seedCourse(t, db, "Double Click Course", "30 Days")

	request := submitRequest(t, db, learner.ID, course.ID, "TXNTWICE1", "REFTWICE99")

	status, _ := doRequest(t, app, "POST", approvePath(request.ID), authToken(t, admin), nil)
	require.Equal(t, http.StatusOK, status)

	// Second approval must be a harmless no-op
	status, resp := doRequest(t, app, "POST", approvePath(request.ID), authToken(t, admin), nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, resp.Status)

	var updatedCourse models.Course
	require.NoError(t, db.First(&updatedCourse, course.ID).Error)
	assert.Equal(t, uint(1), updatedCourse.StudentCount)

	var updatedReferrer models.User
	require.NoError(t, db.First(&updatedReferrer, referrer.ID).Error)
	assert.Equal(t, uint(1), updatedReferrer.ReferralCount)
}

func TestApproveSecondRequestForSamePair(t *testing.T) {
	db, app := setupTest(t)

	admin := seedUser(t, db, "ADMIN")
	learner := seedUser(t, db, "USER")
	course := seedCourse(t, db, "Same Pair Course", "30 Days")

	first := submitRequest(t, db, learner.ID, course.ID, "TXNPAIR1", "")
	status, _ := doRequest(t, app, "POST", approvePath(first.ID), authToken(t, admin), nil)
	require.Equal(t, http.StatusOK, status)

	// A second request for an already enrolled pair activates nothing new
	second := models.EnrollmentRequest{
		UserID:           learner.ID,
		CourseID:         course.ID,
		FullName:         "Jordan Learner",
		Email:            "jordan@example.com",
		PaymentReference: "TXNPAIR2",
		Status:           models.RequestPending,
	}
	require.NoError(t, db.Create(&second).Error)

	status, _ = doRequest(t, app, "POST", approvePath(second.ID), authToken(t, admin), nil)
	require.Equal(t, http.StatusOK, status)

	var updatedCourse models.Course
	require.NoError(t, db.First(&updatedCourse, course.ID).Error)
	assert.Equal(t, uint(1), updatedCourse.StudentCount)
}

func TestApproveRequestUnknownReferrer(t *testing.T) {
	db, app := setupTest(t)

	admin := seedUser(t, db, "ADMIN")
	learner := seedUser(t, db, "USER")
	course := seedCourse(t, db, "Unknown Referrer Course", "30 Days")

	request := submitRequest(t, db, learner.ID, course.ID, "TXNNOREF1", "DOESNOTEXIST")

	// A bad referrer code never blocks the approval itself
	status, resp := doRequest(t, app, "POST", approvePath(request.ID), authToken(t, admin), nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, resp.Status)

	var updated models.EnrollmentRequest
	require.NoError(t, db.First(&updated, request.ID).Error)
	assert.Equal(t, models.RequestApproved, updated.Status)
}

func TestApproveRequestNotFound(t *testing.T) {
	db, app := setupTest(t)

	admin := seedUser(t, db, "ADMIN")

	status, _ := doRequest(t, app, "POST", approvePath(424242), authToken(t, admin), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestApproveRequestRequiresAdmin(t *testing.T) {
	db, app := setupTest(t)

	learner := seedUser(t, db, "USER")
	course := seedCourse(t, db, "No Access Course", "30 Days")
	request := submitRequest(t, db, learner.ID, course.ID, "TXNNOADMIN", "")

	status, _ := doRequest(t, app, "POST", approvePath(request.ID), authToken(t, learner), nil)
	assert.Equal(t, http.StatusForbidden, status)

	var unchanged models.EnrollmentRequest
	require.NoError(t, db.First(&unchanged, request.ID).Error)
	assert.Equal(t, models.RequestPending, unchanged.Status)
}

func TestApproveRejectedRequest(t *testing.T) {
	db, app := setupTest(t)

	admin := seedUser(t, db, "ADMIN")
	learner := seedUser(t, db, "USER")
	course := seedCourse(t, db, "Rejected First Course", "30 Days")
	request := submitRequest(t, db, learner.ID, course.ID, "TXNREJ1", "")

	status, _ := doRequest(t, app, "POST", rejectPath(request.ID), authToken(t, admin), nil)
	require.Equal(t, http.StatusOK, status)

	status, resp := doRequest(t, app, "POST", approvePath(request.ID), authToken(t, admin), nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.False(t, resp.Status)
}

func TestRejectRequestRemovesPendingEnrollment(t *testing.T) {
	db, app := setupTest(t)

	admin := seedUser(t, db, "ADMIN")
	learner := seedUser(t, db, "USER")
	course := seedCourse(t, db, "Rejection Course", "30 Days")
	request := submitRequest(t, db, learner.ID, course.ID, "TXNREJECT2", "")

	status, resp := doRequest(t, app, "POST", rejectPath(request.ID), authToken(t, admin), nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, resp.Status)

	var updated models.EnrollmentRequest
	require.NoError(t, db.First(&updated, request.ID).Error)
	assert.Equal(t, models.RequestRejected, updated.Status)

	var count int64
	db.Model(&models.Enrollment{}).Where("user_id = ? AND course_id = ?", learner.ID, course.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRejectApprovedRequest(t *testing.T) {
	db, app := setupTest(t)

	admin := seedUser(t, db, "ADMIN")
	learner := seedUser(t, db, "USER")
	course := seedCourse(t, db, "Already Approved Course", "30 Days")
	request := submitRequest(t, db, learner.ID, course.ID, "TXNLOCKED1", "")

	status, _ := doRequest(t, app, "POST", approvePath(request.ID), authToken(t, admin), nil)
	require.Equal(t, http.StatusOK, status)

	status, resp := doRequest(t, app, "POST", rejectPath(request.ID), authToken(t, admin), nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.False(t, resp.Status)

	var enrollment models.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", learner.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, models.EnrollmentEnrolled, enrollment.Status)
}

func TestRejectRequestIdempotent(t *testing.T) {
	db, app := setupTest(t)

	admin := seedUser(t, db, "ADMIN")
	learner := seedUser(t, db, "USER")
	course := seedCourse(t, db, "Repeat Rejection Course", "30 Days")
	request := submitRequest(t, db, learner.ID, course.ID, "TXNREJ3", "")

	status, _ := doRequest(t, app, "POST", rejectPath(request.ID), authToken(t, admin), nil)
	require.Equal(t, http.StatusOK, status)

	status, resp := doRequest(t, app, "POST", rejectPath(request.ID), authToken(t, admin), nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, resp.Status)
}

func TestAdminListRequests(t *testing.T) {
	db, app := setupTest(t)

	admin := seedUser(t, db, "ADMIN")
	learner := seedUser(t, db, "USER")
	course := seedCourse(t, db, "Review Queue Course", "30 Days")

	pending := submitRequest(t, db, learner.ID, course.ID, "TXNLIST1", "")
	_, _ = doRequest(t, app, "POST", approvePath(pending.ID), authToken(t, admin), nil)

	other := seedUser(t, db, "USER")
	submitRequest(t, db, other.ID, course.ID, "TXNLIST2", "")

	status, resp := doRequest(t, app, "GET", "/admin/enrollment-requests/list?status=PENDING", authToken(t, admin), nil)
	require.Equal(t, http.StatusOK, status)

	var data struct {
		Requests []struct {
			models.EnrollmentRequest
			CourseTitle string `json:"courseTitle"`
		} `json:"requests"`
		SubmittedToday int64 `json:"submittedToday"`
	}
	require.NoError(t, jsonUnmarshal(resp.Data, &data))
	require.Len(t, data.Requests, 1)
	assert.Equal(t, models.RequestPending, data.Requests[0].Status)
	assert.Equal(t, "Review Queue Course", data.Requests[0].CourseTitle)
	assert.Equal(t, int64(2), data.SubmittedToday)
}

func TestAdminListRequestsRejectsBadStatus(t *testing.T) {
	db, app := setupTest(t)

	admin := seedUser(t, db, "ADMIN")

	status, _ := doRequest(t, app, "GET", "/admin/enrollment-requests/list?status=BOGUS", authToken(t, admin), nil)
	assert.Equal(t, http.StatusBadRequest, status)
}
