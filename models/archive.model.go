package models

import (
	"time"

	"gorm.io/gorm"
)

// ArchivedEnrollmentRequest is a verbatim copy of a deleted EnrollmentRequest.
// Restoring re-inserts the request with its original id and timestamps;
// purging removes the copy for good.
type ArchivedEnrollmentRequest struct {
	gorm.Model
	OriginalID        uint      `json:"original_id" gorm:"index;not null"`
	OriginalCreatedAt time.Time `json:"original_created_at"`
	OriginalUpdatedAt time.Time `json:"original_updated_at"`

	UserID           uint       `json:"user_id" gorm:"index;not null"`
	CourseID         uint       `json:"course_id" gorm:"index;not null"`
	FullName         string     `json:"full_name"`
	Email            string     `json:"email"`
	Mobile           string     `json:"mobile"`
	PaymentReference string     `json:"payment_reference"`
	ScreenshotRef    string     `json:"screenshot_ref"`
	Status           string     `json:"status"`
	ReferrerCode     string     `json:"referrer_code"`
	ApprovedAt       *time.Time `json:"approved_at"`
	ApprovedBy       *uint      `json:"approved_by"`

	DeletedBy  uint      `json:"deleted_by"`
	ArchivedAt time.Time `json:"archived_at"`
}
