package models

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment request statuses
const (
	RequestPending  = "PENDING"
	RequestApproved = "APPROVED"
	RequestRejected = "REJECTED"
)

// EnrollmentRequest is a student's claim of payment for a course, reviewed
// by an admin. The payment reference is unique across all live requests;
// archived copies live in their own table so a deleted request frees the token.
type EnrollmentRequest struct {
	gorm.Model
	UserID           uint       `json:"user_id" gorm:"index;not null"`
	CourseID         uint       `json:"course_id" gorm:"index;not null"`
	FullName         string     `json:"full_name"`
	Email            string     `json:"email"`
	Mobile           string     `json:"mobile"`
	PaymentReference string     `json:"payment_reference" gorm:"uniqueIndex;not null"`
	ScreenshotRef    string     `json:"screenshot_ref"` // Payment evidence reference, resolved to a URL for admins
	Status           string     `json:"status" gorm:"default:'PENDING'"`
	ReferrerCode     string     `json:"referrer_code" gorm:"default:''"`
	ApprovedAt       *time.Time `json:"approved_at"`
	ApprovedBy       *uint      `json:"approved_by"`
}
