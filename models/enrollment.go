package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Enrollment statuses
const (
	EnrollmentPending   = "PENDING"
	EnrollmentEnrolled  = "ENROLLED"
	EnrollmentStarted   = "STARTED"
	EnrollmentCompleted = "COMPLETED"
)

// Enrollment tracks a user's membership in a course with progress.
// The composite unique index is the primary guard against duplicate
// enrollments under concurrent creation; rows are removed with Unscoped
// deletes so the pair can enroll again later.
type Enrollment struct {
	gorm.Model
	UserID         uint                     `json:"user_id" gorm:"uniqueIndex:idx_enrollment_user_course;not null"`
	CourseID       uint                     `json:"course_id" gorm:"uniqueIndex:idx_enrollment_user_course;not null"`
	Status         string                   `json:"status" gorm:"default:'PENDING'"` // PENDING, ENROLLED, STARTED, COMPLETED
	Progress       int                      `json:"progress" gorm:"default:0"`       // Completion percentage (0-100)
	CompletedDays  datatypes.JSONSlice[int] `json:"completed_days"`
	LastAccessedAt *time.Time               `json:"last_accessed_at"`
	CompletedAt    *time.Time               `json:"completed_at"`
}

// IsActive reports whether the enrollment was ever activated by an approval.
func (e *Enrollment) IsActive() bool {
	return e.Status == EnrollmentEnrolled || e.Status == EnrollmentStarted || e.Status == EnrollmentCompleted
}

// HasCompletedDay checks membership in the completed-day set.
func (e *Enrollment) HasCompletedDay(day int) bool {
	for _, d := range e.CompletedDays {
		if d == day {
			return true
		}
	}
	return false
}
