package models

import "gorm.io/gorm"

// Review is a student's rating of a course. One review per (user, course);
// a second submission overwrites the first.
type Review struct {
	gorm.Model
	UserID   uint   `json:"user_id" gorm:"uniqueIndex:idx_review_user_course;not null"`
	CourseID uint   `json:"course_id" gorm:"uniqueIndex:idx_review_user_course;not null"`
	Rating   int    `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"` // 1–5 rating
	Comment  string `json:"comment" gorm:"type:text;default:''"`                      // Optional comment
}
