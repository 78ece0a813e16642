package models

import "gorm.io/gorm"

// Course represents a learning course
type Course struct {
	gorm.Model
	Title        string `json:"title"`
	Slug         string `json:"slug" gorm:"uniqueIndex"` // Derived from Title, see utils.Slugify
	Description  string `json:"description"`
	Author       string `json:"author"`
	Duration     string `json:"duration" gorm:"default:''"`    // Free text, e.g. "30 Days", "6 Weeks"
	Status       string `json:"status" gorm:"default:'DRAFT'"` // DRAFT, ACTIVE, INACTIVE
	StudentCount uint   `json:"student_count" gorm:"default:0"`
	// Rating fields are derived from the review table, never hand-set
	AverageRating float64 `json:"average_rating" gorm:"default:0"`
	TotalRatings  int     `json:"total_ratings" gorm:"default:0"`
	ThumbnailURL  string  `json:"thumbnail_url"`
	IsPublished   bool    `json:"is_published" gorm:"default:false"`
	IsDeleted     bool    `gorm:"default:false"`
}
