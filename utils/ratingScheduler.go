package utils

import (
	"lms/database"
	"lms/models"
	"log"
	"math"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// InitializeRatingScheduler sets up the nightly course-rating resync
func InitializeRatingScheduler() {
	log.Println("[RATING-SCHEDULER] Initializing rating scheduler...")

	c := cron.New()

	// Run daily at 3 AM. Ratings are recomputed on every review write, so
	// this pass only exists to heal any update that slipped through.
	c.AddFunc("0 3 * * *", func() {
		log.Println("[RATING-SCHEDULER] Running nightly rating resync...")
		ResyncAllCourseRatings()
	})

	c.Start()
	log.Println("[RATING-SCHEDULER] Rating scheduler started - runs daily at 3 AM")
}

// ResyncAllCourseRatings recomputes the aggregate rating of every course
func ResyncAllCourseRatings() {
	db := database.Database.Db

	var courseIDs []uint
	if err := db.Model(&models.Course{}).Where("is_deleted = false").Pluck("id", &courseIDs).Error; err != nil {
		log.Printf("[RATING-SCHEDULER] Error fetching courses: %v", err)
		return
	}

	for _, id := range courseIDs {
		if err := RecomputeCourseRating(db, id); err != nil {
			log.Printf("[RATING-SCHEDULER] Error recomputing rating for course %d: %v", id, err)
		}
	}

	log.Printf("[RATING-SCHEDULER] Resynced ratings for %d courses", len(courseIDs))
}

// RecomputeCourseRating rebuilds a course's aggregate rating from the full
// review set. Always a full recompute, never an in-place increment, so a
// missed update heals on the next write.
func RecomputeCourseRating(db *gorm.DB, courseID uint) error {
	var agg struct {
		Total   int64
		Average float64
	}
	err := db.Model(&models.Review{}).
		Where("course_id = ?", courseID).
		Select("COUNT(*) as total, COALESCE(AVG(rating), 0) as average").
		Scan(&agg).Error
	if err != nil {
		return err
	}

	// One decimal place, 0 when there are no reviews
	rounded := math.Round(agg.Average*10) / 10

	return db.Model(&models.Course{}).
		Where("id = ?", courseID).
		UpdateColumns(map[string]interface{}{
			"average_rating": rounded,
			"total_ratings":  agg.Total,
		}).Error
}
