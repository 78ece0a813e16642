package utils

import (
	"lms/config"
	"lms/database"
	"lms/models"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// InitializeArchiveScheduler sets up the archive retention scheduler
func InitializeArchiveScheduler() {
	log.Println("[ARCHIVE-SCHEDULER] Initializing archive retention scheduler...")

	c := cron.New()

	// Run daily at 4 AM to purge archive entries past retention
	c.AddFunc("0 4 * * *", func() {
		log.Println("[ARCHIVE-SCHEDULER] Running daily archive retention check...")
		PurgeExpiredArchiveEntries()
	})

	c.Start()
	log.Printf("[ARCHIVE-SCHEDULER] Archive scheduler started - retention %d days", config.AppConfig.ArchiveRetentionDays)
}

// PurgeExpiredArchiveEntries permanently removes archived enrollment
// requests older than the configured retention window. Purged entries
// cannot be restored.
func PurgeExpiredArchiveEntries() {
	db := database.Database.Db
	cutoff := time.Now().AddDate(0, 0, -config.AppConfig.ArchiveRetentionDays)

	result := db.Unscoped().
		Where("archived_at < ?", cutoff).
		Delete(&models.ArchivedEnrollmentRequest{})
	if result.Error != nil {
		log.Printf("[ARCHIVE-SCHEDULER] Error purging expired archive entries: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("[ARCHIVE-SCHEDULER] Purged %d expired archive entries", result.RowsAffected)
	}
}
