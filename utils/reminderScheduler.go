package utils

import (
	"log"
	"time"

	"lms/config"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/robfig/cron/v3"
)

func logScheduler(message string) {
	log.Printf("[REMINDER-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// StartReminderScheduler runs an hourly job that emails instructors about
// access requests still pending past the configured review window. Each
// request is reminded at most once.
func StartReminderScheduler() *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("@hourly", remindStalePendingRequests)
	if err != nil {
		log.Fatalf("Failed to register reminder job: %v", err)
	}

	c.Start()
	logScheduler("Started")
	return c
}

func remindStalePendingRequests() {
	db := database.Database.Db
	cutoff := time.Now().Add(-time.Duration(config.AppConfig.ReminderAfterHours) * time.Hour)

	var stale []courseModels.AccessRequest
	err := db.Where("status = ? AND is_deleted = ? AND created_at <= ? AND reminded_at IS NULL",
		courseModels.RequestPending, false, cutoff).
		Find(&stale).Error
	if err != nil {
		logScheduler("Error fetching stale pending requests: " + err.Error())
		return
	}
	if len(stale) == 0 {
		return
	}

	// Group by course creator so each instructor gets one email per run.
	pendingByInstructor := make(map[uint]int)
	for _, request := range stale {
		var course courseModels.Course
		if err := db.Where("id = ?", request.CourseID).First(&course).Error; err != nil {
			continue
		}
		pendingByInstructor[course.CreatorID]++
	}

	now := time.Now()
	for instructorID, count := range pendingByInstructor {
		var instructor models.User
		if err := db.Where("id = ? AND is_deleted = ?", instructorID, false).First(&instructor).Error; err != nil {
			continue
		}
		if err := SendPendingReminderEmail(instructor.Name, instructor.Email, count); err != nil {
			continue
		}
	}

	ids := make([]uint, 0, len(stale))
	for _, request := range stale {
		ids = append(ids, request.ID)
	}
	if err := db.Model(&courseModels.AccessRequest{}).Where("id IN ?", ids).
		Update("reminded_at", now).Error; err != nil {
		logScheduler("Error marking requests reminded: " + err.Error())
	}

	logScheduler("Reminded instructors about stale pending requests")
}
