// Package reminder runs the daily SMS reminder for next-day confirmed
// appointments. Delivery is best-effort through the same dispatcher as the
// booking notifications.
package reminder

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "github.com/vagabondbarber/booking-api/internal/domain/appointment"
	"github.com/vagabondbarber/booking-api/internal/models"
	"github.com/vagabondbarber/booking-api/internal/notify"
	"github.com/vagabondbarber/booking-api/internal/schedule"
	"github.com/vagabondbarber/booking-api/internal/timezone"
)

type Job struct {
	db       *gorm.DB
	notifier notify.Notifier
}

func NewJob(db *gorm.DB, notifier notify.Notifier) *Job {
	return &Job{db: db, notifier: notifier}
}

// Start schedules the job with the given cron spec; empty disables it. The
// returned cron is already running.
func Start(db *gorm.DB, notifier notify.Notifier, spec string) (*cron.Cron, error) {
	if spec == "" {
		return nil, nil
	}

	c := cron.New(cron.WithLocation(timezone.Location("")))
	job := NewJob(db, notifier)

	if _, err := c.AddFunc(spec, job.Run); err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}

func (j *Job) Run() {
	tomorrow := timezone.Now().AddDate(0, 0, 1)
	start, end := schedule.DayBounds(tomorrow)

	var aps []models.Appointment
	if err := j.db.
		Preload("User").
		Preload("Barber.User").
		Where(
			"status = ? AND date >= ? AND date < ?",
			string(domain.StatusConfirmed), start, end,
		).
		Find(&aps).Error; err != nil {
		zap.L().Error("reminder query failed", zap.Error(err))
		return
	}

	for _, ap := range aps {
		j.notifier.Dispatch(ap.User.PhoneNumber, fmt.Sprintf(
			"Reminder: you have an appointment at Vagabond Barbershop tomorrow at %s with %s.",
			ap.Date.Format("15:04"), ap.Barber.User.Name,
		))
	}

	zap.L().Info("reminders dispatched", zap.Int("count", len(aps)))
}
