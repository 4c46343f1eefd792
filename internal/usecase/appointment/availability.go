package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/vagabondbarber/booking-api/internal/cache"
	domain "github.com/vagabondbarber/booking-api/internal/domain/appointment"
	"github.com/vagabondbarber/booking-api/internal/schedule"
)

const (
	dayFormat  = "2006-01-02"
	slotFormat = "15:04"
)

// Availability computes free days and free hourly slots for a barber.
// Both queries are read-only and idempotent; results are as fresh as the
// query snapshot, with the booking guard re-validating on write. The cache
// is optional (nil disables it) and time-bounded.
type Availability struct {
	repo  domain.Repository
	cache *cache.Availability
}

func NewAvailability(repo domain.Repository, c *cache.Availability) *Availability {
	return &Availability{repo: repo, cache: c}
}

// AvailableDays returns the days of month's calendar month on which the
// barber still has at least one free slot, as "YYYY-MM-DD", ascending.
// Only PENDING/CONFIRMED appointments count against the 8-slot capacity;
// cancelled ones free their slot immediately.
func (uc *Availability) AvailableDays(
	ctx context.Context,
	barberID string,
	month time.Time,
) ([]string, error) {

	key := fmt.Sprintf("avail:days:%s:%s", barberID, month.Format("2006-01"))
	var days []string
	if uc.cache.Get(ctx, key, &days) {
		return days, nil
	}

	start, end := schedule.MonthBounds(month)

	booked, err := uc.repo.ListActiveBetween(ctx, barberID, start, end)
	if err != nil {
		return nil, err
	}

	countByDay := make(map[string]int, len(booked))
	for _, ap := range booked {
		countByDay[ap.Date.In(month.Location()).Format(dayFormat)]++
	}

	days = make([]string, 0, 31)
	for _, day := range schedule.DaysInMonth(month) {
		if countByDay[day.Format(dayFormat)] < schedule.SlotsPerDay {
			days = append(days, day.Format(dayFormat))
		}
	}

	uc.cache.Set(ctx, key, days)
	return days, nil
}

// AvailableSlots returns the free hourly slots of a day as "HH:MM",
// ascending, possibly empty. A slot is taken when a non-cancelled
// appointment's timestamp falls inside its one-hour window, start
// inclusive, end exclusive.
func (uc *Availability) AvailableSlots(
	ctx context.Context,
	barberID string,
	day time.Time,
) ([]string, error) {

	key := fmt.Sprintf("avail:slots:%s:%s", barberID, day.Format(dayFormat))
	var slots []string
	if uc.cache.Get(ctx, key, &slots) {
		return slots, nil
	}

	start, end := schedule.DayBounds(day)

	booked, err := uc.repo.ListActiveBetween(ctx, barberID, start, end)
	if err != nil {
		return nil, err
	}

	slots = make([]string, 0, schedule.SlotsPerDay)
	for _, slot := range schedule.WorkingSlots(day) {
		slotEnd := slot.Add(time.Hour)

		taken := false
		for _, ap := range booked {
			if !ap.Date.Before(slot) && ap.Date.Before(slotEnd) {
				taken = true
				break
			}
		}

		if !taken {
			slots = append(slots, slot.Format(slotFormat))
		}
	}

	uc.cache.Set(ctx, key, slots)
	return slots, nil
}
