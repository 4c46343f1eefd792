// Package schedule holds the pure calendar arithmetic the booking core is
// built on: month/day boundaries and hourly slot enumeration. No I/O, no
// errors; inputs are always valid calendar dates.
package schedule

import "time"

// Working day used for availability: 8 hourly slots, 09:00-17:00.
const (
	DayStartHour = 9
	DayEndHour   = 17
	SlotsPerDay  = DayEndHour - DayStartHour
)

// MonthBounds returns the half-open interval [first instant of the month,
// first instant of the next month) in t's location.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}

// DayBounds returns the half-open interval [midnight, next midnight) in t's
// location.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// DaysInMonth returns the midnight instant of every day of t's month,
// ascending.
func DaysInMonth(t time.Time) []time.Time {
	start, end := MonthBounds(t)
	days := make([]time.Time, 0, 31)
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// HourlySlots returns one instant per whole hour of day's working window,
// half-open [startHour, endHour): startHour=9, endHour=17 yields 8 slots,
// 09:00 through 16:00.
func HourlySlots(day time.Time, startHour, endHour int) []time.Time {
	slots := make([]time.Time, 0, endHour-startHour)
	for h := startHour; h < endHour; h++ {
		slots = append(slots, time.Date(
			day.Year(), day.Month(), day.Day(),
			h, 0, 0, 0,
			day.Location(),
		))
	}
	return slots
}

// WorkingSlots is HourlySlots over the standard working day.
func WorkingSlots(day time.Time) []time.Time {
	return HourlySlots(day, DayStartHour, DayEndHour)
}
