package schedule

import (
	"testing"
	"time"
)

func mustTime(t *testing.T, year int, month time.Month, day, hour int) time.Time {
	t.Helper()
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}

func TestMonthBounds_HalfOpen(t *testing.T) {
	start, end := MonthBounds(mustTime(t, 2024, time.June, 15, 12))

	if !start.Equal(mustTime(t, 2024, time.June, 1, 0)) {
		t.Fatalf("expected month start 2024-06-01, got %v", start)
	}
	if !end.Equal(mustTime(t, 2024, time.July, 1, 0)) {
		t.Fatalf("expected month end 2024-07-01, got %v", end)
	}
}

func TestDayBounds_HalfOpen(t *testing.T) {
	start, end := DayBounds(mustTime(t, 2024, time.June, 10, 14))

	if !start.Equal(mustTime(t, 2024, time.June, 10, 0)) {
		t.Fatalf("expected day start at midnight, got %v", start)
	}
	if !end.Equal(mustTime(t, 2024, time.June, 11, 0)) {
		t.Fatalf("expected day end at next midnight, got %v", end)
	}
}

func TestDaysInMonth_Lengths(t *testing.T) {
	cases := []struct {
		in   time.Time
		want int
	}{
		{mustTime(t, 2024, time.June, 5, 0), 30},
		{mustTime(t, 2024, time.January, 20, 0), 31},
		{mustTime(t, 2024, time.February, 1, 0), 29}, // leap year
		{mustTime(t, 2023, time.February, 28, 0), 28},
	}

	for _, tc := range cases {
		days := DaysInMonth(tc.in)
		if len(days) != tc.want {
			t.Fatalf("%v: expected %d days, got %d", tc.in, tc.want, len(days))
		}
		if days[0].Day() != 1 {
			t.Fatalf("expected first day of month first, got %v", days[0])
		}
		for i := 1; i < len(days); i++ {
			if !days[i].After(days[i-1]) {
				t.Fatalf("days not ascending at index %d", i)
			}
		}
	}
}

func TestHourlySlots_WorkingDay(t *testing.T) {
	day := mustTime(t, 2024, time.June, 10, 0)
	slots := HourlySlots(day, DayStartHour, DayEndHour)

	if len(slots) != SlotsPerDay {
		t.Fatalf("expected %d slots, got %d", SlotsPerDay, len(slots))
	}
	if slots[0].Hour() != 9 {
		t.Fatalf("expected first slot at 09:00, got %v", slots[0])
	}
	// half-open interval: 17:00 itself is not a slot
	if last := slots[len(slots)-1]; last.Hour() != 16 {
		t.Fatalf("expected last slot at 16:00, got %v", last)
	}
}

func TestWorkingSlots_MatchesDefaults(t *testing.T) {
	day := mustTime(t, 2024, time.June, 10, 0)

	got := WorkingSlots(day)
	want := HourlySlots(day, 9, 17)

	if len(got) != len(want) {
		t.Fatalf("expected %d slots, got %d", len(want), len(got))
	}
	for i := range got {
		if !got[i].Equal(want[i]) {
			t.Fatalf("slot %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}
