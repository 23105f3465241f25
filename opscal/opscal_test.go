package opscal

import (
	"math"
	"testing"
	"time"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSplitWeekendHours(t *testing.T) {
	weekday, weekend := SplitWeekendHours(240, 5)
	if !almostEqual(weekday, 48) || !almostEqual(weekend, 192) {
		t.Errorf("SplitWeekendHours(240, 5) = (%v, %v), want (48, 192)", weekday, weekend)
	}

	weekday, weekend = SplitWeekendHours(100, 5)
	if !almostEqual(weekday, 0) || !almostEqual(weekend, 100) {
		t.Errorf("SplitWeekendHours(100, 5) = (%v, %v), want (0, 100)", weekday, weekend)
	}
}

func TestSplitWeekendHoursOverSevenWorkdays(t *testing.T) {
	weekday, weekend := SplitWeekendHours(240, 8)
	if weekday != 0 || weekend != 0 {
		t.Errorf("SplitWeekendHours(240, 8) = (%v, %v), want (0, 0)", weekday, weekend)
	}
}

func TestSplitDayNightHoursDaytimeDeparture(t *testing.T) {
	depart := time.Date(2020, time.June, 1, 8, 0, 0, 0, time.UTC)
	end := depart.Add(10 * time.Hour)

	day, night := SplitDayNightHours(depart, end, 10, 6)
	if !almostEqual(day, 10) || !almostEqual(night, 0) {
		t.Errorf("day/night = (%v, %v), want (10, 0)", day, night)
	}
}

func TestSplitDayNightHoursNighttimeDeparture(t *testing.T) {
	depart := time.Date(2020, time.June, 1, 20, 0, 0, 0, time.UTC)
	end := depart.Add(10 * time.Hour)

	day, night := SplitDayNightHours(depart, end, 10, 6)
	if !almostEqual(day, 0) || !almostEqual(night, 10) {
		t.Errorf("day/night = (%v, %v), want (0, 10)", day, night)
	}
}

func TestSplitDayNightHoursMultiDay(t *testing.T) {
	depart := time.Date(2020, time.January, 6, 8, 0, 0, 0, time.UTC)
	end := depart.Add(240 * time.Hour)

	day, night := SplitDayNightHours(depart, end, 240, 6)
	if !almostEqual(day, 120) || !almostEqual(night, 120) {
		t.Errorf("day/night = (%v, %v), want (120, 120)", day, night)
	}
}

func TestAllocateProportional(t *testing.T) {
	b := Allocate(120, 120, 48, 192)
	if !almostEqual(b.DayWeekday, 24) {
		t.Errorf("DayWeekday = %v, want 24", b.DayWeekday)
	}
	if !almostEqual(b.DayWeekend, 96) {
		t.Errorf("DayWeekend = %v, want 96", b.DayWeekend)
	}
	if !almostEqual(b.NightWeekday, 24) {
		t.Errorf("NightWeekday = %v, want 24", b.NightWeekday)
	}
	if !almostEqual(b.NightWeekend, 96) {
		t.Errorf("NightWeekend = %v, want 96", b.NightWeekend)
	}

	total := b.DayWeekday + b.DayWeekend + b.NightWeekday + b.NightWeekend
	if !almostEqual(total, 240) {
		t.Errorf("bucket total = %v, want 240", total)
	}
}

func TestAllocateZeroSplit(t *testing.T) {
	b := Allocate(120, 120, 0, 0)
	if b != (Buckets{}) {
		t.Errorf("Allocate with zero split = %+v, want empty buckets", b)
	}
}
