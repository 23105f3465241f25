// Package opscal provides operations-calendar arithmetic: splitting a realized
// sea-time window into weekday/weekend and day/night hours for wage bucketing.
package opscal

import (
	"math"
	"time"
)

const dayHours = 24.0

// SplitWeekendHours splits total sea-time hours into weekday and weekend
// hours under a workdays-per-week policy. Whole worked weeks contribute one
// full weekday block each; the remainder spills into the weekend. A policy
// above seven workdays yields no split at all.
func SplitWeekendHours(seaHours, workdaysPerWeek float64) (weekday, weekend float64) {
	if workdaysPerWeek > 7 {
		return 0, 0
	}
	wholeBlocks := math.Floor(seaHours / dayHours / workdaysPerWeek)
	weekday = wholeBlocks * dayHours
	weekend = seaHours - weekday
	return weekday, weekend
}

// SplitDayNightHours splits sea-time hours into day and night hours. The day
// half runs twelve hours from dayStartHour, anchored to midnight of the
// departure date; whichever half the departure falls into is counted first.
func SplitDayNightHours(depart, end time.Time, seaHours float64, dayStartHour int) (day, night float64) {
	midnight := time.Date(depart.Year(), depart.Month(), depart.Day(), 0, 0, 0, 0, depart.Location())
	dayAnchor := midnight.Add(time.Duration(dayStartHour) * time.Hour)
	nightAnchor := midnight.Add(time.Duration(dayStartHour+12) * time.Hour)

	diffHour := math.Floor(depart.Sub(dayAnchor).Hours())
	if diffHour >= 0 && diffHour < 12 {
		day = anchoredHalfHours(end, dayAnchor) - diffHour
		night = seaHours - day
		return day, night
	}

	diffHour = math.Floor(depart.Sub(nightAnchor).Hours())
	night = anchoredHalfHours(end, nightAnchor) - diffHour
	day = seaHours - night
	return day, night
}

// anchoredHalfHours counts the hours between anchor and end that fall into
// the anchor's twelve-hour half of each day.
func anchoredHalfHours(end, anchor time.Time) float64 {
	rel := math.Floor(end.Sub(anchor).Hours())
	whole := math.Floor(rel / dayHours)
	rem := rel - whole*dayHours
	hours := whole * dayHours / 2.0
	if rem <= 12 {
		hours += rem
	} else {
		hours += dayHours / 2.0
	}
	return hours
}

// Buckets holds the four wage buckets of one realized window.
type Buckets struct {
	DayWeekday   float64
	DayWeekend   float64
	NightWeekday float64
	NightWeekend float64
}

// Allocate distributes day/night hours over the weekday/weekend split
// proportionally to each side's share of the total. A zero split yields
// empty buckets.
func Allocate(day, night, weekday, weekend float64) Buckets {
	total := weekday + weekend
	if total == 0 {
		return Buckets{}
	}
	return Buckets{
		DayWeekday:   day * weekday / total,
		DayWeekend:   day * weekend / total,
		NightWeekday: night * weekday / total,
		NightWeekend: night * weekend / total,
	}
}
