package core

import (
	"github.com/oceanflux/array-om-sim/model"
)

// BuildCalendarTable expands each component's calendar policy into concrete
// maintenance windows, one per failure mode per interval. Components with a
// malformed policy are excluded from the track; that is configuration, not
// an error. The result carries the two-pass sort order.
func BuildCalendarTable(components []*model.Component, params model.SimulationParams) []*CalendarEvent {
	var events []*CalendarEvent
	for _, c := range components {
		if !c.Calendar.Valid() {
			continue
		}

		end := c.Calendar.End
		if params.EndDate.Before(end) {
			end = params.EndDate
		}
		step := hoursDur(c.Calendar.IntervalYears * model.YearDays * model.DayHours)

		for i := range c.FailureModes {
			fm := &c.FailureModes[i]
			for start := c.Calendar.Start; !start.After(end); start = start.Add(step) {
				events = append(events, &CalendarEvent{
					BaseEvent: baseEvent(c, fm),
					StartDate: start,
					EndDate:   start.Add(hoursDur(fm.Action.DurationHours)),
				})
			}
		}
	}
	sortCalendar(events)
	return events
}
