package core

import (
	"time"

	"golang.org/x/exp/rand"

	"github.com/oceanflux/array-om-sim/model"
)

// belongsTo resolves the ownership label of a component's events: device
// subsystems belong to their device, devices to themselves, everything else
// to the array.
func belongsTo(c *model.Component) string {
	if c.Owner != "" {
		return c.Owner
	}
	if c.Kind == model.ElementDevice {
		return c.ID
	}
	return belongsToArray
}

func baseEvent(c *model.Component, fm *model.FailureMode) BaseEvent {
	return BaseEvent{
		ComponentID:      c.ID,
		ComponentType:    c.Type,
		ComponentSubtype: c.Subtype,
		BelongsTo:        belongsTo(c),
		FailureModeID:    fm.ID,
		FailureModeIndex: fm.Index,
		RepairActionID:   fm.Action.ID,
		FailureRate:      fm.AnnualRate(c.AnnualFailureRate),
	}
}

func hoursDur(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}

// BuildCorrectiveTable draws failure dates for every failure mode and emits
// one corrective event per arrival, ordered by failure date. Request dates
// initially equal the failure dates; the coordinator applies mobilisation
// and spare delays afterwards.
func BuildCorrectiveTable(components []*model.Component, params model.SimulationParams, src rand.Source) []*CorrectiveEvent {
	horizonDays := params.MissionHours() / model.DayHours

	var events []*CorrectiveEvent
	for _, c := range components {
		for i := range c.FailureModes {
			fm := &c.FailureModes[i]
			rate := fm.AnnualRate(c.AnnualFailureRate)
			for _, date := range DrawFailureDates(src, rate, params.StartDate, horizonDays) {
				events = append(events, &CorrectiveEvent{
					BaseEvent:   baseEvent(c, fm),
					FailureDate: date,
					RequestDate: date,
				})
			}
		}
	}
	sortCorrectiveByFailure(events)
	return events
}
