package core

import (
	"golang.org/x/exp/rand"

	"github.com/oceanflux/array-om-sim/model"
)

// BuildConditionTable derives one alarm per condition-monitored failure mode.
// The effective rate is the nominal rate reduced by the correction factor;
// one failure-date sequence is drawn from the monitoring start, the first
// date is the predicted wear-out, and the alarm fires after the threshold
// share of the remaining life is consumed. The full draw sequence is parked
// in the array state for later continuations. Sorted by alarm date.
func BuildConditionTable(components []*model.Component, farm model.FarmPolicy,
	params model.SimulationParams, src rand.Source, state *ArrayState) []*ConditionEvent {

	factor := 1.0 - params.ConditionRateFactorPercent/100.0

	var events []*ConditionEvent
	for _, c := range components {
		if !c.Condition.Valid() {
			continue
		}

		start := c.Condition.Start
		horizonDays := params.EndDate.Sub(start).Hours() / model.DayHours
		flagCalendar := farm.CalendarEnabled && c.Calendar.Valid()

		for i := range c.FailureModes {
			fm := &c.FailureModes[i]
			rate := fm.AnnualRate(c.AnnualFailureRate) * factor

			draws := DrawFailureDates(src, rate, start, horizonDays)
			state.SetPendingDraws(c.ID, fm.Index, draws)
			if len(draws) == 0 {
				continue
			}

			wearOut := draws[0]
			lifeHours := wearOut.Sub(start).Hours()
			alarm := start.Add(hoursDur(lifeHours * (1.0 - c.Condition.Threshold)))

			events = append(events, &ConditionEvent{
				BaseEvent:    baseEvent(c, fm),
				StartDate:    start,
				EndDate:      wearOut,
				AlarmDate:    alarm,
				Threshold:    c.Condition.Threshold,
				FlagCalendar: flagCalendar,
			})
		}
	}
	sortCondition(events)
	return events
}
