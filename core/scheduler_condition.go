package core

import (
	"context"
	"fmt"
	"time"

	"github.com/oceanflux/array-om-sim/internal/logging"
	"github.com/oceanflux/array-om-sim/model"
)

// stepCondition processes one row of the condition table.
func (s *Simulation) stepCondition(ctx context.Context) error {
	ev := s.condition[s.condIdx]

	if s.state.AllDevicesOut() {
		s.condIdx++
		return nil
	}
	if s.state.WeatherBlocked(blockGuardID(&ev.BaseEvent), TrackCondition) {
		s.condIdx++
		return nil
	}
	if ev.AlarmDate.After(s.params.EndDate) {
		s.condIdx++
		return nil
	}

	res, fm, err := s.dispatch(ctx, TrackCondition, &ev.BaseEvent, ev.AlarmDate, 0)
	if err != nil {
		return err
	}
	s.condIdx++

	c := s.byID[ev.ComponentID]

	switch res.Verdict {
	case NoSolutionsFound:
		if s.flags.PreflightCheck {
			return newPreflightError(&ev.BaseEvent, fm.Spares)
		}
		s.logger.Warn(ctx, "no logistics solution, condition action dropped",
			logging.String("component", ev.ComponentID),
			logging.String("failure_mode", ev.FailureModeID),
		)
		return nil

	case NoWeatherWindowFound:
		if !s.flags.IgnoreWeatherWindow {
			s.logger.Warn(ctx, "no weather window, condition action dropped",
				logging.String("component", ev.ComponentID),
				logging.String("failure_mode", ev.FailureModeID),
			)
			return nil
		}
		downtime := s.params.EndDate.Sub(ev.AlarmDate).Hours()
		affected := s.recordBreakdown(TrackCondition, c, ev.AlarmDate, downtime, ev.FailureModeIndex, false, true)
		s.bookCost(TrackCondition, &ev.BaseEvent, 0, 0, 0)
		s.appendLog(TrackCondition, RealizedEvent{
			FailureRate:      ev.FailureRate,
			FailureDate:      ev.AlarmDate,
			RequestDate:      ev.AlarmDate,
			DepartDate:       s.params.EndDate,
			DowntimeHours:    downtime,
			WaitingTimeHours: downtime,
			ComponentType:    ev.ComponentType,
			ComponentSubtype: ev.ComponentSubtype,
			ComponentID:      ev.ComponentID,
			FailureModeID:    ev.FailureModeID,
			RepairActionID:   ev.RepairActionID,
			FailureModeIndex: ev.FailureModeIndex,
			DowntimeDevices:  affected,
		})
		return nil
	}

	opt := res.Optimal
	if opt == nil {
		return fmt.Errorf("%w: SolutionFound without a schedule for %q", ErrInvariant, ev.ComponentID)
	}

	spare, totalOM := s.costs.ActionCost(ev.AlarmDate, opt.DepartDate, opt.EndDate, opt.SeaTimeHours, fm.Action, fm.Spares)
	conditionCost := opt.TotalCost + totalOM

	// If the component also has an upcoming calendar action, weigh repairing
	// now against running derated until that action.
	if (ev.FlagCalendar || s.farm.CalendarEnabled) && !ev.ArrayOwned() {
		if cal := s.nextCalendarFor(ev); cal != nil && s.deferToCalendar(ev, cal, conditionCost) {
			return s.realizeDeferred(ctx, ev, cal)
		}
	}

	downtime := opt.EndDate.Sub(ev.AlarmDate).Hours()
	labor := totalOM - spare

	s.bookCost(TrackCondition, &ev.BaseEvent, opt.TotalCost, labor, spare)
	affected := s.recordBreakdown(TrackCondition, c, ev.AlarmDate, downtime, ev.FailureModeIndex, false, false)

	s.appendEnv(TrackCondition, EnvAssessment{
		Date:           ev.AlarmDate,
		FailureModeID:  ev.FailureModeID,
		RepairActionID: ev.RepairActionID,
		SeaTimeHours:   opt.SeaTimeHours,
		VesselType:     opt.VesselType,
		Equipment:      opt.Equipment,
	})
	s.appendLog(TrackCondition, RealizedEvent{
		FailureRate:      ev.FailureRate,
		FailureDate:      ev.AlarmDate,
		RequestDate:      ev.AlarmDate,
		DepartDate:       opt.DepartDate,
		DowntimeHours:    downtime,
		SeaTimeHours:     opt.SeaTimeHours,
		WaitingTimeHours: downtime - opt.SeaTimeHours,
		ComponentType:    ev.ComponentType,
		ComponentSubtype: ev.ComponentSubtype,
		ComponentID:      ev.ComponentID,
		FailureModeID:    ev.FailureModeID,
		RepairActionID:   ev.RepairActionID,
		FailureModeIndex: ev.FailureModeIndex,
		LogisticCost:     opt.TotalCost,
		LaborCost:        labor,
		SpareCost:        spare,
		DowntimeDevices:  affected,
		VesselType:       opt.VesselType,
		VesselCount:      opt.VesselCount,
	})

	// The repaired mode keeps degrading: splice the follow-up alarm from the
	// next pending failure draw.
	return s.spliceContinuation(ev, opt.EndDate)
}

// nextCalendarFor returns the first calendar row for the same component and
// failure mode whose start falls within the derating extension window after
// the alarm, or nil.
func (s *Simulation) nextCalendarFor(ev *ConditionEvent) *CalendarEvent {
	for _, cal := range s.calendar {
		if cal.ComponentID != ev.ComponentID ||
			cal.FailureModeID != ev.FailureModeID ||
			cal.FailureModeIndex != ev.FailureModeIndex {
			continue
		}
		lead := cal.StartDate.Sub(ev.AlarmDate).Hours()
		if lead >= 0 && lead < s.params.DerateExtensionHours {
			return cal
		}
	}
	return nil
}

// deferToCalendar decides the condition-vs-calendar tie-break. Repairing now
// buys full-yield energy until the calendar date but costs the condition
// action; deferring runs the component derated for at most the extension
// window against the calendar action's already-known cost. Deferring wins
// ties.
func (s *Simulation) deferToCalendar(ev *ConditionEvent, cal *CalendarEvent, conditionCost float64) bool {
	device := s.byID[ev.BelongsTo]
	if device == nil {
		return false
	}
	annualEnergyKWh := device.RatedPowerKW * model.DayHours * model.YearDays
	price := s.farm.EnergySellingPrice

	calStart := cal.StartDate

	repairedEnd := ev.EndDate
	if calStart.Before(repairedEnd) {
		repairedEnd = calStart
	}
	fullYieldHours := calStart.Sub(repairedEnd).Hours()
	fullYieldKWh := fullYieldHours / (model.DayHours * model.YearDays) * annualEnergyKWh
	repairNowBenefit := fullYieldKWh*price - conditionCost

	derateEnd := repairedEnd.Add(hoursDur(s.params.DerateExtensionHours))
	if calStart.Before(derateEnd) {
		derateEnd = calStart
	}
	deratedHours := calStart.Sub(derateEnd).Hours()
	deratedKWh := deratedHours / (model.DayHours * model.YearDays) * annualEnergyKWh * s.params.DeratePercent / 100.0
	deferBenefit := deratedKWh*price - (cal.LogisticCost + cal.OMCost)

	return repairNowBenefit <= deferBenefit
}

// realizeDeferred books the derating outcome: no dispatch is realized, the
// devices carry a derating ledger entry, and the follow-up condition row is
// spliced at the calendar action's end. A component that lacked its own
// calendar flag inherits the calendar action's cost.
func (s *Simulation) realizeDeferred(ctx context.Context, ev *ConditionEvent, cal *CalendarEvent) error {
	c := s.byID[ev.ComponentID]

	if ev.FlagCalendar {
		s.bookCost(TrackCondition, &ev.BaseEvent, 0, 0, 0)
	} else {
		s.bookCost(TrackCondition, &ev.BaseEvent, cal.LogisticCost, cal.OMCost, 0)
	}

	derateHours := cal.EndDate.Sub(ev.AlarmDate).Hours()
	if derateHours < 0 {
		derateHours = 0
	}
	s.recordBreakdown(TrackCondition, c, ev.AlarmDate, derateHours, ev.FailureModeIndex, true, false)

	s.logger.Info(ctx, "condition repair deferred to calendar action",
		logging.String("component", ev.ComponentID),
		logging.String("failure_mode", ev.FailureModeID),
		logging.Any("calendar_start", cal.StartDate),
	)

	return s.spliceContinuationStrict(ev, cal.EndDate)
}

// spliceContinuation appends the follow-up condition row starting at the
// realized end, fed by the next pending failure draw. Running out of draws
// ends the mode's monitored life.
func (s *Simulation) spliceContinuation(ev *ConditionEvent, startDate time.Time) error {
	return s.splice(ev, startDate, false)
}

// spliceContinuationStrict is the deferred-repair variant: the continuation
// draw is required, and its absence violates a run invariant.
func (s *Simulation) spliceContinuationStrict(ev *ConditionEvent, startDate time.Time) error {
	return s.splice(ev, startDate, true)
}

func (s *Simulation) splice(ev *ConditionEvent, startDate time.Time, required bool) error {
	draw, ok := s.state.NextDrawAfter(ev.ComponentID, ev.FailureModeIndex, startDate, ev.EndDate)
	if !ok {
		if required {
			return fmt.Errorf("%w: no pending failure draw for %q mode %d after %s",
				ErrInvariant, ev.ComponentID, ev.FailureModeIndex, startDate.Format(time.RFC3339))
		}
		return nil
	}

	lifeHours := draw.Sub(startDate).Hours()
	next := &ConditionEvent{
		BaseEvent:    ev.BaseEvent,
		StartDate:    startDate,
		EndDate:      draw,
		AlarmDate:    startDate.Add(hoursDur(lifeHours * (1.0 - ev.Threshold))),
		Threshold:    ev.Threshold,
		FlagCalendar: ev.FlagCalendar,
	}
	s.condition = append(s.condition, next)
	sortCondition(s.condition[s.condIdx:])

	s.metrics.SetTableDepth(TrackCondition.String(), len(s.condition))
	return nil
}
