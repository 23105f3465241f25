package core

import (
	"context"
	"fmt"

	"github.com/oceanflux/array-om-sim/internal/logging"
	"github.com/oceanflux/array-om-sim/model"
)

// stepCorrective processes one row of the corrective table.
func (s *Simulation) stepCorrective(ctx context.Context) error {
	ev := s.corrective[s.corrIdx]

	if s.state.AllDevicesOut() {
		s.corrIdx++
		return nil
	}
	if s.state.WeatherBlocked(blockGuardID(&ev.BaseEvent), TrackCorrective) {
		s.corrIdx++
		return nil
	}

	// Push the request date forward by the accumulated action deficit.
	if s.totalActionDelayHours < 0 {
		ev.RequestDate = ev.RequestDate.Add(hoursDur(-s.totalActionDelayHours))
	}

	if ev.RequestDate.After(s.params.EndDate) {
		s.corrDone = true
		return nil
	}

	// A calendar action for the same failure mode scheduled within the
	// cool-down window already covers this failure.
	if s.farm.CalendarEnabled && s.calendarCovers(ev) {
		s.corrIdx++
		return nil
	}

	res, fm, err := s.dispatch(ctx, TrackCorrective, &ev.BaseEvent, ev.RequestDate, s.params.CorrectivePrepHours)
	if err != nil {
		return err
	}
	s.corrIdx++

	c := s.byID[ev.ComponentID]

	switch res.Verdict {
	case NoSolutionsFound:
		if s.flags.PreflightCheck {
			return newPreflightError(&ev.BaseEvent, fm.Spares)
		}
		s.logger.Warn(ctx, "no logistics solution, corrective action dropped",
			logging.String("component", ev.ComponentID),
			logging.String("failure_mode", ev.FailureModeID),
		)
		return nil

	case NoWeatherWindowFound:
		if !s.flags.IgnoreWeatherWindow {
			s.logger.Warn(ctx, "no weather window, corrective action dropped",
				logging.String("component", ev.ComponentID),
				logging.String("failure_mode", ev.FailureModeID),
			)
			return nil
		}
		// Treat as completed at the horizon with zero cost; the affected
		// devices are permanently turned out.
		downtime := s.params.EndDate.Sub(ev.FailureDate).Hours()
		affected := s.recordBreakdown(TrackCorrective, c, ev.FailureDate, downtime, ev.FailureModeIndex, false, true)
		s.bookCost(TrackCorrective, &ev.BaseEvent, 0, 0, 0)
		s.appendLog(TrackCorrective, RealizedEvent{
			FailureRate:      ev.FailureRate,
			FailureDate:      ev.FailureDate,
			RequestDate:      ev.RequestDate,
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

	// Track the slack between this realized end and the next request.
	if s.corrIdx < len(s.corrective) {
		next := s.corrective[s.corrIdx]
		s.totalActionDelayHours += next.RequestDate.Sub(opt.EndDate).Hours()
	}

	downtime := opt.EndDate.Sub(ev.FailureDate).Hours()
	waiting := downtime - opt.SeaTimeHours

	spare, total := s.costs.ActionCost(ev.RequestDate, opt.DepartDate, opt.EndDate, opt.SeaTimeHours, fm.Action, fm.Spares)
	labor := total - spare

	s.bookCost(TrackCorrective, &ev.BaseEvent, opt.TotalCost, labor, spare)
	affected := s.recordBreakdown(TrackCorrective, c, ev.FailureDate, downtime, ev.FailureModeIndex, false, false)

	// The failure clock pauses during the outage: not-yet-realized events
	// of the same component and its breakdown peers shift by the sea time.
	s.shiftCorrectiveTail(c, opt.SeaTimeHours)

	s.appendEnv(TrackCorrective, EnvAssessment{
		Date:           ev.FailureDate,
		FailureModeID:  ev.FailureModeID,
		RepairActionID: ev.RepairActionID,
		SeaTimeHours:   opt.SeaTimeHours,
		VesselType:     opt.VesselType,
		Equipment:      opt.Equipment,
	})
	s.appendLog(TrackCorrective, RealizedEvent{
		FailureRate:      ev.FailureRate,
		FailureDate:      ev.FailureDate,
		RequestDate:      ev.RequestDate,
		DepartDate:       opt.DepartDate,
		DowntimeHours:    downtime,
		SeaTimeHours:     opt.SeaTimeHours,
		WaitingTimeHours: waiting,
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
	return nil
}

// calendarCovers reports whether a calendar action for the same failure mode
// ends within the cool-down window before this corrective request.
func (s *Simulation) calendarCovers(ev *CorrectiveEvent) bool {
	for _, cal := range s.calendar {
		if cal.RepairActionID != ev.RepairActionID ||
			cal.ComponentSubtype != ev.ComponentSubtype ||
			cal.FailureModeID != ev.FailureModeID ||
			cal.FailureModeIndex != ev.FailureModeIndex {
			continue
		}
		if ev.RequestDate.Sub(cal.EndDate).Hours() < s.params.CorrectiveCooldownHours {
			return true
		}
	}
	return false
}

// shiftCorrectiveTail pushes the unprocessed corrective rows of the realized
// action's component, and of rows owned by its breakdown peers, forward by
// the realized sea time, then restores request-date order on the tail. A
// whole-array breakdown shifts every remaining row.
func (s *Simulation) shiftCorrectiveTail(c *model.Component, seaTimeHours float64) {
	if seaTimeHours <= 0 || s.corrIdx >= len(s.corrective) {
		return
	}
	shift := hoursDur(seaTimeHours)
	wholeArray := belongsTo(c) == belongsToArray && c.Breakdown.All

	for _, row := range s.corrective[s.corrIdx:] {
		if !wholeArray &&
			row.ComponentID != c.ID &&
			!(row.BelongsTo != belongsToArray && c.Breakdown.Contains(row.BelongsTo)) {
			continue
		}
		row.FailureDate = row.FailureDate.Add(shift)
		row.RequestDate = row.RequestDate.Add(shift)
	}
	sortCorrectiveByRequest(s.corrective[s.corrIdx:])
}
