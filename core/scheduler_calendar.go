package core

import (
	"context"
	"fmt"

	"github.com/oceanflux/array-om-sim/internal/logging"
)

// stepCalendar processes one block of the calendar table: the contiguous run
// of rows sharing the current row's start date, failure mode and action.
// Blocked actions are batched so one vessel campaign serves several elements.
func (s *Simulation) stepCalendar(ctx context.Context) error {
	ev := s.calendar[s.calIdx]

	if s.state.AllDevicesOut() {
		s.calIdx++
		return nil
	}
	if ev.StartDate.After(s.params.EndDate) {
		s.calDone = true
		return nil
	}

	block := s.calendarBlock(ev)

	// Dispatch the block in batches of at most CalendarBatchLimit actions.
	limit := s.params.CalendarBatchLimit
	if limit <= 0 {
		limit = 1
	}
	for lo := 0; lo < len(block); lo += limit {
		hi := lo + limit
		if hi > len(block) {
			hi = len(block)
		}
		if err := s.dispatchCalendarBatch(ctx, block[lo:hi]); err != nil {
			return err
		}
	}

	s.calIdx += len(block)
	return nil
}

// calendarBlock returns the contiguous run of rows starting at the cursor
// that share the lead row's block key.
func (s *Simulation) calendarBlock(lead *CalendarEvent) []*CalendarEvent {
	end := s.calIdx
	for ; end < len(s.calendar); end++ {
		row := s.calendar[end]
		if !row.StartDate.Equal(lead.StartDate) ||
			row.RepairActionID != lead.RepairActionID ||
			row.ComponentSubtype != lead.ComponentSubtype ||
			row.FailureModeID != lead.FailureModeID ||
			row.FailureModeIndex != lead.FailureModeIndex {
			break
		}
	}
	return s.calendar[s.calIdx:end]
}

// dispatchCalendarBatch runs one logistics campaign for a batch of calendar
// actions. The logistic cost is split evenly across the batch and the batch
// members finish staggered by an equal share of the sea time. Infeasibility
// and weather misses advance silently with zero cost on this track.
func (s *Simulation) dispatchCalendarBatch(ctx context.Context, batch []*CalendarEvent) error {
	lead := batch[0]

	res, fm, err := s.dispatch(ctx, TrackCalendar, &lead.BaseEvent, lead.StartDate, 0)
	if err != nil {
		return err
	}

	switch res.Verdict {
	case NoSolutionsFound:
		if s.flags.PreflightCheck {
			return newPreflightError(&lead.BaseEvent, fm.Spares)
		}
		s.logger.Warn(ctx, "no logistics solution, calendar batch skipped",
			logging.String("component", lead.ComponentID),
			logging.String("failure_mode", lead.FailureModeID),
			logging.Int("batch", len(batch)),
		)
		return nil
	case NoWeatherWindowFound:
		s.logger.Warn(ctx, "no weather window, calendar batch skipped",
			logging.String("component", lead.ComponentID),
			logging.String("failure_mode", lead.FailureModeID),
			logging.Int("batch", len(batch)),
		)
		return nil
	}

	opt := res.Optimal
	if opt == nil {
		return fmt.Errorf("%w: SolutionFound without a schedule for %q", ErrInvariant, lead.ComponentID)
	}

	size := float64(len(batch))
	logisticShare := opt.TotalCost / size
	seaTimeShare := opt.SeaTimeHours / size

	spare, total := s.costs.ActionCost(lead.StartDate, opt.DepartDate, opt.EndDate, opt.SeaTimeHours, fm.Action, fm.Spares)
	labor := total - spare

	for i, row := range batch {
		rowEnd := opt.DepartDate.Add(hoursDur(seaTimeShare * float64(i+1)))
		row.EndDate = rowEnd
		row.LogisticCost = logisticShare
		row.OMCost = total
		row.Realized = true

		c := s.byID[row.ComponentID]
		downtime := rowEnd.Sub(row.StartDate).Hours()
		if downtime < 0 {
			downtime = 0
		}
		waiting := downtime - seaTimeShare
		if waiting < 0 {
			waiting = 0
		}

		s.bookCost(TrackCalendar, &row.BaseEvent, logisticShare, labor, spare)
		affected := s.recordBreakdown(TrackCalendar, c, row.StartDate, downtime, row.FailureModeIndex, false, false)

		s.appendLog(TrackCalendar, RealizedEvent{
			FailureRate:      row.FailureRate,
			FailureDate:      row.StartDate,
			RequestDate:      row.StartDate,
			DepartDate:       opt.DepartDate,
			DowntimeHours:    downtime,
			SeaTimeHours:     seaTimeShare,
			WaitingTimeHours: waiting,
			ComponentType:    row.ComponentType,
			ComponentSubtype: row.ComponentSubtype,
			ComponentID:      row.ComponentID,
			FailureModeID:    row.FailureModeID,
			RepairActionID:   row.RepairActionID,
			FailureModeIndex: row.FailureModeIndex,
			LogisticCost:     logisticShare,
			LaborCost:        labor,
			SpareCost:        spare,
			DowntimeDevices:  affected,
			VesselType:       opt.VesselType,
			VesselCount:      opt.VesselCount,
		})
	}

	s.appendEnv(TrackCalendar, EnvAssessment{
		Date:           lead.StartDate,
		FailureModeID:  lead.FailureModeID,
		RepairActionID: lead.RepairActionID,
		SeaTimeHours:   opt.SeaTimeHours,
		VesselType:     opt.VesselType,
		Equipment:      opt.Equipment,
	})
	return nil
}
