package core

import (
	"context"
	"testing"
	"time"

	"github.com/oceanflux/array-om-sim/model"
)

func calendarRow(c *model.Component, start time.Time) *CalendarEvent {
	return &CalendarEvent{
		BaseEvent: baseEvent(c, &c.FailureModes[0]),
		StartDate: start,
		EndDate:   start.Add(hoursDur(c.FailureModes[0].Action.DurationHours)),
	}
}

func TestCalendarBatchSplitting(t *testing.T) {
	dev1 := deviceWithMode("device001")
	dev2 := deviceWithMode("device002")
	dev3 := deviceWithMode("device003")

	provider := &scriptProvider{solve: func(req LogisticsRequest) LogisticsResult {
		depart := req.RequestDate.Add(10 * time.Hour)
		return LogisticsResult{
			Verdict: SolutionFound,
			Optimal: &Optimal{
				DepartDate:   depart,
				EndDate:      depart.Add(30 * time.Hour),
				TotalCost:    600,
				SeaTimeHours: 30,
				VesselType:   "CTV",
				VesselCount:  1,
			},
		}
	}}

	farm := zeroLaborFarm()
	farm.CalendarEnabled = true
	s := newTestSim(t, provider, farm, model.ControlFlags{}, dev1, dev2, dev3)
	s.params.CalendarBatchLimit = 2

	start := testStart.Add(1000 * time.Hour)
	s.calendar = []*CalendarEvent{
		calendarRow(dev1, start),
		calendarRow(dev2, start),
		calendarRow(dev3, start),
	}

	res, err := s.loop(context.Background())
	if err != nil {
		t.Fatalf("loop: %v", err)
	}

	// Three rows share one block key; the batch limit of 2 splits them into
	// two campaigns.
	if len(provider.requests) != 2 {
		t.Fatalf("provider called %d times, want 2 batches", len(provider.requests))
	}

	// First batch of two shares the logistic cost; the second pays in full.
	if got := totalCost(s.state.Element("device001")); !almostEqual(got, 300) {
		t.Errorf("device001 cost = %v, want half share 300", got)
	}
	if got := totalCost(s.state.Element("device002")); !almostEqual(got, 300) {
		t.Errorf("device002 cost = %v, want half share 300", got)
	}
	if got := totalCost(s.state.Element("device003")); !almostEqual(got, 600) {
		t.Errorf("device003 cost = %v, want full cost 600", got)
	}

	for _, row := range s.calendar {
		if !row.Realized {
			t.Errorf("row %s not marked realized", row.ComponentID)
		}
	}

	// Batch members finish staggered by equal sea-time shares after depart.
	depart := start.Add(10 * time.Hour)
	if want := depart.Add(15 * time.Hour); !s.calendar[0].EndDate.Equal(want) {
		t.Errorf("first row ends %s, want %s", s.calendar[0].EndDate, want)
	}
	if want := depart.Add(30 * time.Hour); !s.calendar[1].EndDate.Equal(want) {
		t.Errorf("second row ends %s, want %s", s.calendar[1].EndDate, want)
	}

	if len(res.EventLogs[TrackCalendar]) != 3 {
		t.Errorf("calendar log has %d rows, want one per element", len(res.EventLogs[TrackCalendar]))
	}
	if len(res.EnvLogs[TrackCalendar]) != 2 {
		t.Errorf("env log has %d rows, want one per campaign", len(res.EnvLogs[TrackCalendar]))
	}
}

func TestCalendarBlockKeySplitsOnFailureMode(t *testing.T) {
	dev1 := deviceWithMode("device001")
	dev2 := deviceWithMode("device002")
	dev2.FailureModes[0].ID = "MoS2"

	provider := &scriptProvider{solve: solutionAfter(30, 600)}

	farm := zeroLaborFarm()
	farm.CalendarEnabled = true
	s := newTestSim(t, provider, farm, model.ControlFlags{}, dev1, dev2)

	start := testStart.Add(1000 * time.Hour)
	s.calendar = []*CalendarEvent{calendarRow(dev1, start), calendarRow(dev2, start)}

	if _, err := s.loop(context.Background()); err != nil {
		t.Fatalf("loop: %v", err)
	}
	if len(provider.requests) != 2 {
		t.Errorf("provider called %d times, want 2; differing failure modes never share a block", len(provider.requests))
	}
}

func TestCalendarWeatherMissSkipsSilently(t *testing.T) {
	dev := deviceWithMode("device001")
	provider := &scriptProvider{solve: func(LogisticsRequest) LogisticsResult {
		return LogisticsResult{Verdict: NoWeatherWindowFound}
	}}

	farm := zeroLaborFarm()
	farm.CalendarEnabled = true
	s := newTestSim(t, provider, farm, model.ControlFlags{IgnoreWeatherWindow: true}, dev)

	s.calendar = []*CalendarEvent{calendarRow(dev, testStart.Add(1000*time.Hour))}

	res, err := s.loop(context.Background())
	if err != nil {
		t.Fatalf("loop: %v", err)
	}
	// Unlike the corrective track, calendar weather misses never turn devices
	// out, even under the ignore flag.
	if s.state.TurnedOutDevices() != 0 {
		t.Error("calendar weather miss must not turn devices out")
	}
	if len(res.EventLogs[TrackCalendar]) != 0 {
		t.Error("skipped batch must not produce log rows")
	}
	if got := totalCost(s.state.Element("device001")); got != 0 {
		t.Errorf("booked cost = %v, want 0", got)
	}
}

func TestCalendarBeyondHorizonEndsTrack(t *testing.T) {
	dev := deviceWithMode("device001")
	provider := &scriptProvider{solve: solutionAfter(30, 600)}

	farm := zeroLaborFarm()
	farm.CalendarEnabled = true
	s := newTestSim(t, provider, farm, model.ControlFlags{}, dev)

	s.calendar = []*CalendarEvent{calendarRow(dev, s.params.EndDate.Add(time.Hour))}

	if _, err := s.loop(context.Background()); err != nil {
		t.Fatalf("loop: %v", err)
	}
	if len(provider.requests) != 0 || !s.calDone {
		t.Error("a start past the horizon must terminate the calendar track without dispatching")
	}
}
