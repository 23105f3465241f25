package core

import (
	"testing"
	"time"

	"github.com/oceanflux/array-om-sim/model"
)

func TestCoordinateShiftsRequestDates(t *testing.T) {
	dev := deviceWithMode("device001")
	dev.FailureModes[0].Spares.LeadTimeHours = 100
	byID := map[string]*model.Component{dev.ID: dev}

	failure := testStart.Add(240 * time.Hour)
	corrective := []*CorrectiveEvent{{
		BaseEvent:   baseEvent(dev, &dev.FailureModes[0]),
		FailureDate: failure,
		RequestDate: failure,
	}}

	farm := model.FarmPolicy{CorrectiveEnabled: true}
	out := Coordinate(corrective, nil, nil, byID, farm)

	want := failure.Add(100 * time.Hour)
	if !out[0].RequestDate.Equal(want) {
		t.Errorf("request date = %s, want failure plus lead time %s", out[0].RequestDate, want)
	}
}

func TestCoordinateDropsMonitoredModes(t *testing.T) {
	monitored := deviceWithMode("device001")
	plain := deviceWithMode("device002")
	byID := map[string]*model.Component{monitored.ID: monitored, plain.ID: plain}

	failure := testStart.Add(240 * time.Hour)
	corrective := []*CorrectiveEvent{
		{BaseEvent: baseEvent(monitored, &monitored.FailureModes[0]), FailureDate: failure, RequestDate: failure},
		{BaseEvent: baseEvent(plain, &plain.FailureModes[0]), FailureDate: failure.Add(time.Hour), RequestDate: failure.Add(time.Hour)},
	}
	condition := []*ConditionEvent{
		{BaseEvent: baseEvent(monitored, &monitored.FailureModes[0])},
	}

	farm := model.FarmPolicy{CorrectiveEnabled: true, ConditionEnabled: true}
	out := Coordinate(corrective, nil, condition, byID, farm)

	if len(out) != 1 {
		t.Fatalf("got %d corrective rows, want the monitored one dropped", len(out))
	}
	if out[0].ComponentID != "device002" {
		t.Errorf("surviving row = %s, want device002", out[0].ComponentID)
	}
}

func TestCoordinateSortsByRequestDate(t *testing.T) {
	early := deviceWithMode("device001")
	late := deviceWithMode("device002")
	// The later failure carries no delay; the earlier one gains a long spare
	// lead, so the realized order flips.
	early.FailureModes[0].Spares.LeadTimeHours = 1000
	byID := map[string]*model.Component{early.ID: early, late.ID: late}

	corrective := []*CorrectiveEvent{
		{BaseEvent: baseEvent(early, &early.FailureModes[0]), FailureDate: testStart.Add(24 * time.Hour), RequestDate: testStart.Add(24 * time.Hour)},
		{BaseEvent: baseEvent(late, &late.FailureModes[0]), FailureDate: testStart.Add(48 * time.Hour), RequestDate: testStart.Add(48 * time.Hour)},
	}

	farm := model.FarmPolicy{CorrectiveEnabled: true}
	out := Coordinate(corrective, nil, nil, byID, farm)

	if out[0].ComponentID != "device002" {
		t.Errorf("first row = %s, want device002 after delay-induced reorder", out[0].ComponentID)
	}
}
