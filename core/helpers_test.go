package core

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/oceanflux/array-om-sim/model"
)

var testStart = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

func testParams() model.SimulationParams {
	return model.DefaultParams(testStart, testStart.AddDate(10, 0, 0))
}

// zeroLaborFarm keeps all tracks enabled off and the labor math inert, so
// scenario tests can reason about logistic cost alone.
func zeroLaborFarm() model.FarmPolicy {
	return model.FarmPolicy{
		WorkdaysSummer:     8,
		WorkdaysWinter:     8,
		EnergySellingPrice: 0.2,
	}
}

func deviceWithMode(id string) *model.Component {
	return &model.Component{
		ID:           id,
		Kind:         model.ElementDevice,
		Type:         "device",
		RatedPowerKW: 100,
		FailureModes: []model.FailureMode{{
			Index:       1,
			ID:          "MoS1",
			Probability: 1,
			Action: model.MaintenanceAction{
				ID:            "RtP1",
				Class:         model.ActionRepair,
				DurationHours: 8,
				Technicians:   2,
			},
		}},
	}
}

func subsystemWithMode(id, owner string) *model.Component {
	c := deviceWithMode(id)
	c.Kind = model.ElementGeneric
	c.Type = "Pto"
	c.Subtype = "Hydraulic"
	c.Owner = owner
	c.RatedPowerKW = 0
	return c
}

// scriptProvider records every request and answers through a scriptable
// function; the zero value answers NoSolutionsFound.
type scriptProvider struct {
	requests []LogisticsRequest
	solve    func(req LogisticsRequest) LogisticsResult
}

func (p *scriptProvider) Solve(_ context.Context, req LogisticsRequest, _ Fleet) (LogisticsResult, error) {
	p.requests = append(p.requests, req)
	if p.solve == nil {
		return LogisticsResult{Verdict: NoSolutionsFound}, nil
	}
	return p.solve(req), nil
}

// solutionAfter scripts a fixed-shape solution: depart a day after the
// request, the given sea time, the given logistic cost.
func solutionAfter(seaTimeHours, totalCost float64) func(LogisticsRequest) LogisticsResult {
	return func(req LogisticsRequest) LogisticsResult {
		depart := req.RequestDate.Add(24 * time.Hour)
		return LogisticsResult{
			Verdict: SolutionFound,
			Optimal: &Optimal{
				DepartDate:   depart,
				EndDate:      depart.Add(hoursDur(seaTimeHours)),
				TotalCost:    totalCost,
				SeaTimeHours: seaTimeHours,
				VesselType:   "CTV",
				VesselCount:  1,
			},
		}
	}
}

func newTestSim(t *testing.T, provider Provider, farm model.FarmPolicy,
	flags model.ControlFlags, comps ...*model.Component) *Simulation {
	t.Helper()
	s, err := New(Config{
		Components: comps,
		Farm:       farm,
		Params:     testParams(),
		Flags:      flags,
		Provider:   provider,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func totalCost(e *ElementState) float64 {
	sum := 0.0
	for _, c := range e.Costs {
		sum += c.Total()
	}
	return sum
}
