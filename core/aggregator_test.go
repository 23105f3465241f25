package core

import (
	"testing"

	"github.com/oceanflux/array-om-sim/model"
)

func oneYearParams() model.SimulationParams {
	end := testStart.Add(hoursDur(model.YearDays * model.DayHours))
	return model.DefaultParams(testStart, end)
}

func aggregateFixture() (*ArrayState, []*model.Component) {
	dev1 := deviceWithMode("device001")
	dev2 := deviceWithMode("device002")

	cable := deviceWithMode("cable001")
	cable.Kind = model.ElementStaticCable
	cable.Type = "Export Cable"

	pto := subsystemWithMode("pto001", "device001")
	pto.Condition = &model.ConditionPolicy{
		Start:     testStart,
		End:       testStart.AddDate(1, 0, 0),
		Threshold: 0.8,
	}
	pto.FailureModes[0].ConditionCapex = 1000

	comps := []*model.Component{dev1, dev2, cable, pto}
	state := NewArrayState(comps)

	state.AddEvent("device001", OpEvent{Track: TrackCorrective, DurationHours: 766})
	state.AddEvent("device001", OpEvent{Track: TrackCondition, DurationHours: 100, Derating: true})
	state.AddCost("device001", CostEntry{Track: TrackCorrective, Logistic: 100, Labor: 50, Spare: 25})
	state.AddCost("cable001", CostEntry{Track: TrackCorrective, Logistic: 100})

	return state, comps
}

func TestAggregateRollup(t *testing.T) {
	state, comps := aggregateFixture()
	farm := model.FarmPolicy{ConditionEnabled: true}

	// A two-year mission (17532 h) keeps annualized and one-off quantities
	// distinguishable.
	params := model.DefaultParams(testStart, testStart.Add(hoursDur(2*model.YearDays*model.DayHours)))

	res := Aggregate(state, comps, farm, params, nil, nil)

	// Derating hours are excluded from downtime, so device001 operates
	// 17532-766 = 16766 h over the mission.
	if !almostEqual(res.AnnualEnergyPerDeviceKWh["device001"], 100*16766/2) {
		t.Errorf("device001 energy = %v, want 838300", res.AnnualEnergyPerDeviceKWh["device001"])
	}
	if !almostEqual(res.AnnualEnergyPerDeviceKWh["device002"], 100*8766) {
		t.Errorf("device002 energy = %v, want 876600", res.AnnualEnergyPerDeviceKWh["device002"])
	}
	if !almostEqual(res.AnnualDowntimePerDevice["device001"], 766.0/2) {
		t.Errorf("device001 downtime = %v, want 383", res.AnnualDowntimePerDevice["device001"])
	}

	if !almostEqual(res.AnnualOpex, 275.0/2) {
		t.Errorf("opex = %v, want device plus array-level costs over two years = 137.5", res.AnnualOpex)
	}
	// CAPEX is booked once for the monitored mode, never spread over the
	// mission years.
	if !almostEqual(res.AnnualCapex, 1000) {
		t.Errorf("capex = %v, want the plain sum 1000", res.AnnualCapex)
	}

	wantArray := 100*16766.0/2 + 100*8766.0
	if !almostEqual(res.AnnualArrayEnergyKWh, wantArray) {
		t.Errorf("array energy = %v, want %v", res.AnnualArrayEnergyKWh, wantArray)
	}
	if !almostEqual(res.LCOE, 275.0/2/wantArray) {
		t.Errorf("LCOE = %v, want %v", res.LCOE, 275.0/2/wantArray)
	}
	if res.RunID == "" {
		t.Error("run ID must be set")
	}
}

func TestAggregateCapexOnlyWithConditionTrack(t *testing.T) {
	state, comps := aggregateFixture()
	res := Aggregate(state, comps, model.FarmPolicy{}, oneYearParams(), nil, nil)
	if res.AnnualCapex != 0 {
		t.Errorf("capex = %v, want 0 with the condition track disabled", res.AnnualCapex)
	}
}

func TestAggregateZeroEnergy(t *testing.T) {
	dev := deviceWithMode("device001")
	dev.RatedPowerKW = 0
	state := NewArrayState([]*model.Component{dev})
	state.AddCost("device001", CostEntry{Logistic: 500})

	res := Aggregate(state, []*model.Component{dev}, model.FarmPolicy{}, oneYearParams(), nil, nil)
	if res.LCOE != 0 {
		t.Errorf("LCOE = %v, want 0 when no energy is produced", res.LCOE)
	}
}

func TestAggregateIdempotent(t *testing.T) {
	state, comps := aggregateFixture()
	farm := model.FarmPolicy{ConditionEnabled: true}
	params := oneYearParams()

	a := Aggregate(state, comps, farm, params, nil, nil)
	b := Aggregate(state, comps, farm, params, nil, nil)

	if a.LCOE != b.LCOE || a.AnnualOpex != b.AnnualOpex ||
		a.AnnualCapex != b.AnnualCapex || a.AnnualArrayEnergyKWh != b.AnnualArrayEnergyKWh {
		t.Error("aggregating an unchanged state twice must yield identical rollups")
	}
	for dev, energy := range a.AnnualEnergyPerDeviceKWh {
		if b.AnnualEnergyPerDeviceKWh[dev] != energy {
			t.Errorf("device %s energy differs between rollups", dev)
		}
	}
}

func TestAggregateDowntimeClampedToMission(t *testing.T) {
	dev := deviceWithMode("device001")
	state := NewArrayState([]*model.Component{dev})
	state.AddEvent("device001", OpEvent{DurationHours: 100000})

	res := Aggregate(state, []*model.Component{dev}, model.FarmPolicy{}, oneYearParams(), nil, nil)
	if res.AnnualEnergyPerDeviceKWh["device001"] != 0 {
		t.Errorf("energy = %v, want 0 when downtime exceeds the mission", res.AnnualEnergyPerDeviceKWh["device001"])
	}
}
