package core

import (
	"time"

	"github.com/google/uuid"

	"github.com/oceanflux/array-om-sim/model"
)

// RealizedEvent is one human-readable row of a track's output event table.
type RealizedEvent struct {
	Track Track

	FailureRate float64
	FailureDate time.Time
	RequestDate time.Time
	DepartDate  time.Time

	DowntimeHours    float64
	SeaTimeHours     float64
	WaitingTimeHours float64

	ComponentType    string
	ComponentSubtype string
	ComponentID      string
	FailureModeID    string
	RepairActionID   string
	FailureModeIndex int

	LogisticCost float64
	LaborCost    float64
	SpareCost    float64

	DowntimeDevices []string

	VesselType  string
	VesselCount int
}

// EnvAssessment is one row of the environmental assessment log.
type EnvAssessment struct {
	Track          Track
	Date           time.Time
	FailureModeID  string
	RepairActionID string
	SeaTimeHours   float64
	VesselType     string
	Equipment      []string
}

// Results is the output record of one run.
type Results struct {
	RunID string

	// LCOE is the O&M contribution in currency per kWh.
	LCOE float64

	AnnualEnergyPerDeviceKWh map[string]float64
	AnnualDowntimePerDevice  map[string]float64

	AnnualArrayEnergyKWh float64
	AnnualOpex           float64
	AnnualCapex          float64

	EventLogs map[Track][]RealizedEvent
	EnvLogs   map[Track][]EnvAssessment
}

// Aggregate rolls the array state into the final result record. It only
// reads the state, so aggregating an unchanged state twice yields identical
// rollups.
func Aggregate(state *ArrayState, components []*model.Component,
	farm model.FarmPolicy, params model.SimulationParams,
	logs map[Track][]RealizedEvent, env map[Track][]EnvAssessment) *Results {

	years := params.MissionYears()
	missionHours := params.MissionHours()

	ratedKW := make(map[string]float64)
	for _, c := range components {
		if c.Kind == model.ElementDevice {
			ratedKW[c.ID] = c.RatedPowerKW
		}
	}

	res := &Results{
		RunID:                    uuid.NewString(),
		AnnualEnergyPerDeviceKWh: make(map[string]float64),
		AnnualDowntimePerDevice:  make(map[string]float64),
		EventLogs:                logs,
		EnvLogs:                  env,
	}

	for _, dev := range state.Devices() {
		e := state.Element(dev)

		downtime := 0.0
		for _, ev := range e.Events {
			if ev.Derating {
				continue
			}
			downtime += ev.DurationHours
		}

		operating := missionHours - downtime
		if operating < 0 {
			operating = 0
		}

		energy := ratedKW[dev] * operating / years
		res.AnnualEnergyPerDeviceKWh[dev] = energy
		res.AnnualDowntimePerDevice[dev] = downtime / years
		res.AnnualArrayEnergyKWh += energy
	}

	opex := 0.0
	for _, dev := range state.Devices() {
		for _, c := range state.Element(dev).Costs {
			opex += c.Total()
		}
	}
	for _, c := range components {
		if c.Kind == model.ElementDevice || c.Owner != "" {
			continue
		}
		if e := state.Element(c.ID); e != nil {
			for _, entry := range e.Costs {
				opex += entry.Total()
			}
		}
	}
	res.AnnualOpex = opex / years

	if farm.ConditionEnabled {
		capex := 0.0
		for _, c := range components {
			if !c.Condition.Valid() {
				continue
			}
			for _, fm := range c.FailureModes {
				capex += fm.ConditionCapex
			}
		}
		// Instrumentation is bought once; unlike opex it is not spread over
		// the mission.
		res.AnnualCapex = capex
	}

	if res.AnnualArrayEnergyKWh > 1e-9 {
		res.LCOE = res.AnnualOpex / res.AnnualArrayEnergyKWh
	}

	return res
}
