package model

import "time"

// Position locates an element for logistics planning.
type Position struct {
	X           float64
	Y           float64
	DepthM      float64
	Zone        string
	BathymetryM float64
	SoilType    string
}

// WeatherLimits bounds the metocean conditions an operation tolerates.
type WeatherLimits struct {
	MaxHsM       float64 // significant wave height
	MaxTpS       float64 // wave period
	MaxWindMS    float64
	MaxCurrentMS float64
}

// SpareParts describes the spare consumed by one failure mode.
type SpareParts struct {
	MassKg        float64
	LengthM       float64
	WidthM        float64
	HeightM       float64
	Cost          float64
	TransitCost   float64
	LoadingCost   float64
	LeadTimeHours float64
}

// TotalCost is the full spare bill for one action: purchase plus transit plus
// loading.
func (s SpareParts) TotalCost() float64 {
	return s.Cost + s.TransitCost + s.LoadingCost
}

// ActionClass distinguishes repair interventions from inspections. The class
// decides which maintenance record supplies delays, staffing and limits.
type ActionClass int

const (
	ActionRepair ActionClass = iota
	ActionInspection
)

func (c ActionClass) String() string {
	if c == ActionInspection {
		return "inspection"
	}
	return "repair"
}

// MaintenanceAction carries the operational parameters of a repair or
// inspection intervention for one failure mode.
type MaintenanceAction struct {
	ID                  string
	Class               ActionClass
	DurationHours       float64
	AccessDurationHours float64
	Interruptible       bool
	DelayCrewHours      float64
	DelayOrgHours       float64
	Technicians         int
	Specialists         int
	AccessLimits        WeatherLimits
	OperationLimits     WeatherLimits
}

// TotalDelayHours is the request-date shift applied to corrective events:
// the spare lead time competes with the mobilisation delay and the larger
// one wins.
func (a MaintenanceAction) TotalDelayHours(spares SpareParts) float64 {
	mobilisation := a.DelayCrewHours + a.DelayOrgHours
	if spares.LeadTimeHours > mobilisation {
		return spares.LeadTimeHours
	}
	return mobilisation
}

// FailureMode is one way a component can fail, with its share of the
// component's failure rate and the intervention that addresses it.
type FailureMode struct {
	Index       int
	ID          string
	Description string
	// Probability is this mode's share of the component rate, in [0,1].
	Probability float64
	Spares      SpareParts
	// ConditionCapex is booked once when the condition track monitors this
	// mode (sensor and instrumentation cost).
	ConditionCapex float64
	Action         MaintenanceAction
}

// AnnualRate is the mode's effective annual failure rate given the owning
// component's nominal rate.
func (f FailureMode) AnnualRate(componentRate float64) float64 {
	return componentRate * f.Probability
}

// CalendarPolicy defines the recurring calendar-maintenance rule for a
// component. A policy missing any field excludes the component from the
// calendar track.
type CalendarPolicy struct {
	Start         time.Time
	End           time.Time
	IntervalYears float64
}

// Valid reports whether the policy is well-formed.
func (p *CalendarPolicy) Valid() bool {
	if p == nil {
		return false
	}
	return !p.Start.IsZero() && !p.End.IsZero() && p.IntervalYears > 0 && !p.End.Before(p.Start)
}

// ConditionPolicy defines condition monitoring for a component. Threshold is
// the consumed-life fraction at which the health indicator raises an alarm.
type ConditionPolicy struct {
	Start     time.Time
	End       time.Time
	Threshold float64
}

// Valid reports whether the policy is well-formed.
func (p *ConditionPolicy) Valid() bool {
	if p == nil {
		return false
	}
	if p.Start.IsZero() || p.End.IsZero() || p.End.Before(p.Start) {
		return false
	}
	return p.Threshold >= 0 && p.Threshold <= 1
}

// Component is one maintainable element of the array: a device, or a shared
// element such as a cable, mooring line or collection point.
type Component struct {
	ID      string
	Kind    ElementKind
	Type    string
	Subtype string

	// Owner is the owning device ID for device subsystems; empty for
	// devices themselves and for shared array elements.
	Owner string

	// AnnualFailureRate is the nominal component failure rate in failures
	// per year, distributed over failure modes by mode probability.
	AnnualFailureRate float64

	// RatedPowerKW is the nameplate power; meaningful for devices only.
	RatedPowerKW float64

	Floatable bool
	Position  Position
	Breakdown BreakdownSet

	Calendar  *CalendarPolicy
	Condition *ConditionPolicy

	FailureModes []FailureMode
}

// FailureMode returns the mode with the given index, if present.
func (c *Component) FailureMode(index int) (*FailureMode, bool) {
	for i := range c.FailureModes {
		if c.FailureModes[i].Index == index {
			return &c.FailureModes[i], true
		}
	}
	return nil, false
}
