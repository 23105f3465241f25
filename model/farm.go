package model

import "time"

// Hour and calendar constants shared across the simulation.
const (
	DayHours = 24.0
	YearDays = 365.25
)

// Wages is the farm wage table. Weekend hours are paid at the night rate.
type Wages struct {
	TechnicianDay   float64
	TechnicianNight float64
	SpecialistDay   float64
	SpecialistNight float64
}

// FarmPolicy fixes the commercial and strategy parameters of one run.
type FarmPolicy struct {
	Wages Wages

	// Workdays per week, split by season.
	WorkdaysSummer float64
	WorkdaysWinter float64

	// EnergySellingPrice is in currency per kWh, used for the
	// condition-vs-calendar tie-break.
	EnergySellingPrice float64

	// Helideck reports whether the farm offers helicopter access, passed
	// through to the logistics collaborator.
	Helideck bool

	CorrectiveEnabled bool
	CalendarEnabled   bool
	ConditionEnabled  bool
}

// ControlFlags toggle optional scheduler behaviours.
type ControlFlags struct {
	// PreflightCheck aborts the whole run with an error record when any
	// action has no feasible logistics combination.
	PreflightCheck bool

	// SelectPorts routes port selection through the logistics provider's
	// PortSelector hook; otherwise fixed defaults apply.
	SelectPorts bool

	// IgnoreWeatherWindow converts weather-window misses into zero-cost
	// completions at the horizon, turning the affected devices out.
	IgnoreWeatherWindow bool
}

// SimulationParams fixes the operation window and the tuning constants of the
// scheduler. Zero values are filled in by DefaultParams.
type SimulationParams struct {
	StartDate time.Time
	EndDate   time.Time

	// Seed drives the failure-date draws; runs with equal seeds and inputs
	// are identical.
	Seed uint64

	// CorrectiveCooldownHours drops corrective events whose request date
	// falls within this window after a calendar action for the same mode.
	CorrectiveCooldownHours float64

	// CalendarBatchLimit caps how many calendar actions sharing a block
	// are dispatched as one operation.
	CalendarBatchLimit int

	// CorrectivePrepHours is the onshore preparation lead applied to
	// corrective dispatches only.
	CorrectivePrepHours float64

	// DeratePercent and DerateExtensionHours parameterise the deferred
	// condition repair: the component runs derated until the calendar
	// action, for at most the extension window.
	DeratePercent        float64
	DerateExtensionHours float64

	// DayStartHour anchors the 12-hour day half for wage bucketing.
	DayStartHour int

	// ConditionRateFactorPercent reduces the nominal failure rate for
	// condition-monitored components.
	ConditionRateFactorPercent float64

	// Port defaults used when port selection is disabled.
	DefaultPortDistanceKm float64
	DefaultPortIndex      int
}

// DefaultParams returns the standard tuning constants for the given
// operation window.
func DefaultParams(start, end time.Time) SimulationParams {
	return SimulationParams{
		StartDate:               start,
		EndDate:                 end,
		CorrectiveCooldownHours: 6 * 30 * DayHours,
		CalendarBatchLimit:      10,
		CorrectivePrepHours:     48,
		DeratePercent:           50,
		DerateExtensionHours:    3 * 30 * DayHours,
		DayStartHour:            6,
		DefaultPortDistanceKm:   0.1,
		DefaultPortIndex:        21,
	}
}

// MissionHours is the total operating span of the run.
func (p SimulationParams) MissionHours() float64 {
	return p.EndDate.Sub(p.StartDate).Hours()
}

// MissionYears is the operating span in years.
func (p SimulationParams) MissionYears() float64 {
	return p.MissionHours() / (DayHours * YearDays)
}

// summerMonths holds the months whose workweek follows the summer policy.
var summerMonths = map[time.Month]bool{
	time.March:  true,
	time.April:  true,
	time.May:    true,
	time.June:   true,
	time.July:   true,
	time.August: true,
}

// IsSummer reports whether the month falls in the summer season.
func IsSummer(m time.Month) bool { return summerMonths[m] }

// WorkdaysFor returns the workdays-per-week policy for the season of t.
func (p FarmPolicy) WorkdaysFor(t time.Time) float64 {
	if IsSummer(t.Month()) {
		return p.WorkdaysSummer
	}
	return p.WorkdaysWinter
}
