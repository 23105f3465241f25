package core

import (
	"sort"
	"time"

	"github.com/oceanflux/array-om-sim/model"
)

// Track identifies one of the three maintenance strategies.
type Track int

const (
	TrackCalendar Track = iota
	TrackCorrective
	TrackCondition
)

func (t Track) String() string {
	switch t {
	case TrackCalendar:
		return "calendar"
	case TrackCorrective:
		return "corrective"
	default:
		return "condition"
	}
}

// CostEntry is one realized cost booked against an element.
type CostEntry struct {
	Track    Track
	Logistic float64
	Labor    float64
	Spare    float64
}

// Total is the full booked amount of the entry.
func (c CostEntry) Total() float64 { return c.Logistic + c.Labor + c.Spare }

// OpEvent is one realized operation recorded against a device. Derating
// entries track deferred condition repairs; their duration is excluded from
// downtime rollups because the device keeps producing at reduced power.
type OpEvent struct {
	Track            Track
	Date             time.Time
	DurationHours    float64
	FailureModeIndex int
	CausedBy         string
	Derating         bool
}

// ElementState is the per-element ledger inside ArrayState. Cost and event
// slices are append-only during a run.
type ElementState struct {
	ID       string
	IsDevice bool

	Costs  []CostEntry
	Events []OpEvent

	// weatherBlocked marks the element unreachable for a track after an
	// unresolved weather failure.
	weatherBlocked map[Track]bool

	// pendingDraws holds the remaining failure-date draws per failure-mode
	// index, consumed by condition continuations.
	pendingDraws map[int][]time.Time

	turnedOut bool
}

// ArrayState is the shared mutable state of one run: per-element ledgers plus
// the turned-out-device counter.
type ArrayState struct {
	elements  map[string]*ElementState
	deviceIDs []string
	turnedOut int
}

// NewArrayState builds the ledger set for the given components. Devices are
// identified by their element kind.
func NewArrayState(components []*model.Component) *ArrayState {
	s := &ArrayState{elements: make(map[string]*ElementState)}
	for _, c := range components {
		e := &ElementState{
			ID:             c.ID,
			IsDevice:       c.Kind == model.ElementDevice,
			weatherBlocked: make(map[Track]bool),
			pendingDraws:   make(map[int][]time.Time),
		}
		s.elements[c.ID] = e
		if e.IsDevice {
			s.deviceIDs = append(s.deviceIDs, c.ID)
		}
	}
	sort.Strings(s.deviceIDs)
	return s
}

// Element returns the ledger for an element ID, or nil if unknown.
func (s *ArrayState) Element(id string) *ElementState {
	return s.elements[id]
}

// Devices returns the sorted device IDs.
func (s *ArrayState) Devices() []string { return s.deviceIDs }

// DeviceCount is the number of devices in the array.
func (s *ArrayState) DeviceCount() int { return len(s.deviceIDs) }

// TurnedOutDevices is the count of permanently excluded devices.
func (s *ArrayState) TurnedOutDevices() int { return s.turnedOut }

// AllDevicesOut reports whether every device has been turned out.
func (s *ArrayState) AllDevicesOut() bool {
	return len(s.deviceIDs) > 0 && s.turnedOut >= len(s.deviceIDs)
}

// AddCost appends a cost entry to an element's ledger.
func (s *ArrayState) AddCost(id string, entry CostEntry) {
	if e := s.elements[id]; e != nil {
		e.Costs = append(e.Costs, entry)
	}
}

// AddEvent appends an operation event to an element's ledger.
func (s *ArrayState) AddEvent(id string, ev OpEvent) {
	if e := s.elements[id]; e != nil {
		e.Events = append(e.Events, ev)
	}
}

// SetWeatherBlocked flags an element unreachable for a track.
func (s *ArrayState) SetWeatherBlocked(id string, track Track) {
	if e := s.elements[id]; e != nil {
		e.weatherBlocked[track] = true
	}
}

// WeatherBlocked reports whether an element carries the block flag for a
// track.
func (s *ArrayState) WeatherBlocked(id string, track Track) bool {
	e := s.elements[id]
	return e != nil && e.weatherBlocked[track]
}

// TurnOutDevice marks a device permanently excluded. The counter increments
// once per device.
func (s *ArrayState) TurnOutDevice(id string) {
	e := s.elements[id]
	if e == nil || !e.IsDevice || e.turnedOut {
		return
	}
	e.turnedOut = true
	s.turnedOut++
}

// SetPendingDraws stores the failure-date draws for a failure mode of an
// element.
func (s *ArrayState) SetPendingDraws(id string, fmIndex int, draws []time.Time) {
	if e := s.elements[id]; e != nil {
		e.pendingDraws[fmIndex] = draws
	}
}

// PendingDraws returns the stored draws for a failure mode of an element.
func (s *ArrayState) PendingDraws(id string, fmIndex int) []time.Time {
	if e := s.elements[id]; e != nil {
		return e.pendingDraws[fmIndex]
	}
	return nil
}

// NextDrawAfter returns the first pending draw strictly after both bounds.
// The second return is false when no such draw exists.
func (s *ArrayState) NextDrawAfter(id string, fmIndex int, a, b time.Time) (time.Time, bool) {
	for _, d := range s.PendingDraws(id, fmIndex) {
		if d.After(a) && d.After(b) {
			return d, true
		}
	}
	return time.Time{}, false
}
