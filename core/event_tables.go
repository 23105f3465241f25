package core

import (
	"sort"
	"time"
)

// BaseEvent carries the identity shared by all three event tables.
type BaseEvent struct {
	ComponentID      string
	ComponentType    string
	ComponentSubtype string

	// BelongsTo is either "Array" for shared elements or the owning device
	// ID for device subsystems.
	BelongsTo string

	FailureModeID    string
	FailureModeIndex int
	RepairActionID   string

	// FailureRate is the annual rate of the owning failure mode, kept on
	// the row for the output tables.
	FailureRate float64
}

// ArrayOwned reports whether the event belongs to a shared array element.
func (e *BaseEvent) ArrayOwned() bool { return e.BelongsTo == belongsToArray }

const belongsToArray = "Array"

// CorrectiveEvent is one row of the unplanned corrective table.
type CorrectiveEvent struct {
	BaseEvent
	FailureDate time.Time
	RequestDate time.Time
}

// CalendarEvent is one row of the calendar table. Cost fields are filled in
// when the action is realized; the condition track reads them back during its
// tie-break.
type CalendarEvent struct {
	BaseEvent
	StartDate time.Time
	EndDate   time.Time

	LogisticCost float64
	OMCost       float64
	Realized     bool
}

// ConditionEvent is one row of the condition table.
type ConditionEvent struct {
	BaseEvent
	StartDate time.Time
	// EndDate is the predicted wear-out date, taken from the pending
	// failure draws.
	EndDate   time.Time
	AlarmDate time.Time

	Threshold float64
	// FlagCalendar records whether the component also carries a pending
	// calendar action, for cross-track coordination.
	FlagCalendar bool
}

// sortCorrectiveByFailure orders the table by failure date.
func sortCorrectiveByFailure(events []*CorrectiveEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].FailureDate.Before(events[j].FailureDate)
	})
}

// sortCorrectiveByRequest orders the table by request date.
func sortCorrectiveByRequest(events []*CorrectiveEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].RequestDate.Before(events[j].RequestDate)
	})
}

// sortCalendar applies the two-pass stable sort of the calendar table: first
// by (start date, subtype, failure mode), then by (start date, ownership) so
// device actions cluster by date ahead of array-level ones.
func sortCalendar(events []*CalendarEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		if a.ComponentSubtype != b.ComponentSubtype {
			return a.ComponentSubtype < b.ComponentSubtype
		}
		return a.FailureModeID < b.FailureModeID
	})
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		return !a.ArrayOwned() && b.ArrayOwned()
	})
}

// sortCondition orders the table by alarm date.
func sortCondition(events []*ConditionEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].AlarmDate.Before(events[j].AlarmDate)
	})
}
