package core

import (
	"github.com/oceanflux/array-om-sim/model"
)

// Coordinate merges the three freshly built tables before the scheduler runs:
// calendar and condition tables are put into their canonical order, corrective
// rows already covered by a condition alarm are removed (condition pre-empts
// corrective), and every surviving corrective row's request date is shifted by
// the larger of the spare lead time and the mobilisation delay. The corrective
// table comes back sorted by request date.
func Coordinate(corrective []*CorrectiveEvent, calendar []*CalendarEvent,
	condition []*ConditionEvent, byID map[string]*model.Component,
	farm model.FarmPolicy) []*CorrectiveEvent {

	if farm.CalendarEnabled && farm.ConditionEnabled {
		sortCalendar(calendar)
		sortCondition(condition)
	}

	if farm.CorrectiveEnabled && len(condition) > 0 {
		corrective = dropConditionDuplicates(corrective, condition)
	}

	for _, ev := range corrective {
		c := byID[ev.ComponentID]
		if c == nil {
			continue
		}
		fm, ok := c.FailureMode(ev.FailureModeIndex)
		if !ok {
			continue
		}
		ev.RequestDate = ev.FailureDate.Add(hoursDur(fm.Action.TotalDelayHours(fm.Spares)))
	}

	sortCorrectiveByRequest(corrective)
	return corrective
}

type dedupeKey struct {
	arrayOwned bool
	ctype      string
	subtype    string
	id         string
	fmIndex    int
	raID       string
}

func keyOf(e *BaseEvent) dedupeKey {
	return dedupeKey{
		arrayOwned: e.ArrayOwned(),
		ctype:      e.ComponentType,
		subtype:    e.ComponentSubtype,
		id:         e.ComponentID,
		fmIndex:    e.FailureModeIndex,
		raID:       e.RepairActionID,
	}
}

// dropConditionDuplicates removes corrective rows whose key matches a
// condition row, so a monitored failure mode is never driven by both tracks
// at once.
func dropConditionDuplicates(corrective []*CorrectiveEvent, condition []*ConditionEvent) []*CorrectiveEvent {
	monitored := make(map[dedupeKey]bool, len(condition))
	for _, ev := range condition {
		monitored[keyOf(&ev.BaseEvent)] = true
	}

	kept := corrective[:0]
	for _, ev := range corrective {
		if monitored[keyOf(&ev.BaseEvent)] {
			continue
		}
		kept = append(kept, ev)
	}
	return kept
}
