package core

import (
	"errors"
	"fmt"

	"github.com/oceanflux/array-om-sim/model"
)

// ErrInvariant marks a fatal simulation invariant violation, such as a
// continuation index that must exist but does not. It aborts the run.
var ErrInvariant = errors.New("simulation invariant violated")

// PreflightError aborts a run under pre-flight checking: an action across the
// horizon has no feasible logistics combination. It carries enough identity
// and sizing data for the caller to diagnose the infeasible action.
type PreflightError struct {
	ComponentID      string
	ComponentType    string
	ComponentSubtype string
	FailureModeID    string
	RepairActionID   string

	// Minimal vessel deck requirement derived from the spare dimensions.
	DeckAreaM2     float64
	DeckCargoT     float64
	DeckLoadingTM2 float64

	Spares model.SpareParts
}

func (e *PreflightError) Error() string {
	return fmt.Sprintf("no logistics solution for %s %s (failure mode %s, action %s)",
		e.ComponentType, e.ComponentID, e.FailureModeID, e.RepairActionID)
}

func newPreflightError(ev *BaseEvent, spares model.SpareParts) *PreflightError {
	area := spares.LengthM * spares.WidthM
	cargo := spares.MassKg / 1000.0
	loading := 0.0
	if area > 0 {
		loading = cargo / area
	}
	return &PreflightError{
		ComponentID:      ev.ComponentID,
		ComponentType:    ev.ComponentType,
		ComponentSubtype: ev.ComponentSubtype,
		FailureModeID:    ev.FailureModeID,
		RepairActionID:   ev.RepairActionID,
		DeckAreaM2:       area,
		DeckCargoT:       cargo,
		DeckLoadingTM2:   loading,
		Spares:           spares,
	}
}
