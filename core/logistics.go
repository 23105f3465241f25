package core

import (
	"context"
	"time"

	"github.com/oceanflux/array-om-sim/model"
)

// FindSolution is the logistics collaborator's feasibility verdict.
type FindSolution int

const (
	NoSolutionsFound FindSolution = iota
	NoWeatherWindowFound
	SolutionFound
)

func (f FindSolution) String() string {
	switch f {
	case NoWeatherWindowFound:
		return "NoWeatherWindowFound"
	case SolutionFound:
		return "SolutionFound"
	default:
		return "NoSolutionsFound"
	}
}

// LogisticsRequest describes one maintenance operation to the logistics
// collaborator: what breaks, where it sits, what the weather must allow, and
// what has to be carried.
type LogisticsRequest struct {
	FailureModeID string
	ActionClass   model.ActionClass

	// Element identity translated to the collaborator's vocabulary.
	ElementType    string
	ElementSubtype string
	ElementID      string

	Position    model.Position
	RequestDate time.Time

	AccessDurationHours      float64
	MaintenanceDurationHours float64
	Helideck                 bool

	AccessLimits    model.WeatherLimits
	OperationLimits model.WeatherLimits

	Spares      model.SpareParts
	Technicians int

	PortDistanceKm float64
	PortIndex      int

	PrepTimeHours float64
}

// Optimal is the realized schedule of a feasible operation.
type Optimal struct {
	DepartDate   time.Time
	EndDate      time.Time
	TotalCost    float64
	SeaTimeHours float64

	VesselType  string
	VesselCount int
	Equipment   []string
}

// LogisticsResult is the collaborator's answer to one request.
type LogisticsResult struct {
	Verdict FindSolution
	// Optimal is set only when Verdict is SolutionFound.
	Optimal *Optimal
}

// Vessel is one entry of the fleet table handed to the collaborator.
type Vessel struct {
	ID             string
	Type           string
	DayRate        float64
	DeckAreaM2     float64
	DeckCargoT     float64
	DeckLoadingTM2 float64
}

// Equipment is one entry of the equipment table.
type Equipment struct {
	ID      string
	Type    string
	DayRate float64
}

// Port is one entry of the port table.
type Port struct {
	Index      int
	Name       string
	DistanceKm float64
}

// Fleet snapshots the vessel, equipment and port tables submitted with each
// request. The scheduler always submits a deep copy so collaborator-side
// mutation cannot leak back into core state.
type Fleet struct {
	Vessels   []Vessel
	Equipment []Equipment
	Ports     []Port
}

// Clone returns a deep copy of the fleet.
func (f Fleet) Clone() Fleet {
	return Fleet{
		Vessels:   append([]Vessel(nil), f.Vessels...),
		Equipment: append([]Equipment(nil), f.Equipment...),
		Ports:     append([]Port(nil), f.Ports...),
	}
}

// Provider is the logistics collaborator: a synchronous function of one
// request and a fleet snapshot.
type Provider interface {
	Solve(ctx context.Context, req LogisticsRequest, fleet Fleet) (LogisticsResult, error)
}

// PortSelector optionally picks the operating port for a class of actions.
// Providers that do not implement it fall back to fixed port defaults.
type PortSelector interface {
	SelectPort(ctx context.Context, class model.ActionClass, entry model.Position, spares model.SpareParts) (Port, error)
}
