package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/rand"

	"github.com/oceanflux/array-om-sim/internal/logging"
	"github.com/oceanflux/array-om-sim/internal/observability"
	"github.com/oceanflux/array-om-sim/model"
)

// Config assembles one simulation run.
type Config struct {
	Components []*model.Component
	Farm       model.FarmPolicy
	Params     model.SimulationParams
	Flags      model.ControlFlags

	Provider Provider
	Fleet    Fleet

	// Reliability optionally overrides component rates and breakdown sets
	// before the tables are built.
	Reliability *model.ReliabilityInput

	// EntryPoint is the array entry position used for port selection.
	EntryPoint model.Position

	Logger  logging.Logger
	Metrics *observability.SimulationCollector
}

// Simulation owns the complete state of one run: the three event tables and
// their cursors, the array ledgers, the logistics contract and the output
// logs. It is single-threaded; the three tracks are interleaved strictly
// sequentially because later steps depend on mutations made by earlier ones.
type Simulation struct {
	components []*model.Component
	byID       map[string]*model.Component

	farm   model.FarmPolicy
	params model.SimulationParams
	flags  model.ControlFlags

	provider Provider
	fleet    Fleet
	entry    model.Position

	state *ArrayState
	costs CostEngine
	src   rand.Source

	corrective []*CorrectiveEvent
	calendar   []*CalendarEvent
	condition  []*ConditionEvent

	corrIdx, calIdx, condIdx    int
	corrDone, calDone, condDone bool

	// totalActionDelayHours tracks cumulative slack between realized ends
	// and the next request date; when it goes negative, upcoming corrective
	// request dates are pushed forward by the deficit.
	totalActionDelayHours float64

	repairPort     Port
	inspectionPort Port

	logs map[Track][]RealizedEvent
	env  map[Track][]EnvAssessment

	logger  logging.Logger
	metrics *observability.SimulationCollector
}

// New validates the configuration and prepares a simulation. Reliability
// input is applied and breakdown sets are normalised here; the event tables
// are built when Run starts.
func New(cfg Config) (*Simulation, error) {
	if cfg.Provider == nil {
		return nil, errors.New("core: logistics provider is required")
	}
	if len(cfg.Components) == 0 {
		return nil, errors.New("core: at least one component is required")
	}
	if !cfg.Params.EndDate.After(cfg.Params.StartDate) {
		return nil, errors.New("core: operation window is empty")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Noop()
	}

	if cfg.Reliability != nil {
		cfg.Reliability.Apply(cfg.Components)
	}

	byID := make(map[string]*model.Component, len(cfg.Components))
	for _, c := range cfg.Components {
		if c.ID == "" {
			return nil, errors.New("core: component with empty ID")
		}
		if _, dup := byID[c.ID]; dup {
			return nil, fmt.Errorf("core: duplicate component ID %q", c.ID)
		}
		byID[c.ID] = c

		// Default breakdown: a device subsystem takes down its device, a
		// device takes down itself.
		if !c.Breakdown.All && len(c.Breakdown.Devices) == 0 {
			switch {
			case c.Owner != "":
				c.Breakdown = model.BreakdownOf(c.Owner)
			case c.Kind == model.ElementDevice:
				c.Breakdown = model.BreakdownOf(c.ID)
			}
		}
	}

	s := &Simulation{
		components: cfg.Components,
		byID:       byID,
		farm:       cfg.Farm,
		params:     cfg.Params,
		flags:      cfg.Flags,
		provider:   cfg.Provider,
		fleet:      cfg.Fleet,
		entry:      cfg.EntryPoint,
		state:      NewArrayState(cfg.Components),
		costs:      CostEngine{Farm: cfg.Farm, DayStartHour: cfg.Params.DayStartHour},
		src:        rand.NewSource(cfg.Params.Seed),
		logs:       make(map[Track][]RealizedEvent),
		env:        make(map[Track][]EnvAssessment),
		logger:     logger,
		metrics:    cfg.Metrics,
	}
	return s, nil
}

// Run drives all three tracks to completion and returns the aggregated
// result record. The caller receives either full results or a single error;
// there is no partial-success hybrid.
func (s *Simulation) Run(ctx context.Context) (*Results, error) {
	ctx, logger := logging.WithRunLogger(ctx, s.logger)
	s.logger = logger

	if err := s.prepare(ctx); err != nil {
		return nil, err
	}
	return s.loop(ctx)
}

// prepare selects ports and builds the coordinated event tables.
func (s *Simulation) prepare(ctx context.Context) error {
	if err := s.selectPorts(ctx); err != nil {
		return err
	}
	s.buildTables()

	s.logger.Info(ctx, "event tables built",
		logging.Int("corrective", len(s.corrective)),
		logging.Int("calendar", len(s.calendar)),
		logging.Int("condition", len(s.condition)),
		logging.Int("devices", s.state.DeviceCount()),
	)
	return nil
}

func (s *Simulation) buildTables() {
	if s.farm.CalendarEnabled {
		s.calendar = BuildCalendarTable(s.components, s.params)
	}
	if s.farm.ConditionEnabled {
		s.condition = BuildConditionTable(s.components, s.farm, s.params, s.src, s.state)
	}
	if s.farm.CorrectiveEnabled {
		s.corrective = BuildCorrectiveTable(s.components, s.params, s.src)
	}
	s.corrective = Coordinate(s.corrective, s.calendar, s.condition, s.byID, s.farm)

	s.metrics.SetTableDepth(TrackCorrective.String(), len(s.corrective))
	s.metrics.SetTableDepth(TrackCalendar.String(), len(s.calendar))
	s.metrics.SetTableDepth(TrackCondition.String(), len(s.condition))
}

// selectPorts fixes the inspection and repair ports for the whole run,
// through the provider's PortSelector hook when enabled, otherwise from the
// configured defaults.
func (s *Simulation) selectPorts(ctx context.Context) error {
	def := Port{
		Index:      s.params.DefaultPortIndex,
		DistanceKm: s.params.DefaultPortDistanceKm,
	}
	s.repairPort, s.inspectionPort = def, def

	if !s.flags.SelectPorts {
		return nil
	}
	sel, ok := s.provider.(PortSelector)
	if !ok {
		return nil
	}

	spares := s.largestSpares()

	port, err := sel.SelectPort(ctx, model.ActionInspection, s.entry, spares)
	if err != nil {
		return fmt.Errorf("selecting inspection port: %w", err)
	}
	s.inspectionPort = port

	port, err = sel.SelectPort(ctx, model.ActionRepair, s.entry, spares)
	if err != nil {
		return fmt.Errorf("selecting repair port: %w", err)
	}
	s.repairPort = port
	return nil
}

// largestSpares is the element-wise maximum spare envelope across all failure
// modes, so the selected port can handle every action of the run.
func (s *Simulation) largestSpares() model.SpareParts {
	var max model.SpareParts
	for _, c := range s.components {
		for _, fm := range c.FailureModes {
			if fm.Spares.MassKg > max.MassKg {
				max.MassKg = fm.Spares.MassKg
			}
			if fm.Spares.LengthM > max.LengthM {
				max.LengthM = fm.Spares.LengthM
			}
			if fm.Spares.WidthM > max.WidthM {
				max.WidthM = fm.Spares.WidthM
			}
			if fm.Spares.HeightM > max.HeightM {
				max.HeightM = fm.Spares.HeightM
			}
		}
	}
	return max
}

// loop runs the track state machines to exhaustion. Tracks run in fixed
// priority order, calendar first, then corrective, then condition; a track
// that self-terminates hands over to the next, and the condition table may
// grow mid-run through its continuation mechanism.
func (s *Simulation) loop(ctx context.Context) (*Results, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		switch {
		case s.calendarActive():
			if err := s.stepCalendar(ctx); err != nil {
				return nil, err
			}
		case s.correctiveActive():
			if err := s.stepCorrective(ctx); err != nil {
				return nil, err
			}
		case s.conditionActive():
			if err := s.stepCondition(ctx); err != nil {
				return nil, err
			}
		default:
			return s.results(), nil
		}
	}
}

func (s *Simulation) calendarActive() bool {
	return s.farm.CalendarEnabled && !s.calDone && s.calIdx < len(s.calendar)
}

func (s *Simulation) correctiveActive() bool {
	return s.farm.CorrectiveEnabled && !s.corrDone && s.corrIdx < len(s.corrective)
}

func (s *Simulation) conditionActive() bool {
	return s.farm.ConditionEnabled && !s.condDone && s.condIdx < len(s.condition)
}

func (s *Simulation) results() *Results {
	return Aggregate(s.state, s.components, s.farm, s.params, s.logs, s.env)
}

// dispatch resolves the event's failure mode, builds the logistics request
// and submits it with a cloned fleet snapshot.
func (s *Simulation) dispatch(ctx context.Context, track Track, ev *BaseEvent,
	requestDate time.Time, prepHours float64) (LogisticsResult, *model.FailureMode, error) {

	c := s.byID[ev.ComponentID]
	if c == nil {
		return LogisticsResult{}, nil, fmt.Errorf("%w: unknown component %q", ErrInvariant, ev.ComponentID)
	}
	fm, ok := c.FailureMode(ev.FailureModeIndex)
	if !ok {
		return LogisticsResult{}, nil, fmt.Errorf("%w: component %q has no failure mode %d",
			ErrInvariant, ev.ComponentID, ev.FailureModeIndex)
	}
	action := fm.Action

	port := s.repairPort
	if action.Class == model.ActionInspection {
		port = s.inspectionPort
	}

	req := LogisticsRequest{
		FailureModeID:            ev.FailureModeID,
		ActionClass:              action.Class,
		ElementType:              c.Kind.LogisticsName(),
		ElementSubtype:           ev.ComponentSubtype,
		ElementID:                ev.ComponentID,
		Position:                 c.Position,
		RequestDate:              requestDate,
		AccessDurationHours:      action.AccessDurationHours,
		MaintenanceDurationHours: action.DurationHours,
		Helideck:                 s.farm.Helideck,
		AccessLimits:             action.AccessLimits,
		OperationLimits:          action.OperationLimits,
		Spares:                   fm.Spares,
		Technicians:              action.Technicians + action.Specialists,
		PortDistanceKm:           port.DistanceKm,
		PortIndex:                port.Index,
		PrepTimeHours:            prepHours,
	}

	res, err := s.provider.Solve(ctx, req, s.fleet.Clone())
	if err != nil {
		return LogisticsResult{}, nil, fmt.Errorf("logistics provider: %w", err)
	}

	s.metrics.ObserveDispatch(track.String(), res.Verdict.String())
	s.logger.Debug(ctx, "action dispatched",
		logging.String("track", track.String()),
		logging.String("component", ev.ComponentID),
		logging.String("failure_mode", ev.FailureModeID),
		logging.String("verdict", res.Verdict.String()),
	)
	return res, fm, nil
}

// bookCost appends a cost entry to the ledger of the element that pays for
// the action: the element itself for array-owned actions, the owning device
// otherwise.
func (s *Simulation) bookCost(track Track, ev *BaseEvent, logistic, labor, spare float64) {
	target := ev.ComponentID
	if !ev.ArrayOwned() {
		target = ev.BelongsTo
	}
	s.state.AddCost(target, CostEntry{Track: track, Logistic: logistic, Labor: labor, Spare: spare})
	s.metrics.AddRealizedCost(logistic + labor + spare)
}

// recordBreakdown writes one operation event into every affected device that
// is not already weather-blocked for the track, and returns the affected
// device IDs. With turnOut set the devices are additionally blocked and
// turned out permanently.
func (s *Simulation) recordBreakdown(track Track, c *model.Component, date time.Time,
	durationHours float64, fmIndex int, derating, turnOut bool) []string {

	var affected []string
	for _, dev := range c.Breakdown.Resolve(s.state.Devices()) {
		if s.state.WeatherBlocked(dev, track) {
			continue
		}
		affected = append(affected, dev)

		s.state.AddEvent(dev, OpEvent{
			Track:            track,
			Date:             date,
			DurationHours:    durationHours,
			FailureModeIndex: fmIndex,
			CausedBy:         c.ID,
			Derating:         derating,
		})
		if !derating {
			s.metrics.AddDowntime(durationHours)
		}

		if turnOut {
			s.state.SetWeatherBlocked(dev, track)
			s.state.TurnOutDevice(dev)
		}
	}

	if turnOut && c.Kind != model.ElementDevice {
		s.state.SetWeatherBlocked(c.ID, track)
	}
	s.metrics.SetTurnedOutDevices(s.state.TurnedOutDevices())
	return affected
}

// blockGuardID is the element whose weather-block flag gates this event.
func blockGuardID(ev *BaseEvent) string {
	if ev.ArrayOwned() {
		return ev.ComponentID
	}
	return ev.BelongsTo
}

func (s *Simulation) appendLog(track Track, row RealizedEvent) {
	row.Track = track
	s.logs[track] = append(s.logs[track], row)
}

func (s *Simulation) appendEnv(track Track, row EnvAssessment) {
	row.Track = track
	s.env[track] = append(s.env[track], row)
}
