package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SimulationCollector exposes maintenance-simulation Prometheus metrics.
type SimulationCollector struct {
	gatherer prometheus.Gatherer

	DispatchesTotal   *prometheus.CounterVec
	RealizedCostTotal prometheus.Counter
	DowntimeHours     prometheus.Counter
	EventTableDepth   *prometheus.GaugeVec
	TurnedOutDevices  prometheus.Gauge
}

// NewSimulationCollector registers simulation metrics against the provided
// registerer.
func NewSimulationCollector(reg prometheus.Registerer) (*SimulationCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	dispatches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "simulation_dispatches_total",
		Help: "Maintenance actions dispatched to the logistics collaborator, by track and verdict.",
	}, []string{"track", "verdict"})
	dispatches, err := registerCounterVec(reg, dispatches, "simulation_dispatches_total")
	if err != nil {
		return nil, err
	}

	cost := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "simulation_realized_cost_total",
		Help: "Cumulative realized maintenance cost across all tracks.",
	})
	cost, err = registerCounter(reg, cost, "simulation_realized_cost_total")
	if err != nil {
		return nil, err
	}

	downtime := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "simulation_downtime_hours_total",
		Help: "Cumulative device downtime hours written into the array state.",
	})
	downtime, err = registerCounter(reg, downtime, "simulation_downtime_hours_total")
	if err != nil {
		return nil, err
	}

	depth := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "simulation_event_table_depth",
		Help: "Current number of rows in each maintenance event table.",
	}, []string{"track"})
	depth, err = registerGaugeVec(reg, depth, "simulation_event_table_depth")
	if err != nil {
		return nil, err
	}

	turnedOut := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "simulation_turned_out_devices",
		Help: "Devices permanently excluded from further simulation.",
	})
	turnedOut, err = registerGauge(reg, turnedOut, "simulation_turned_out_devices")
	if err != nil {
		return nil, err
	}

	return &SimulationCollector{
		gatherer:          gatherer,
		DispatchesTotal:   dispatches,
		RealizedCostTotal: cost,
		DowntimeHours:     downtime,
		EventTableDepth:   depth,
		TurnedOutDevices:  turnedOut,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *SimulationCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// Handler returns an HTTP handler exposing the collector's metrics.
func (c *SimulationCollector) Handler() http.Handler {
	if c == nil || c.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// ObserveDispatch records one dispatched action and its verdict.
func (c *SimulationCollector) ObserveDispatch(track, verdict string) {
	if c == nil || c.DispatchesTotal == nil {
		return
	}
	c.DispatchesTotal.WithLabelValues(track, verdict).Inc()
}

// AddRealizedCost adds realized cost to the running total.
func (c *SimulationCollector) AddRealizedCost(cost float64) {
	if c == nil || c.RealizedCostTotal == nil || cost <= 0 {
		return
	}
	c.RealizedCostTotal.Add(cost)
}

// AddDowntime adds realized downtime hours to the running total.
func (c *SimulationCollector) AddDowntime(hours float64) {
	if c == nil || c.DowntimeHours == nil || hours <= 0 {
		return
	}
	c.DowntimeHours.Add(hours)
}

// SetTableDepth updates a track's event-table depth gauge.
func (c *SimulationCollector) SetTableDepth(track string, depth int) {
	if c == nil || c.EventTableDepth == nil {
		return
	}
	c.EventTableDepth.WithLabelValues(track).Set(float64(depth))
}

// SetTurnedOutDevices updates the turned-out-device gauge.
func (c *SimulationCollector) SetTurnedOutDevices(count int) {
	if c == nil || c.TurnedOutDevices == nil {
		return
	}
	c.TurnedOutDevices.Set(float64(count))
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
