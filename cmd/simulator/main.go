package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/oceanflux/array-om-sim/core"
	"github.com/oceanflux/array-om-sim/internal/logging"
	"github.com/oceanflux/array-om-sim/internal/observability"
	"github.com/oceanflux/array-om-sim/kb"
	"github.com/oceanflux/array-om-sim/model"
)

func main() {
	scenarioPath := flag.String("scenario", "", "path to a JSON scenario file (overrides the built-in demo array)")
	years := flag.Float64("years", 10, "operation horizon in years")
	seed := flag.Uint64("seed", 1, "failure draw seed")
	devices := flag.Int("devices", 2, "number of devices in the array")
	corrective := flag.Bool("corrective", true, "enable the corrective track")
	calendar := flag.Bool("calendar", true, "enable the calendar track")
	condition := flag.Bool("condition", true, "enable the condition track")
	ignoreWeather := flag.Bool("ignore-weather", false, "complete weather-blocked actions at the horizon with zero cost")
	metricsAddr := flag.String("metrics-addr", "", "optional address to expose Prometheus metrics on")

	flag.Parse()

	logger := logging.NewFromEnv()

	metrics, err := observability.NewSimulationCollector(nil)
	if err != nil {
		panic(err)
	}
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				fmt.Printf("metrics server error: %v\n", err)
			}
		}()
	}

	scenario, err := buildScenario(*scenarioPath, *years, *devices)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scenario: %v\n", err)
		os.Exit(1)
	}
	scenario.Params.Seed = *seed
	if *scenarioPath == "" {
		scenario.Farm.CorrectiveEnabled = *corrective
		scenario.Farm.CalendarEnabled = *calendar
		scenario.Farm.ConditionEnabled = *condition
		scenario.Flags.IgnoreWeatherWindow = *ignoreWeather
	}

	// Register through the store so duplicate IDs and dangling owners are
	// rejected before the run starts.
	store := kb.NewStore()
	for _, c := range scenario.Components {
		if err := store.AddComponent(c); err != nil {
			fmt.Fprintf(os.Stderr, "scenario: %v\n", err)
			os.Exit(1)
		}
	}

	sim, err := core.New(core.Config{
		Components: store.Components(),
		Farm:       scenario.Farm,
		Params:     scenario.Params,
		Flags:      scenario.Flags,
		Provider:   &stubProvider{},
		Fleet:      scenario.Fleet,
		EntryPoint: scenario.EntryPoint,
		Logger:     logger,
		Metrics:    metrics,
	})
	if err != nil {
		panic(err)
	}

	fmt.Printf("Starting simulation: %d devices, horizon %.1f years, seed %d\n",
		len(store.Devices()), scenario.Params.EndDate.Sub(scenario.Params.StartDate).Hours()/(365.25*24), *seed)

	results, err := sim.Run(context.Background())
	if err != nil {
		panic(err)
	}

	fmt.Printf("Run %s complete.\n", results.RunID)
	fmt.Printf("  LCOE (O&M): %.5f /kWh\n", results.LCOE)
	fmt.Printf("  Annual array energy: %.0f kWh\n", results.AnnualArrayEnergyKWh)
	fmt.Printf("  Annual opex: %.2f   annual capex: %.2f\n", results.AnnualOpex, results.AnnualCapex)

	devIDs := make([]string, 0, len(results.AnnualEnergyPerDeviceKWh))
	for id := range results.AnnualEnergyPerDeviceKWh {
		devIDs = append(devIDs, id)
	}
	sort.Strings(devIDs)
	for _, id := range devIDs {
		fmt.Printf("  %s: energy %.0f kWh/y, downtime %.1f h/y\n",
			id, results.AnnualEnergyPerDeviceKWh[id], results.AnnualDowntimePerDevice[id])
	}

	for _, track := range []core.Track{core.TrackCalendar, core.TrackCorrective, core.TrackCondition} {
		rows := results.EventLogs[track]
		fmt.Printf("  %s track: %d realized actions\n", track, len(rows))
	}
}

// buildScenario loads a JSON scenario when a path is given, otherwise it
// assembles the built-in demo array.
func buildScenario(path string, years float64, devices int) (*core.Scenario, error) {
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return core.LoadScenario(f)
	}

	start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Duration(years * 365.25 * 24 * float64(time.Hour)))

	return &core.Scenario{
		Components: demoComponents(devices, start, end),
		Farm: model.FarmPolicy{
			Wages: model.Wages{
				TechnicianDay:   25,
				TechnicianNight: 38,
				SpecialistDay:   50,
				SpecialistNight: 75,
			},
			WorkdaysSummer:     7,
			WorkdaysWinter:     5,
			EnergySellingPrice: 0.20,
		},
		Params: model.DefaultParams(start, end),
		Fleet: core.Fleet{
			Vessels: []core.Vessel{
				{ID: "ctv-1", Type: "CTV", DayRate: 3500, DeckAreaM2: 50, DeckCargoT: 10, DeckLoadingTM2: 1},
				{ID: "hlv-1", Type: "HLV", DayRate: 110000, DeckAreaM2: 1200, DeckCargoT: 2500, DeckLoadingTM2: 8},
			},
			Ports: []core.Port{{Index: 21, Name: "Base port", DistanceKm: 12}},
		},
	}, nil
}

// demoComponents builds a small synthetic array: n devices with a PTO
// subsystem each, plus a shared export cable.
func demoComponents(n int, start, end time.Time) []*model.Component {
	limits := model.WeatherLimits{MaxHsM: 2.5, MaxTpS: 12, MaxWindMS: 15, MaxCurrentMS: 2}

	var components []*model.Component
	for i := 1; i <= n; i++ {
		devID := fmt.Sprintf("device%03d", i)

		components = append(components, &model.Component{
			ID:           devID,
			Kind:         model.ElementDevice,
			Type:         "device",
			RatedPowerKW: 500,
			Position:     model.Position{X: float64(i) * 500, Y: 0, DepthM: 40, Zone: "31U"},
		})

		components = append(components, &model.Component{
			ID:                fmt.Sprintf("pto%03d", i),
			Kind:              model.ElementGeneric,
			Type:              "Pto",
			Subtype:           "Hydraulic",
			Owner:             devID,
			AnnualFailureRate: 0.6,
			Position:          model.Position{X: float64(i) * 500, Y: 0, DepthM: 40, Zone: "31U"},
			Calendar: &model.CalendarPolicy{
				Start:         start.AddDate(1, 0, 0),
				End:           end,
				IntervalYears: 2,
			},
			Condition: &model.ConditionPolicy{
				Start:     start,
				End:       end,
				Threshold: 0.8,
			},
			FailureModes: []model.FailureMode{
				{
					Index:          1,
					ID:             "MoS1",
					Description:    "hydraulic seal wear",
					Probability:    1.0,
					ConditionCapex: 15000,
					Spares: model.SpareParts{
						MassKg: 400, LengthM: 2, WidthM: 1, HeightM: 1,
						Cost: 8000, TransitCost: 500, LoadingCost: 250,
						LeadTimeHours: 72,
					},
					Action: model.MaintenanceAction{
						ID:                  "RtP1",
						Class:               model.ActionRepair,
						DurationHours:       8,
						AccessDurationHours: 2,
						DelayCrewHours:      12,
						DelayOrgHours:       12,
						Technicians:         3,
						Specialists:         1,
						AccessLimits:        limits,
						OperationLimits:     limits,
					},
				},
			},
		})
	}

	components = append(components, &model.Component{
		ID:                "exportcable001",
		Kind:              model.ElementStaticCable,
		Type:              "Export Cable",
		Subtype:           "Static",
		AnnualFailureRate: 0.1,
		Breakdown:         model.BreakdownAll(),
		Position:          model.Position{X: 0, Y: -2000, DepthM: 55, Zone: "31U"},
		FailureModes: []model.FailureMode{
			{
				Index:       1,
				ID:          "MoS2",
				Description: "insulation fault",
				Probability: 1.0,
				Spares: model.SpareParts{
					MassKg: 6000, LengthM: 40, WidthM: 3, HeightM: 3,
					Cost: 120000, TransitCost: 9000, LoadingCost: 4000,
					LeadTimeHours: 480,
				},
				Action: model.MaintenanceAction{
					ID:                  "RtP2",
					Class:               model.ActionRepair,
					DurationHours:       72,
					AccessDurationHours: 6,
					DelayCrewHours:      24,
					DelayOrgHours:       48,
					Technicians:         6,
					Specialists:         2,
					AccessLimits:        limits,
					OperationLimits:     limits,
				},
			},
		},
	})

	return components
}

// stubProvider is a deterministic logistics stand-in for the demo: every
// request gets a solution departing a day after the request, with sea time
// covering access and maintenance plus a transit allowance.
type stubProvider struct{}

func (stubProvider) Solve(_ context.Context, req core.LogisticsRequest, fleet core.Fleet) (core.LogisticsResult, error) {
	depart := req.RequestDate.Add(24 * time.Hour)
	seaTime := req.AccessDurationHours + req.MaintenanceDurationHours + 12

	vessel := "CTV"
	dayRate := 3500.0
	if req.Spares.MassKg > 1000 {
		vessel = "HLV"
		dayRate = 110000.0
	}
	for _, v := range fleet.Vessels {
		if v.Type == vessel {
			dayRate = v.DayRate
		}
	}

	return core.LogisticsResult{
		Verdict: core.SolutionFound,
		Optimal: &core.Optimal{
			DepartDate:   depart,
			EndDate:      depart.Add(time.Duration(seaTime * float64(time.Hour))),
			TotalCost:    dayRate * seaTime / 24,
			SeaTimeHours: seaTime,
			VesselType:   vessel,
			VesselCount:  1,
			Equipment:    []string{"rov"},
		},
	}, nil
}
