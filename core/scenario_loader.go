package core

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/oceanflux/array-om-sim/model"
)

// Scenario is one fully assembled simulation input set, loadable from JSON.
type Scenario struct {
	Components []*model.Component
	Farm       model.FarmPolicy
	Params     model.SimulationParams
	Flags      model.ControlFlags
	Fleet      Fleet
	EntryPoint model.Position
}

// internal JSON shapes - kept unexported so the wire format can evolve.
type scenarioJSON struct {
	Start string  `json:"start"`
	End   string  `json:"end"`
	Seed  *uint64 `json:"seed"`

	Farm       farmJSON        `json:"farm"`
	Flags      flagsJSON       `json:"flags"`
	Components []componentJSON `json:"components"`
	Fleet      fleetJSON       `json:"fleet"`
	EntryPoint *positionJSON   `json:"entry_point"`
}

type farmJSON struct {
	WageTechnicianDay   float64 `json:"wage_technician_day"`
	WageTechnicianNight float64 `json:"wage_technician_night"`
	WageSpecialistDay   float64 `json:"wage_specialist_day"`
	WageSpecialistNight float64 `json:"wage_specialist_night"`
	WorkdaysSummer      float64 `json:"workdays_summer"`
	WorkdaysWinter      float64 `json:"workdays_winter"`
	EnergySellingPrice  float64 `json:"energy_selling_price"`
	Helideck            bool    `json:"helideck"`
	Corrective          bool    `json:"corrective_maintenance"`
	Calendar            bool    `json:"calendar_based_maintenance"`
	Condition           bool    `json:"condition_based_maintenance"`
}

type flagsJSON struct {
	PreflightCheck      bool `json:"preflight_check"`
	SelectPorts         bool `json:"select_ports"`
	IgnoreWeatherWindow bool `json:"ignore_weather_window"`
}

type componentJSON struct {
	ID           string            `json:"id"`
	Kind         string            `json:"kind"`
	Type         string            `json:"type"`
	Subtype      string            `json:"subtype"`
	Owner        string            `json:"owner"`
	AnnualRate   float64           `json:"annual_failure_rate"`
	RatedKW      float64           `json:"rated_power_kw"`
	Floatable    bool              `json:"floatable"`
	Position     positionJSON      `json:"position"`
	BreakdownAll bool              `json:"breakdown_all"`
	Breakdown    []string          `json:"breakdown"`
	Calendar     *calendarJSON     `json:"calendar"`
	Condition    *conditionJSON    `json:"condition"`
	FailureModes []failureModeJSON `json:"failure_modes"`
}

type positionJSON struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	DepthM      float64 `json:"depth_m"`
	Zone        string  `json:"zone"`
	BathymetryM float64 `json:"bathymetry_m"`
	SoilType    string  `json:"soil_type"`
}

type calendarJSON struct {
	Start         string  `json:"start"`
	End           string  `json:"end"`
	IntervalYears float64 `json:"interval_years"`
}

type conditionJSON struct {
	Start     string  `json:"start"`
	End       string  `json:"end"`
	Threshold float64 `json:"threshold"`
}

type failureModeJSON struct {
	Index          int     `json:"index"`
	ID             string  `json:"id"`
	Description    string  `json:"description"`
	Probability    float64 `json:"probability"`
	ConditionCapex float64 `json:"condition_capex"`

	SpareMassKg        float64 `json:"spare_mass_kg"`
	SpareLengthM       float64 `json:"spare_length_m"`
	SpareWidthM        float64 `json:"spare_width_m"`
	SpareHeightM       float64 `json:"spare_height_m"`
	SpareCost          float64 `json:"spare_cost"`
	SpareTransitCost   float64 `json:"spare_transit_cost"`
	SpareLoadingCost   float64 `json:"spare_loading_cost"`
	SpareLeadTimeHours float64 `json:"spare_lead_time_hours"`

	Action actionJSON `json:"action"`
}

type actionJSON struct {
	ID                  string  `json:"id"`
	Class               string  `json:"class"` // "repair" | "inspection"
	DurationHours       float64 `json:"duration_hours"`
	AccessDurationHours float64 `json:"access_duration_hours"`
	Interruptible       bool    `json:"interruptible"`
	DelayCrewHours      float64 `json:"delay_crew_hours"`
	DelayOrgHours       float64 `json:"delay_organisation_hours"`
	Technicians         int     `json:"technicians"`
	Specialists         int     `json:"specialists"`

	AccessLimits    weatherJSON `json:"access_limits"`
	OperationLimits weatherJSON `json:"operation_limits"`
}

type weatherJSON struct {
	MaxHsM       float64 `json:"max_hs_m"`
	MaxTpS       float64 `json:"max_tp_s"`
	MaxWindMS    float64 `json:"max_wind_ms"`
	MaxCurrentMS float64 `json:"max_current_ms"`
}

type fleetJSON struct {
	Vessels []vesselJSON `json:"vessels"`
	Ports   []portJSON   `json:"ports"`
}

type vesselJSON struct {
	ID             string  `json:"id"`
	Type           string  `json:"type"`
	DayRate        float64 `json:"day_rate"`
	DeckAreaM2     float64 `json:"deck_area_m2"`
	DeckCargoT     float64 `json:"deck_cargo_t"`
	DeckLoadingTM2 float64 `json:"deck_loading_t_m2"`
}

type portJSON struct {
	Index      int     `json:"index"`
	Name       string  `json:"name"`
	DistanceKm float64 `json:"distance_km"`
}

// LoadScenario reads a JSON scenario from r and assembles the full simulation
// input set. It fails on structural problems (bad JSON, unparseable dates,
// empty IDs); semantic validation is left to core.New, which behaves the same
// for hand-assembled configurations.
func LoadScenario(r io.Reader) (*Scenario, error) {
	var payload scenarioJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadScenario: decode failed: %w", err)
	}

	start, err := parseDate(payload.Start)
	if err != nil {
		return nil, fmt.Errorf("LoadScenario: start: %w", err)
	}
	end, err := parseDate(payload.End)
	if err != nil {
		return nil, fmt.Errorf("LoadScenario: end: %w", err)
	}

	params := model.DefaultParams(start, end)
	if payload.Seed != nil {
		params.Seed = *payload.Seed
	}

	sc := &Scenario{
		Farm: model.FarmPolicy{
			Wages: model.Wages{
				TechnicianDay:   payload.Farm.WageTechnicianDay,
				TechnicianNight: payload.Farm.WageTechnicianNight,
				SpecialistDay:   payload.Farm.WageSpecialistDay,
				SpecialistNight: payload.Farm.WageSpecialistNight,
			},
			WorkdaysSummer:     payload.Farm.WorkdaysSummer,
			WorkdaysWinter:     payload.Farm.WorkdaysWinter,
			EnergySellingPrice: payload.Farm.EnergySellingPrice,
			Helideck:           payload.Farm.Helideck,
			CorrectiveEnabled:  payload.Farm.Corrective,
			CalendarEnabled:    payload.Farm.Calendar,
			ConditionEnabled:   payload.Farm.Condition,
		},
		Params: params,
		Flags: model.ControlFlags{
			PreflightCheck:      payload.Flags.PreflightCheck,
			SelectPorts:         payload.Flags.SelectPorts,
			IgnoreWeatherWindow: payload.Flags.IgnoreWeatherWindow,
		},
	}

	if payload.EntryPoint != nil {
		sc.EntryPoint = payload.EntryPoint.toModel()
	}

	for _, v := range payload.Fleet.Vessels {
		sc.Fleet.Vessels = append(sc.Fleet.Vessels, Vessel{
			ID:             v.ID,
			Type:           v.Type,
			DayRate:        v.DayRate,
			DeckAreaM2:     v.DeckAreaM2,
			DeckCargoT:     v.DeckCargoT,
			DeckLoadingTM2: v.DeckLoadingTM2,
		})
	}
	for _, p := range payload.Fleet.Ports {
		sc.Fleet.Ports = append(sc.Fleet.Ports, Port{Index: p.Index, Name: p.Name, DistanceKm: p.DistanceKm})
	}

	for _, jc := range payload.Components {
		if jc.ID == "" {
			return nil, fmt.Errorf("LoadScenario: component with empty id")
		}
		c, err := jc.toModel()
		if err != nil {
			return nil, fmt.Errorf("LoadScenario: component %q: %w", jc.ID, err)
		}
		sc.Components = append(sc.Components, c)
	}

	return sc, nil
}

func (p positionJSON) toModel() model.Position {
	return model.Position{
		X:           p.X,
		Y:           p.Y,
		DepthM:      p.DepthM,
		Zone:        p.Zone,
		BathymetryM: p.BathymetryM,
		SoilType:    p.SoilType,
	}
}

func (w weatherJSON) toModel() model.WeatherLimits {
	return model.WeatherLimits{
		MaxHsM:       w.MaxHsM,
		MaxTpS:       w.MaxTpS,
		MaxWindMS:    w.MaxWindMS,
		MaxCurrentMS: w.MaxCurrentMS,
	}
}

func (jc componentJSON) toModel() (*model.Component, error) {
	c := &model.Component{
		ID:                jc.ID,
		Kind:              kindFromString(jc.Kind),
		Type:              jc.Type,
		Subtype:           jc.Subtype,
		Owner:             jc.Owner,
		AnnualFailureRate: jc.AnnualRate,
		RatedPowerKW:      jc.RatedKW,
		Floatable:         jc.Floatable,
		Position:          jc.Position.toModel(),
	}

	if jc.BreakdownAll {
		c.Breakdown = model.BreakdownAll()
	} else if len(jc.Breakdown) > 0 {
		c.Breakdown = model.BreakdownOf(jc.Breakdown...)
	}

	if jc.Calendar != nil {
		start, err := parseDate(jc.Calendar.Start)
		if err != nil {
			return nil, fmt.Errorf("calendar start: %w", err)
		}
		end, err := parseDate(jc.Calendar.End)
		if err != nil {
			return nil, fmt.Errorf("calendar end: %w", err)
		}
		c.Calendar = &model.CalendarPolicy{Start: start, End: end, IntervalYears: jc.Calendar.IntervalYears}
	}

	if jc.Condition != nil {
		start, err := parseDate(jc.Condition.Start)
		if err != nil {
			return nil, fmt.Errorf("condition start: %w", err)
		}
		end, err := parseDate(jc.Condition.End)
		if err != nil {
			return nil, fmt.Errorf("condition end: %w", err)
		}
		c.Condition = &model.ConditionPolicy{Start: start, End: end, Threshold: jc.Condition.Threshold}
	}

	for _, jf := range jc.FailureModes {
		c.FailureModes = append(c.FailureModes, model.FailureMode{
			Index:          jf.Index,
			ID:             jf.ID,
			Description:    jf.Description,
			Probability:    jf.Probability,
			ConditionCapex: jf.ConditionCapex,
			Spares: model.SpareParts{
				MassKg:        jf.SpareMassKg,
				LengthM:       jf.SpareLengthM,
				WidthM:        jf.SpareWidthM,
				HeightM:       jf.SpareHeightM,
				Cost:          jf.SpareCost,
				TransitCost:   jf.SpareTransitCost,
				LoadingCost:   jf.SpareLoadingCost,
				LeadTimeHours: jf.SpareLeadTimeHours,
			},
			Action: model.MaintenanceAction{
				ID:                  jf.Action.ID,
				Class:               classFromString(jf.Action.Class),
				DurationHours:       jf.Action.DurationHours,
				AccessDurationHours: jf.Action.AccessDurationHours,
				Interruptible:       jf.Action.Interruptible,
				DelayCrewHours:      jf.Action.DelayCrewHours,
				DelayOrgHours:       jf.Action.DelayOrgHours,
				Technicians:         jf.Action.Technicians,
				Specialists:         jf.Action.Specialists,
				AccessLimits:        jf.Action.AccessLimits.toModel(),
				OperationLimits:     jf.Action.OperationLimits.toModel(),
			},
		})
	}

	return c, nil
}

// kindFromString maps the JSON "kind" string to the element enum. Kept
// tolerant: unknown values fall back to the generic kind.
func kindFromString(s string) model.ElementKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "device":
		return model.ElementDevice
	case "subhub":
		return model.ElementSubhub
	case "static cable", "static_cable", "export cable":
		return model.ElementStaticCable
	case "dynamic cable", "dynamic_cable":
		return model.ElementDynamicCable
	case "mooring line", "mooring_line":
		return model.ElementMooringLine
	case "foundation":
		return model.ElementFoundation
	case "collection point", "collection_point", "substation":
		return model.ElementCollectionPoint
	default:
		return model.ElementGeneric
	}
}

func classFromString(s string) model.ActionClass {
	if strings.EqualFold(strings.TrimSpace(s), "inspection") {
		return model.ActionInspection
	}
	return model.ActionRepair
}

var dateFormats = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, f := range dateFormats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}
