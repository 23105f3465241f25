package core

import (
	"time"

	"github.com/oceanflux/array-om-sim/model"
	"github.com/oceanflux/array-om-sim/opscal"
)

// CostEngine prices a realized action window. It is a pure function of the
// window, the staffing, the wage table and the spare costs: identical inputs
// from different tracks produce identical cost.
type CostEngine struct {
	Farm         model.FarmPolicy
	DayStartHour int
}

// ActionCost converts a realized [depart, end] window into labor and spare
// cost. The season is taken from the request date's month; sea-time hours are
// split into the four day/night x weekday/weekend wage buckets, with weekend
// hours paid at the night rate. It returns the spare cost alone and the full
// spare-plus-labor cost.
func (e CostEngine) ActionCost(requestDate, depart, end time.Time, seaTimeHours float64,
	action model.MaintenanceAction, spares model.SpareParts) (spareCost, totalCost float64) {

	workdays := e.Farm.WorkdaysFor(requestDate)
	weekday, weekend := opscal.SplitWeekendHours(seaTimeHours, workdays)
	day, night := opscal.SplitDayNightHours(depart, end, seaTimeHours, e.DayStartHour)
	b := opscal.Allocate(day, night, weekday, weekend)

	spareCost = spares.TotalCost()
	totalCost = spareCost

	w := e.Farm.Wages
	offHours := b.DayWeekend + b.NightWeekday + b.NightWeekend

	specialists := float64(action.Specialists)
	totalCost += specialists * (w.SpecialistDay*b.DayWeekday + w.SpecialistNight*offHours)

	technicians := float64(action.Technicians)
	totalCost += technicians * (w.TechnicianDay*b.DayWeekday + w.TechnicianNight*offHours)

	return spareCost, totalCost
}
