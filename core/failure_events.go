package core

import (
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/oceanflux/array-om-sim/model"
)

// DrawFailureDates converts an annual failure rate into a dated event stream
// via a Poisson arrival process: independent exponential inter-arrival times
// at a daily rate of annualRate/365.25, accumulated from start until the
// horizon is exceeded. A zero rate yields an empty sequence.
func DrawFailureDates(src rand.Source, annualRate float64, start time.Time, horizonDays float64) []time.Time {
	if annualRate <= 0 || horizonDays <= 0 {
		return nil
	}

	exp := distuv.Exponential{
		Rate: annualRate / model.YearDays,
		Src:  src,
	}

	var dates []time.Time
	elapsedDays := 0.0
	for {
		elapsedDays += exp.Rand()
		if elapsedDays > horizonDays {
			return dates
		}
		dates = append(dates, start.Add(time.Duration(elapsedDays*model.DayHours*float64(time.Hour))))
	}
}
