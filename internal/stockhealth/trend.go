package stockhealth

import (
	"math/rand/v2"
	"time"

	"github.com/rdearco/nuel-supply-sight-tw/internal/domain"
)

// Perturbation bounds applied to the synthetic days of a trend series.
const (
	stockJitter  = 20.0
	demandJitter = 15.0
)

// TrendLabelLayout renders "Aug 7" style chart labels.
const TrendLabelLayout = "Jan 2"

// Jitter supplies uniform values in [0, 1). *rand.Rand satisfies it.
type Jitter interface {
	Float64() float64
}

type globalJitter struct{}

func (globalJitter) Float64() float64 { return rand.Float64() }

// DefaultJitter draws from the process-wide math/rand/v2 source, which is
// safe for concurrent use.
var DefaultJitter Jitter = globalJitter{}

// GenerateTrend builds one point per day of the range, oldest first, ending
// on today. The last point carries the exact KPI totals; every earlier point
// is a decorative perturbation around them since no history exists. Call it
// on every read: the series is not meant to be cached.
func GenerateTrend(kpis domain.KPIData, r domain.DateRange, today time.Time, jitter Jitter) []domain.TrendDataPoint {
	if jitter == nil {
		jitter = DefaultJitter
	}

	days := r.Days()
	end := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	start := end.AddDate(0, 0, -(days - 1))

	points := make([]domain.TrendDataPoint, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)

		point := domain.TrendDataPoint{
			Date:   day.Format(TrendLabelLayout),
			Day:    day,
			Stock:  float64(kpis.TotalStock),
			Demand: float64(kpis.TotalDemand),
		}
		if i < days-1 {
			point.Stock += uniform(jitter, stockJitter)
			point.Demand += uniform(jitter, demandJitter)
		}

		points = append(points, point)
	}

	return points
}

// uniform returns a value in [-bound, bound).
func uniform(j Jitter, bound float64) float64 {
	return j.Float64()*2*bound - bound
}
