package analysis

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrInvalidTimeConstant is returned when a fitness or fatigue time constant is not positive
	ErrInvalidTimeConstant = errors.New("time constant must be positive")

	// ErrDailySequence is returned when a daily series is not one entry per consecutive day
	ErrDailySequence = errors.New("daily series out of sequence")
)

// TimeConstants are the decay periods, in days, of the fitness and fatigue filters
type TimeConstants struct {
	Fitness float64
	Fatigue float64
}

// DefaultTimeConstants returns the standard 42-day fitness and 7-day fatigue constants
func DefaultTimeConstants() TimeConstants {
	return TimeConstants{
		Fitness: 42,
		Fatigue: 7,
	}
}

// Validate checks both constants are positive and finite
func (tc TimeConstants) Validate() error {
	if !(tc.Fitness > 0) || math.IsInf(tc.Fitness, 1) {
		return fmt.Errorf("%w: fitness = %v", ErrInvalidTimeConstant, tc.Fitness)
	}
	if !(tc.Fatigue > 0) || math.IsInf(tc.Fatigue, 1) {
		return fmt.Errorf("%w: fatigue = %v", ErrInvalidTimeConstant, tc.Fatigue)
	}
	return nil
}

// FitnessMetrics represents CTL/ATL/TSB for a day
type FitnessMetrics struct {
	Date time.Time
	CTL  float64 // Chronic Training Load (42-day) - "Fitness"
	ATL  float64 // Acute Training Load (7-day) - "Fatigue"
	TSB  float64 // Training Stress Balance (CTL - ATL) - "Form"
}

// Rounded returns the metrics rounded to one decimal place for display
func (m FitnessMetrics) Rounded() FitnessMetrics {
	return FitnessMetrics{
		Date: m.Date,
		CTL:  round1(m.CTL),
		ATL:  round1(m.ATL),
		TSB:  round1(m.TSB),
	}
}

// CalculateFitnessTrend runs the fitness and fatigue filters over a daily series.
//
// The series must hold exactly one entry per consecutive calendar day in
// ascending order, as produced by AggregateDaily; anything else is rejected
// with ErrDailySequence. Each day applies
//
//	ctl += (load - ctl) * (1 - e^(-1/τ_fitness))
//	atl += (load - atl) * (1 - e^(-1/τ_fatigue))
//
// starting from initialCTL and initialATL. Values keep full precision; use
// Rounded for display.
func CalculateFitnessTrend(dailyLoads []DailyLoad, tc TimeConstants, initialCTL, initialATL float64) ([]FitnessMetrics, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	if len(dailyLoads) == 0 {
		return nil, nil
	}

	ctlDecay := 1 - math.Exp(-1/tc.Fitness)
	atlDecay := 1 - math.Exp(-1/tc.Fatigue)

	metrics := make([]FitnessMetrics, 0, len(dailyLoads))
	ctl, atl := initialCTL, initialATL
	prev := time.Time{}

	for i, dl := range dailyLoads {
		day := civilDate(dl.Date)
		if i > 0 && !day.Equal(prev.AddDate(0, 0, 1)) {
			return nil, fmt.Errorf("%w: %s follows %s",
				ErrDailySequence, day.Format("2006-01-02"), prev.Format("2006-01-02"))
		}
		prev = day

		ctl += (dl.Load - ctl) * ctlDecay
		atl += (dl.Load - atl) * atlDecay

		metrics = append(metrics, FitnessMetrics{
			Date: day,
			CTL:  ctl,
			ATL:  atl,
			TSB:  ctl - atl,
		})
	}

	return metrics, nil
}

// Latest returns the most recent CTL/ATL/TSB values, or the zero value when empty
func Latest(metrics []FitnessMetrics) FitnessMetrics {
	if len(metrics) == 0 {
		return FitnessMetrics{}
	}
	return metrics[len(metrics)-1]
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
