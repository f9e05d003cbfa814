package analysis

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidThresholds is returned when an athlete threshold is missing, zero or negative
var ErrInvalidThresholds = errors.New("invalid athlete thresholds")

// Method identifies which signal produced a load score
type Method string

const (
	MethodStream           Method = "stream"
	MethodSummary          Method = "summary"
	MethodHeartRate        Method = "heart_rate"
	MethodDurationEstimate Method = "duration_estimate"
)

// LowConfidence reports whether the score is a guess from duration alone
func (m Method) LowConfidence() bool {
	return m == MethodDurationEstimate
}

const (
	// DefaultHRDamping scales heart rate intensity down, since heart rate
	// under-represents anaerobic cost
	DefaultHRDamping = 0.9

	secondsPerHour = 3600.0
)

// Thresholds holds per-athlete calibration constants. All are required.
type Thresholds struct {
	FTP       float64 // watts
	RunPace   float64 // seconds per km
	SwimPace  float64 // seconds per 100m
	HeartRate float64 // bpm
}

// Validate rejects any threshold that is missing, zero, negative or not finite
func (t Thresholds) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"ftp", t.FTP},
		{"threshold_run_pace", t.RunPace},
		{"threshold_swim_pace", t.SwimPace},
		{"threshold_hr", t.HeartRate},
	}
	for _, f := range fields {
		if !(f.value > 0) || math.IsInf(f.value, 1) {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidThresholds, f.name, f.value)
		}
	}
	return nil
}

// Channel is one sample stream, timestamps in elapsed seconds paired with values by index
type Channel struct {
	Times  []float64
	Values []float64
}

// Available reports whether the channel carries any usable (positive) signal
func (c Channel) Available() bool {
	for _, v := range c.Values {
		if v > 0 {
			return true
		}
	}
	return false
}

// Mean returns the average of the positive samples, or 0 if there are none
func (c Channel) Mean() float64 {
	var total float64
	var count int
	for _, v := range c.Values {
		if v > 0 {
			total += v
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// Streams holds the sample channels for one activity. Any of them may be empty.
type Streams struct {
	Power     Channel // watts
	Velocity  Channel // m/s
	HeartRate Channel // bpm
}

// ActivitySummary describes one completed session
type ActivitySummary struct {
	Sport      Sport
	MovingTime float64 // seconds
	Distance   float64 // meters

	// Whole-activity averages, nil when the upstream provider has none
	AveragePower         *float64 // watts
	WeightedAveragePower *float64 // watts
	AverageHeartRate     *float64 // bpm
	AverageSpeed         *float64 // m/s
}

// LoadScore is the training load of one activity and how it was derived
type LoadScore struct {
	Sport           Sport
	Method          Method
	Score           float64
	IntensityFactor float64

	// NormalizedEffort is normalized power in watts for cycling, or
	// normalized pace (s/km running, s/100m swimming). Zero for heart rate
	// and duration estimates.
	NormalizedEffort float64
	AverageHeartRate float64
	DurationHours    float64
}

// LoadOptions tunes the heuristic constants of the calculator
type LoadOptions struct {
	// WindowSeconds is the rolling window for normalized power/pace
	WindowSeconds float64

	// HRDamping is applied to the heart rate intensity factor, per sport.
	// Sports without an entry use DefaultHRDamping.
	HRDamping map[Sport]float64

	// DurationRates is the load per hour assumed when no signal exists
	DurationRates map[Sport]float64
}

// DefaultDurationRates returns the per-hour load estimates used without any signal
func DefaultDurationRates() map[Sport]float64 {
	return map[Sport]float64{
		SportCycling:  50,
		SportRunning:  60,
		SportSwimming: 50,
		SportGeneric:  50,
	}
}

// DefaultLoadOptions returns the standard calculator constants
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		WindowSeconds: DefaultWindowSeconds,
		HRDamping: map[Sport]float64{
			SportCycling:  DefaultHRDamping,
			SportRunning:  DefaultHRDamping,
			SportSwimming: DefaultHRDamping,
			SportGeneric:  DefaultHRDamping,
		},
		DurationRates: DefaultDurationRates(),
	}
}

// Calculator scores activities with a fixed set of options
type Calculator struct {
	opts LoadOptions
}

// NewCalculator creates a calculator. Zero or missing options fall back to defaults.
func NewCalculator(opts LoadOptions) *Calculator {
	if opts.WindowSeconds <= 0 {
		opts.WindowSeconds = DefaultWindowSeconds
	}
	return &Calculator{opts: opts}
}

var defaultCalculator = NewCalculator(DefaultLoadOptions())

// ComputeActivityLoad scores one activity with the default options
func ComputeActivityLoad(summary ActivitySummary, streams Streams, thresholds Thresholds) (LoadScore, error) {
	return defaultCalculator.Compute(summary, streams, thresholds)
}

// Compute scores one activity.
//
// Signals are tried richest first: the sport's primary stream, its
// whole-activity average, heart rate, then a duration-only estimate. The
// chosen tier is reported in LoadScore.Method.
func (c *Calculator) Compute(summary ActivitySummary, streams Streams, thresholds Thresholds) (LoadScore, error) {
	if err := thresholds.Validate(); err != nil {
		return LoadScore{}, err
	}

	sport, profile := profileFor(summary.Sport)

	if summary.MovingTime <= 0 || math.IsNaN(summary.MovingTime) {
		return LoadScore{Sport: sport, Method: MethodDurationEstimate}, nil
	}
	hours := summary.MovingTime / secondsPerHour

	if effort, ok := c.streamEffort(profile, streams); ok {
		return scoreFromEffort(sport, MethodStream, profile, effort, hours, thresholds), nil
	}

	if effort, ok := summaryEffort(profile, summary); ok {
		return scoreFromEffort(sport, MethodSummary, profile, effort, hours, thresholds), nil
	}

	if hr := averageHeartRate(streams, summary); hr > 0 {
		intensity := c.hrDamping(sport) * hr / thresholds.HeartRate
		return LoadScore{
			Sport:            sport,
			Method:           MethodHeartRate,
			Score:            stressScore(intensity, hours),
			IntensityFactor:  intensity,
			AverageHeartRate: hr,
			DurationHours:    hours,
		}, nil
	}

	return LoadScore{
		Sport:         sport,
		Method:        MethodDurationEstimate,
		Score:         c.durationRate(sport) * hours,
		DurationHours: hours,
	}, nil
}

// streamEffort normalizes the primary channel. Velocity is normalized as speed
// and converted to pace afterwards, so stopped samples never divide by zero.
func (c *Calculator) streamEffort(p sportProfile, streams Streams) (float64, bool) {
	switch p.primary {
	case channelPower:
		if !streams.Power.Available() {
			return 0, false
		}
		np := NormalizedValue(streams.Power.Times, streams.Power.Values, c.opts.WindowSeconds)
		return np, np > 0
	case channelVelocity:
		if !streams.Velocity.Available() {
			return 0, false
		}
		ns := NormalizedValue(streams.Velocity.Times, streams.Velocity.Values, c.opts.WindowSeconds)
		if ns <= 0 {
			return 0, false
		}
		return p.speedToPace(ns), true
	}
	return 0, false
}

// summaryEffort reads the primary channel's whole-activity average
func summaryEffort(p sportProfile, s ActivitySummary) (float64, bool) {
	switch p.primary {
	case channelPower:
		if positive(s.WeightedAveragePower) {
			return *s.WeightedAveragePower, true
		}
		if positive(s.AveragePower) {
			return *s.AveragePower, true
		}
	case channelVelocity:
		if positive(s.AverageSpeed) {
			return p.speedToPace(*s.AverageSpeed), true
		}
	}
	return 0, false
}

// averageHeartRate prefers the stream mean over the summary average
func averageHeartRate(streams Streams, s ActivitySummary) float64 {
	if hr := streams.HeartRate.Mean(); hr > 0 {
		return hr
	}
	if positive(s.AverageHeartRate) {
		return *s.AverageHeartRate
	}
	return 0
}

func scoreFromEffort(sport Sport, method Method, p sportProfile, effort, hours float64, t Thresholds) LoadScore {
	intensity := p.intensity(effort, t)
	return LoadScore{
		Sport:            sport,
		Method:           method,
		Score:            stressScore(intensity, hours),
		IntensityFactor:  intensity,
		NormalizedEffort: effort,
		DurationHours:    hours,
	}
}

// stressScore is IF² × hours × 100, so one hour at threshold scores 100
func stressScore(intensity, hours float64) float64 {
	return intensity * intensity * hours * 100
}

func (c *Calculator) hrDamping(s Sport) float64 {
	if d, ok := c.opts.HRDamping[s]; ok && d > 0 {
		return d
	}
	return DefaultHRDamping
}

func (c *Calculator) durationRate(s Sport) float64 {
	if r, ok := c.opts.DurationRates[s]; ok && r >= 0 {
		return r
	}
	return DefaultDurationRates()[s]
}

func positive(v *float64) bool {
	return v != nil && *v > 0 && !math.IsInf(*v, 1)
}
