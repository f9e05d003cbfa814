package analysis

import (
	"errors"
	"math"
	"testing"
)

func floatPtr(f float64) *float64 {
	return &f
}

func testThresholds() Thresholds {
	return Thresholds{
		FTP:       250,
		RunPace:   300, // 5:00/km
		SwimPace:  100, // 1:40/100m
		HeartRate: 160,
	}
}

func constantChannel(n int, v float64) Channel {
	return Channel{Times: seconds(n), Values: constant(n, v)}
}

func TestComputeActivityLoad(t *testing.T) {
	thresholds := testThresholds()

	tests := []struct {
		name     string
		summary  ActivitySummary
		streams  Streams
		method   Method
		sport    Sport
		expected float64
		delta    float64
		checkFn  func(t *testing.T, score LoadScore)
	}{
		{
			name: "cycling summary at FTP for one hour",
			summary: ActivitySummary{
				Sport:        SportCycling,
				MovingTime:   3600,
				AveragePower: floatPtr(250),
			},
			method:   MethodSummary,
			sport:    SportCycling,
			expected: 100,
			delta:    1e-9,
			checkFn: func(t *testing.T, score LoadScore) {
				if math.Abs(score.IntensityFactor-1) > 1e-9 {
					t.Errorf("IntensityFactor = %v, want 1.00", score.IntensityFactor)
				}
			},
		},
		{
			name: "running summary at threshold pace for 30 minutes",
			summary: ActivitySummary{
				Sport:        SportRunning,
				MovingTime:   1800,
				Distance:     6000,
				AverageSpeed: floatPtr(1000.0 / 300.0),
			},
			method:   MethodSummary,
			sport:    SportRunning,
			expected: 50,
			delta:    1e-6,
			checkFn: func(t *testing.T, score LoadScore) {
				if math.Abs(score.IntensityFactor-1) > 1e-9 {
					t.Errorf("IntensityFactor = %v, want 1.00", score.IntensityFactor)
				}
				if math.Abs(score.DurationHours-0.5) > 1e-9 {
					t.Errorf("DurationHours = %v, want 0.5", score.DurationHours)
				}
				if math.Abs(score.NormalizedEffort-300) > 1e-6 {
					t.Errorf("NormalizedEffort = %v, want 300 s/km", score.NormalizedEffort)
				}
			},
		},
		{
			name: "zero-signal run falls back to duration estimate",
			summary: ActivitySummary{
				Sport:      SportRunning,
				MovingTime: 7200,
			},
			method:   MethodDurationEstimate,
			sport:    SportRunning,
			expected: 120,
			delta:    1e-9,
			checkFn: func(t *testing.T, score LoadScore) {
				if !score.Method.LowConfidence() {
					t.Error("duration estimate should be low confidence")
				}
			},
		},
		{
			name: "cycling power stream beats summary",
			summary: ActivitySummary{
				Sport:        SportCycling,
				MovingTime:   3600,
				AveragePower: floatPtr(100),
			},
			streams:  Streams{Power: constantChannel(3600, 250)},
			method:   MethodStream,
			sport:    SportCycling,
			expected: 100,
			delta:    1e-6,
			checkFn: func(t *testing.T, score LoadScore) {
				if math.Abs(score.NormalizedEffort-250) > 1e-6 {
					t.Errorf("NormalizedEffort = %v, want 250W", score.NormalizedEffort)
				}
			},
		},
		{
			name: "harder ride scores IF squared",
			summary: ActivitySummary{
				Sport:      SportCycling,
				MovingTime: 3600,
			},
			streams:  Streams{Power: constantChannel(3600, 275)},
			method:   MethodStream,
			sport:    SportCycling,
			expected: 121, // IF = 1.1
			delta:    1e-6,
		},
		{
			name: "running velocity stream normalized as pace",
			summary: ActivitySummary{
				Sport:      SportRunning,
				MovingTime: 3600,
			},
			streams:  Streams{Velocity: constantChannel(3600, 1000.0/300.0)},
			method:   MethodStream,
			sport:    SportRunning,
			expected: 100,
			delta:    1e-6,
		},
		{
			name: "slower running pace scores less",
			summary: ActivitySummary{
				Sport:      SportRunning,
				MovingTime: 3600,
			},
			streams:  Streams{Velocity: constantChannel(3600, 1000.0/375.0)}, // 6:15/km
			method:   MethodStream,
			sport:    SportRunning,
			expected: 64, // IF = 300/375 = 0.8
			delta:    1e-6,
		},
		{
			name: "swimming velocity stream uses per-100m pace",
			summary: ActivitySummary{
				Sport:      SportSwimming,
				MovingTime: 3600,
			},
			streams:  Streams{Velocity: constantChannel(3600, 1.0)}, // 1:40/100m
			method:   MethodStream,
			sport:    SportSwimming,
			expected: 100,
			delta:    1e-6,
		},
		{
			name: "weighted average power preferred over average",
			summary: ActivitySummary{
				Sport:                SportCycling,
				MovingTime:           3600,
				AveragePower:         floatPtr(200),
				WeightedAveragePower: floatPtr(250),
			},
			method:   MethodSummary,
			sport:    SportCycling,
			expected: 100,
			delta:    1e-9,
		},
		{
			name: "all zero power stream falls through to summary",
			summary: ActivitySummary{
				Sport:        SportCycling,
				MovingTime:   3600,
				AveragePower: floatPtr(250),
			},
			streams:  Streams{Power: constantChannel(600, 0)},
			method:   MethodSummary,
			sport:    SportCycling,
			expected: 100,
			delta:    1e-9,
		},
		{
			name: "heart rate summary with damping",
			summary: ActivitySummary{
				Sport:            SportCycling,
				MovingTime:       3600,
				AverageHeartRate: floatPtr(160),
			},
			method:   MethodHeartRate,
			sport:    SportCycling,
			expected: 81, // IF = 0.9 * 160/160
			delta:    1e-9,
		},
		{
			name: "heart rate stream preferred over summary average",
			summary: ActivitySummary{
				Sport:            SportRunning,
				MovingTime:       3600,
				AverageHeartRate: floatPtr(120),
			},
			streams:  Streams{HeartRate: constantChannel(3600, 160.0/0.9)},
			method:   MethodHeartRate,
			sport:    SportRunning,
			expected: 100,
			delta:    1e-6,
			checkFn: func(t *testing.T, score LoadScore) {
				if math.Abs(score.AverageHeartRate-160.0/0.9) > 1e-9 {
					t.Errorf("AverageHeartRate = %v, want %v", score.AverageHeartRate, 160.0/0.9)
				}
			},
		},
		{
			name: "generic sport ignores power and uses heart rate",
			summary: ActivitySummary{
				Sport:            SportGeneric,
				MovingTime:       1800,
				AverageHeartRate: floatPtr(160.0 / 0.9),
			},
			streams:  Streams{Power: constantChannel(1800, 300)},
			method:   MethodHeartRate,
			sport:    SportGeneric,
			expected: 50,
			delta:    1e-6,
		},
		{
			name: "unrecognized sport routes to generic",
			summary: ActivitySummary{
				Sport:      Sport("yoga"),
				MovingTime: 3600,
			},
			method:   MethodDurationEstimate,
			sport:    SportGeneric,
			expected: 50,
			delta:    1e-9,
		},
		{
			name: "swimming duration estimate",
			summary: ActivitySummary{
				Sport:      SportSwimming,
				MovingTime: 5400,
			},
			method:   MethodDurationEstimate,
			sport:    SportSwimming,
			expected: 75,
			delta:    1e-9,
		},
		{
			name: "zero moving time scores zero",
			summary: ActivitySummary{
				Sport:        SportCycling,
				MovingTime:   0,
				AveragePower: floatPtr(300),
			},
			method:   MethodDurationEstimate,
			sport:    SportCycling,
			expected: 0,
		},
		{
			name: "zero distance run with time still gets an estimate",
			summary: ActivitySummary{
				Sport:      SportRunning,
				MovingTime: 3600,
				Distance:   0,
			},
			method:   MethodDurationEstimate,
			sport:    SportRunning,
			expected: 60,
			delta:    1e-9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := ComputeActivityLoad(tt.summary, tt.streams, thresholds)
			if err != nil {
				t.Fatalf("ComputeActivityLoad() error = %v", err)
			}
			if score.Method != tt.method {
				t.Errorf("Method = %q, want %q", score.Method, tt.method)
			}
			if score.Sport != tt.sport {
				t.Errorf("Sport = %q, want %q", score.Sport, tt.sport)
			}
			if math.Abs(score.Score-tt.expected) > tt.delta {
				t.Errorf("Score = %v, want %v (±%v)", score.Score, tt.expected, tt.delta)
			}
			if score.Score < 0 {
				t.Errorf("Score = %v, must not be negative", score.Score)
			}
			if tt.checkFn != nil {
				tt.checkFn(t, score)
			}
		})
	}
}

func TestComputeActivityLoadThresholdEffortIsHundred(t *testing.T) {
	thresholds := testThresholds()

	variants := []struct {
		name    string
		summary ActivitySummary
		streams Streams
	}{
		{"cycling stream", ActivitySummary{Sport: SportCycling, MovingTime: 3600}, Streams{Power: constantChannel(3600, 250)}},
		{"cycling summary", ActivitySummary{Sport: SportCycling, MovingTime: 3600, AveragePower: floatPtr(250)}, Streams{}},
		{"running stream", ActivitySummary{Sport: SportRunning, MovingTime: 3600}, Streams{Velocity: constantChannel(3600, 1000.0/300.0)}},
		{"running summary", ActivitySummary{Sport: SportRunning, MovingTime: 3600, AverageSpeed: floatPtr(1000.0 / 300.0)}, Streams{}},
		{"swimming stream", ActivitySummary{Sport: SportSwimming, MovingTime: 3600}, Streams{Velocity: constantChannel(3600, 1)}},
		{"swimming summary", ActivitySummary{Sport: SportSwimming, MovingTime: 3600, AverageSpeed: floatPtr(1)}, Streams{}},
		{"generic heart rate", ActivitySummary{Sport: SportGeneric, MovingTime: 3600, AverageHeartRate: floatPtr(160.0 / 0.9)}, Streams{}},
	}

	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			score, err := ComputeActivityLoad(v.summary, v.streams, thresholds)
			if err != nil {
				t.Fatalf("ComputeActivityLoad() error = %v", err)
			}
			if math.Abs(score.IntensityFactor-1) > 1e-6 {
				t.Errorf("IntensityFactor = %v, want 1", score.IntensityFactor)
			}
			if math.Abs(score.Score-100) > 1e-4 {
				t.Errorf("Score = %v, want 100", score.Score)
			}
		})
	}
}

func TestComputeActivityLoadRejectsInvalidThresholds(t *testing.T) {
	summary := ActivitySummary{Sport: SportCycling, MovingTime: 3600, AveragePower: floatPtr(200)}

	tests := []struct {
		name   string
		modify func(*Thresholds)
	}{
		{"zero ftp", func(th *Thresholds) { th.FTP = 0 }},
		{"negative run pace", func(th *Thresholds) { th.RunPace = -300 }},
		{"missing swim pace", func(th *Thresholds) { th.SwimPace = 0 }},
		{"NaN heart rate", func(th *Thresholds) { th.HeartRate = math.NaN() }},
		{"infinite ftp", func(th *Thresholds) { th.FTP = math.Inf(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thresholds := testThresholds()
			tt.modify(&thresholds)

			_, err := ComputeActivityLoad(summary, Streams{}, thresholds)
			if !errors.Is(err, ErrInvalidThresholds) {
				t.Errorf("error = %v, want ErrInvalidThresholds", err)
			}
		})
	}
}

func TestCalculatorOptions(t *testing.T) {
	thresholds := testThresholds()

	opts := DefaultLoadOptions()
	opts.HRDamping[SportSwimming] = 0.8
	opts.DurationRates[SportRunning] = 70
	calc := NewCalculator(opts)

	t.Run("per-sport heart rate damping", func(t *testing.T) {
		score, err := calc.Compute(ActivitySummary{
			Sport:            SportSwimming,
			MovingTime:       3600,
			AverageHeartRate: floatPtr(160),
		}, Streams{}, thresholds)
		if err != nil {
			t.Fatalf("Compute() error = %v", err)
		}
		if math.Abs(score.IntensityFactor-0.8) > 1e-9 {
			t.Errorf("IntensityFactor = %v, want 0.8", score.IntensityFactor)
		}
	})

	t.Run("configured duration rate", func(t *testing.T) {
		score, err := calc.Compute(ActivitySummary{Sport: SportRunning, MovingTime: 7200}, Streams{}, thresholds)
		if err != nil {
			t.Fatalf("Compute() error = %v", err)
		}
		if math.Abs(score.Score-140) > 1e-9 {
			t.Errorf("Score = %v, want 140", score.Score)
		}
	})

	t.Run("empty options fall back to defaults", func(t *testing.T) {
		score, err := NewCalculator(LoadOptions{}).Compute(ActivitySummary{
			Sport:            SportCycling,
			MovingTime:       3600,
			AverageHeartRate: floatPtr(160),
		}, Streams{}, thresholds)
		if err != nil {
			t.Fatalf("Compute() error = %v", err)
		}
		if math.Abs(score.Score-81) > 1e-9 {
			t.Errorf("Score = %v, want 81", score.Score)
		}
	})
}

func TestChannel(t *testing.T) {
	tests := []struct {
		name      string
		channel   Channel
		available bool
		mean      float64
	}{
		{"empty", Channel{}, false, 0},
		{"all zero", Channel{Values: []float64{0, 0, 0}}, false, 0},
		{"ignores dropouts", Channel{Values: []float64{0, 150, 0, 170}}, true, 160},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.channel.Available(); got != tt.available {
				t.Errorf("Available() = %v, want %v", got, tt.available)
			}
			if got := tt.channel.Mean(); math.Abs(got-tt.mean) > 1e-9 {
				t.Errorf("Mean() = %v, want %v", got, tt.mean)
			}
		})
	}
}
