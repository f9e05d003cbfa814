package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"trainingload/internal/analysis"
	"trainingload/internal/service"
	"trainingload/internal/store"
)

func testReport() *service.TrainingReport {
	day := func(d int) time.Time { return time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC) }

	activities := []service.ScoredActivity{
		{
			Activity: store.Activity{ID: 1, Name: "Tempo Ride", StartDate: day(6).Add(9 * time.Hour)},
			Date:     day(6),
			Load: analysis.LoadScore{
				Sport: analysis.SportCycling, Method: analysis.MethodStream,
				Score: 100, IntensityFactor: 1, NormalizedEffort: 250, DurationHours: 1,
			},
		},
		{
			Activity: store.Activity{ID: 2, Name: "Weights", StartDate: day(7).Add(18 * time.Hour)},
			Date:     day(7),
			Load: analysis.LoadScore{
				Sport: analysis.SportGeneric, Method: analysis.MethodDurationEstimate,
				Score: 25, DurationHours: 0.5,
			},
		},
	}
	daily := []analysis.DailyLoad{{Date: day(6), Load: 100}, {Date: day(7), Load: 25}, {Date: day(8)}}
	trend, _ := analysis.CalculateFitnessTrend(daily, analysis.DefaultTimeConstants(), 0, 0)

	return &service.TrainingReport{
		Since:         day(1),
		GeneratedAt:   day(10),
		Activities:    activities,
		Daily:         daily,
		Trend:         trend,
		Weekly:        analysis.RollupWeekly(daily),
		Monthly:       analysis.RollupMonthly(daily),
		Readiness:     analysis.ReadinessFromTrend(trend),
		Latest:        analysis.Latest(trend),
		TotalLoad:     125,
		LowConfidence: 1,
		Methods:       map[analysis.Method]int{analysis.MethodStream: 1, analysis.MethodDurationEstimate: 1},
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, testReport()); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Training Load since May 1, 2024",
		"Fitness (CTL)",
		"Readiness",
		"Weekly Load",
		"Tempo Ride",
		"estimate*",
		"250 W",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderNoActivities(t *testing.T) {
	out := View(&service.TrainingReport{GeneratedAt: time.Now()})
	if !strings.Contains(out, "No activities") {
		t.Errorf("output = %q, want a no activities message", out)
	}
	if strings.Contains(out, "Weekly Load") {
		t.Error("empty report should not render tables")
	}
}

func TestSummaryLine(t *testing.T) {
	got := summaryLine(testReport())
	for _, want := range []string{"2 activities over 3 days", "last 2 days ago", "1 estimated from duration only"} {
		if !strings.Contains(got, want) {
			t.Errorf("summaryLine() = %q, missing %q", got, want)
		}
	}
}

func TestFormatEffort(t *testing.T) {
	tests := []struct {
		name  string
		score analysis.LoadScore
		want  string
	}{
		{"cycling watts", analysis.LoadScore{Sport: analysis.SportCycling, NormalizedEffort: 212.4}, "212 W"},
		{"running pace", analysis.LoadScore{Sport: analysis.SportRunning, NormalizedEffort: 270}, "4:30/km"},
		{"swimming pace", analysis.LoadScore{Sport: analysis.SportSwimming, NormalizedEffort: 105}, "1:45/100m"},
		{"no effort", analysis.LoadScore{Sport: analysis.SportRunning}, "-"},
		{"generic", analysis.LoadScore{Sport: analysis.SportGeneric, NormalizedEffort: 10}, "-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatEffort(tt.score); got != tt.want {
				t.Errorf("formatEffort() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		hours float64
		want  string
	}{
		{0.5, "30m"},
		{1, "1h 0m"},
		{1.75, "1h 45m"},
		{0, "0m"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.hours); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.hours, got, tt.want)
		}
	}
}

func TestTruncateName(t *testing.T) {
	if got := truncateName("Short", 10); got != "Short" {
		t.Errorf("truncateName() = %q", got)
	}
	if got := truncateName("A very long activity name", 10); got != "A very ..." {
		t.Errorf("truncateName() = %q, want %q", got, "A very ...")
	}
}
