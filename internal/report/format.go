package report

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"

	"trainingload/internal/analysis"
)

func formatDuration(hours float64) string {
	minutes := int(math.Round(hours * 60))
	h := minutes / 60
	m := minutes % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// formatPace formats seconds per unit distance as m:ss
func formatPace(seconds float64) string {
	total := int(math.Round(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// formatEffort renders the normalized effort in the unit of its sport
func formatEffort(s analysis.LoadScore) string {
	if s.NormalizedEffort <= 0 {
		return "-"
	}
	switch s.Sport {
	case analysis.SportCycling:
		return fmt.Sprintf("%.0f W", s.NormalizedEffort)
	case analysis.SportRunning:
		return formatPace(s.NormalizedEffort) + "/km"
	case analysis.SportSwimming:
		return formatPace(s.NormalizedEffort) + "/100m"
	default:
		return "-"
	}
}

func methodLabel(m analysis.Method) string {
	switch m {
	case analysis.MethodStream:
		return "stream"
	case analysis.MethodSummary:
		return "summary"
	case analysis.MethodHeartRate:
		return "heart rate"
	case analysis.MethodDurationEstimate:
		return "estimate*"
	default:
		return string(m)
	}
}

func statusLabel(s analysis.ReadinessStatus) string {
	switch s {
	case analysis.StatusRaceReady:
		return "Race ready"
	case analysis.StatusRaceCapable:
		return "Race capable"
	case analysis.StatusContinueTraining:
		return "Continue training"
	case analysis.StatusNeedsRecovery:
		return "Needs recovery"
	default:
		return "Insufficient data"
	}
}

func statusStyleFor(s analysis.ReadinessStatus) lipgloss.Style {
	switch s {
	case analysis.StatusRaceReady, analysis.StatusRaceCapable:
		return goodStyle
	case analysis.StatusContinueTraining:
		return warningStyle
	case analysis.StatusNeedsRecovery:
		return badStyle
	default:
		return mutedStyle
	}
}

// formatForm renders TSB with an explicit sign
func formatForm(tsb float64) string {
	return fmt.Sprintf("%+.0f", tsb)
}

func truncateName(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
