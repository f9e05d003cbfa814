// Package report renders a training report for the terminal.
package report

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"

	"trainingload/internal/service"
)

const (
	recentActivities = 10
	recentWeeks      = 8
	chartDays        = 90
)

// Render writes the report to w
func Render(w io.Writer, r *service.TrainingReport) error {
	_, err := io.WriteString(w, View(r)+"\n")
	return err
}

// View returns the rendered report
func View(r *service.TrainingReport) string {
	var sections []string

	title := "Training Load"
	if !r.Since.IsZero() {
		title += " since " + r.Since.Format("Jan 2, 2006")
	}
	sections = append(sections, headerStyle.Render(title))

	if len(r.Activities) == 0 {
		sections = append(sections, cardStyle.Render("No activities in this period. Run with -sync to fetch them."))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, renderFitnessCard(r), "  ", renderReadinessCard(r))
	sections = append(sections, topRow)

	if len(r.Trend) > 2 {
		sections = append(sections, renderChart(r))
	}

	sections = append(sections, renderWeeks(r))
	sections = append(sections, renderActivities(r))
	sections = append(sections, statusStyle.Render(summaryLine(r)))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderFitnessCard(r *service.TrainingReport) string {
	title := cardTitleStyle.Render("Current Fitness")
	latest := r.Latest.Rounded()

	lines := []string{
		renderMetric("Fitness (CTL)", fmt.Sprintf("%.1f", latest.CTL)),
		renderMetric("Fatigue (ATL)", fmt.Sprintf("%.1f", latest.ATL)),
		renderMetric("Form (TSB)", formatForm(latest.TSB)),
		renderMetric("Total load", humanize.Comma(int64(math.Round(r.TotalLoad)))),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(36).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func renderReadinessCard(r *service.TrainingReport) string {
	title := cardTitleStyle.Render("Readiness")
	rd := r.Readiness

	lines := []string{
		renderMetric("Status", statusLabel(rd.Status), statusStyleFor(rd.Status)),
		renderMetric("Score", fmt.Sprintf("%d/100", rd.Score)),
		renderBar(float64(rd.Score)/100, 24),
		"",
		mutedStyle.Render(rd.Guidance),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(40).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

// renderChart plots fitness, fatigue and form over the most recent days
func renderChart(r *service.TrainingReport) string {
	trend := r.Trend
	if len(trend) > chartDays {
		trend = trend[len(trend)-chartDays:]
	}

	ctl := make([]float64, len(trend))
	atl := make([]float64, len(trend))
	tsb := make([]float64, len(trend))
	for i, m := range trend {
		ctl[i] = m.CTL
		atl[i] = m.ATL
		tsb[i] = m.TSB
	}

	title := cardTitleStyle.Render(fmt.Sprintf("Fitness / Fatigue / Form - last %d days", len(trend)))
	graph := asciigraph.PlotMany([][]float64{ctl, atl, tsb},
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(asciigraph.Green, asciigraph.Red, asciigraph.Blue),
		asciigraph.SeriesLegends("Fitness", "Fatigue", "Form"),
	)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph))
}

func renderWeeks(r *service.TrainingReport) string {
	title := cardTitleStyle.Render("Weekly Load")

	weeks := r.Weekly
	if len(weeks) > recentWeeks {
		weeks = weeks[len(weeks)-recentWeeks:]
	}

	var peak float64
	for _, w := range weeks {
		peak = max(peak, w.Total)
	}

	rows := []string{tableHeaderStyle.Render(fmt.Sprintf("%-10s  %6s  %6s  %-20s", "Week", "Load", "Peak", ""))}
	for _, w := range weeks {
		fraction := 0.0
		if peak > 0 {
			fraction = w.Total / peak
		}
		rows = append(rows, tableRowStyle.Render(fmt.Sprintf("%-10s  %6.0f  %6.0f  %s",
			w.WeekStart.Format("Jan 02"),
			w.Total,
			w.Peak,
			renderBar(fraction, 20),
		)))
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}

func renderActivities(r *service.TrainingReport) string {
	title := cardTitleStyle.Render("Recent Activities")

	header := tableHeaderStyle.Render(fmt.Sprintf("%-6s  %-22s  %-8s  %8s  %-10s  %4s  %5s",
		"Date", "Name", "Sport", "Time", "Method", "IF", "Load"))
	rows := []string{header}

	activities := r.Activities
	if len(activities) > recentActivities {
		activities = activities[len(activities)-recentActivities:]
	}

	// Newest first
	for i := len(activities) - 1; i >= 0; i-- {
		sa := activities[i]
		load := sa.Load

		intensity := "-"
		if load.IntensityFactor > 0 {
			intensity = fmt.Sprintf("%.2f", load.IntensityFactor)
		}

		rows = append(rows, tableRowStyle.Render(fmt.Sprintf("%-6s  %-22s  %-8s  %8s  %-10s  %4s  %5.0f",
			sa.Date.Format("Jan 02"),
			truncateName(sa.Activity.Name, 22),
			load.Sport,
			formatDuration(load.DurationHours),
			methodLabel(load.Method),
			intensity,
			load.Score,
		)))
		if effort := formatEffort(load); effort != "-" {
			rows = append(rows, tableRowStyle.Render(mutedStyle.Render(fmt.Sprintf("%8s normalized %s", "", effort))))
		}
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}

// summaryLine describes the report coverage in one line
func summaryLine(r *service.TrainingReport) string {
	line := fmt.Sprintf("%s activities over %s days",
		humanize.Comma(int64(len(r.Activities))),
		humanize.Comma(int64(len(r.Daily))))

	if n := len(r.Activities); n > 0 {
		last := r.Activities[n-1].Activity.StartDate
		line += ", last " + humanize.RelTime(last, r.GeneratedAt, "ago", "from now")
	}
	if r.LowConfidence > 0 {
		line += fmt.Sprintf(" | * %d estimated from duration only", r.LowConfidence)
	}
	return line
}
