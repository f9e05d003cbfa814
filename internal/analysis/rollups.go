package analysis

import (
	"sort"
	"time"
)

// WeeklySummary aggregates daily load over one Monday-to-Sunday week
type WeeklySummary struct {
	WeekStart time.Time // Monday
	Total     float64
	Days      int
	Peak      float64
	AvgPerDay float64
}

// MonthlySummary aggregates daily load over one calendar month
type MonthlySummary struct {
	Year              int
	Month             time.Month
	Total             float64
	Days              int
	TrainingDays      int // days with nonzero load
	Peak              float64
	AvgPerDay         float64
	AvgPerTrainingDay float64
}

// getMonday returns the Monday of the week containing t, at midnight
func getMonday(t time.Time) time.Time {
	daysFromMonday := (int(t.Weekday()) + 6) % 7 // Monday = 0
	monday := t.AddDate(0, 0, -daysFromMonday)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, monday.Location())
}

// RollupWeekly groups a daily series into Monday-start weeks, oldest first
func RollupWeekly(daily []DailyLoad) []WeeklySummary {
	weeks := make(map[time.Time]*WeeklySummary)
	for _, d := range daily {
		start := getMonday(civilDate(d.Date))
		w, ok := weeks[start]
		if !ok {
			w = &WeeklySummary{WeekStart: start}
			weeks[start] = w
		}
		w.Total += d.Load
		w.Days++
		w.Peak = max(w.Peak, d.Load)
	}

	result := make([]WeeklySummary, 0, len(weeks))
	for _, w := range weeks {
		w.AvgPerDay = w.Total / float64(w.Days)
		result = append(result, *w)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].WeekStart.Before(result[j].WeekStart)
	})
	return result
}

type monthKey struct {
	year  int
	month time.Month
}

// RollupMonthly groups a daily series by calendar month, oldest first
func RollupMonthly(daily []DailyLoad) []MonthlySummary {
	months := make(map[monthKey]*MonthlySummary)
	for _, d := range daily {
		day := civilDate(d.Date)
		key := monthKey{day.Year(), day.Month()}
		m, ok := months[key]
		if !ok {
			m = &MonthlySummary{Year: key.year, Month: key.month}
			months[key] = m
		}
		m.Total += d.Load
		m.Days++
		if d.Load != 0 {
			m.TrainingDays++
		}
		m.Peak = max(m.Peak, d.Load)
	}

	result := make([]MonthlySummary, 0, len(months))
	for _, m := range months {
		m.AvgPerDay = m.Total / float64(m.Days)
		if m.TrainingDays > 0 {
			m.AvgPerTrainingDay = m.Total / float64(m.TrainingDays)
		}
		result = append(result, *m)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Year != result[j].Year {
			return result[i].Year < result[j].Year
		}
		return result[i].Month < result[j].Month
	})
	return result
}
