package analysis

import "time"

// DatedScore is one activity's load score with the time it was performed
type DatedScore struct {
	Date  time.Time
	Score LoadScore
}

// DailyLoad represents training load for a single day
type DailyLoad struct {
	Date time.Time // midnight UTC of the civil date
	Load float64
}

// civilDate returns midnight UTC of t's calendar date in t's own location
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AggregateDaily folds per-activity scores into a dense daily series.
// Scores on the same calendar date are summed and days without activity
// between the first and last date are filled with zero load.
func AggregateDaily(scores []DatedScore) []DailyLoad {
	if len(scores) == 0 {
		return nil
	}

	loadMap := make(map[time.Time]float64)
	first := civilDate(scores[0].Date)
	last := first
	for _, s := range scores {
		day := civilDate(s.Date)
		loadMap[day] += s.Score.Score // Sum multiple activities on same day
		if day.Before(first) {
			first = day
		}
		if day.After(last) {
			last = day
		}
	}

	daily := make([]DailyLoad, 0, daysBetween(first, last)+1)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		daily = append(daily, DailyLoad{Date: d, Load: loadMap[d]})
	}

	return daily
}

// daysBetween counts whole days from a to b, both UTC midnights
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// TotalLoad sums the load over a daily series
func TotalLoad(daily []DailyLoad) float64 {
	var total float64
	for _, d := range daily {
		total += d.Load
	}
	return total
}
