package service

import (
	"time"

	"trainingload/internal/analysis"
	"trainingload/internal/store"
)

// toSummary converts a cached activity into the calculator's summary input.
// Strava estimates power for rides without a meter; only measured power is used.
func toSummary(a store.Activity) analysis.ActivitySummary {
	s := analysis.ActivitySummary{
		Sport:            analysis.ParseSport(a.SportName()),
		MovingTime:       float64(a.MovingTime),
		Distance:         a.Distance,
		AverageHeartRate: positivePtr(a.AverageHeartrate),
	}
	if a.AverageSpeed > 0 {
		speed := a.AverageSpeed
		s.AverageSpeed = &speed
	}
	if a.DeviceWatts {
		s.AveragePower = positivePtr(a.AverageWatts)
		s.WeightedAveragePower = positivePtr(a.WeightedAverageWatts)
	}
	return s
}

// toStreams splits cached stream points into per-channel sample series.
// Missing samples are dropped from their channel, so each channel carries its
// own timestamps.
func toStreams(points []store.StreamPoint) analysis.Streams {
	var s analysis.Streams
	for _, p := range points {
		t := float64(p.TimeOffset)
		if p.Watts != nil {
			s.Power.Times = append(s.Power.Times, t)
			s.Power.Values = append(s.Power.Values, float64(*p.Watts))
		}
		if p.VelocitySmooth != nil {
			s.Velocity.Times = append(s.Velocity.Times, t)
			s.Velocity.Values = append(s.Velocity.Values, *p.VelocitySmooth)
		}
		if isValidHeartrate(p.Heartrate) {
			s.HeartRate.Times = append(s.HeartRate.Times, t)
			s.HeartRate.Values = append(s.HeartRate.Values, float64(*p.Heartrate))
		}
	}
	return s
}

// activityDate is the timestamp whose calendar date an activity counts towards.
// Strava encodes local wall time in start_date_local, so its date is the
// athlete's local day.
func activityDate(a store.Activity) time.Time {
	if !a.StartDateLocal.IsZero() {
		return a.StartDateLocal
	}
	return a.StartDate
}

// dayOf returns the calendar date of t as UTC midnight
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// padDaily extends a dense daily series with zero-load days so it covers
// from..to inclusive. Days already in the series are kept as they are.
func padDaily(daily []analysis.DailyLoad, from, to time.Time) []analysis.DailyLoad {
	if len(daily) == 0 {
		return daily
	}
	first := daily[0].Date
	last := daily[len(daily)-1].Date

	var padded []analysis.DailyLoad
	for d := dayOf(from); d.Before(first); d = d.AddDate(0, 0, 1) {
		padded = append(padded, analysis.DailyLoad{Date: d})
	}
	padded = append(padded, daily...)
	for d := last.AddDate(0, 0, 1); !d.After(dayOf(to)); d = d.AddDate(0, 0, 1) {
		padded = append(padded, analysis.DailyLoad{Date: d})
	}
	return padded
}

// isValidHeartrate checks if HR is in valid range
func isValidHeartrate(hr *int) bool {
	return hr != nil && *hr > MinValidHeartrate && *hr < MaxValidHeartrate
}

func positivePtr(v *float64) *float64 {
	if v == nil || *v <= 0 {
		return nil
	}
	return v
}
