package store

import "time"

// Activity represents a cached Strava activity summary
type Activity struct {
	ID                   int64     `db:"id"`
	AthleteID            int64     `db:"athlete_id"`
	Name                 string    `db:"name"`
	Type                 string    `db:"type"`
	SportType            string    `db:"sport_type"`
	StartDate            time.Time `db:"start_date"`
	StartDateLocal       time.Time `db:"start_date_local"`
	Timezone             string    `db:"timezone"`
	Distance             float64   `db:"distance"`     // meters
	MovingTime           int       `db:"moving_time"`  // seconds
	ElapsedTime          int       `db:"elapsed_time"` // seconds
	TotalElevationGain   float64   `db:"total_elevation_gain"`
	AverageSpeed         float64   `db:"average_speed"`          // m/s
	AverageHeartrate     *float64  `db:"average_heartrate"`      // nullable
	MaxHeartrate         *float64  `db:"max_heartrate"`          // nullable
	AverageWatts         *float64  `db:"average_watts"`          // nullable
	WeightedAverageWatts *float64  `db:"weighted_average_watts"` // nullable
	DeviceWatts          bool      `db:"device_watts"`           // power from a meter, not estimated
	HasHeartrate         bool      `db:"has_heartrate"`
	StreamsSynced        bool      `db:"streams_synced"`
}

// SportName returns the most specific sport label Strava gave the activity
func (a Activity) SportName() string {
	if a.SportType != "" {
		return a.SportType
	}
	return a.Type
}

// StreamPoint represents a single sample from activity streams
type StreamPoint struct {
	ActivityID     int64    `db:"activity_id"`
	TimeOffset     int      `db:"time_offset"`     // seconds
	VelocitySmooth *float64 `db:"velocity_smooth"` // m/s
	Heartrate      *int     `db:"heartrate"`       // bpm
	Watts          *int     `db:"watts"`
	Cadence        *int     `db:"cadence"`
	Altitude       *float64 `db:"altitude"` // meters
	Distance       *float64 `db:"distance"` // cumulative meters
}
