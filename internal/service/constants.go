package service

import "time"

const (
	// HR validation thresholds
	MinValidHeartrate = 50
	MaxValidHeartrate = 220

	// Sync batch sizes
	ActivitiesPerPage = 100
	StreamBatchSize   = 50 // per run, to stay well inside the 15-minute rate limit

	// SyncOverlap is re-fetched before the last sync, for activities uploaded after it
	SyncOverlap = 7 * 24 * time.Hour

	// DefaultReportDays is how far back a report looks when no window is given
	DefaultReportDays = 180
)

// Sync phases reported on the progress channel
const (
	PhaseActivities = "activities"
	PhaseStreams    = "streams"
)
