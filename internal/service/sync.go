package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"trainingload/internal/store"
	"trainingload/internal/strava"
)

// SyncService orchestrates syncing data from Strava into the local cache
type SyncService struct {
	client *strava.Client
	store  *store.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewSyncService creates a new sync service
func NewSyncService(client *strava.Client, db *store.DB, logger *slog.Logger) *SyncService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncService{
		client: client,
		store:  db,
		logger: logger,
		now:    time.Now,
	}
}

// SyncProgress reports progress during sync
type SyncProgress struct {
	Phase           string // PhaseActivities or PhaseStreams
	Total           int
	Completed       int
	CurrentActivity string
}

// SyncResult contains the results of a sync operation
type SyncResult struct {
	ActivitiesFetched int
	ActivitiesStored  int
	StreamsFetched    int
	StreamsMissing    int // activities Strava has no streams for
	Errors            []error
}

// SyncAll performs a full sync: activities -> streams.
// If progress is non-nil it receives updates and is closed on return.
func (s *SyncService) SyncAll(ctx context.Context, progress chan<- SyncProgress) (*SyncResult, error) {
	if progress != nil {
		defer close(progress)
	}

	result := &SyncResult{}

	// Phase 1: Sync activity summaries
	if err := s.syncActivities(ctx, progress, result); err != nil {
		return result, fmt.Errorf("syncing activities: %w", err)
	}

	// Phase 2: Fetch streams for activities that need them
	if err := s.syncStreams(ctx, progress, result); err != nil {
		return result, fmt.Errorf("syncing streams: %w", err)
	}

	s.logger.Info("sync complete",
		"fetched", result.ActivitiesFetched,
		"stored", result.ActivitiesStored,
		"streams", result.StreamsFetched,
		"errors", len(result.Errors),
	)

	return result, nil
}

// syncActivities fetches activities newer than the last sync and stores them.
// Every sport is kept; the load calculator decides how to score it.
func (s *SyncService) syncActivities(ctx context.Context, progress chan<- SyncProgress, result *SyncResult) error {
	last, err := s.store.LastSync(ctx)
	if err != nil {
		// A corrupt marker only costs a full re-fetch
		s.logger.Warn("ignoring unreadable sync state", "error", err)
		last = time.Time{}
	}
	after := fetchAfter(last)
	started := s.now()

	report(ctx, progress, SyncProgress{Phase: PhaseActivities})

	page := 1
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		activities, err := s.client.GetActivities(ctx, after, page, ActivitiesPerPage)
		if err != nil {
			return fmt.Errorf("fetching page %d: %w", page, err)
		}

		if len(activities) == 0 {
			break
		}

		result.ActivitiesFetched += len(activities)

		for _, a := range activities {
			if err := s.store.UpsertActivity(ctx, convertActivity(a)); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("storing activity %d: %w", a.ID, err))
				continue
			}
			result.ActivitiesStored++
		}

		report(ctx, progress, SyncProgress{
			Phase:     PhaseActivities,
			Total:     result.ActivitiesFetched,
			Completed: result.ActivitiesStored,
		})

		if len(activities) < ActivitiesPerPage {
			break // Last page
		}

		page++
	}

	if err := s.store.SetLastSync(ctx, started); err != nil {
		return fmt.Errorf("saving sync state: %w", err)
	}

	return nil
}

// fetchAfter returns the start-time cutoff for fetching activities. Strava
// filters by start time, so activities uploaded late still fall inside the
// overlap with the previous sync.
func fetchAfter(lastSync time.Time) time.Time {
	if lastSync.IsZero() {
		return lastSync
	}
	return lastSync.Add(-SyncOverlap)
}

// syncStreams fetches sample streams for activities that need them, at most
// StreamBatchSize per run
func (s *SyncService) syncStreams(ctx context.Context, progress chan<- SyncProgress, result *SyncResult) error {
	activities, err := s.store.GetActivitiesNeedingStreams(ctx, StreamBatchSize)
	if err != nil {
		return fmt.Errorf("getting activities needing streams: %w", err)
	}

	if len(activities) == 0 {
		return nil
	}

	for i, activity := range activities {
		if err := ctx.Err(); err != nil {
			return err
		}

		report(ctx, progress, SyncProgress{
			Phase:           PhaseStreams,
			Total:           len(activities),
			Completed:       i,
			CurrentActivity: activity.Name,
		})

		streams, err := s.client.GetActivityStreams(ctx, activity.ID)
		var apiErr *strava.APIError
		switch {
		case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
			// Manual uploads have no streams; don't ask again
			s.logger.Debug("activity has no streams", "activity_id", activity.ID)
			result.StreamsMissing++
		case err != nil:
			// Keep going - the activity is retried on the next sync
			result.Errors = append(result.Errors, fmt.Errorf("activity %d (%s): %w", activity.ID, activity.Name, err))
			continue
		default:
			points := convertStreams(activity.ID, streams)
			if len(points) > 0 {
				if err := s.store.SaveStreams(ctx, activity.ID, points); err != nil {
					result.Errors = append(result.Errors, fmt.Errorf("saving streams for %d: %w", activity.ID, err))
					continue
				}
			}
			result.StreamsFetched++
		}

		if err := s.store.MarkStreamsSynced(ctx, activity.ID); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("marking synced for %d: %w", activity.ID, err))
		}
	}

	report(ctx, progress, SyncProgress{
		Phase:     PhaseStreams,
		Total:     len(activities),
		Completed: len(activities),
	})

	return nil
}

// RateLimitStatus returns the current rate limit status from the client
func (s *SyncService) RateLimitStatus() (shortRemaining, dailyRemaining int) {
	return s.client.RateLimitStatus()
}

// report sends p unless there is no listener or the sync is being cancelled
func report(ctx context.Context, progress chan<- SyncProgress, p SyncProgress) {
	if progress == nil {
		return
	}
	select {
	case progress <- p:
	case <-ctx.Done():
	}
}

// convertActivity converts a Strava API activity to a store activity
func convertActivity(a strava.Activity) *store.Activity {
	activity := &store.Activity{
		ID:                 a.ID,
		AthleteID:          a.Athlete.ID,
		Name:               a.Name,
		Type:               a.Type,
		SportType:          a.SportType,
		StartDate:          a.StartDate,
		StartDateLocal:     a.StartDateLocal,
		Timezone:           a.Timezone,
		Distance:           a.Distance,
		MovingTime:         a.MovingTime,
		ElapsedTime:        a.ElapsedTime,
		TotalElevationGain: a.TotalElevationGain,
		AverageSpeed:       a.AverageSpeed,
		DeviceWatts:        a.DeviceWatts,
		HasHeartrate:       a.HasHeartrate,
	}

	if a.AverageHeartrate > 0 {
		activity.AverageHeartrate = &a.AverageHeartrate
	}
	if a.MaxHeartrate > 0 {
		activity.MaxHeartrate = &a.MaxHeartrate
	}
	if a.AverageWatts > 0 {
		activity.AverageWatts = &a.AverageWatts
	}
	if a.WeightedAverageWatts > 0 {
		activity.WeightedAverageWatts = &a.WeightedAverageWatts
	}

	return activity
}

// convertStreams converts Strava API streams to store stream points
func convertStreams(activityID int64, s *strava.Streams) []store.StreamPoint {
	if s == nil || s.Time == nil {
		return nil
	}

	length := len(s.Time.Data)
	points := make([]store.StreamPoint, length)

	for i := 0; i < length; i++ {
		p := store.StreamPoint{
			ActivityID: activityID,
			TimeOffset: s.Time.Data[i],
		}

		if s.VelocitySmooth != nil && i < len(s.VelocitySmooth.Data) {
			vel := s.VelocitySmooth.Data[i]
			p.VelocitySmooth = &vel
		}

		if s.Heartrate != nil && i < len(s.Heartrate.Data) {
			hr := s.Heartrate.Data[i]
			p.Heartrate = &hr
		}

		if s.Watts != nil && i < len(s.Watts.Data) {
			p.Watts = s.Watts.Data[i]
		}

		if s.Cadence != nil && i < len(s.Cadence.Data) {
			cad := s.Cadence.Data[i]
			p.Cadence = &cad
		}

		if s.Altitude != nil && i < len(s.Altitude.Data) {
			alt := s.Altitude.Data[i]
			p.Altitude = &alt
		}

		if s.Distance != nil && i < len(s.Distance.Data) {
			dist := s.Distance.Data[i]
			p.Distance = &dist
		}

		points[i] = p
	}

	return points
}
