package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const activityColumns = `id, athlete_id, name, type, sport_type, start_date, start_date_local, timezone,
			distance, moving_time, elapsed_time, total_elevation_gain, average_speed,
			average_heartrate, max_heartrate, average_watts, weighted_average_watts,
			device_watts, has_heartrate, streams_synced`

// UpsertActivity inserts or updates an activity. The streams_synced flag of an
// existing row is preserved.
func (db *DB) UpsertActivity(ctx context.Context, a *Activity) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO activities (`+activityColumns+`, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			athlete_id = excluded.athlete_id,
			name = excluded.name,
			type = excluded.type,
			sport_type = excluded.sport_type,
			start_date = excluded.start_date,
			start_date_local = excluded.start_date_local,
			timezone = excluded.timezone,
			distance = excluded.distance,
			moving_time = excluded.moving_time,
			elapsed_time = excluded.elapsed_time,
			total_elevation_gain = excluded.total_elevation_gain,
			average_speed = excluded.average_speed,
			average_heartrate = excluded.average_heartrate,
			max_heartrate = excluded.max_heartrate,
			average_watts = excluded.average_watts,
			weighted_average_watts = excluded.weighted_average_watts,
			device_watts = excluded.device_watts,
			has_heartrate = excluded.has_heartrate,
			updated_at = CURRENT_TIMESTAMP
	`,
		a.ID, a.AthleteID, a.Name, a.Type, a.SportType,
		a.StartDate.UTC().Format(time.RFC3339), a.StartDateLocal.Format(time.RFC3339), a.Timezone,
		a.Distance, a.MovingTime, a.ElapsedTime, a.TotalElevationGain, a.AverageSpeed,
		a.AverageHeartrate, a.MaxHeartrate, a.AverageWatts, a.WeightedAverageWatts,
		boolToInt(a.DeviceWatts), boolToInt(a.HasHeartrate), boolToInt(a.StreamsSynced),
	)
	return err
}

// GetActivity retrieves an activity by ID
func (db *DB) GetActivity(ctx context.Context, id int64) (*Activity, error) {
	row := db.QueryRowContext(ctx, `SELECT `+activityColumns+` FROM activities WHERE id = ?`, id)

	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ActivitiesSince returns every activity that started at or after since,
// oldest first. A zero since returns the whole cache.
func (db *DB) ActivitiesSince(ctx context.Context, since time.Time) ([]Activity, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+activityColumns+`
		FROM activities
		WHERE start_date >= ?
		ORDER BY start_date ASC, id ASC
	`, since.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// GetActivitiesNeedingStreams returns the most recent activities whose
// streams haven't been synced yet
func (db *DB) GetActivitiesNeedingStreams(ctx context.Context, limit int) ([]Activity, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+activityColumns+`
		FROM activities
		WHERE streams_synced = 0 AND moving_time > 0
		ORDER BY start_date DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// MarkStreamsSynced marks an activity's streams as synced
func (db *DB) MarkStreamsSynced(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `
		UPDATE activities
		SET streams_synced = 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrActivityNotFound
	}
	return nil
}

// CountActivities returns the total number of activities
func (db *DB) CountActivities(ctx context.Context) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM activities").Scan(&count)
	return count, err
}

type scanner interface {
	Scan(dest ...any) error
}

// scanActivity scans a single activity from a row
func scanActivity(row scanner) (*Activity, error) {
	var a Activity
	var startDate, startDateLocal string
	var timezone sql.NullString
	var elevation, avgSpeed sql.NullFloat64
	var deviceWatts, hasHR, streamsSynced int

	err := row.Scan(
		&a.ID, &a.AthleteID, &a.Name, &a.Type, &a.SportType, &startDate, &startDateLocal, &timezone,
		&a.Distance, &a.MovingTime, &a.ElapsedTime, &elevation, &avgSpeed,
		&a.AverageHeartrate, &a.MaxHeartrate, &a.AverageWatts, &a.WeightedAverageWatts,
		&deviceWatts, &hasHR, &streamsSynced,
	)
	if err != nil {
		return nil, err
	}

	var parseErr error
	a.StartDate, parseErr = time.Parse(time.RFC3339, startDate)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing start_date %q: %w", startDate, parseErr)
	}
	a.StartDateLocal, parseErr = time.Parse(time.RFC3339, startDateLocal)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing start_date_local %q: %w", startDateLocal, parseErr)
	}
	a.Timezone = timezone.String
	a.TotalElevationGain = elevation.Float64
	a.AverageSpeed = avgSpeed.Float64
	a.DeviceWatts = deviceWatts == 1
	a.HasHeartrate = hasHR == 1
	a.StreamsSynced = streamsSynced == 1

	return &a, nil
}

// scanActivities scans multiple activities from rows
func scanActivities(rows *sql.Rows) ([]Activity, error) {
	var activities []Activity

	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *a)
	}

	return activities, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
