package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"trainingload/internal/analysis"
	"trainingload/internal/config"
	"trainingload/internal/store"
)

// SummarySource provides activity summaries
type SummarySource interface {
	ActivitiesSince(ctx context.Context, since time.Time) ([]store.Activity, error)
}

// StreamSource provides the sample streams of one activity. An activity
// without streams returns an empty slice.
type StreamSource interface {
	GetStreams(ctx context.Context, activityID int64) ([]store.StreamPoint, error)
}

// ScoredActivity is an activity together with its computed load
type ScoredActivity struct {
	Activity store.Activity
	Date     time.Time // the day the load counts towards
	Load     analysis.LoadScore
}

// TrainingReport is everything derived from one window of activities
type TrainingReport struct {
	Since       time.Time
	GeneratedAt time.Time

	Activities []ScoredActivity // oldest first
	Daily      []analysis.DailyLoad
	Trend      []analysis.FitnessMetrics
	Weekly     []analysis.WeeklySummary
	Monthly    []analysis.MonthlySummary
	Readiness  analysis.ReadinessReport

	Latest        analysis.FitnessMetrics
	TotalLoad     float64
	LowConfidence int // activities scored from duration alone
	Methods       map[analysis.Method]int
}

// TrainingService turns cached activities into training load, fitness and readiness
type TrainingService struct {
	summaries SummarySource
	streams   StreamSource
	logger    *slog.Logger

	calc       *analysis.Calculator
	thresholds analysis.Thresholds
	timeConsts analysis.TimeConstants
	initialCTL float64
	initialATL float64

	now func() time.Time
}

// NewTrainingService creates a training service using the athlete thresholds
// and model parameters from cfg
func NewTrainingService(summaries SummarySource, streams StreamSource, cfg *config.Config, logger *slog.Logger) *TrainingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TrainingService{
		summaries:  summaries,
		streams:    streams,
		logger:     logger,
		calc:       analysis.NewCalculator(cfg.LoadOptions()),
		thresholds: cfg.Thresholds(),
		timeConsts: cfg.TimeConstants(),
		initialCTL: cfg.Model.InitialFitness,
		initialATL: cfg.Model.InitialFatigue,
		now:        time.Now,
	}
}

// Report scores every activity since the given time and derives the daily
// series, fitness trend, rollups and readiness. The daily series runs from
// since (when non-zero) through today, so rest days after the last activity
// still decay fitness and fatigue.
func (s *TrainingService) Report(ctx context.Context, since time.Time) (*TrainingReport, error) {
	if err := s.thresholds.Validate(); err != nil {
		return nil, err
	}
	if err := s.timeConsts.Validate(); err != nil {
		return nil, err
	}

	activities, err := s.summaries.ActivitiesSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("loading activities: %w", err)
	}

	now := s.now()
	report := &TrainingReport{
		Since:       since,
		GeneratedAt: now,
		Methods:     make(map[analysis.Method]int),
	}

	dated := make([]analysis.DatedScore, 0, len(activities))
	for _, a := range activities {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		scored, err := s.scoreActivity(ctx, a)
		if err != nil {
			return nil, err
		}

		report.Activities = append(report.Activities, scored)
		report.Methods[scored.Load.Method]++
		if scored.Load.Method.LowConfidence() {
			report.LowConfidence++
		}
		dated = append(dated, analysis.DatedScore{Date: scored.Date, Score: scored.Load})
	}

	sort.SliceStable(report.Activities, func(i, j int) bool {
		return report.Activities[i].Activity.StartDate.Before(report.Activities[j].Activity.StartDate)
	})

	daily := analysis.AggregateDaily(dated)
	if len(daily) > 0 {
		from := daily[0].Date
		if !since.IsZero() {
			from = since
		}
		daily = padDaily(daily, from, now)
	}

	trend, err := analysis.CalculateFitnessTrend(daily, s.timeConsts, s.initialCTL, s.initialATL)
	if err != nil {
		return nil, fmt.Errorf("calculating fitness trend: %w", err)
	}

	report.Daily = daily
	report.Trend = trend
	report.Weekly = analysis.RollupWeekly(daily)
	report.Monthly = analysis.RollupMonthly(daily)
	report.Readiness = analysis.ReadinessFromTrend(trend)
	report.Latest = analysis.Latest(trend)
	report.TotalLoad = analysis.TotalLoad(daily)

	s.logger.Info("training report built",
		"activities", len(report.Activities),
		"days", len(daily),
		"low_confidence", report.LowConfidence,
		"readiness", report.Readiness.Status,
	)

	return report, nil
}

// scoreActivity computes the load of one activity. Missing streams fall back to
// the summary; failing to read them is an error.
func (s *TrainingService) scoreActivity(ctx context.Context, a store.Activity) (ScoredActivity, error) {
	points, err := s.streams.GetStreams(ctx, a.ID)
	if err != nil {
		return ScoredActivity{}, fmt.Errorf("loading streams for activity %d: %w", a.ID, err)
	}

	load, err := s.calc.Compute(toSummary(a), toStreams(points), s.thresholds)
	if err != nil {
		return ScoredActivity{}, fmt.Errorf("scoring activity %d: %w", a.ID, err)
	}

	if load.Method != analysis.MethodStream {
		s.logger.Debug("activity scored without primary stream",
			"activity_id", a.ID,
			"sport", load.Sport,
			"method", load.Method,
		)
	}

	return ScoredActivity{
		Activity: a,
		Date:     activityDate(a),
		Load:     load,
	}, nil
}
