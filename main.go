package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"trainingload/internal/config"
	"trainingload/internal/report"
	"trainingload/internal/service"
	"trainingload/internal/store"
	"trainingload/internal/strava"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	defaultPath, err := config.DefaultPath()
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}

	configPath := flag.String("config", defaultPath, "config file (.json, .yaml or .yml)")
	doSync := flag.Bool("sync", false, "fetch new activities from Strava before reporting")
	days := flag.Int("days", service.DefaultReportDays, "number of days to report on")
	dbPath := flag.String("db", "", "database file (default ~/.trainingload/data.db)")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Load configuration
	cfg, err := config.LoadFile(*configPath)
	if errors.Is(err, config.ErrNoConfig) {
		fmt.Println("No config file found. Creating example config...")
		if err := config.CreateExample(*configPath); err != nil {
			return fmt.Errorf("creating example config: %w", err)
		}
		fmt.Printf("\nPlease edit the config file at:\n  %s\n\n", *configPath)
		fmt.Println("Fill in your thresholds and Strava API credentials.")
		fmt.Println("Get them from: https://www.strava.com/settings/api")
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Config validation failed: %v\n\n", err)
		fmt.Printf("Please edit the config file at:\n  %s\n", *configPath)
		return nil
	}

	if *days <= 0 {
		return fmt.Errorf("-days must be positive, got %d", *days)
	}

	// Open database
	db, err := store.Open(*dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if *doSync {
		if err := syncStrava(ctx, cfg, db, logger); err != nil {
			return err
		}
	}

	training := service.NewTrainingService(db, db, cfg, logger)
	since := time.Now().AddDate(0, 0, -*days)

	r, err := training.Report(ctx, since)
	if err != nil {
		return fmt.Errorf("building report: %w", err)
	}

	return report.Render(os.Stdout, r)
}

func syncStrava(ctx context.Context, cfg *config.Config, db *store.DB, logger *slog.Logger) error {
	if err := cfg.ValidateStrava(); err != nil {
		return fmt.Errorf("strava config: %w", err)
	}

	tokenSource := strava.TokenSource(ctx, cfg.Strava.ClientID, cfg.Strava.ClientSecret, cfg.Strava.RefreshToken)
	syncSvc := service.NewSyncService(strava.NewClient(tokenSource), db, logger)

	progress := make(chan service.SyncProgress)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range progress {
			switch p.Phase {
			case service.PhaseActivities:
				fmt.Printf("\rFetching activities... %d", p.Total)
			case service.PhaseStreams:
				fmt.Printf("\rFetching streams %d/%d          ", p.Completed, p.Total)
			}
		}
		fmt.Println()
	}()

	result, err := syncSvc.SyncAll(ctx, progress)
	<-done
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	cached, err := db.CountActivities(ctx)
	if err != nil {
		return fmt.Errorf("counting activities: %w", err)
	}

	short, daily := syncSvc.RateLimitStatus()
	fmt.Printf("Synced %d activities, %d streams (%d without streams), %d cached. API calls left: %d short, %d daily\n",
		result.ActivitiesStored, result.StreamsFetched, result.StreamsMissing, cached, short, daily)
	for _, e := range result.Errors {
		logger.Warn("sync error", "error", e)
	}
	fmt.Println()

	return nil
}
