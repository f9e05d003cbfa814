package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"trainingload/internal/analysis"
)

// Config represents the application configuration
type Config struct {
	Strava  StravaConfig  `json:"strava" yaml:"strava"`
	Athlete AthleteConfig `json:"athlete" yaml:"athlete"`
	Model   ModelConfig   `json:"model" yaml:"model"`
}

// StravaConfig holds Strava API credentials
type StravaConfig struct {
	ClientID     string `json:"client_id" yaml:"client_id"`
	ClientSecret string `json:"client_secret" yaml:"client_secret"`
	RefreshToken string `json:"refresh_token,omitempty" yaml:"refresh_token,omitempty"`
}

// AthleteConfig holds the athlete's calibration thresholds. None of them have defaults.
type AthleteConfig struct {
	FTP               float64 `json:"ftp" yaml:"ftp"`                                 // watts
	ThresholdRunPace  float64 `json:"threshold_run_pace" yaml:"threshold_run_pace"`   // seconds per km
	ThresholdSwimPace float64 `json:"threshold_swim_pace" yaml:"threshold_swim_pace"` // seconds per 100m
	ThresholdHR       float64 `json:"threshold_hr" yaml:"threshold_hr"`
	MaxHR             float64 `json:"max_hr,omitempty" yaml:"max_hr,omitempty"`
}

// ModelConfig holds the tunable constants of the load model
type ModelConfig struct {
	FitnessDays    float64 `json:"fitness_days" yaml:"fitness_days"`
	FatigueDays    float64 `json:"fatigue_days" yaml:"fatigue_days"`
	InitialFitness float64 `json:"initial_fitness" yaml:"initial_fitness"`
	InitialFatigue float64 `json:"initial_fatigue" yaml:"initial_fatigue"`
	WindowSeconds  float64 `json:"window_seconds" yaml:"window_seconds"`

	// Keyed by sport name (cycling, running, swimming, generic)
	HRDamping         map[string]float64 `json:"hr_damping,omitempty" yaml:"hr_damping,omitempty"`
	DurationEstimates map[string]float64 `json:"duration_estimates,omitempty" yaml:"duration_estimates,omitempty"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// Environment variables that override the Strava credentials in the file
const (
	EnvClientID     = "TRAININGLOAD_STRAVA_CLIENT_ID"
	EnvClientSecret = "TRAININGLOAD_STRAVA_CLIENT_SECRET"
	EnvRefreshToken = "TRAININGLOAD_STRAVA_REFRESH_TOKEN"
)

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	tc := analysis.DefaultTimeConstants()
	return Config{
		Model: ModelConfig{
			FitnessDays:   tc.Fitness,
			FatigueDays:   tc.Fatigue,
			WindowSeconds: analysis.DefaultWindowSeconds,
		},
	}
}

// LoadFile reads the configuration from path. Files ending in .yaml or .yml
// are parsed as YAML, anything else as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Fields absent from the file keep their defaults; explicit values,
	// including zero, are left for Validate
	cfg := DefaultConfig()
	if isYAML(path) {
		err = yaml.Unmarshal(data, &cfg)
	} else {
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvOverrides()

	return &cfg, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvClientID); v != "" {
		c.Strava.ClientID = v
	}
	if v := os.Getenv(EnvClientSecret); v != "" {
		c.Strava.ClientSecret = v
	}
	if v := os.Getenv(EnvRefreshToken); v != "" {
		c.Strava.RefreshToken = v
	}
}

// SaveFile writes the configuration to path, as YAML or JSON by extension
func SaveFile(path string, cfg *Config) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file at path if none exists
func CreateExample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	example.Strava = StravaConfig{
		ClientID:     "YOUR_CLIENT_ID",
		ClientSecret: "YOUR_CLIENT_SECRET",
	}
	example.Athlete = AthleteConfig{
		FTP:               250,
		ThresholdRunPace:  270,
		ThresholdSwimPace: 105,
		ThresholdHR:       165,
		MaxHR:             185,
	}
	example.Model.DurationEstimates = map[string]float64{}
	for sport, rate := range analysis.DefaultDurationRates() {
		example.Model.DurationEstimates[string(sport)] = rate
	}

	return SaveFile(path, &example)
}

// Validate checks the athlete thresholds and model parameters. Strava
// credentials are checked separately by ValidateStrava, since they are only
// needed to sync.
func (c *Config) Validate() error {
	if err := c.Thresholds().Validate(); err != nil {
		return fmt.Errorf("athlete: %w", err)
	}

	// Validate threshold_hr < max_hr when both are set
	if c.Athlete.MaxHR > 0 && c.Athlete.ThresholdHR >= c.Athlete.MaxHR {
		return fmt.Errorf("athlete.threshold_hr (%v) must be less than athlete.max_hr (%v)", c.Athlete.ThresholdHR, c.Athlete.MaxHR)
	}

	if err := c.TimeConstants().Validate(); err != nil {
		return fmt.Errorf("model: %w", err)
	}
	if c.Model.WindowSeconds < 0 {
		return fmt.Errorf("model.window_seconds must not be negative, got %v", c.Model.WindowSeconds)
	}
	for sport, v := range c.Model.HRDamping {
		if _, ok := sportKey(sport); !ok {
			return fmt.Errorf("model.hr_damping: unknown sport %q", sport)
		}
		if !(v > 0) {
			return fmt.Errorf("model.hr_damping.%s must be positive, got %v", sport, v)
		}
	}
	for sport, v := range c.Model.DurationEstimates {
		if _, ok := sportKey(sport); !ok {
			return fmt.Errorf("model.duration_estimates: unknown sport %q", sport)
		}
		if v < 0 {
			return fmt.Errorf("model.duration_estimates.%s must not be negative, got %v", sport, v)
		}
	}

	return nil
}

// ValidateStrava checks the credentials needed to sync from Strava
func (c *Config) ValidateStrava() error {
	if c.Strava.ClientID == "" || c.Strava.ClientID == "YOUR_CLIENT_ID" {
		return errors.New("strava.client_id is required - get it from https://www.strava.com/settings/api")
	}
	if c.Strava.ClientSecret == "" || c.Strava.ClientSecret == "YOUR_CLIENT_SECRET" {
		return errors.New("strava.client_secret is required - get it from https://www.strava.com/settings/api")
	}
	if c.Strava.RefreshToken == "" {
		return fmt.Errorf("strava.refresh_token is required (or set %s)", EnvRefreshToken)
	}
	return nil
}

// Thresholds returns the athlete thresholds for the load calculator
func (c *Config) Thresholds() analysis.Thresholds {
	return analysis.Thresholds{
		FTP:       c.Athlete.FTP,
		RunPace:   c.Athlete.ThresholdRunPace,
		SwimPace:  c.Athlete.ThresholdSwimPace,
		HeartRate: c.Athlete.ThresholdHR,
	}
}

// TimeConstants returns the fitness and fatigue time constants
func (c *Config) TimeConstants() analysis.TimeConstants {
	return analysis.TimeConstants{
		Fitness: c.Model.FitnessDays,
		Fatigue: c.Model.FatigueDays,
	}
}

// LoadOptions returns the calculator options, with per-sport overrides applied
// on top of the defaults
func (c *Config) LoadOptions() analysis.LoadOptions {
	opts := analysis.DefaultLoadOptions()
	if c.Model.WindowSeconds > 0 {
		opts.WindowSeconds = c.Model.WindowSeconds
	}
	for name, v := range c.Model.HRDamping {
		if sport, ok := sportKey(name); ok {
			opts.HRDamping[sport] = v
		}
	}
	for name, v := range c.Model.DurationEstimates {
		if sport, ok := sportKey(name); ok {
			opts.DurationRates[sport] = v
		}
	}
	return opts
}

// sportKey resolves a model map key to one of the four sport tags
func sportKey(name string) (analysis.Sport, bool) {
	s := analysis.Sport(strings.ToLower(strings.TrimSpace(name)))
	return s, s.Known()
}

// DefaultPath returns the path of the default config file,
// ~/.trainingload/config.json
func DefaultPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".trainingload"), nil
}
