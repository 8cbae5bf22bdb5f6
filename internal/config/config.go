// Package config loads bankfeed.yaml and environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the workspace config file.
const FileName = "bankfeed.yaml"

// Config represents the top-level bankfeed.yaml configuration.
type Config struct {
	Business     BusinessConfig   `yaml:"business"`
	Fiscal       FiscalConfig     `yaml:"fiscal"`
	BankAccounts []BankAccount    `yaml:"bank_accounts,omitempty" validate:"dive"`
	Director     DirectorConfig   `yaml:"director"`
	Allowances   AllowanceConfig  `yaml:"allowances"`
	Import       ImportConfig     `yaml:"import"`
	Trips        TripsConfig      `yaml:"trips"`
	Categorize   CategorizeConfig `yaml:"categorize"`
	Store        StoreConfig      `yaml:"store"`
	Log          LogConfig        `yaml:"log"`
}

// BusinessConfig identifies the business entity.
type BusinessConfig struct {
	Name       string `yaml:"name" validate:"required"`
	EntityType string `yaml:"entity_type" validate:"oneof=ltd sole_trader"`
}

// FiscalConfig defines the fiscal year boundaries.
type FiscalConfig struct {
	YearStart string `yaml:"year_start" validate:"mmdd"` // "MM-DD", e.g. "01-01"
}

// BankAccount maps a bank feed to a chart-of-accounts entry.
type BankAccount struct {
	Name      string `yaml:"name" validate:"required"`
	Type      string `yaml:"type" validate:"oneof=current savings credit_card"`
	LastFour  string `yaml:"last_four" validate:"omitempty,len=4,numeric"`
	AccountID int    `yaml:"account_id" validate:"required"`
	// Signature pins a bank format instead of auto-detecting, e.g. "aib".
	Signature string `yaml:"signature,omitempty"`
}

// DirectorConfig is the commuting profile used for allowances.
type DirectorConfig struct {
	Name          string  `yaml:"name"`
	BaseLocation  string  `yaml:"base_location" validate:"required"`
	HomeCounty    string  `yaml:"home_county" validate:"required"`
	Vehicle       string  `yaml:"vehicle" validate:"oneof=personal company"`
	LocalRadiusKm float64 `yaml:"local_radius_km" validate:"gte=0"`
}

// AllowanceConfig holds statutory rates in euro.
type AllowanceConfig struct {
	OvernightRate    float64 `yaml:"overnight_rate" validate:"gt=0"`
	DayRate          float64 `yaml:"day_rate" validate:"gt=0"`
	MealDayRate      float64 `yaml:"meal_day_rate" validate:"gt=0"`
	MileageRatePerKm float64 `yaml:"mileage_rate_per_km" validate:"gte=0"`
}

// ImportConfig tunes the import pipeline.
type ImportConfig struct {
	BatchSize               int    `yaml:"batch_size" validate:"gte=1,lte=1000"`
	SkipDuplicates          bool   `yaml:"skip_duplicates"`
	UnparsedDates           string `yaml:"unparsed_dates" validate:"oneof=drop today"`
	FingerprintLookbackDays int    `yaml:"fingerprint_lookback_days" validate:"gte=0"`
	UserID                  string `yaml:"user_id" validate:"required"`
}

// TripsConfig tunes trip detection.
type TripsConfig struct {
	MaxGapDays int           `yaml:"max_gap_days" validate:"gte=0"`
	Places     []PlaceConfig `yaml:"places,omitempty" validate:"dive"`
}

// PlaceConfig adds a place to the built-in gazetteer.
type PlaceConfig struct {
	Name   string  `yaml:"name" validate:"required"`
	County string  `yaml:"county" validate:"required"`
	Lat    float64 `yaml:"lat" validate:"latitude"`
	Lon    float64 `yaml:"lon" validate:"longitude"`
}

// CategorizeConfig tunes rule-based categorization.
type CategorizeConfig struct {
	RulesFile string `yaml:"rules_file"`
	GroupSize int    `yaml:"group_size" validate:"gte=1"`
	// Pace is a Go duration between groups, e.g. "200ms".
	Pace string `yaml:"pace" validate:"omitempty,duration"`
}

// StoreConfig locates the transaction database.
type StoreConfig struct {
	Path string `yaml:"path" validate:"required"`
}

// LogConfig selects the logger profile.
type LogConfig struct {
	Env string `yaml:"env" validate:"oneof=development production"`
}

// Load reads a bankfeed.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Environment variables that override file settings.
const (
	EnvDB   = "BANKFEED_DB"
	EnvEnv  = "BANKFEED_ENV"
	EnvUser = "BANKFEED_USER"
)

// ApplyEnv loads envFile (if present) into the environment and applies
// BANKFEED_* overrides to cfg. A missing file is not an error.
func ApplyEnv(cfg *Config, envFile string) error {
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("loading %s: %w", envFile, err)
	}
	if v := strings.TrimSpace(os.Getenv(EnvDB)); v != "" {
		cfg.Store.Path = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvEnv)); v != "" {
		cfg.Log.Env = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvUser)); v != "" {
		cfg.Import.UserID = v
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
func Default(businessName, entityType string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:       businessName,
			EntityType: entityType,
		},
		Fiscal: FiscalConfig{
			YearStart: "01-01",
		},
		Director: DirectorConfig{
			BaseLocation:  "Dublin",
			HomeCounty:    "Dublin",
			Vehicle:       "personal",
			LocalRadiusKm: 25,
		},
		Allowances: AllowanceConfig{
			OvernightRate:    205.53,
			DayRate:          46.17,
			MealDayRate:      46.17,
			MileageRatePerKm: 0.5182,
		},
		Import: ImportConfig{
			BatchSize:               50,
			SkipDuplicates:          true,
			UnparsedDates:           "drop",
			FingerprintLookbackDays: 0,
			UserID:                  "default",
		},
		Trips: TripsConfig{
			MaxGapDays: 1,
		},
		Categorize: CategorizeConfig{
			RulesFile: "rules/categorization-rules.yaml",
			GroupSize: 5,
			Pace:      "200ms",
		},
		Store: StoreConfig{
			Path: "bankfeed.db",
		},
		Log: LogConfig{
			Env: "development",
		},
	}
}
