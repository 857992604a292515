package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"
)

// Config holds all dashboard settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	DataDir         string
	DailyCSV        string
	CountiesGeoJSON string
	HourlyCSV       string
	SpotsGeoJSON    string
	RoadwaysGeoJSON string

	AppPassword  string
	AuthDisabled bool

	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	SessionTTL      time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parsePositiveDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	sessionTTL, err := parsePositiveDuration("SESSION_TTL", "12h")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		DataDir:         envOrDefault("DATA_DIR", "data"),
		DailyCSV:        envOrDefault("DAILY_CSV", "indiana_county_daily.csv"),
		CountiesGeoJSON: envOrDefault("COUNTIES_GEOJSON", "indiana_counties_500k.geojson"),
		HourlyCSV:       envOrDefault("HOURLY_CSV", "in_parking_demand_hourly.csv"),
		SpotsGeoJSON:    envOrDefault("SPOTS_GEOJSON", "IN_Truck_Spots.geojson"),
		RoadwaysGeoJSON: envOrDefault("ROADWAYS_GEOJSON", "in_roadway_map_layer.geojson"),
		AppPassword:     os.Getenv("APP_PASSWORD"),
		AuthDisabled:    os.Getenv("AUTH_DISABLED") == "true",
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		SessionTTL:      sessionTTL,
	}

	return cfg, nil
}

// ValidateAuth checks the settings the serve command needs. Offline commands
// (export, chart, validate, list) never read the password, so Load leaves it
// optional.
func (c *Config) ValidateAuth() error {
	if c.AppPassword == "" && !c.AuthDisabled {
		return errors.New("APP_PASSWORD is required unless AUTH_DISABLED=true")
	}
	return nil
}

// DailyPath returns the daily metrics CSV path under DataDir.
func (c *Config) DailyPath() string { return filepath.Join(c.DataDir, c.DailyCSV) }

// CountiesPath returns the county boundary GeoJSON path under DataDir.
func (c *Config) CountiesPath() string { return filepath.Join(c.DataDir, c.CountiesGeoJSON) }

// HourlyPath returns the hourly demand CSV path under DataDir.
func (c *Config) HourlyPath() string { return filepath.Join(c.DataDir, c.HourlyCSV) }

// SpotsPath returns the truck-spot overlay GeoJSON path under DataDir.
func (c *Config) SpotsPath() string { return filepath.Join(c.DataDir, c.SpotsGeoJSON) }

// RoadwaysPath returns the roadway overlay GeoJSON path under DataDir.
func (c *Config) RoadwaysPath() string { return filepath.Join(c.DataDir, c.RoadwaysGeoJSON) }

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	s := envOrDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}
