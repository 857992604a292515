package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_PASSWORD", "hunter2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "indiana_county_daily.csv", cfg.DailyCSV)
	assert.Equal(t, "indiana_counties_500k.geojson", cfg.CountiesGeoJSON)
	assert.Equal(t, "in_parking_demand_hourly.csv", cfg.HourlyCSV)
	assert.Equal(t, "IN_Truck_Spots.geojson", cfg.SpotsGeoJSON)
	assert.Equal(t, "in_roadway_map_layer.geojson", cfg.RoadwaysGeoJSON)
	assert.Equal(t, "hunter2", cfg.AppPassword)
	assert.False(t, cfg.AuthDisabled)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DATA_DIR", "/srv/parking")
	t.Setenv("DAILY_CSV", "daily.csv")
	t.Setenv("HOURLY_CSV", "hourly.csv")
	t.Setenv("APP_PASSWORD", "s3cret")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("SESSION_TTL", "1h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "/srv/parking/daily.csv", cfg.DailyPath())
	assert.Equal(t, "/srv/parking/hourly.csv", cfg.HourlyPath())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
}

func TestValidateAuth_PasswordRequired(t *testing.T) {
	t.Setenv("APP_PASSWORD", "")

	cfg, err := Load()
	require.NoError(t, err)

	err = cfg.ValidateAuth()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_PASSWORD")
}

func TestValidateAuth_AuthDisabledAllowsEmptyPassword(t *testing.T) {
	t.Setenv("AUTH_DISABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.AuthDisabled)
	assert.Empty(t, cfg.AppPassword)
	require.NoError(t, cfg.ValidateAuth())
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("APP_PASSWORD", "x")
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeSessionTTL(t *testing.T) {
	t.Setenv("APP_PASSWORD", "x")
	t.Setenv("SESSION_TTL", "-1h")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_TTL")
}
