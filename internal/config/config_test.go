package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trafficreplay/internal/domain"
)

const eventYAML = `
name: Bay Area Fly-In
artccs: [ZOA]
airports:
  - KSFO
  - koak
advertised_start_time: 2024-05-12T18:00:00Z
advertised_end_time: "2024-05-12T21:00:00-00:00"
`

func TestParseEvent(t *testing.T) {
	event, err := ParseEvent([]byte(eventYAML))
	require.NoError(t, err)

	assert.Equal(t, "Bay Area Fly-In", event.Name)
	assert.Equal(t, []string{"ZOA"}, event.ARTCCs)
	assert.Equal(t, []string{"KSFO", "KOAK"}, event.Airports)
	assert.Equal(t, time.Date(2024, 5, 12, 18, 0, 0, 0, time.UTC), event.AdvertisedStartTime)
	assert.Equal(t, time.Date(2024, 5, 12, 21, 0, 0, 0, time.UTC), event.AdvertisedEndTime)
	assert.Equal(t, "2024-05-12-bay-area-fly-in", event.Slug())
}

func TestParseEvent_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing name", "airports: [KSFO]\nadvertised_start_time: 2024-05-12T18:00:00Z\nadvertised_end_time: 2024-05-12T21:00:00Z\n", "name is required"},
		{"no airports", "name: x\nadvertised_start_time: 2024-05-12T18:00:00Z\nadvertised_end_time: 2024-05-12T21:00:00Z\n", "no airports"},
		{"bad start", "name: x\nairports: [KSFO]\nadvertised_start_time: tomorrow\nadvertised_end_time: 2024-05-12T21:00:00Z\n", "advertised_start_time"},
		{"end before start", "name: x\nairports: [KSFO]\nadvertised_start_time: 2024-05-12T21:00:00Z\nadvertised_end_time: 2024-05-12T18:00:00Z\n", "must be after"},
		{"not yaml", "name: [", "parse event config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEvent([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadEvent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event.yaml")
	require.NoError(t, os.WriteFile(path, []byte(eventYAML), 0o644))

	event, err := LoadEvent(path)
	require.NoError(t, err)
	assert.Equal(t, "Bay Area Fly-In", event.Name)

	_, err = LoadEvent(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestResolveAirports(t *testing.T) {
	known := map[string]domain.Airport{
		"KSFO": {ICAOID: "KSFO", Latitude: 37.6, Longitude: -122.4},
		"KOAK": {ICAOID: "KOAK", Latitude: 37.7, Longitude: -122.2},
	}

	resolved, err := ResolveAirports(&domain.EventConfig{Airports: []string{"KOAK", "KSFO"}}, known)
	require.NoError(t, err)
	require.Len(t, resolved, 2)
	assert.Equal(t, "KOAK", resolved[0].ICAOID)
	assert.Equal(t, "KSFO", resolved[1].ICAOID)

	_, err = ResolveAirports(&domain.EventConfig{Airports: []string{"KSFO", "XXXX"}}, known)
	assert.ErrorIs(t, err, ErrUnknownAirport)
	assert.Contains(t, err.Error(), "XXXX")

	_, err = ResolveAirports(&domain.EventConfig{}, known)
	assert.ErrorIs(t, err, ErrNoAirports)
}

func TestParseEvent_AirportIDsKeptVerbatim(t *testing.T) {
	known := map[string]domain.Airport{"KSFO": {ICAOID: "KSFO"}}

	event, err := ParseEvent([]byte("name: x\nairports: [ksfo]\nadvertised_start_time: 2024-05-12T18:00:00Z\nadvertised_end_time: 2024-05-12T21:00:00Z\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"ksfo"}, event.Airports)

	_, err = ResolveAirports(event, known)
	assert.ErrorIs(t, err, ErrUnknownAirport)
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 32, cfg.ChannelCapacity)
	assert.Equal(t, 600.0, cfg.CaptureRangeNM)
	assert.Equal(t, 5*time.Minute, cfg.PreRoll)
	assert.Equal(t, 5*time.Minute, cfg.PostRoll)
	assert.Equal(t, 5*time.Second, cfg.PollCadence)
	assert.Equal(t, 4*time.Second, cfg.PollMaxCredit)
	assert.Equal(t, time.Second, cfg.RetryDelay)
	assert.Equal(t, "event.yaml", cfg.EventConfigPath)
	assert.False(t, cfg.RedisEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CHANNEL_CAPACITY", "8")
	t.Setenv("CAPTURE_RANGE_NM", "250.5")
	t.Setenv("POST_ROLL", "15m")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("RATE_LIMIT_WHITELIST", " 10.0.0.1, ,127.0.0.1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 8, cfg.ChannelCapacity)
	assert.Equal(t, 250.5, cfg.CaptureRangeNM)
	assert.Equal(t, 15*time.Minute, cfg.PostRoll)
	assert.True(t, cfg.RedisEnabled)
	assert.Equal(t, []string{"10.0.0.1", "127.0.0.1"}, cfg.RateLimitWhitelist)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("OUTPUT_ROOT=/srv/captures\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("OUTPUT_ROOT") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/srv/captures", cfg.OutputRoot)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"CHANNEL_CAPACITY": "0",
		"CAPTURE_RANGE_NM": "-1",
		"POLL_MAX_CREDIT":  "10s",
	}
	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(key, val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
