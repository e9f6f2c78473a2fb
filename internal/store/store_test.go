package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trafficreplay/internal/domain"
)

func newTestStore(t *testing.T) *CaptureStore {
	t.Helper()
	s := New(Layout{Root: t.TempDir(), Slug: "2024-05-12-fly-in"})
	require.NoError(t, s.Init())
	return s
}

func TestLayout(t *testing.T) {
	l := Layout{Root: "/data", Slug: "2024-05-12-fly-in"}
	assert.Equal(t, filepath.FromSlash("/data/2024-05-12-fly-in"), l.EventDir())
	assert.Equal(t, filepath.FromSlash("/data/2024-05-12-fly-in/captures"), l.CapturesDir())
	assert.Equal(t, filepath.FromSlash("/data/2024-05-12-fly-in/2024-05-12-fly-in.json"), l.AggregatePath())
}

func TestCaptureStore_InitIdempotent(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Init())
}

func TestCaptureStore_WriteReadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	pilots := []*domain.Pilot{
		{CID: 1, Callsign: "UAL1", Latitude: 37.619, Longitude: -122.375,
			FlightPlan: &domain.FlightPlan{Departure: "KSFO", Arrival: "KLAX", RevisionID: 2}},
		{CID: 2, Callsign: "N123", Latitude: 1.5, Longitude: -2.25},
	}

	n, err := s.Write("20240512180015", pilots)
	require.NoError(t, err)
	assert.Positive(t, n)

	entries, err := s.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "20240512180015", entries[0].VersionKey)

	got, err := s.Read(entries[0])
	require.NoError(t, err)
	assert.Equal(t, pilots, got)
}

func TestCaptureStore_WriteRejectsPathKeys(t *testing.T) {
	s := newTestStore(t)
	for _, key := range []string{"", "..", "a/b", `a\b`} {
		_, err := s.Write(key, nil)
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

func TestCaptureStore_ListSkipsDirectories(t *testing.T) {
	s := newTestStore(t)
	dir := s.Layout().CapturesDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "3.json"), []byte("[]"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2.json"), []byte("[]"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "10.json"), []byte("[]"), 0o644))

	entries, err := s.List()
	require.NoError(t, err)

	keys := []string{}
	for _, e := range entries {
		keys = append(keys, e.VersionKey)
	}
	assert.Equal(t, []string{"10", "2"}, keys)
}

func TestCaptureStore_ReadCorrupt(t *testing.T) {
	s := newTestStore(t)
	path := filepath.Join(s.Layout().CapturesDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := s.Read(Entry{Path: path, VersionKey: "bad"})
	assert.Error(t, err)
}

func TestCaptureStore_WriteAggregate(t *testing.T) {
	s := newTestStore(t)
	data, err := s.WriteAggregate(map[string]int{"a": 1})
	require.NoError(t, err)

	onDisk, err := os.ReadFile(s.Layout().AggregatePath())
	require.NoError(t, err)
	assert.Equal(t, data, onDisk)
	assert.JSONEq(t, `{"a":1}`, string(onDisk))
}
