package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"trafficreplay/internal/domain"
)

const captureExt = ".json"

var ErrInvalidKey = errors.New("invalid version key")

// Layout locates the files of one event below an output root:
//
//	<root>/<slug>/captures/<version>.json
//	<root>/<slug>/<slug>.json
type Layout struct {
	Root string
	Slug string
}

func (l Layout) EventDir() string {
	return filepath.Join(l.Root, l.Slug)
}

func (l Layout) CapturesDir() string {
	return filepath.Join(l.EventDir(), "captures")
}

func (l Layout) AggregatePath() string {
	return filepath.Join(l.EventDir(), l.Slug+captureExt)
}

// Entry is one persisted capture file.
type Entry struct {
	Path       string
	VersionKey string
}

// CaptureStore reads and writes per-snapshot capture files and the
// consolidated artifact of one event.
type CaptureStore struct {
	layout Layout
}

func New(layout Layout) *CaptureStore {
	return &CaptureStore{layout: layout}
}

func (s *CaptureStore) Layout() Layout {
	return s.layout
}

// Init creates the capture directory. It is safe to call repeatedly.
func (s *CaptureStore) Init() error {
	if err := os.MkdirAll(s.layout.CapturesDir(), 0o755); err != nil {
		return fmt.Errorf("creating capture directory: %w", err)
	}
	return nil
}

// Write persists the pilots of one snapshot and returns the bytes written.
func (s *CaptureStore) Write(versionKey string, pilots []*domain.Pilot) (int, error) {
	if versionKey == "" || versionKey == "." || versionKey == ".." ||
		strings.ContainsAny(versionKey, `/\`) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidKey, versionKey)
	}

	if pilots == nil {
		pilots = []*domain.Pilot{}
	}
	data, err := json.Marshal(pilots)
	if err != nil {
		return 0, fmt.Errorf("serializing capture %s: %w", versionKey, err)
	}

	path := filepath.Join(s.layout.CapturesDir(), versionKey+captureExt)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("writing capture %s: %w", versionKey, err)
	}
	return len(data), nil
}

// List returns the regular files directly inside the capture directory,
// sorted by name. Subdirectories are not descended into.
func (s *CaptureStore) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.layout.CapturesDir())
	if err != nil {
		return nil, fmt.Errorf("listing captures: %w", err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if !de.Type().IsRegular() {
			continue
		}
		name := de.Name()
		entries = append(entries, Entry{
			Path:       filepath.Join(s.layout.CapturesDir(), name),
			VersionKey: strings.TrimSuffix(name, filepath.Ext(name)),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})
	return entries, nil
}

// Read decodes the pilots stored in one capture file.
func (s *CaptureStore) Read(e Entry) ([]*domain.Pilot, error) {
	f, err := os.Open(e.Path)
	if err != nil {
		return nil, fmt.Errorf("opening capture %s: %w", e.Path, err)
	}
	defer f.Close()

	var pilots []*domain.Pilot
	if err := json.NewDecoder(f).Decode(&pilots); err != nil {
		return nil, fmt.Errorf("decoding capture %s: %w", e.Path, err)
	}
	return pilots, nil
}

// WriteAggregate writes the consolidated artifact and returns its encoded form.
func (s *CaptureStore) WriteAggregate(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("serializing aggregate: %w", err)
	}
	if err := os.MkdirAll(s.layout.EventDir(), 0o755); err != nil {
		return nil, fmt.Errorf("creating event directory: %w", err)
	}
	if err := os.WriteFile(s.layout.AggregatePath(), data, 0o644); err != nil {
		return nil, fmt.Errorf("writing aggregate: %w", err)
	}
	return data, nil
}
