package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"trafficreplay/internal/domain"
)

var (
	ErrUnknownAirport = errors.New("airport not found in reference data")
	ErrNoAirports     = errors.New("event has no airports")
)

// eventFile is the on-disk YAML shape of an event definition.
type eventFile struct {
	Name                string   `yaml:"name"`
	ARTCCs              []string `yaml:"artccs"`
	Airports            []string `yaml:"airports"`
	AdvertisedStartTime string   `yaml:"advertised_start_time"`
	AdvertisedEndTime   string   `yaml:"advertised_end_time"`
}

// LoadEvent reads and validates the event definition at path.
func LoadEvent(path string) (*domain.EventConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read event config %s: %w", path, err)
	}
	return ParseEvent(data)
}

// ParseEvent decodes an event definition from YAML.
func ParseEvent(data []byte) (*domain.EventConfig, error) {
	var raw eventFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse event config: %w", err)
	}

	var errs []string
	if strings.TrimSpace(raw.Name) == "" {
		errs = append(errs, "name is required")
	}
	if len(raw.Airports) == 0 {
		errs = append(errs, ErrNoAirports.Error())
	}
	start, err := time.Parse(time.RFC3339, raw.AdvertisedStartTime)
	if err != nil {
		errs = append(errs, fmt.Sprintf("advertised_start_time: %v", err))
	}
	end, err := time.Parse(time.RFC3339, raw.AdvertisedEndTime)
	if err != nil {
		errs = append(errs, fmt.Sprintf("advertised_end_time: %v", err))
	}
	if !start.IsZero() && !end.IsZero() && !end.After(start) {
		errs = append(errs, "advertised_end_time must be after advertised_start_time")
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("event config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return &domain.EventConfig{
		Name:                raw.Name,
		ARTCCs:              raw.ARTCCs,
		Airports:            raw.Airports,
		AdvertisedStartTime: start.UTC(),
		AdvertisedEndTime:   end.UTC(),
	}, nil
}

// ResolveAirports maps every airport id of the event onto the reference
// data, preserving the configured order. Any unknown id is fatal.
func ResolveAirports(event *domain.EventConfig, known map[string]domain.Airport) ([]domain.Airport, error) {
	if len(event.Airports) == 0 {
		return nil, ErrNoAirports
	}
	resolved := make([]domain.Airport, 0, len(event.Airports))
	for _, id := range event.Airports {
		apt, ok := known[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownAirport, id)
		}
		resolved = append(resolved, apt)
	}
	return resolved, nil
}
