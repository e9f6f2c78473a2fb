// Package reference loads the static airport dataset events are scoped against.
package reference

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"

	"trafficreplay/internal/domain"
)

// airportRecord mirrors the columns used from the FAA APT_BASE.csv export.
type airportRecord struct {
	FAAID     string  `csv:"ARPT_ID"`
	ICAOID    string  `csv:"ICAO_ID"`
	Latitude  float64 `csv:"LAT_DECIMAL"`
	Longitude float64 `csv:"LONG_DECIMAL"`
}

// LoadAirports reads the CSV at path and returns airports keyed by ICAO id.
func LoadAirports(path string) (map[string]domain.Airport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening airports file: %w", err)
	}
	defer f.Close()

	return ParseAirports(f)
}

// ParseAirports decodes airport records, skipping rows without an ICAO id.
func ParseAirports(r io.Reader) (map[string]domain.Airport, error) {
	var records []*airportRecord
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, fmt.Errorf("decoding airports: %w", err)
	}

	airports := make(map[string]domain.Airport, len(records))
	for _, rec := range records {
		icao := strings.TrimSpace(rec.ICAOID)
		if icao == "" {
			continue
		}
		airports[icao] = domain.Airport{
			FAAID:     strings.TrimSpace(rec.FAAID),
			ICAOID:    icao,
			Latitude:  rec.Latitude,
			Longitude: rec.Longitude,
		}
	}
	return airports, nil
}

// Centroid is the arithmetic mean of the airport coordinates.
// Callers must pass at least one airport.
func Centroid(airports []domain.Airport) domain.ViewportCenter {
	var sumX, sumY float64
	for _, a := range airports {
		sumX += a.Longitude
		sumY += a.Latitude
	}
	n := float64(len(airports))
	return domain.ViewportCenter{X: sumX / n, Y: sumY / n}
}
