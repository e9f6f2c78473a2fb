// Package relevance decides which pilots belong to an event.
package relevance

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"trafficreplay/internal/domain"
)

const (
	MetersPerNM = 1852.0

	// MeanEarthRadius is the IUGG mean radius in meters. Distances are
	// measured on this sphere rather than orb's equatorial one.
	MeanEarthRadius = 6371008.8

	// DefaultRangeNM is the capture radius around each event airport.
	DefaultRangeNM = 600
)

// Filter returns the pilots that either file to or from one of the airports
// or are within rangeNM great-circle distance of one. Input order is kept and
// the input slice is not modified.
func Filter(pilots []*domain.Pilot, airports []domain.Airport, rangeNM float64) []*domain.Pilot {
	limit := rangeNM * MetersPerNM
	kept := make([]*domain.Pilot, 0, len(pilots))
	for _, p := range pilots {
		if p == nil {
			continue
		}
		if filedForEvent(p, airports) || withinRange(p, airports, limit) {
			kept = append(kept, p)
		}
	}
	return kept
}

func filedForEvent(p *domain.Pilot, airports []domain.Airport) bool {
	fp := p.FlightPlan
	if fp == nil {
		return false
	}
	for _, a := range airports {
		if a.ICAOID == fp.Departure || a.ICAOID == fp.Arrival {
			return true
		}
	}
	return false
}

func withinRange(p *domain.Pilot, airports []domain.Airport, limitMeters float64) bool {
	pos := p.Point()
	for _, a := range airports {
		if distance(a.Point(), pos) < limitMeters {
			return true
		}
	}
	return false
}

// distance is the haversine great-circle distance in meters on a sphere of
// MeanEarthRadius.
func distance(a, b orb.Point) float64 {
	return geo.DistanceHaversine(a, b) * (MeanEarthRadius / orb.EarthRadius)
}
