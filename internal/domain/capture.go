package domain

import "github.com/paulmach/orb/geojson"

// ViewportCenter is the display hint serialized as {"x": lon, "y": lat}
type ViewportCenter struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// EventCapture is the consolidated artifact for one event
type EventCapture struct {
	Config              EventConfig                           `json:"config"`
	FirstTimestampKey   *string                               `json:"first_timestamp_key,omitempty"`
	LastTimestampKey    *string                               `json:"last_timestamp_key,omitempty"`
	Captures            map[string]*geojson.FeatureCollection `json:"captures"`
	CapturesLengthBytes int                                   `json:"captures_length_bytes"`
	ViewportCenter      ViewportCenter                        `json:"viewport_center"`
}
