package domain

import "github.com/paulmach/orb"

// Airport is a reference location loaded from the FAA airport dataset
type Airport struct {
	FAAID     string  `json:"faaId"`
	ICAOID    string  `json:"icaoId"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Point returns the airport position as (lon, lat)
func (a Airport) Point() orb.Point {
	return orb.Point{a.Longitude, a.Latitude}
}
