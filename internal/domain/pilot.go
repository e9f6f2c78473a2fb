package domain

import "github.com/paulmach/orb"

// Pilot is one connected aircraft as reported by the network feed
type Pilot struct {
	CID            uint64      `json:"cid"`
	Name           string      `json:"name"`
	Callsign       string      `json:"callsign"`
	Server         string      `json:"server"`
	PilotRating    int64       `json:"pilot_rating"`
	MilitaryRating int64       `json:"military_rating"`
	Latitude       float64     `json:"latitude"`
	Longitude      float64     `json:"longitude"`
	Altitude       int64       `json:"altitude"`
	Groundspeed    int64       `json:"groundspeed"`
	Transponder    string      `json:"transponder"`
	Heading        int64       `json:"heading"`
	QNHInHg        float64     `json:"qnh_i_hg"`
	QNHMb          int64       `json:"qnh_mb"`
	FlightPlan     *FlightPlan `json:"flight_plan"`
	LogonTime      string      `json:"logon_time"`
	LastUpdated    string      `json:"last_updated"`
}

// FlightPlan is the filed plan attached to a pilot, if any
type FlightPlan struct {
	FlightRules         string `json:"flight_rules"`
	Aircraft            string `json:"aircraft"`
	AircraftFAA         string `json:"aircraft_faa"`
	AircraftShort       string `json:"aircraft_short"`
	Departure           string `json:"departure"`
	Arrival             string `json:"arrival"`
	Alternate           string `json:"alternate"`
	CruiseTAS           string `json:"cruise_tas"`
	Altitude            string `json:"altitude"`
	DepTime             string `json:"deptime"`
	EnrouteTime         string `json:"enroute_time"`
	FuelTime            string `json:"fuel_time"`
	Remarks             string `json:"remarks"`
	Route               string `json:"route"`
	RevisionID          int64  `json:"revision_id"`
	AssignedTransponder string `json:"assigned_transponder"`
}

// PilotData is the subset of a pilot the replay viewer renders
type PilotData struct {
	CID         uint64          `json:"cid"`
	Name        string          `json:"name"`
	Callsign    string          `json:"callsign"`
	Latitude    float64         `json:"latitude"`
	Longitude   float64         `json:"longitude"`
	Altitude    int64           `json:"altitude"`
	Groundspeed int64           `json:"groundspeed"`
	Transponder string          `json:"transponder"`
	Heading     int64           `json:"heading"`
	FlightPlan  *FlightPlanData `json:"flight_plan,omitempty"`
	LogonTime   string          `json:"logon_time"`
	LastUpdated string          `json:"last_updated"`
}

// FlightPlanData is the subset of a flight plan the replay viewer renders
type FlightPlanData struct {
	FlightRules   string `json:"flight_rules"`
	Aircraft      string `json:"aircraft"`
	AircraftFAA   string `json:"aircraft_faa"`
	AircraftShort string `json:"aircraft_short"`
	Departure     string `json:"departure"`
	Arrival       string `json:"arrival"`
	Alternate     string `json:"alternate"`
	Altitude      string `json:"altitude"`
	Route         string `json:"route"`
	RevisionID    int64  `json:"revision_id"`
}

// Point returns the pilot position as (lon, lat)
func (p *Pilot) Point() orb.Point {
	return orb.Point{p.Longitude, p.Latitude}
}

// Data projects the pilot onto the fields kept in a consolidated capture
func (p *Pilot) Data() PilotData {
	d := PilotData{
		CID:         p.CID,
		Name:        p.Name,
		Callsign:    p.Callsign,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		Altitude:    p.Altitude,
		Groundspeed: p.Groundspeed,
		Transponder: p.Transponder,
		Heading:     p.Heading,
		LogonTime:   p.LogonTime,
		LastUpdated: p.LastUpdated,
	}
	if fp := p.FlightPlan; fp != nil {
		d.FlightPlan = &FlightPlanData{
			FlightRules:   fp.FlightRules,
			Aircraft:      fp.Aircraft,
			AircraftFAA:   fp.AircraftFAA,
			AircraftShort: fp.AircraftShort,
			Departure:     fp.Departure,
			Arrival:       fp.Arrival,
			Alternate:     fp.Alternate,
			Altitude:      fp.Altitude,
			Route:         fp.Route,
			RevisionID:    fp.RevisionID,
		}
	}
	return d
}
