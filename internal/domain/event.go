package domain

import (
	"fmt"
	"time"

	"github.com/gosimple/slug"
)

// EventConfig describes the event being captured
type EventConfig struct {
	Name                string    `json:"name"`
	ARTCCs              []string  `json:"artccs"`
	Airports            []string  `json:"airports"`
	AdvertisedStartTime time.Time `json:"advertised_start_time"`
	AdvertisedEndTime   time.Time `json:"advertised_end_time"`
}

// Slug is the URL-safe name used for the event directory and artifact,
// formatted as YYYY-MM-DD-<slugified name> from the advertised start date.
func (e *EventConfig) Slug() string {
	start := e.AdvertisedStartTime.UTC()
	return fmt.Sprintf("%04d-%02d-%02d-%s", start.Year(), int(start.Month()), start.Day(), slug.Make(e.Name))
}

// Window returns the capture window widened by the given pre- and post-roll
func (e *EventConfig) Window(preRoll, postRoll time.Duration) Window {
	return Window{
		Start: e.AdvertisedStartTime.Add(-preRoll),
		End:   e.AdvertisedEndTime.Add(postRoll),
	}
}

// Window is the closed time range during which snapshots are captured
type Window struct {
	Start time.Time
	End   time.Time
}

// Expired reports whether t lies beyond the end of the window
func (w Window) Expired(t time.Time) bool {
	return t.After(w.End)
}
