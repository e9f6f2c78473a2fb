package handler

import (
	"encoding/json"
	"net/http"
	"time"
)

// CaptureStatus reports the progress of the running capture.
type CaptureStatus interface {
	Ready() bool
	State() string
	LastVersion() string
	Written() int64
	Dropped() int64
}

type HealthHandler struct {
	status CaptureStatus
}

func NewHealthHandler(status CaptureStatus) *HealthHandler {
	return &HealthHandler{status: status}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

type ReadyResponse struct {
	Ready            bool      `json:"ready"`
	State            string    `json:"state"`
	LastUpdate       string    `json:"lastUpdate,omitempty"`
	SnapshotsWritten int64     `json:"snapshotsWritten"`
	SnapshotsDropped int64     `json:"snapshotsDropped"`
	ServerTime       time.Time `json:"serverTime"`
}

func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ready := h.status.Ready()
	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, status, ReadyResponse{
		Ready:            ready,
		State:            h.status.State(),
		LastUpdate:       h.status.LastVersion(),
		SnapshotsWritten: h.status.Written(),
		SnapshotsDropped: h.status.Dropped(),
		ServerTime:       time.Now(),
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
