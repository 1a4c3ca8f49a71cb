package handler

import (
	"net/http"
	"runtime"
	"time"

	"foodrescue-platform/pkg/response"
)

// StartTime tracks when the server started for uptime calculation.
var StartTime = time.Now()

// StatusHandler serves the operational status endpoint.
type StatusHandler struct {
	storeCheck func() error
}

// NewStatusHandler creates a status handler. storeCheck probes the
// primary store and may be nil.
func NewStatusHandler(storeCheck func() error) *StatusHandler {
	return &StatusHandler{storeCheck: storeCheck}
}

// StatusChecks represents the checks in the status response.
type StatusChecks struct {
	Database string  `json:"database"`
	MemoryMB float64 `json:"memory_mb"`
}

// StatusResponse represents the unified status response for uptime
// monitoring.
type StatusResponse struct {
	Service       string       `json:"service"`
	Status        string       `json:"status"`
	Timestamp     string       `json:"timestamp"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	Checks        StatusChecks `json:"checks"`
}

// Status handles GET /api/status.
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	dbStatus := "ok"
	if h.storeCheck != nil {
		if err := h.storeCheck(); err != nil {
			dbStatus = "error"
		}
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	memoryMB := float64(memStats.Alloc) / 1024 / 1024

	resp := StatusResponse{
		Service:       "foodrescue-api",
		Status:        "ok",
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		UptimeSeconds: int64(time.Since(StartTime).Seconds()),
		Checks: StatusChecks{
			Database: dbStatus,
			MemoryMB: float64(int(memoryMB*100)) / 100,
		},
	}

	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	response.OK(w, resp)
}
