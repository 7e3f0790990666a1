package handlers

import (
	"net/http"
)

// Health reports database reachability and whether every schema table exists.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	report := h.HealthService.Check(r.Context())

	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}

	writeSuccess(w, report, status)
}
