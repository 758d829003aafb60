package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/hermesdeck/hermes/internal/config"
)

type HealthHandler struct {
	cfg          *config.Config
	ocrAvailable bool
}

func NewHealthHandler(cfg *config.Config, ocrAvailable bool) *HealthHandler {
	return &HealthHandler{cfg: cfg, ocrAvailable: ocrAvailable}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz reports whether the service can actually convert: the summarizer
// must have a key. OCR availability is informational, not a readiness gate.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}

	if err := h.cfg.Validate(); err != nil {
		checks["summarizer"] = "unhealthy: " + err.Error()
	} else {
		checks["summarizer"] = "ok"
	}
	if h.ocrAvailable {
		checks["ocr"] = "ok"
	} else {
		checks["ocr"] = "disabled"
	}

	status := http.StatusOK
	if checks["summarizer"] != "ok" {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]interface{}{"status": statusStr(status), "checks": checks})
}

func statusStr(code int) string {
	if code == http.StatusOK {
		return "ok"
	}
	return "unhealthy"
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
