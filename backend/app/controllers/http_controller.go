package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"jkwi-ims/backend/app/dto"
	"jkwi-ims/backend/global"
)

const (
	apiVersion   = "1.0.0"
	maxBodyBytes = 10 << 20
)

type HTTPController struct{ now func() time.Time }

func NewHTTPController() *HTTPController {
	return &HTTPController{now: time.Now}
}

func (c *HTTPController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, dto.HealthResponse{
		Status:    "healthy",
		Message:   "JKWI Information Management System is running",
		Timestamp: c.now().UTC().Format(time.RFC3339Nano),
		Version:   apiVersion,
		Endpoints: map[string]string{
			"health":       "/api/health",
			"register":     "/api/register",
			"login":        "/api/login",
			"members":      "/api/members",
			"applications": "/api/applications",
			"stats":        "/api/stats",
			"export":       "/api/export",
		},
	})
}

// NotFound answers unknown paths in the same envelope as every other error.
func (c *HTTPController) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		global.Logger.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.ErrorResponse{Success: false, Error: msg})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}
