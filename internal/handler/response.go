package handler

import (
	"encoding/json"
	"net/http"

	"expvote/internal/service"
	"expvote/pkg/errors"
	"expvote/pkg/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// maxBodyBytes bounds request bodies; every request body here is a tiny JSON object
const maxBodyBytes = 1 << 16

// SuccessResponse wraps successful payloads
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(SuccessResponse{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, r *http.Request, err error, log *logger.Logger) {
	appErr := service.ToAppError(err)

	reqLog := log.WithFields(map[string]interface{}{
		"request_id": chimw.GetReqID(r.Context()),
		"path":       r.URL.Path,
		"error_type": string(appErr.Type),
	}).WithError(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		reqLog.Error("Request failed")
	} else {
		reqLog.Debug("Request rejected")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)
	_ = json.NewEncoder(w).Encode(errors.ErrorResponse{Success: false, Error: appErr})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.NewValidationError("Invalid request body", map[string]interface{}{"cause": err.Error()})
	}
	return nil
}
