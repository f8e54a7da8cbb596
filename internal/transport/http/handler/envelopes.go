package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/propertyhub/api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SendOTPEnvelope wraps send-otp responses. OTP is present only when the
// service runs in development mode.
type SendOTPEnvelope struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
	OTP     string `json:"otp,omitempty"`
}

// UserEnvelope wraps authenticated-user responses.
type UserEnvelope struct {
	User    *domain.User `json:"user"`
	Message string       `json:"message,omitempty"`
}

// PropertiesEnvelope wraps listing collections.
type PropertiesEnvelope struct {
	Data  []domain.Property `json:"data"`
	Count int               `json:"count"`
}

// PropertyEnvelope wraps a single listing.
type PropertyEnvelope struct {
	Data *domain.Property `json:"data"`
}

// UploadEnvelope wraps image-upload responses.
type UploadEnvelope struct {
	URLs  []string `json:"urls"`
	Count int      `json:"count"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps domain sentinel errors to HTTP statuses. Anything unmapped is
// an internal failure and surfaces as a generic 500 with no detail leaked.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest), errors.Is(err, domain.ErrExpired):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrRateLimited), errors.Is(err, domain.ErrTooManyAttempts):
		writeError(w, http.StatusTooManyRequests, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
