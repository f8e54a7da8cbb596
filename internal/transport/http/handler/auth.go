package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/propertyhub/api/internal/application/auth"
	"github.com/propertyhub/api/internal/domain"
	"github.com/propertyhub/api/internal/pkg/validate"
	"github.com/propertyhub/api/internal/transport/http/middleware"
)

// AuthHandler handles the phone-OTP authentication endpoints.
type AuthHandler struct {
	svc auth.Service
	// cookie policy
	sessionDur   time.Duration
	secureCookie bool
}

func NewAuthHandler(svc auth.Service, sessionDur time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{svc: svc, sessionDur: sessionDur, secureCookie: secureCookie}
}

func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.SendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.svc.SendOTP(r.Context(), req.Phone)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SendOTPEnvelope{
		Phone:   res.Phone,
		Message: "verification code sent",
		OTP:     res.OTP,
	})
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	u, token, err := h.svc.VerifyOTP(r.Context(), req.Phone, req.OTP)
	if err != nil {
		httpError(w, err)
		return
	}
	http.SetCookie(w, h.sessionCookie(token, int(h.sessionDur.Seconds())))
	writeJSON(w, http.StatusOK, UserEnvelope{User: u, Message: "phone verified successfully"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	u, err := h.svc.Me(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, UserEnvelope{User: u})
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var req domain.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.svc.UpdateProfile(r.Context(), claims.UserID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, UserEnvelope{User: u})
}

// Logout clears the session cookie. Stateless tokens cannot be revoked
// server-side; expiring the cookie is the whole operation.
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -1))
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "logged out"})
}

func (h *AuthHandler) sessionCookie(token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}
