package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/propertyhub/api/internal/application/property"
	"github.com/propertyhub/api/internal/domain"
	"github.com/propertyhub/api/internal/transport/http/middleware"
)

// PropertyHandler handles listing search and creation endpoints.
type PropertyHandler struct {
	svc property.Service
}

func NewPropertyHandler(svc property.Service) *PropertyHandler {
	return &PropertyHandler{svc: svc}
}

func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	props, err := h.svc.List(r.Context(), parseFilters(r))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PropertiesEnvelope{Data: props, Count: len(props)})
}

func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PropertyEnvelope{Data: p})
}

func (h *PropertyHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	props, err := h.svc.ListByOwner(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PropertiesEnvelope{Data: props, Count: len(props)})
}

func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var req domain.CreatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := h.svc.Create(r.Context(), claims.UserID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, PropertyEnvelope{Data: p})
}

func parseFilters(r *http.Request) domain.PropertyFilters {
	q := r.URL.Query()
	return domain.PropertyFilters{
		ListingType:   q.Get("listingType"),
		MinPrice:      parseInt64(q.Get("minPrice")),
		MaxPrice:      parseInt64(q.Get("maxPrice")),
		Bedrooms:      parseIntList(q.Get("bedrooms")),
		Bathrooms:     parseFloatList(q.Get("bathrooms")),
		PropertyTypes: parseStrList(q.Get("propertyTypes")),
		Location:      q.Get("location"),
		Search:        q.Get("search"),
	}
}

func parseInt64(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func parseIntList(s string) []int {
	var out []int
	for _, part := range splitCSV(s) {
		if n, err := strconv.Atoi(part); err == nil {
			out = append(out, n)
		}
	}
	return out
}

func parseFloatList(s string) []float64 {
	var out []float64
	for _, part := range splitCSV(s) {
		if f, err := strconv.ParseFloat(part, 64); err == nil {
			out = append(out, f)
		}
	}
	return out
}

func parseStrList(s string) []string {
	return splitCSV(s)
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
