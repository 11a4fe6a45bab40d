package rest

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"listing-service/internal/core/port/usecases_port"
)

// CreateWanted handles POST /api/v1/wanted
func (h *Handlers) CreateWanted(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CreateWanted"})
	email, ok := userEmailFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	var req CreateWantedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode create wanted request", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.uc.CreateWanted.Execute(r.Context(), usecases_port.CreateWantedInput{
		UserEmail:   email,
		Title:       req.Title,
		Description: req.Description,
		Criterion:   req.Criterion,
	})
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to create wanted request")
		return
	}
	RespondWithJSON(w, http.StatusCreated, CreateWantedResponse{
		Wanted:       toWantedResponse(result.Wanted),
		MatchesCount: result.MatchesCount,
	})
}

// ListWanted handles GET /api/v1/wanted
func (h *Handlers) ListWanted(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ListWanted"})

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid limit parameter")
		return
	}
	values := r.URL.Query()
	items, err := h.uc.ListWanted.Execute(r.Context(), domain.WantedFilter{
		Query:    values.Get("q"),
		Category: parseCategoryParam(values.Get("category")),
		Location: values.Get("location"),
		Limit:    limit,
	})
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to list wanted requests")
		return
	}
	RespondWithJSON(w, http.StatusOK, toWantedResponses(items))
}

// ListMyWanted handles GET /api/v1/wanted/my
func (h *Handlers) ListMyWanted(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ListMyWanted"})
	email, ok := userEmailFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	items, err := h.uc.ListMyWanted.Execute(r.Context(), email)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to list wanted requests")
		return
	}
	RespondWithJSON(w, http.StatusOK, toWantedResponses(items))
}

// CloseWanted handles POST /api/v1/wanted/{id}/close
func (h *Handlers) CloseWanted(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CloseWanted"})
	email, ok := userEmailFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}
	id, ok := pathInt64(chi.URLParam(r, "id"))
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid wanted request id")
		return
	}

	if err := h.uc.CloseWanted.Execute(r.Context(), id, email); err != nil {
		writeUseCaseError(w, logger, err, "Failed to close wanted request")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RespondToWanted handles POST /api/v1/wanted/{id}/respond
func (h *Handlers) RespondToWanted(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "RespondToWanted"})
	email, ok := userEmailFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}
	id, ok := pathInt64(chi.URLParam(r, "id"))
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid wanted request id")
		return
	}

	var req RespondToWantedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ListingID <= 0 {
		WriteJSONError(w, http.StatusBadRequest, "listing_id is required")
		return
	}

	err := h.uc.RespondToWanted.Execute(r.Context(), usecases_port.RespondToWantedInput{
		WantedID:  id,
		ListingID: req.ListingID,
		UserEmail: email,
		Message:   req.Message,
	})
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to respond to wanted request")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
