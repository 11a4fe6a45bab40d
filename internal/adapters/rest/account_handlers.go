package rest

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/port"
)

// CreateSavedSearch handles POST /api/v1/saved-searches
func (h *Handlers) CreateSavedSearch(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CreateSavedSearch"})
	email, ok := userEmailFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	var req CreateSavedSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	search, err := h.uc.CreateSavedSearch.Execute(r.Context(), email, req.Name, req.Criterion)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to save search")
		return
	}
	RespondWithJSON(w, http.StatusCreated, toSavedSearchResponse(*search))
}

// ListSavedSearches handles GET /api/v1/saved-searches
func (h *Handlers) ListSavedSearches(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ListSavedSearches"})
	email, ok := userEmailFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	searches, err := h.uc.ListSavedSearches.Execute(r.Context(), email)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to list saved searches")
		return
	}
	out := make([]SavedSearchResponse, len(searches))
	for i, s := range searches {
		out[i] = toSavedSearchResponse(s)
	}
	RespondWithJSON(w, http.StatusOK, out)
}

// DeleteSavedSearch handles DELETE /api/v1/saved-searches/{id}
func (h *Handlers) DeleteSavedSearch(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "DeleteSavedSearch"})
	email, ok := userEmailFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}
	id, ok := pathInt64(chi.URLParam(r, "id"))
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid saved search id")
		return
	}

	if err := h.uc.DeleteSavedSearch.Execute(r.Context(), id, email); err != nil {
		writeUseCaseError(w, logger, err, "Failed to delete saved search")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListNotifications handles GET /api/v1/notifications
func (h *Handlers) ListNotifications(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ListNotifications"})
	email, ok := userEmailFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid limit parameter")
		return
	}

	items, err := h.uc.ListNotifications.Execute(r.Context(), email, limit)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to list notifications")
		return
	}
	RespondWithJSON(w, http.StatusOK, toNotificationResponses(items))
}
