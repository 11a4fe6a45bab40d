package rest

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"listing-service/internal/core/port/usecases_port"
)

// CreateDraft handles POST /api/v1/listings/draft
func (h *Handlers) CreateDraft(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CreateDraft"})
	email, ok := userEmailFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	var req CreateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode create draft request", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	draft, err := h.uc.CreateDraft.Execute(r.Context(), usecases_port.CreateDraftInput{
		OwnerEmail:  email,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to create draft")
		return
	}
	RespondWithJSON(w, http.StatusCreated, toDraftResponse(*draft))
}

// GetDraft handles GET /api/v1/listings/draft/{id}
func (h *Handlers) GetDraft(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetDraft"})
	email, ok := userEmailFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid draft id")
		return
	}

	draft, err := h.uc.GetDraft.Execute(r.Context(), id, email)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to load draft")
		return
	}
	RespondWithJSON(w, http.StatusOK, toDraftResponse(*draft))
}

// SubmitListing handles POST /api/v1/listings/submit
func (h *Handlers) SubmitListing(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SubmitListing"})
	email, ok := userEmailFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	var req SubmitListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode submit request", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	draftID, err := uuid.Parse(req.DraftID)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid draft_id")
		return
	}

	listing, err := h.uc.SubmitListing.Execute(r.Context(), usecases_port.SubmitListingInput{
		DraftID:     draftID,
		OwnerEmail:  email,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Fields:      req.StructuredData,
	})
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to submit listing")
		return
	}
	RespondWithJSON(w, http.StatusCreated, toListingResponse(*listing))
}

// SearchListings handles GET /api/v1/listings/search
func (h *Handlers) SearchListings(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SearchListings"})

	query, err := parseSearchQuery(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	listings, err := h.uc.SearchListings.Execute(r.Context(), query)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to search listings")
		return
	}
	RespondWithJSON(w, http.StatusOK, toListingResponses(listings))
}

// GetListing handles GET /api/v1/listings/{id}
func (h *Handlers) GetListing(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetListing"})

	id, ok := pathInt64(chi.URLParam(r, "id"))
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid listing id")
		return
	}

	listing, err := h.uc.GetListing.Execute(r.Context(), id)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to load listing")
		return
	}
	RespondWithJSON(w, http.StatusOK, toListingResponse(*listing))
}

// ListMyListings handles GET /api/v1/listings/my
func (h *Handlers) ListMyListings(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ListMyListings"})
	email, ok := userEmailFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	listings, err := h.uc.ListMyListings.Execute(r.Context(), email)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to list listings")
		return
	}
	RespondWithJSON(w, http.StatusOK, toListingResponses(listings))
}

// Classify handles POST /api/v1/classify
func (h *Handlers) Classify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" && strings.TrimSpace(req.Description) == "" {
		WriteJSONError(w, http.StatusBadRequest, "title or description is required")
		return
	}

	category := h.uc.ClassifyListing.Execute(r.Context(), req.Title, req.Description)
	RespondWithJSON(w, http.StatusOK, ClassifyResponse{Category: category})
}

// parseSearchQuery reads the criterion from query parameters. Repeated or
// comma separated location and model values form a list; filter.<key>
// parameters become generic record filters.
func parseSearchQuery(r *http.Request) (domain.SearchQuery, error) {
	values := r.URL.Query()
	q := domain.SearchQuery{Text: strings.TrimSpace(values.Get("q"))}
	c := &q.Criterion

	c.Category = parseCategoryParam(values.Get("category"))
	c.Locations = splitParams(values["location"])
	c.Models = splitParams(values["model"])

	var err error
	if c.PriceMin, err = floatParam(values.Get("price_min"), "price_min"); err != nil {
		return q, err
	}
	if c.PriceMax, err = floatParam(values.Get("price_max"), "price_max"); err != nil {
		return q, err
	}
	if c.YearMin, err = intParam(values.Get("year_min"), "year_min"); err != nil {
		return q, err
	}
	if c.YearMax, err = intParam(values.Get("year_max"), "year_max"); err != nil {
		return q, err
	}
	if s := values.Get("price_not_matter"); s != "" {
		if c.PriceIgnored, err = strconv.ParseBool(s); err != nil {
			return q, badParam("price_not_matter")
		}
	}

	for key, vs := range values {
		name, ok := strings.CutPrefix(key, "filter.")
		if !ok || name == "" {
			continue
		}
		if c.Filters == nil {
			c.Filters = make(map[string]domain.FilterValue)
		}
		if len(vs) == 1 {
			c.Filters[name] = domain.Scalar(vs[0])
		} else {
			c.Filters[name] = domain.List(vs...)
		}
	}

	if q.Limit, err = queryInt(r, "limit", 0); err != nil {
		return q, badParam("limit")
	}
	if q.Offset, err = queryInt(r, "offset", 0); err != nil {
		return q, badParam("offset")
	}
	return q, nil
}

// parseCategoryParam keeps unknown names as is so that validation reports them.
func parseCategoryParam(raw string) domain.Category {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if c, ok := domain.ParseCategory(raw); ok {
		return c
	}
	return domain.Category(raw)
}

func splitParams(values []string) []string {
	var out []string
	for _, v := range values {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

type paramError struct{ name string }

func (e paramError) Error() string { return "invalid " + e.name + " parameter" }

func badParam(name string) error { return paramError{name: name} }

func floatParam(s, name string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, badParam(name)
	}
	return &f, nil
}

func intParam(s, name string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, badParam(name)
	}
	return &n, nil
}
