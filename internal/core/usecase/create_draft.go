package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/normalizer"
	"listing-service/internal/core/port"
	"listing-service/internal/core/port/usecases_port"
)

const DefaultExtractionTimeout = 15 * time.Second

const extractionInstruction = `Extract the key details of this marketplace listing. Respond with ONLY a valid JSON object.

Schema:
{
  "location": "string (city or district)",
  "price": "number (no commas or currency symbols)",
  "pricing_type": "'Fixed Price' or 'Negotiable'",
  "phone": "string (format: +94XXXXXXXXX)",
  "model_name": "string (make and model, e.g. 'Honda Civic')",
  "manufacture_year": "number (e.g. 2020)",
  "sub_category": "string"
}

Use an empty string for text fields and null for numbers when a value is not present.`

type CreateDraftUseCase struct {
	drafts     port.DraftStoragePort
	extracts   port.ExtractStorePort
	classifier port.CategoryClassifierPort
	ai         port.AIClientPort
	aiTimeout  time.Duration
	metrics    port.MetricsPort
}

// NewCreateDraftUseCase wires the draft flow. ai may be nil, in which case
// every field comes from the text fallbacks. A nil metrics records nothing.
func NewCreateDraftUseCase(
	drafts port.DraftStoragePort,
	extracts port.ExtractStorePort,
	classifier port.CategoryClassifierPort,
	ai port.AIClientPort,
	aiTimeout time.Duration,
	metrics port.MetricsPort,
) *CreateDraftUseCase {
	if aiTimeout <= 0 {
		aiTimeout = DefaultExtractionTimeout
	}
	return &CreateDraftUseCase{
		drafts:     drafts,
		extracts:   extracts,
		classifier: classifier,
		ai:         ai,
		aiTimeout:  aiTimeout,
		metrics:    orNoopMetrics(metrics),
	}
}

var _ usecases_port.CreateDraftUseCasePort = (*CreateDraftUseCase)(nil)

func (uc *CreateDraftUseCase) Execute(ctx context.Context, input usecases_port.CreateDraftInput) (*domain.Draft, error) {
	owner := normalizeEmail(input.OwnerEmail)
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "CreateDraft",
		"owner":    owner,
	})
	ucLogger.Info("Use case started", nil)

	if owner == "" {
		return nil, validationErrorf("owner email is required")
	}
	if err := validateListingText(input.Title, input.Description); err != nil {
		ucLogger.Warn("Draft input rejected", port.Fields{"reason": err.Error()})
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)

	category, ok := domain.ParseCategory(input.Category)
	if !ok {
		category = uc.classifier.Classify(ctx, title, description)
		ucLogger.Info("Category classified", port.Fields{"requested": input.Category, "category": category})
	}

	raw := uc.extract(ctx, ucLogger, category, title, description)
	record := normalizer.Resolve(normalizer.Input{
		Raw:         raw,
		Category:    category,
		Title:       title,
		Description: description,
	})

	draft := domain.Draft{
		ID:          uuid.New(),
		OwnerEmail:  owner,
		Title:       title,
		Description: description,
		Category:    category,
		Record:      record,
		CreatedAt:   time.Now().UTC(),
	}

	if err := uc.drafts.Create(ctx, draft); err != nil {
		ucLogger.Error("Failed to store draft", err, nil)
		return nil, fmt.Errorf("failed to store draft: %w", err)
	}

	// The side store holds the resolved record, so the verify step reads back
	// exactly what was created. Losing it is not fatal.
	if err := uc.extracts.Save(ctx, owner, draft.ID, recordToMap(record)); err != nil {
		ucLogger.Warn("Failed to save extraction to side store", port.Fields{"error": err.Error()})
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"draft_id": draft.ID, "category": category})
	return &draft, nil
}

// extract asks the AI model for the structured blob. Any failure degrades to
// an empty blob so that the text fallbacks fill the record.
func (uc *CreateDraftUseCase) extract(ctx context.Context, logger port.LoggerPort, category domain.Category, title, description string) map[string]any {
	if uc.ai == nil {
		return map[string]any{}
	}

	aiCtx, cancel := context.WithTimeout(ctx, uc.aiTimeout)
	defer cancel()

	input := fmt.Sprintf("Category: %s\nTitle: %s\nDescription:\n%s", category, title, description)
	answer, err := uc.ai.Generate(aiCtx, extractionInstruction, input)
	if err != nil {
		logger.Warn("AI extraction failed, using text fallbacks", port.Fields{"error": err.Error()})
		uc.metrics.AIFallback("extract")
		return map[string]any{}
	}

	raw, err := parseAIObject(answer)
	if err != nil {
		logger.Warn("AI extraction answer unusable, using text fallbacks", port.Fields{"error": err.Error()})
		uc.metrics.AIFallback("extract")
		return map[string]any{}
	}
	return raw
}
