package usecase

import (
	"context"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"listing-service/internal/core/port/usecases_port"
)

type ClassifyListingUseCase struct {
	classifier port.CategoryClassifierPort
}

func NewClassifyListingUseCase(classifier port.CategoryClassifierPort) *ClassifyListingUseCase {
	return &ClassifyListingUseCase{classifier: classifier}
}

var _ usecases_port.ClassifyListingUseCasePort = (*ClassifyListingUseCase)(nil)

func (uc *ClassifyListingUseCase) Execute(ctx context.Context, title, description string) domain.Category {
	category := uc.classifier.Classify(ctx, title, description)
	contextkeys.LoggerFromContext(ctx).Info("Listing classified", port.Fields{
		"use_case": "ClassifyListing",
		"category": category,
	})
	return category
}
