package rest

import (
	"listing-service/internal/core/port/usecases_port"
)

// UseCases bundles every use case the REST API exposes.
type UseCases struct {
	CreateDraft       usecases_port.CreateDraftUseCasePort
	GetDraft          usecases_port.GetDraftUseCasePort
	SubmitListing     usecases_port.SubmitListingUseCasePort
	SearchListings    usecases_port.SearchListingsUseCasePort
	GetListing        usecases_port.GetListingUseCasePort
	ListMyListings    usecases_port.ListMyListingsUseCasePort
	ClassifyListing   usecases_port.ClassifyListingUseCasePort
	CreateWanted      usecases_port.CreateWantedUseCasePort
	ListWanted        usecases_port.ListWantedUseCasePort
	ListMyWanted      usecases_port.ListMyWantedUseCasePort
	CloseWanted       usecases_port.CloseWantedUseCasePort
	RespondToWanted   usecases_port.RespondToWantedUseCasePort
	CreateSavedSearch usecases_port.CreateSavedSearchUseCasePort
	ListSavedSearches usecases_port.ListSavedSearchesUseCasePort
	DeleteSavedSearch usecases_port.DeleteSavedSearchUseCasePort
	ListNotifications usecases_port.ListNotificationsUseCasePort
}

type Handlers struct {
	uc UseCases
}

func NewHandlers(uc UseCases) *Handlers {
	return &Handlers{uc: uc}
}
