package usecase

import (
	"context"
	"fmt"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"listing-service/internal/core/port/usecases_port"
)

const (
	defaultNotificationLimit = 50
	maxNotificationLimit     = 200
)

type ListNotificationsUseCase struct {
	notifications port.NotificationStoragePort
}

func NewListNotificationsUseCase(notifications port.NotificationStoragePort) *ListNotificationsUseCase {
	return &ListNotificationsUseCase{notifications: notifications}
}

var _ usecases_port.ListNotificationsUseCasePort = (*ListNotificationsUseCase)(nil)

func (uc *ListNotificationsUseCase) Execute(ctx context.Context, userEmail string, limit int) ([]domain.Notification, error) {
	email := normalizeEmail(userEmail)
	if email == "" {
		return nil, validationErrorf("user email is required")
	}
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}

	items, err := uc.notifications.ListByUser(ctx, email, limit)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to list notifications", err, port.Fields{
			"use_case": "ListNotifications",
			"user":     email,
		})
		return nil, fmt.Errorf("failed to list notifications of %s: %w", email, err)
	}
	return items, nil
}
