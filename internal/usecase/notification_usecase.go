package usecase

import (
	"context"
	"fmt"

	"github.com/nguyentranbao-ct/product-service/internal/models"
	"github.com/nguyentranbao-ct/product-service/internal/repo/mongodb"
)

const notificationPageSize = 50

type NotificationUsecase interface {
	ListForCaller(ctx context.Context, caller models.Caller) ([]*models.Notification, error)
}

type notificationUsecase struct {
	notificationRepo mongodb.NotificationRepository
}

func NewNotificationUsecase(notificationRepo mongodb.NotificationRepository) NotificationUsecase {
	return &notificationUsecase{
		notificationRepo: notificationRepo,
	}
}

func (uc *notificationUsecase) ListForCaller(ctx context.Context, caller models.Caller) ([]*models.Notification, error) {
	notifications, err := uc.notificationRepo.ListByUser(ctx, caller.UserID, notificationPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	if notifications == nil {
		notifications = []*models.Notification{}
	}
	return notifications, nil
}
