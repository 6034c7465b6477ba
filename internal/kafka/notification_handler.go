package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	log "github.com/carousell/ct-go/pkg/logger/log_context"

	"github.com/nguyentranbao-ct/product-service/internal/models"
	"github.com/nguyentranbao-ct/product-service/internal/repo/mailer"
	"github.com/nguyentranbao-ct/product-service/internal/repo/mongodb"
)

// EventHandler processes one raw event from the products topic.
type EventHandler interface {
	Handle(ctx context.Context, value []byte) error
}

type notificationHandler struct {
	notificationRepo mongodb.NotificationRepository
	mailerClient     mailer.Client
}

// NewNotificationHandler records the in-app notification and dispatches
// the transfer email for each product.transferred event.
func NewNotificationHandler(
	notificationRepo mongodb.NotificationRepository,
	mailerClient mailer.Client,
) EventHandler {
	return &notificationHandler{
		notificationRepo: notificationRepo,
		mailerClient:     mailerClient,
	}
}

func (h *notificationHandler) Handle(ctx context.Context, value []byte) error {
	var event models.ProductEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal product event: %w", err)
	}

	if event.Pattern != models.PatternProductTransferred {
		log.Infow(ctx, "ignoring event", "pattern", event.Pattern)
		return nil
	}

	data := event.Data
	notification := &models.Notification{
		UserID: data.RecipientID,
		Message: fmt.Sprintf("%s has transferred product %s to you",
			data.ActorName, data.ProductName),
	}
	if err := h.notificationRepo.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to record notification: %w", err)
	}

	if err := h.mailerClient.SendTransferNotification(ctx, data); err != nil {
		return fmt.Errorf("failed to send transfer email: %w", err)
	}

	log.Infow(ctx, "transfer notification delivered",
		"product_id", data.ProductID,
		"recipient_id", data.RecipientID,
	)
	return nil
}
