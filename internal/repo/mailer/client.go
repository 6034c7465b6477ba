package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/nguyentranbao-ct/product-service/internal/config"
	"github.com/nguyentranbao-ct/product-service/internal/models"
	"github.com/nguyentranbao-ct/product-service/pkg/util"
)

type Client interface {
	SendTransferNotification(ctx context.Context, event models.ProductTransferredEvent) error
}

type mailerClient struct {
	http   *resty.Client
	sender string
}

func NewClient(conf *config.Config) Client {
	cfg := conf.Mailer
	http := util.NewRestyClient().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey)

	return &mailerClient{
		http:   http,
		sender: cfg.Sender,
	}
}

type sendMessageRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (c *mailerClient) SendTransferNotification(ctx context.Context, event models.ProductTransferredEvent) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req := sendMessageRequest{
		From:    c.sender,
		To:      event.RecipientEmail,
		Subject: fmt.Sprintf("Product %s has been transferred to you", event.ProductName),
		Body: fmt.Sprintf("%s has transferred product %s to you.",
			event.ActorName, event.ProductName),
	}

	resp, err := c.http.R().
		SetContext(timeoutCtx).
		SetBody(req).
		Post("/messages")
	if err != nil {
		return fmt.Errorf("failed to send transfer email: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("mail service returned %s", resp.Status())
	}
	return nil
}
