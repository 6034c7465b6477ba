package usecase

import (
	"context"
	"fmt"

	"github.com/nguyentranbao-ct/product-service/internal/models"
	"github.com/nguyentranbao-ct/product-service/internal/repo/mongodb"
)

// AccessGuard decides whether a caller may see or mutate a product.
// Validate returns nil, models.ErrForbidden, or a lookup error.
type AccessGuard interface {
	Validate(ctx context.Context, product *models.Product, caller models.Caller) error
}

type accessGuard struct {
	siteRepo mongodb.SiteRepository
}

func NewAccessGuard(siteRepo mongodb.SiteRepository) AccessGuard {
	return &accessGuard{
		siteRepo: siteRepo,
	}
}

func (g *accessGuard) Validate(ctx context.Context, product *models.Product, caller models.Caller) error {
	// a client-scoped caller never crosses tenants
	if caller.ClientID != "" && product.ClientID != "" && product.ClientID != caller.ClientID {
		return models.ErrForbidden
	}

	if product.CreatedBy == caller.UserID {
		return nil
	}

	if product.SiteID != "" {
		member, err := g.siteRepo.IsMember(ctx, product.SiteID, caller.UserID)
		if err != nil {
			return fmt.Errorf("failed to check site membership: %w", err)
		}
		if member {
			return nil
		}
	}

	return models.ErrForbidden
}
