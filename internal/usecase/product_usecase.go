package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"

	"github.com/nguyentranbao-ct/product-service/internal/kafka"
	"github.com/nguyentranbao-ct/product-service/internal/models"
	"github.com/nguyentranbao-ct/product-service/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/product-service/internal/search"
)

type CreateProductParams struct {
	ID          string
	Name        string
	Description string
}

type UpdateProductParams struct {
	Name        string
	Description string
}

type ProductUsecase interface {
	ListScoped(ctx context.Context, caller models.Caller, siteID string, params ListingParams) (*models.ProductPage, error)
	ListGlobal(ctx context.Context, caller models.Caller, params ListingParams) (*models.ProductPage, error)
	Get(ctx context.Context, caller models.Caller, id string) (*models.Product, error)
	CreateOrUpdate(ctx context.Context, caller models.Caller, siteID string, params CreateProductParams) (*models.Product, error)
	Update(ctx context.Context, caller models.Caller, id string, params UpdateProductParams) (*models.Product, error)
	SoftDelete(ctx context.Context, caller models.Caller, id string) (*models.Product, error)
	Transfer(ctx context.Context, caller models.Caller, productID, email string) (*models.TransferResult, error)
}

type productUsecase struct {
	productRepo mongodb.ProductRepository
	userRepo    mongodb.UserRepository
	siteRepo    mongodb.SiteRepository
	index       search.Index
	guard       AccessGuard
	filters     *FilterBuilder
	producer    kafka.Producer
}

func NewProductUsecase(
	productRepo mongodb.ProductRepository,
	userRepo mongodb.UserRepository,
	siteRepo mongodb.SiteRepository,
	index search.Index,
	guard AccessGuard,
	filters *FilterBuilder,
	producer kafka.Producer,
) ProductUsecase {
	return &productUsecase{
		productRepo: productRepo,
		userRepo:    userRepo,
		siteRepo:    siteRepo,
		index:       index,
		guard:       guard,
		filters:     filters,
		producer:    producer,
	}
}

func (uc *productUsecase) ListScoped(ctx context.Context, caller models.Caller, siteID string, params ListingParams) (*models.ProductPage, error) {
	scope := ListingScope{
		CallerID: caller.UserID,
		ClientID: caller.ClientID,
	}
	return uc.list(ctx, params, scope)
}

func (uc *productUsecase) ListGlobal(ctx context.Context, caller models.Caller, params ListingParams) (*models.ProductPage, error) {
	user, err := uc.userRepo.GetByID(ctx, caller.UserID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("caller %s: %w", caller.UserID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve caller: %w", err)
	}

	siteIDs, err := uc.siteRepo.ListIDsByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve caller sites: %w", err)
	}

	scope := ListingScope{
		CallerID: caller.UserID,
		ClientID: caller.ClientID,
		SiteIDs:  siteIDs,
		Global:   true,
	}
	return uc.list(ctx, params, scope)
}

func (uc *productUsecase) list(ctx context.Context, params ListingParams, scope ListingScope) (*models.ProductPage, error) {
	query, sort, phrase := uc.filters.Build(params, scope)

	result, err := uc.index.Search(ctx, search.Request{
		Phrase:  phrase,
		Where:   query,
		Sort:    sort,
		Page:    params.Page,
		PerPage: params.Per,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	return &models.ProductPage{
		Total:    result.Total,
		Entities: result.Items,
		Page:     params.Page,
	}, nil
}

// Get is the fetch-then-authorize step shared by every single-product
// operation. The product is never handed back before the access check.
func (uc *productUsecase) Get(ctx context.Context, caller models.Caller, id string) (*models.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.guard.Validate(ctx, product, caller); err != nil {
		return nil, err
	}
	return product, nil
}

func (uc *productUsecase) CreateOrUpdate(ctx context.Context, caller models.Caller, siteID string, params CreateProductParams) (*models.Product, error) {
	existing, err := uc.productRepo.GetByID(ctx, params.ID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		if err := uc.guard.Validate(ctx, existing, caller); err != nil {
			return nil, err
		}
		return uc.productRepo.Update(ctx, params.ID, params.Name, params.Description)
	}

	product := &models.Product{
		ID:          params.ID,
		Name:        params.Name,
		Description: params.Description,
		Status:      models.ProductStatusActive,
		CreatedBy:   caller.UserID,
		SiteID:      siteID,
		ClientID:    caller.ClientID,
	}
	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	log.Infow(ctx, "product created", "product_id", product.ID, "site_id", siteID)
	return product, nil
}

func (uc *productUsecase) Update(ctx context.Context, caller models.Caller, id string, params UpdateProductParams) (*models.Product, error) {
	if _, err := uc.Get(ctx, caller, id); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(params.Name)
	return uc.productRepo.Update(ctx, id, name, params.Description)
}

func (uc *productUsecase) SoftDelete(ctx context.Context, caller models.Caller, id string) (*models.Product, error) {
	if _, err := uc.Get(ctx, caller, id); err != nil {
		return nil, err
	}
	return uc.productRepo.UpdateStatus(ctx, id, models.ProductStatusDeleted)
}

func (uc *productUsecase) Transfer(ctx context.Context, caller models.Caller, productID, email string) (*models.TransferResult, error) {
	recipient, err := uc.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		// deliberate soft failure: no error, no side effects
		return &models.TransferResult{Status: false}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up transfer target: %w", err)
	}

	product, err := uc.Get(ctx, caller, productID)
	if err != nil {
		return nil, err
	}

	updated, err := uc.productRepo.UpdateOwner(ctx, productID, recipient.ID)
	if err != nil {
		return nil, err
	}

	actorName := caller.UserID
	if actor, err := uc.userRepo.GetByID(ctx, caller.UserID); err == nil {
		actorName = actor.Name
	} else {
		log.Warnw(ctx, "could not resolve actor for transfer event", "user_id", caller.UserID, "error", err)
	}

	event := models.ProductTransferredEvent{
		ProductID:      updated.ID,
		ProductName:    updated.Name,
		SiteID:         updated.SiteID,
		ActorID:        caller.UserID,
		ActorName:      actorName,
		RecipientID:    recipient.ID,
		RecipientName:  recipient.Name,
		RecipientEmail: recipient.Email,
		TransferredAt:  time.Now(),
	}
	if err := uc.producer.PublishProductTransferred(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to publish transfer event: %w", err)
	}

	log.Infow(ctx, "product transferred",
		"product_id", product.ID,
		"from", caller.UserID,
		"to", recipient.ID,
	)

	return &models.TransferResult{
		Product: updated,
		Status:  true,
		User:    recipient.Name,
	}, nil
}
