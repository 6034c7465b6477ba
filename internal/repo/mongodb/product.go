package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nguyentranbao-ct/product-service/internal/models"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Update(ctx context.Context, id string, name, description string) (*models.Product, error)
	UpdateStatus(ctx context.Context, id string, status string) (*models.Product, error)
	UpdateOwner(ctx context.Context, id string, userID string) (*models.Product, error)
}

type productRepo struct {
	collection *mongo.Collection
}

func NewProductRepository(db *DB) ProductRepository {
	return &productRepo{
		collection: db.Database.Collection("products"),
	}
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, product)
	if mongo.IsDuplicateKeyError(err) {
		// the loser of a concurrent find-or-create for the same id
		return fmt.Errorf("product %s: %w", product.ID, models.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

func (r *productRepo) Update(ctx context.Context, id string, name, description string) (*models.Product, error) {
	return r.findOneAndSet(ctx, id, bson.M{
		"name":        name,
		"description": description,
	})
}

func (r *productRepo) UpdateStatus(ctx context.Context, id string, status string) (*models.Product, error) {
	return r.findOneAndSet(ctx, id, bson.M{"status": status})
}

func (r *productRepo) UpdateOwner(ctx context.Context, id string, userID string) (*models.Product, error) {
	return r.findOneAndSet(ctx, id, bson.M{"created_by": userID})
}

func (r *productRepo) findOneAndSet(ctx context.Context, id string, set bson.M) (*models.Product, error) {
	set["updated_at"] = time.Now()
	opts := options.
		FindOneAndUpdate().
		SetReturnDocument(options.After)

	var updated models.Product
	err := r.collection.
		FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).
		Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return &updated, nil
}
