package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nguyentranbao-ct/product-service/internal/models"
)

type SiteRepository interface {
	GetByID(ctx context.Context, id string) (*models.Site, error)
	ListIDsByUser(ctx context.Context, userID string) ([]string, error)
	IsMember(ctx context.Context, siteID, userID string) (bool, error)
}

type siteRepo struct {
	collection *mongo.Collection
}

func NewSiteRepository(db *DB) SiteRepository {
	return &siteRepo{
		collection: db.Database.Collection("sites"),
	}
}

func (r *siteRepo) GetByID(ctx context.Context, id string) (*models.Site, error) {
	var site models.Site
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&site)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get site: %w", err)
	}
	return &site, nil
}

func (r *siteRepo) ListIDsByUser(ctx context.Context, userID string) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"member_ids": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites for user: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode site: %w", err)
		}
		ids = append(ids, doc.ID)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return ids, nil
}

func (r *siteRepo) IsMember(ctx context.Context, siteID, userID string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"_id":        siteID,
		"member_ids": userID,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check site membership: %w", err)
	}
	return count > 0, nil
}
