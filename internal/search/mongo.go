package search

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"github.com/nguyentranbao-ct/product-service/internal/models"
	"github.com/nguyentranbao-ct/product-service/internal/repo/mongodb"
)

type mongoIndex struct {
	coll *mongo.Collection
}

// NewMongoIndex searches the products collection through its text index.
// Name matches rank twice as high as description matches; the weights
// live on the index itself, see EnsureIndexes.
func NewMongoIndex(db *mongodb.DB) Index {
	return &mongoIndex{
		coll: db.Database.Collection("products"),
	}
}

// EnsureIndexes creates the weighted text index backing NewMongoIndex.
func EnsureIndexes(ctx context.Context, db *mongodb.DB) error {
	coll := db.Database.Collection("products")
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "name", Value: "text"},
			{Key: "description", Value: "text"},
		},
		Options: options.Index().
			SetName("products_text").
			SetWeights(bson.M{"name": 2, "description": 1}),
	})
	if err != nil {
		return fmt.Errorf("create text index: %w", err)
	}
	return nil
}

func (i *mongoIndex) Search(ctx context.Context, req Request) (*Result, error) {
	filter, err := buildFilter(req)
	if err != nil {
		return nil, err
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := int64(req.PerPage)
	skip := int64(page-1) * limit

	direction := -1
	if req.Sort.Ascending {
		direction = 1
	}
	findOpts := options.Find().
		SetSort(bson.D{{Key: req.Sort.Field, Value: direction}}).
		SetSkip(skip).
		SetLimit(limit)

	group, ctx := errgroup.WithContext(ctx)
	var items []models.Product
	var total int64

	group.Go(func() error {
		cursor, err := i.coll.Find(ctx, filter, findOpts)
		if err != nil {
			return fmt.Errorf("find: %w", err)
		}
		if err := cursor.All(ctx, &items); err != nil {
			return fmt.Errorf("cursor all: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		var err error
		total, err = i.coll.CountDocuments(ctx, filter)
		if err != nil {
			return fmt.Errorf("count documents: %w", err)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	if items == nil {
		items = []models.Product{}
	}
	return &Result{Total: total, Items: items}, nil
}

func buildFilter(req Request) (bson.M, error) {
	if req.Phrase == "" {
		return nil, fmt.Errorf("empty search phrase, use MatchAll for no text filter")
	}
	filter := bson.M{}
	if req.Phrase != MatchAll {
		filter["$text"] = bson.M{"$search": req.Phrase}
	}
	for field, pred := range req.Where {
		switch pred.Op {
		case OpEq:
			filter[field] = pred.Value
		case OpNot:
			filter[field] = bson.M{"$ne": pred.Value}
		case OpLt:
			filter[field] = bson.M{"$lt": pred.Value}
		case OpIn:
			filter[field] = bson.M{"$in": pred.Value}
		default:
			return nil, fmt.Errorf("unknown predicate op %q on field %q", pred.Op, field)
		}
	}
	return filter, nil
}
