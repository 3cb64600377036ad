package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iyanu752/e-commerce-api/internal/domain"
)

type mongoProductRepository struct {
	collection *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) ProductRepository {
	return &mongoProductRepository{collection: db.Collection("products")}
}

func (m *mongoProductRepository) Create(ctx context.Context, product *domain.Product) error {
	now := time.Now()
	if product.ID == "" {
		// ObjectID hex keeps _id order aligned with creation order, which the
		// ascending cursor listing depends on.
		product.ID = primitive.NewObjectID().Hex()
	}
	product.CreatedAt = now
	product.UpdatedAt = now

	if _, err := m.collection.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

func (m *mongoProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

func (m *mongoProductRepository) Update(ctx context.Context, product *domain.Product) error {
	product.UpdatedAt = time.Now()

	result, err := m.collection.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (m *mongoProductRepository) Delete(ctx context.Context, id string) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (m *mongoProductRepository) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	query := bson.M{"is_active": true}

	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.MinPrice != nil || filter.MaxPrice != nil {
		price := bson.M{}
		if filter.MinPrice != nil {
			price["$gte"] = *filter.MinPrice
		}
		if filter.MaxPrice != nil {
			price["$lte"] = *filter.MaxPrice
		}
		query["price"] = price
	}
	if filter.Search != "" {
		query["$text"] = bson.M{"$search": filter.Search}
	}
	if filter.Cursor != "" {
		query["_id"] = bson.M{"$gt": filter.Cursor}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(int64(filter.Limit))

	cur, err := m.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cur.Close(ctx)

	var products []domain.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}
