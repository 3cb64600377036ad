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

type mongoCartRepository struct {
	collection *mongo.Collection
}

func NewMongoCartRepository(db *mongo.Database) CartRepository {
	return &mongoCartRepository{collection: db.Collection("carts")}
}

func (m *mongoCartRepository) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart

	err := m.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return &cart, nil
}

// Upsert writes the whole cart document. The cart is always mutated and
// re-totalled in memory first, so a full replace keeps items and total
// consistent in one write. The unique user_id index enforces one cart per user.
func (m *mongoCartRepository) Upsert(ctx context.Context, cart *domain.Cart) error {
	now := time.Now()
	if cart.ID == "" {
		cart.ID = primitive.NewObjectID().Hex()
	}
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now

	filter := bson.M{"user_id": cart.UserID}
	opts := options.Replace().SetUpsert(true)

	if _, err := m.collection.ReplaceOne(ctx, filter, cart, opts); err != nil {
		return fmt.Errorf("failed to upsert cart: %w", err)
	}
	return nil
}
