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

type mongoOrderRepository struct {
	collection *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) OrderRepository {
	return &mongoOrderRepository{collection: db.Collection("orders")}
}

func (m *mongoOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	now := time.Now()
	if order.ID == "" {
		order.ID = primitive.NewObjectID().Hex()
	}
	order.CreatedAt = now
	order.UpdatedAt = now

	if _, err := m.collection.InsertOne(ctx, order); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateOrder
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (m *mongoOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return m.findOne(ctx, bson.M{"_id": id})
}

func (m *mongoOrderRepository) GetForUser(ctx context.Context, id, userID string) (*domain.Order, error) {
	return m.findOne(ctx, bson.M{"_id": id, "user_id": userID})
}

func (m *mongoOrderRepository) findOne(ctx context.Context, filter bson.M) (*domain.Order, error) {
	var order domain.Order
	err := m.collection.FindOne(ctx, filter).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

func (m *mongoOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	order.UpdatedAt = time.Now()

	result, err := m.collection.ReplaceOne(ctx, bson.M{"_id": order.ID}, order)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// ResolvePayment is a conditional replace: the filter and the write are one
// atomic operation, so two concurrent resolutions can never both match the
// pending document.
func (m *mongoOrderRepository) ResolvePayment(ctx context.Context, order *domain.Order) error {
	order.UpdatedAt = time.Now()

	filter := bson.M{"_id": order.ID, "payment_status": domain.PaymentStatusPending}
	result, err := m.collection.ReplaceOne(ctx, filter, order)
	if err != nil {
		return fmt.Errorf("failed to resolve payment: %w", err)
	}
	if result.MatchedCount == 1 {
		return nil
	}

	// Condition failed: distinguish a resolved payment from a missing order.
	n, err := m.collection.CountDocuments(ctx, bson.M{"_id": order.ID})
	if err != nil {
		return fmt.Errorf("failed to check order existence: %w", err)
	}
	if n == 0 {
		return ErrOrderNotFound
	}
	return ErrPaymentConflict
}

func (m *mongoOrderRepository) ListByUser(ctx context.Context, userID, cursor string, limit int) ([]domain.Order, error) {
	query := bson.M{"user_id": userID}
	return m.list(ctx, query, cursor, limit)
}

func (m *mongoOrderRepository) ListAll(ctx context.Context, cursor string, limit int) ([]domain.Order, error) {
	return m.list(ctx, bson.M{}, cursor, limit)
}

// Orders page newest-first; _id hex order tracks creation time, so the cursor
// condition is a strict less-than on the last seen id.
func (m *mongoOrderRepository) list(ctx context.Context, query bson.M, cursor string, limit int) ([]domain.Order, error) {
	if cursor != "" {
		query["_id"] = bson.M{"$lt": cursor}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := m.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cur.Close(ctx)

	var orders []domain.Order
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}
