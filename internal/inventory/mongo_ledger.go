package inventory

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoLedger struct {
	products *mongo.Collection
}

func NewMongoLedger(db *mongo.Database) Ledger {
	return &mongoLedger{products: db.Collection("products")}
}

func (l *mongoLedger) CheckAvailable(ctx context.Context, productID string, qty int) (bool, error) {
	var doc struct {
		Stock int `bson:"stock"`
	}
	err := l.products.FindOne(ctx, bson.M{"_id": productID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, ErrProductNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to read stock: %w", err)
	}
	return doc.Stock >= qty, nil
}

// Reserve relies on the server-side conditional update being atomic per
// document: the filter and the $inc are applied as one operation, so two
// concurrent reservations can never both pass a stale stock read.
func (l *mongoLedger) Reserve(ctx context.Context, productID string, qty int) error {
	filter := bson.M{
		"_id":   productID,
		"stock": bson.M{"$gte": qty},
	}
	update := bson.M{"$inc": bson.M{"stock": -qty}}

	result, err := l.products.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to reserve stock: %w", err)
	}
	if result.MatchedCount == 1 {
		return nil
	}

	// Condition failed: distinguish "not enough stock" from "no such product".
	n, err := l.products.CountDocuments(ctx, bson.M{"_id": productID})
	if err != nil {
		return fmt.Errorf("failed to check product existence: %w", err)
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return ErrInsufficientStock
}

func (l *mongoLedger) Release(ctx context.Context, productID string, qty int) error {
	update := bson.M{"$inc": bson.M{"stock": qty}}

	result, err := l.products.UpdateOne(ctx, bson.M{"_id": productID}, update)
	if err != nil {
		return fmt.Errorf("failed to release stock: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}
