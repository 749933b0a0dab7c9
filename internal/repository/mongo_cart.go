package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shrush07/puff-n-sip-backend/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// How often a conditional cart update is retried before giving up with
// ErrConcurrentWrite. Each retry re-reads the document, so losing this
// many races in a row means pathological contention on one owner key.
const maxCartRetries = 5

type mongoCartRepository struct {
	collection *mongo.Collection
}

func NewMongoCartRepository(db *mongo.Database) CartRepository {
	return &mongoCartRepository{
		collection: db.Collection("carts"),
	}
}

func (m *mongoCartRepository) Get(ctx context.Context, owner domain.OwnerKey) (*domain.Cart, error) {
	var cart domain.Cart

	filter := bson.M{"owner_key": owner}
	err := m.collection.FindOne(ctx, filter).Decode(&cart)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return &cart, nil
}

func (m *mongoCartRepository) AddItem(ctx context.Context, owner domain.OwnerKey, item domain.CartItem) error {
	now := time.Now()
	item.AddedAt = now
	item.LineTotal = item.UnitPrice * int64(item.Quantity)

	if err := m.ensureCart(ctx, owner, now); err != nil {
		return err
	}

	for attempt := 0; attempt < maxCartRetries; attempt++ {
		// Bump the existing line first. $inc keeps the line and the cart
		// totals additive, so a concurrent double-submit lands as two
		// increments instead of a lost update.
		incFilter := bson.M{"owner_key": owner, "items.product_id": item.ProductID}
		inc := bson.M{
			"$inc": bson.M{
				"items.$.quantity":   item.Quantity,
				"items.$.line_total": item.LineTotal,
				"total_count":        item.Quantity,
				"total_price":        item.LineTotal,
			},
			"$set": bson.M{"updated_at": now},
		}

		res, err := m.collection.UpdateOne(ctx, incFilter, inc)
		if err != nil {
			return fmt.Errorf("failed to increment cart item: %w", err)
		}
		if res.MatchedCount == 1 {
			return nil
		}

		// No line for this product yet. Push one, guarded against a
		// concurrent push of the same product id.
		pushFilter := bson.M{"owner_key": owner, "items.product_id": bson.M{"$ne": item.ProductID}}
		push := bson.M{
			"$push": bson.M{"items": item},
			"$inc": bson.M{
				"total_count": item.Quantity,
				"total_price": item.LineTotal,
			},
			"$set": bson.M{"updated_at": now},
		}

		res, err = m.collection.UpdateOne(ctx, pushFilter, push)
		if err != nil {
			return fmt.Errorf("failed to push cart item: %w", err)
		}
		if res.MatchedCount == 1 {
			return nil
		}
		// Lost the push race: another call created the line between our
		// two updates. Loop back and increment it instead.
	}

	return ErrConcurrentWrite
}

// ensureCart creates the owner's cart document if it does not exist. The
// unique index on owner_key makes concurrent upserts converge on one
// document; the duplicate-key error from the loser is benign.
func (m *mongoCartRepository) ensureCart(ctx context.Context, owner domain.OwnerKey, now time.Time) error {
	filter := bson.M{"owner_key": owner}
	update := bson.M{
		"$setOnInsert": bson.M{
			"owner_key":   owner,
			"items":       []domain.CartItem{},
			"total_price": int64(0),
			"total_count": 0,
			"created_at":  now,
			"updated_at":  now,
		},
	}
	opts := options.Update().SetUpsert(true)

	_, err := m.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("failed to ensure cart: %w", err)
	}
	return nil
}

func (m *mongoCartRepository) SetItem(ctx context.Context, owner domain.OwnerKey, productID string, quantity int, unitPrice int64) error {
	for attempt := 0; attempt < maxCartRetries; attempt++ {
		cart, err := m.Get(ctx, owner)
		if err != nil {
			return err
		}

		line := cart.Item(productID)
		if line == nil {
			return ErrItemNotFound
		}

		newLineTotal := unitPrice * int64(quantity)
		now := time.Now()

		// Condition the write on the line values we read; if a concurrent
		// mutation moved them the update matches nothing and we retry.
		filter := bson.M{
			"owner_key": owner,
			"items": bson.M{"$elemMatch": bson.M{
				"product_id": productID,
				"quantity":   line.Quantity,
				"unit_price": line.UnitPrice,
			}},
		}
		update := bson.M{
			"$set": bson.M{
				"items.$.quantity":   quantity,
				"items.$.unit_price": unitPrice,
				"items.$.line_total": newLineTotal,
				"updated_at":         now,
			},
			"$inc": bson.M{
				"total_count": quantity - line.Quantity,
				"total_price": newLineTotal - line.LineTotal,
			},
		}

		res, err := m.collection.UpdateOne(ctx, filter, update)
		if err != nil {
			return fmt.Errorf("failed to set cart item: %w", err)
		}
		if res.MatchedCount == 1 {
			return nil
		}
	}

	return ErrConcurrentWrite
}

func (m *mongoCartRepository) RemoveItem(ctx context.Context, owner domain.OwnerKey, productID string) error {
	for attempt := 0; attempt < maxCartRetries; attempt++ {
		cart, err := m.Get(ctx, owner)
		if errors.Is(err, ErrCartNotFound) {
			return nil // nothing to remove
		}
		if err != nil {
			return err
		}

		line := cart.Item(productID)
		if line == nil {
			return nil // absent line is a no-op, not an error
		}

		filter := bson.M{
			"owner_key": owner,
			"items": bson.M{"$elemMatch": bson.M{
				"product_id": productID,
				"quantity":   line.Quantity,
				"unit_price": line.UnitPrice,
			}},
		}
		update := bson.M{
			"$pull": bson.M{"items": bson.M{"product_id": productID}},
			"$inc": bson.M{
				"total_count": -line.Quantity,
				"total_price": -line.LineTotal,
			},
			"$set": bson.M{"updated_at": time.Now()},
		}

		res, err := m.collection.UpdateOne(ctx, filter, update)
		if err != nil {
			return fmt.Errorf("failed to remove cart item: %w", err)
		}
		if res.MatchedCount == 1 {
			return nil
		}
	}

	return ErrConcurrentWrite
}

func (m *mongoCartRepository) Clear(ctx context.Context, owner domain.OwnerKey) error {
	filter := bson.M{"owner_key": owner}
	update := bson.M{
		"$set": bson.M{
			"items":       []domain.CartItem{},
			"total_price": int64(0),
			"total_count": 0,
			"updated_at":  time.Now(),
		},
	}

	// MatchedCount 0 just means the owner never had a cart; clearing an
	// absent cart is a no-op by contract.
	_, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}

func (m *mongoCartRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner_key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(90 * 24 * 60 * 60), // 90 days TTL
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create cart indexes: %w", err)
	}

	return nil
}
