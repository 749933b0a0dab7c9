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

var draftStatuses = bson.M{"$in": bson.A{domain.OrderStatusNew, domain.OrderStatusModified}}

type mongoOrderRepository struct {
	collection *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) OrderRepository {
	return &mongoOrderRepository{
		collection: db.Collection("orders"),
	}
}

func (m *mongoOrderRepository) Insert(ctx context.Context, order *domain.Order) error {
	_, err := m.collection.InsertOne(ctx, order)
	if err != nil {
		// The partial unique index on (owner_key, draft statuses) turns
		// the lookup-then-create race into a duplicate key: the caller
		// should refetch the surviving draft.
		if mongo.IsDuplicateKeyError(err) {
			return ErrDraftExists
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (m *mongoOrderRepository) Get(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order

	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return &order, nil
}

func (m *mongoOrderRepository) FindDraft(ctx context.Context, owner domain.OwnerKey) (*domain.Order, error) {
	var order domain.Order

	filter := bson.M{"owner_key": owner, "status": draftStatuses}
	err := m.collection.FindOne(ctx, filter).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find draft order: %w", err)
	}

	return &order, nil
}

func (m *mongoOrderRepository) FindLatest(ctx context.Context, owner domain.OwnerKey) (*domain.Order, error) {
	var order domain.Order

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	err := m.collection.FindOne(ctx, bson.M{"owner_key": owner}, opts).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find latest order: %w", err)
	}

	return &order, nil
}

func (m *mongoOrderRepository) UpdateDraft(ctx context.Context, id string, items []domain.OrderItem, totalPrice int64, shipping domain.ShippingInfo) (*domain.Order, error) {
	filter := bson.M{"_id": id, "status": draftStatuses}
	update := bson.M{
		"$set": bson.M{
			"items":       items,
			"total_price": totalPrice,
			"shipping":    shipping,
			"status":      domain.OrderStatusModified,
			"updated_at":  time.Now(),
		},
	}

	res, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update draft order: %w", err)
	}
	if res.MatchedCount == 0 {
		// Either the order is gone or it already left the draft states.
		if _, getErr := m.Get(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrOrderNotDraft
	}

	return m.Get(ctx, id)
}

func (m *mongoOrderRepository) Complete(ctx context.Context, id, paymentRef string) (*domain.Order, error) {
	filter := bson.M{"_id": id, "status": draftStatuses}
	update := bson.M{
		"$set": bson.M{
			"status":      domain.OrderStatusCompleted,
			"payment_ref": paymentRef,
			"updated_at":  time.Now(),
		},
	}

	res, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("failed to complete order: %w", err)
	}
	if res.MatchedCount == 1 {
		return m.Get(ctx, id)
	}

	// The conditional write matched nothing. Read the document once to
	// tell a duplicate confirmation from a genuinely illegal transition.
	order, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch order.Status {
	case domain.OrderStatusCompleted:
		if order.PaymentRef == paymentRef {
			// Duplicate delivery of the same confirmation. The order is
			// already in the state the caller wants.
			return order, nil
		}
		return nil, ErrPaymentMismatch
	case domain.OrderStatusCancelled:
		return nil, fmt.Errorf("order is cancelled: %w", domain.ErrInvalidState)
	default:
		return nil, fmt.Errorf("order status changed concurrently: %w", domain.ErrConflict)
	}
}

func (m *mongoOrderRepository) Cancel(ctx context.Context, id string) (*domain.Order, error) {
	filter := bson.M{"_id": id, "status": draftStatuses}
	update := bson.M{
		"$set": bson.M{
			"status":     domain.OrderStatusCancelled,
			"updated_at": time.Now(),
		},
	}

	res, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}
	if res.MatchedCount == 1 {
		return m.Get(ctx, id)
	}

	order, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == domain.OrderStatusCancelled {
		return order, nil
	}
	return nil, fmt.Errorf("cannot cancel a %s order: %w", order.Status, domain.ErrInvalidState)
}

func (m *mongoOrderRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			// At most one draft order per owner. Concurrent draft creation
			// loses here and surfaces as ErrDraftExists.
			Keys: bson.D{{Key: "owner_key", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": draftStatuses}),
		},
		{
			Keys: bson.D{{Key: "owner_key", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create order indexes: %w", err)
	}

	return nil
}
