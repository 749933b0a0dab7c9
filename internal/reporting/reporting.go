// Package reporting computes derived read-only views over completed
// orders. Nothing here mutates state; it is the admin dashboard's data
// source, not part of the order lifecycle.
package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/shrush07/puff-n-sip-backend/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type TopProduct struct {
	ProductID string `bson:"_id" json:"productId"`
	Name      string `bson:"name" json:"name"`
	ImageURL  string `bson:"image_url" json:"imageUrl"`
	TotalSold int64  `bson:"total_sold" json:"totalSold"`
	Revenue   int64  `bson:"revenue" json:"revenue"`
}

type Dashboard struct {
	TotalOrders     int64 `json:"totalOrders"`
	CompletedOrders int64 `json:"completedOrders"`
	Revenue         int64 `json:"revenue"` // minor units, completed orders only
	TotalUsers      int64 `json:"totalUsers"`
}

type Service struct {
	orders *mongo.Collection
	users  *mongo.Collection
}

func NewService(db *mongo.Database) *Service {
	return &Service{
		orders: db.Collection("orders"),
		users:  db.Collection("users"),
	}
}

func windowStart(window string, now time.Time) (time.Time, error) {
	switch window {
	case "weekly":
		return now.AddDate(0, 0, -7), nil
	case "monthly":
		return now.AddDate(0, -1, 0), nil
	case "yearly":
		return now.AddDate(-1, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("unknown range %q: %w", window, domain.ErrInvalidArgument)
	}
}

// TopProducts ranks products by units sold in completed orders within
// the window ("weekly", "monthly" or "yearly").
func (s *Service) TopProducts(ctx context.Context, window string) ([]TopProduct, error) {
	start, err := windowStart(window, time.Now())
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status":     domain.OrderStatusCompleted,
			"created_at": bson.M{"$gte": start},
		}}},
		{{Key: "$unwind", Value: "$items"}},
		{{Key: "$group", Value: bson.M{
			"_id":        "$items.product_id",
			"name":       bson.M{"$first": "$items.name"},
			"image_url":  bson.M{"$first": "$items.image_url"},
			"total_sold": bson.M{"$sum": "$items.quantity"},
			"revenue":    bson.M{"$sum": "$items.line_total"},
		}}},
		{{Key: "$sort", Value: bson.M{"total_sold": -1}}},
		{{Key: "$limit", Value: 10}},
	}

	cursor, err := s.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("top products aggregation failed: %w", err)
	}
	defer cursor.Close(ctx)

	var out []TopProduct
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode top products: %w", err)
	}

	return out, nil
}

func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	total, err := s.orders.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	completed, err := s.orders.CountDocuments(ctx, bson.M{"status": domain.OrderStatusCompleted})
	if err != nil {
		return nil, fmt.Errorf("failed to count completed orders: %w", err)
	}

	users, err := s.users.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": domain.OrderStatusCompleted}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"revenue": bson.M{"$sum": "$total_price"},
		}}},
	}

	cursor, err := s.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("revenue aggregation failed: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Revenue int64 `bson:"revenue"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode revenue: %w", err)
	}

	dash := &Dashboard{
		TotalOrders:     total,
		CompletedOrders: completed,
		TotalUsers:      users,
	}
	if len(rows) > 0 {
		dash.Revenue = rows[0].Revenue
	}

	return dash, nil
}
