package catalog

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

var ErrProductNotFound = fmt.Errorf("product %w", domain.ErrNotFound)

// Product is a catalog entry. Price is in minor units.
type Product struct {
	ID       string `bson:"_id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Price    int64  `bson:"price" json:"price"`
	ImageURL string `bson:"image_url" json:"imageUrl"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// Catalog is the read-only product lookup consumed by the cart. The cart
// captures name and price at add time, so this is never consulted again
// for lines already in a cart.
type Catalog interface {
	Lookup(ctx context.Context, productID string) (*Product, error)
}

func NewMongoCatalog(db *mongo.Database) *MongoCatalog {
	return &MongoCatalog{
		collection: db.Collection("foods"),
	}
}

// MongoCatalog reads products from the foods collection.
type MongoCatalog struct {
	collection *mongo.Collection
}

func (c *MongoCatalog) Lookup(ctx context.Context, productID string) (*Product, error) {
	var p Product

	err := c.collection.FindOne(ctx, bson.M{"_id": productID}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}

	return &p, nil
}

// Seed upserts products by id. Used on startup for development fixtures.
func (c *MongoCatalog) Seed(ctx context.Context, products ...Product) error {
	for _, p := range products {
		if p.CreatedAt.IsZero() {
			p.CreatedAt = time.Now()
		}
		filter := bson.M{"_id": p.ID}
		update := bson.M{"$set": p}
		opts := options.Update().SetUpsert(true)

		if _, err := c.collection.UpdateOne(ctx, filter, update, opts); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.ID, err)
		}
	}
	return nil
}
