package domain

import "time"

// OwnerKey partitions carts and orders. It is either an authenticated
// user id or an anonymous guest session token, never both; a cart keeps
// the same owner form for its whole lifetime.
type OwnerKey string

func OwnerForUser(userID string) OwnerKey {
	return OwnerKey("user:" + userID)
}

func OwnerForGuest(token string) OwnerKey {
	return OwnerKey("guest:" + token)
}

func (k OwnerKey) IsGuest() bool {
	return len(k) > 6 && k[:6] == "guest:"
}

func (k OwnerKey) String() string {
	return string(k)
}

// CartItem is a line in a cart. Name, image and unit price are captured
// from the catalog when the line is added, not read live afterwards, so
// open carts keep stable totals across catalog price changes.
type CartItem struct {
	ProductID string    `bson:"product_id" json:"productId"`
	Name      string    `bson:"name" json:"name"`
	ImageURL  string    `bson:"image_url" json:"imageUrl"`
	UnitPrice int64     `bson:"unit_price" json:"unitPrice"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	LineTotal int64     `bson:"line_total" json:"lineTotal"`
	AddedAt   time.Time `bson:"added_at" json:"addedAt"`
}

// Cart holds the pre-order state for one owner key. TotalPrice and
// TotalCount always equal the sums over Items; every mutation keeps them
// in step with increment-in-place updates.
type Cart struct {
	ID         string     `bson:"_id,omitempty" json:"id,omitempty"`
	OwnerKey   OwnerKey   `bson:"owner_key" json:"ownerKey"`
	Items      []CartItem `bson:"items" json:"items"`
	TotalPrice int64      `bson:"total_price" json:"totalPrice"`
	TotalCount int        `bson:"total_count" json:"totalCount"`
	CreatedAt  time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time  `bson:"updated_at" json:"updatedAt"`
}

// Item returns the line for productID, or nil.
func (c *Cart) Item(productID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
