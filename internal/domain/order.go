package domain

import "time"

type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "NEW"
	OrderStatusModified  OrderStatus = "MODIFIED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// IsDraft reports whether the order is still editable pre-payment.
func (s OrderStatus) IsDraft() bool {
	return s == OrderStatusNew || s == OrderStatusModified
}

func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo encodes the order state machine:
// NEW -> MODIFIED -> COMPLETED, with NEW|MODIFIED -> CANCELLED.
// Terminal states have no outgoing transitions.
func CanTransitionTo(from, to OrderStatus) bool {
	if from.IsTerminal() {
		return false
	}
	switch to {
	case OrderStatusModified, OrderStatusCompleted, OrderStatusCancelled:
		return from.IsDraft()
	default:
		return false
	}
}

type OrderType string

const (
	OrderTypeOnline  OrderType = "ONLINE"
	OrderTypeInStore OrderType = "IN_STORE"
)

func (t OrderType) Valid() bool {
	return t == OrderTypeOnline || t == OrderTypeInStore
}

// OrderItem is a snapshot of a cart line at checkout time. It never
// references the catalog or the cart again; later price changes must not
// touch a placed order.
type OrderItem struct {
	ProductID string `bson:"product_id" json:"productId"`
	Name      string `bson:"name" json:"name"`
	ImageURL  string `bson:"image_url" json:"imageUrl"`
	UnitPrice int64  `bson:"unit_price" json:"unitPrice"`
	Quantity  int    `bson:"quantity" json:"quantity"`
	LineTotal int64  `bson:"line_total" json:"lineTotal"`
}

// ShippingInfo is the delivery detail captured at checkout. All fields
// are required for ONLINE orders.
type ShippingInfo struct {
	Name     string `bson:"name" json:"name"`
	Address  string `bson:"address" json:"address"`
	ImageURL string `bson:"image_url" json:"imageUrl"`
}

// Order is the system of record for what a customer is charged for.
// PaymentRef is set exactly when status is COMPLETED.
type Order struct {
	ID         string       `bson:"_id" json:"id"`
	OwnerKey   OwnerKey     `bson:"owner_key" json:"ownerKey"`
	UserID     string       `bson:"user_id,omitempty" json:"userId,omitempty"`
	Shipping   ShippingInfo `bson:"shipping" json:"shipping"`
	Items      []OrderItem  `bson:"items" json:"items"`
	TotalPrice int64        `bson:"total_price" json:"totalPrice"`
	Currency   string       `bson:"currency" json:"currency"`
	Status     OrderStatus  `bson:"status" json:"status"`
	OrderType  OrderType    `bson:"order_type" json:"orderType"`
	PaymentRef string       `bson:"payment_ref,omitempty" json:"paymentRef,omitempty"`
	CreatedAt  time.Time    `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time    `bson:"updated_at" json:"updatedAt"`
}
