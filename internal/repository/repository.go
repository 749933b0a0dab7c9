package repository

import (
	"context"
	"fmt"

	"github.com/shrush07/puff-n-sip-backend/internal/domain"
)

var (
	ErrCartNotFound    = fmt.Errorf("cart %w", domain.ErrNotFound)
	ErrItemNotFound    = fmt.Errorf("cart item %w", domain.ErrNotFound)
	ErrOrderNotFound   = fmt.Errorf("order %w", domain.ErrNotFound)
	ErrDraftExists     = fmt.Errorf("draft order already exists: %w", domain.ErrConflict)
	ErrPaymentMismatch = fmt.Errorf("payment reference mismatch: %w", domain.ErrConflict)
	ErrOrderNotDraft   = fmt.Errorf("order is no longer editable: %w", domain.ErrInvalidState)
	ErrConcurrentWrite = fmt.Errorf("concurrent cart update: %w", domain.ErrConflict)
)

// CartRepository owns per-owner cart documents. Mutations are atomic
// per owner key at the storage layer: totals move with $inc alongside
// the line change, never via read-modify-write of the whole document.
// Consumers define this interface, not the MongoDB implementation.
type CartRepository interface {
	Get(ctx context.Context, owner domain.OwnerKey) (*domain.Cart, error)
	// AddItem appends a new line or increments the existing line for the
	// item's product id. Concurrent calls for the same owner never lose
	// an increment. The cart document is created on first use.
	AddItem(ctx context.Context, owner domain.OwnerKey, item domain.CartItem) error
	// SetItem overwrites quantity and unit price for an existing line.
	SetItem(ctx context.Context, owner domain.OwnerKey, productID string, quantity int, unitPrice int64) error
	// RemoveItem deletes the line for productID. A missing line or a
	// missing cart is a no-op, not an error.
	RemoveItem(ctx context.Context, owner domain.OwnerKey, productID string) error
	// Clear empties items and zeroes totals but keeps the cart document,
	// so the owner binding survives checkout.
	Clear(ctx context.Context, owner domain.OwnerKey) error
	EnsureIndexes(ctx context.Context) error
}

// OrderRepository owns order documents and enforces the status state
// machine with conditional updates keyed on the current status.
type OrderRepository interface {
	Insert(ctx context.Context, order *domain.Order) error
	Get(ctx context.Context, id string) (*domain.Order, error)
	// FindDraft returns the owner's order in NEW or MODIFIED status.
	FindDraft(ctx context.Context, owner domain.OwnerKey) (*domain.Order, error)
	FindLatest(ctx context.Context, owner domain.OwnerKey) (*domain.Order, error)
	// UpdateDraft replaces a draft order's items and shipping and moves
	// it to MODIFIED. Fails with ErrOrderNotDraft once the order left the
	// draft states.
	UpdateDraft(ctx context.Context, id string, items []domain.OrderItem, totalPrice int64, shipping domain.ShippingInfo) (*domain.Order, error)
	// Complete transitions a draft order to COMPLETED and records the
	// payment reference. Idempotent for a repeated (id, paymentRef) pair;
	// a different reference on a completed order is ErrPaymentMismatch.
	Complete(ctx context.Context, id, paymentRef string) (*domain.Order, error)
	// Cancel transitions a draft order to CANCELLED. Idempotent on an
	// already-cancelled order; fails on a completed one.
	Cancel(ctx context.Context, id string) (*domain.Order, error)
	EnsureIndexes(ctx context.Context) error
}
