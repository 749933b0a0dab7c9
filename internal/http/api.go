package http

import (
	"context"

	"github.com/shrush07/puff-n-sip-backend/internal/domain"
	"github.com/shrush07/puff-n-sip-backend/internal/reporting"
)

// Interfaces the handlers consume. The service structs satisfy them;
// tests substitute in-memory fakes.

type CartAPI interface {
	GetCart(ctx context.Context, owner domain.OwnerKey) (*domain.Cart, error)
	AddItem(ctx context.Context, owner domain.OwnerKey, productID string, quantity int) (*domain.Cart, error)
	SetQuantity(ctx context.Context, owner domain.OwnerKey, productID string, quantity int, unitPrice int64) (*domain.Cart, error)
	RemoveItem(ctx context.Context, owner domain.OwnerKey, productID string) (*domain.Cart, error)
	ClearCart(ctx context.Context, owner domain.OwnerKey) (*domain.Cart, error)
}

type OrderAPI interface {
	CreateFromCart(ctx context.Context, owner domain.OwnerKey, userID string, shipping domain.ShippingInfo, orderType domain.OrderType) (*domain.Order, error)
	DraftForOwner(ctx context.Context, owner domain.OwnerKey, userID string) (*domain.Order, error)
	UpdateDraft(ctx context.Context, orderID string, items []domain.OrderItem, shipping domain.ShippingInfo) (*domain.Order, error)
	Cancel(ctx context.Context, orderID string) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	LatestForOwner(ctx context.Context, owner domain.OwnerKey) (*domain.Order, error)
}

type PaymentAPI interface {
	CreateIntent(ctx context.Context, orderID string, amount int64, currency string) (*domain.PaymentIntent, error)
	ConfirmPayment(ctx context.Context, orderID, providerRef string) (*domain.Order, error)
}

type ReportingAPI interface {
	TopProducts(ctx context.Context, window string) ([]reporting.TopProduct, error)
	Dashboard(ctx context.Context) (*reporting.Dashboard, error)
}
