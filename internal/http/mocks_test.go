package http

import (
	"context"

	"github.com/shrush07/puff-n-sip-backend/internal/domain"
	"github.com/shrush07/puff-n-sip-backend/internal/reporting"
)

// Function-field fakes for the handler interfaces. Tests set only the
// methods a case touches; calling an unset method panics loudly.

type fakeCartAPI struct {
	getCart     func(ctx context.Context, owner domain.OwnerKey) (*domain.Cart, error)
	addItem     func(ctx context.Context, owner domain.OwnerKey, productID string, quantity int) (*domain.Cart, error)
	setQuantity func(ctx context.Context, owner domain.OwnerKey, productID string, quantity int, unitPrice int64) (*domain.Cart, error)
	removeItem  func(ctx context.Context, owner domain.OwnerKey, productID string) (*domain.Cart, error)
	clearCart   func(ctx context.Context, owner domain.OwnerKey) (*domain.Cart, error)
}

func (f *fakeCartAPI) GetCart(ctx context.Context, owner domain.OwnerKey) (*domain.Cart, error) {
	return f.getCart(ctx, owner)
}

func (f *fakeCartAPI) AddItem(ctx context.Context, owner domain.OwnerKey, productID string, quantity int) (*domain.Cart, error) {
	return f.addItem(ctx, owner, productID, quantity)
}

func (f *fakeCartAPI) SetQuantity(ctx context.Context, owner domain.OwnerKey, productID string, quantity int, unitPrice int64) (*domain.Cart, error) {
	return f.setQuantity(ctx, owner, productID, quantity, unitPrice)
}

func (f *fakeCartAPI) RemoveItem(ctx context.Context, owner domain.OwnerKey, productID string) (*domain.Cart, error) {
	return f.removeItem(ctx, owner, productID)
}

func (f *fakeCartAPI) ClearCart(ctx context.Context, owner domain.OwnerKey) (*domain.Cart, error) {
	return f.clearCart(ctx, owner)
}

type fakeOrderAPI struct {
	createFromCart func(ctx context.Context, owner domain.OwnerKey, userID string, shipping domain.ShippingInfo, orderType domain.OrderType) (*domain.Order, error)
	draftForOwner  func(ctx context.Context, owner domain.OwnerKey, userID string) (*domain.Order, error)
	updateDraft    func(ctx context.Context, orderID string, items []domain.OrderItem, shipping domain.ShippingInfo) (*domain.Order, error)
	cancel         func(ctx context.Context, orderID string) (*domain.Order, error)
	getOrder       func(ctx context.Context, orderID string) (*domain.Order, error)
	latestForOwner func(ctx context.Context, owner domain.OwnerKey) (*domain.Order, error)
}

func (f *fakeOrderAPI) CreateFromCart(ctx context.Context, owner domain.OwnerKey, userID string, shipping domain.ShippingInfo, orderType domain.OrderType) (*domain.Order, error) {
	return f.createFromCart(ctx, owner, userID, shipping, orderType)
}

func (f *fakeOrderAPI) DraftForOwner(ctx context.Context, owner domain.OwnerKey, userID string) (*domain.Order, error) {
	return f.draftForOwner(ctx, owner, userID)
}

func (f *fakeOrderAPI) UpdateDraft(ctx context.Context, orderID string, items []domain.OrderItem, shipping domain.ShippingInfo) (*domain.Order, error) {
	return f.updateDraft(ctx, orderID, items, shipping)
}

func (f *fakeOrderAPI) Cancel(ctx context.Context, orderID string) (*domain.Order, error) {
	return f.cancel(ctx, orderID)
}

func (f *fakeOrderAPI) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return f.getOrder(ctx, orderID)
}

func (f *fakeOrderAPI) LatestForOwner(ctx context.Context, owner domain.OwnerKey) (*domain.Order, error) {
	return f.latestForOwner(ctx, owner)
}

type fakePaymentAPI struct {
	createIntent   func(ctx context.Context, orderID string, amount int64, currency string) (*domain.PaymentIntent, error)
	confirmPayment func(ctx context.Context, orderID, providerRef string) (*domain.Order, error)
}

func (f *fakePaymentAPI) CreateIntent(ctx context.Context, orderID string, amount int64, currency string) (*domain.PaymentIntent, error) {
	return f.createIntent(ctx, orderID, amount, currency)
}

func (f *fakePaymentAPI) ConfirmPayment(ctx context.Context, orderID, providerRef string) (*domain.Order, error) {
	return f.confirmPayment(ctx, orderID, providerRef)
}

type fakeReportingAPI struct {
	topProducts func(ctx context.Context, window string) ([]reporting.TopProduct, error)
	dashboard   func(ctx context.Context) (*reporting.Dashboard, error)
}

func (f *fakeReportingAPI) TopProducts(ctx context.Context, window string) ([]reporting.TopProduct, error) {
	return f.topProducts(ctx, window)
}

func (f *fakeReportingAPI) Dashboard(ctx context.Context) (*reporting.Dashboard, error) {
	return f.dashboard(ctx)
}
