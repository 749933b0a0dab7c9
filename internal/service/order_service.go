package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shrush07/puff-n-sip-backend/internal/domain"
	"github.com/shrush07/puff-n-sip-backend/internal/repository"
)

type OrderService struct {
	orders   repository.OrderRepository
	carts    repository.CartRepository
	currency string
	log      *slog.Logger
}

func NewOrderService(orders repository.OrderRepository, carts repository.CartRepository, currency string, log *slog.Logger) *OrderService {
	return &OrderService{
		orders:   orders,
		carts:    carts,
		currency: currency,
		log:      log,
	}
}

// CreateFromCart checks out the owner's cart into a NEW order. Cart
// lines are copied by value; the order never references the cart or the
// catalog again. The cart itself is left intact so an abandoned payment
// can be retried without rebuilding it.
func (s *OrderService) CreateFromCart(ctx context.Context, owner domain.OwnerKey, userID string, shipping domain.ShippingInfo, orderType domain.OrderType) (*domain.Order, error) {
	if orderType == "" {
		orderType = domain.OrderTypeOnline
	}
	if !orderType.Valid() {
		return nil, fmt.Errorf("unknown order type %q: %w", orderType, domain.ErrInvalidArgument)
	}
	if orderType == domain.OrderTypeOnline {
		if shipping.Name == "" || shipping.Address == "" || shipping.ImageURL == "" {
			return nil, fmt.Errorf("name, address and imageUrl are required for online orders: %w", domain.ErrInvalidArgument)
		}
	}

	cart, err := s.carts.Get(ctx, owner)
	if errors.Is(err, repository.ErrCartNotFound) {
		return nil, fmt.Errorf("cart is empty: %w", domain.ErrInvalidArgument)
	}
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, fmt.Errorf("cart is empty: %w", domain.ErrInvalidArgument)
	}

	now := time.Now()
	order := &domain.Order{
		ID:         uuid.NewString(),
		OwnerKey:   owner,
		UserID:     userID,
		Shipping:   shipping,
		Items:      snapshotItems(cart.Items),
		TotalPrice: cart.TotalPrice,
		Currency:   s.currency,
		Status:     domain.OrderStatusNew,
		OrderType:  orderType,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.orders.Insert(ctx, order); err != nil {
		return nil, err
	}

	s.log.Info("order created", "order_id", order.ID, "owner", owner, "total", order.TotalPrice)
	return order, nil
}

// DraftForOwner returns the owner's draft order, creating an empty NEW
// one if none exists. The lookup-then-create race is closed by the
// storage-level uniqueness constraint on draft orders: the losing call
// gets ErrDraftExists and should refetch.
func (s *OrderService) DraftForOwner(ctx context.Context, owner domain.OwnerKey, userID string) (*domain.Order, error) {
	draft, err := s.orders.FindDraft(ctx, owner)
	if err == nil {
		return draft, nil
	}
	if !errors.Is(err, repository.ErrOrderNotFound) {
		return nil, err
	}

	now := time.Now()
	order := &domain.Order{
		ID:        uuid.NewString(),
		OwnerKey:  owner,
		UserID:    userID,
		Items:     []domain.OrderItem{},
		Currency:  s.currency,
		Status:    domain.OrderStatusNew,
		OrderType: domain.OrderTypeOnline,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.orders.Insert(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateDraft replaces a draft order's items and shipping and moves it
// to MODIFIED. Line totals and the order total are recomputed from the
// submitted quantities and prices, not trusted from the caller.
func (s *OrderService) UpdateDraft(ctx context.Context, orderID string, items []domain.OrderItem, shipping domain.ShippingInfo) (*domain.Order, error) {
	if orderID == "" {
		return nil, fmt.Errorf("order id is required: %w", domain.ErrInvalidArgument)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("order must keep at least one item: %w", domain.ErrInvalidArgument)
	}

	var total int64
	for i := range items {
		if items[i].Quantity < 1 {
			return nil, fmt.Errorf("item quantity must be at least 1: %w", domain.ErrInvalidArgument)
		}
		if items[i].UnitPrice < 0 {
			return nil, fmt.Errorf("item price must not be negative: %w", domain.ErrInvalidArgument)
		}
		items[i].LineTotal = items[i].UnitPrice * int64(items[i].Quantity)
		total += items[i].LineTotal
	}

	return s.orders.UpdateDraft(ctx, orderID, items, total, shipping)
}

// MarkCompleted moves an order to COMPLETED with the given payment
// reference. The Payment Bridge is the sole caller. Duplicate delivery
// of the same confirmation is success; a different reference on an
// already completed order is a conflict needing manual reconciliation.
func (s *OrderService) MarkCompleted(ctx context.Context, orderID, paymentRef string) (*domain.Order, error) {
	if orderID == "" {
		return nil, fmt.Errorf("order id is required: %w", domain.ErrInvalidArgument)
	}
	if paymentRef == "" {
		return nil, fmt.Errorf("payment reference is required: %w", domain.ErrInvalidArgument)
	}

	order, err := s.orders.Complete(ctx, orderID, paymentRef)
	if err != nil {
		return nil, err
	}

	s.log.Info("order completed", "order_id", order.ID, "payment_ref", paymentRef)
	return order, nil
}

func (s *OrderService) Cancel(ctx context.Context, orderID string) (*domain.Order, error) {
	if orderID == "" {
		return nil, fmt.Errorf("order id is required: %w", domain.ErrInvalidArgument)
	}
	order, err := s.orders.Cancel(ctx, orderID)
	if err != nil {
		return nil, err
	}

	s.log.Info("order cancelled", "order_id", order.ID)
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	if orderID == "" {
		return nil, fmt.Errorf("order id is required: %w", domain.ErrInvalidArgument)
	}
	return s.orders.Get(ctx, orderID)
}

func (s *OrderService) LatestForOwner(ctx context.Context, owner domain.OwnerKey) (*domain.Order, error) {
	return s.orders.FindLatest(ctx, owner)
}

func snapshotItems(items []domain.CartItem) []domain.OrderItem {
	out := make([]domain.OrderItem, len(items))
	for i, it := range items {
		out[i] = domain.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			ImageURL:  it.ImageURL,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal,
		}
	}
	return out
}
