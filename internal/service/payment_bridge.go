package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shrush07/puff-n-sip-backend/internal/domain"
	"github.com/shrush07/puff-n-sip-backend/internal/events"
	"github.com/shrush07/puff-n-sip-backend/internal/payment"
)

// PaymentBridge translates payment-provider activity into order state.
// It is the sole caller of OrderService.MarkCompleted.
type PaymentBridge struct {
	provider  payment.Provider
	orders    *OrderService
	publisher events.Publisher
	minCharge int64 // provider's minimum charge, minor units
	currency  string
	log       *slog.Logger
}

func NewPaymentBridge(provider payment.Provider, orders *OrderService, publisher events.Publisher, minCharge int64, currency string, log *slog.Logger) *PaymentBridge {
	return &PaymentBridge{
		provider:  provider,
		orders:    orders,
		publisher: publisher,
		minCharge: minCharge,
		currency:  currency,
		log:       log,
	}
}

// CreateIntent asks the provider for a pending-charge handle against an
// order total. It does not touch order state: an intent is not a
// commitment, and abandoned intents simply expire at the provider.
func (b *PaymentBridge) CreateIntent(ctx context.Context, orderID string, amount int64, currency string) (*domain.PaymentIntent, error) {
	if currency == "" {
		currency = b.currency
	}
	if amount < b.minCharge {
		return nil, fmt.Errorf("amount %d is below the provider minimum of %d: %w", amount, b.minCharge, domain.ErrInvalidArgument)
	}

	order, err := b.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	intent, err := b.provider.CreateIntent(ctx, amount, currency, "Order Payment")
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	b.log.Info("payment intent created", "order_id", order.ID, "amount", amount, "currency", currency)
	return &domain.PaymentIntent{
		OrderID:      order.ID,
		Amount:       amount,
		Currency:     currency,
		ProviderRef:  intent.ProviderRef,
		ClientSecret: intent.ClientSecret,
	}, nil
}

// ConfirmPayment records a caller-asserted provider confirmation as the
// COMPLETED transition. The reference is opaque here; verifying it
// against the provider belongs to the provider's webhook layer.
func (b *PaymentBridge) ConfirmPayment(ctx context.Context, orderID, providerRef string) (*domain.Order, error) {
	order, err := b.orders.MarkCompleted(ctx, orderID, providerRef)
	if err != nil {
		return nil, err
	}

	// Money has moved; the event stream must not be able to undo that.
	if err := b.publisher.OrderCompleted(ctx, order); err != nil {
		b.log.Error("failed to publish order completed event", "order_id", order.ID, "error", err)
	}

	return order, nil
}
