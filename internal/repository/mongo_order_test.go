package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shrush07/puff-n-sip-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupOrderRepo(t *testing.T) (OrderRepository, func()) {
	db, cleanup := setupTestDB(t)

	repo := NewMongoOrderRepository(db)
	require.NoError(t, repo.EnsureIndexes(context.Background()))

	return repo, cleanup
}

func testOrder(owner domain.OwnerKey) *domain.Order {
	now := time.Now()
	return &domain.Order{
		ID:       uuid.NewString(),
		OwnerKey: owner,
		Shipping: domain.ShippingInfo{Name: "Asha", Address: "12 Brigade Rd"},
		Items: []domain.OrderItem{
			{ProductID: "p1", Name: "masala chai", UnitPrice: 4000, Quantity: 2, LineTotal: 8000},
		},
		TotalPrice: 8000,
		Currency:   "inr",
		Status:     domain.OrderStatusNew,
		OrderType:  domain.OrderTypeOnline,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestOrderInsertAndGet(t *testing.T) {
	repo, cleanup := setupOrderRepo(t)
	defer cleanup()

	ctx := context.Background()
	order := testOrder(domain.OwnerForUser("u1"))
	require.NoError(t, repo.Insert(ctx, order))

	got, err := repo.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
	assert.Equal(t, domain.OrderStatusNew, got.Status)
	assert.Equal(t, int64(8000), got.TotalPrice)
}

func TestOrderGet_NotFound(t *testing.T) {
	repo, cleanup := setupOrderRepo(t)
	defer cleanup()

	_, err := repo.Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

// The partial unique index allows at most one NEW or MODIFIED order per
// owner; a second insert must surface as ErrDraftExists.
func TestOrderInsert_SecondDraftConflicts(t *testing.T) {
	repo, cleanup := setupOrderRepo(t)
	defer cleanup()

	ctx := context.Background()
	owner := domain.OwnerForUser("u1")

	require.NoError(t, repo.Insert(ctx, testOrder(owner)))

	err := repo.Insert(ctx, testOrder(owner))
	assert.ErrorIs(t, err, ErrDraftExists)
}

func TestOrderInsert_DraftAllowedAfterCompletion(t *testing.T) {
	repo, cleanup := setupOrderRepo(t)
	defer cleanup()

	ctx := context.Background()
	owner := domain.OwnerForUser("u1")

	first := testOrder(owner)
	require.NoError(t, repo.Insert(ctx, first))

	_, err := repo.Complete(ctx, first.ID, "pi_123")
	require.NoError(t, err)

	// Completed orders leave the draft index, so a new draft is legal.
	assert.NoError(t, repo.Insert(ctx, testOrder(owner)))
}

func TestOrderFindDraft(t *testing.T) {
	repo, cleanup := setupOrderRepo(t)
	defer cleanup()

	ctx := context.Background()
	owner := domain.OwnerForUser("u1")

	_, err := repo.FindDraft(ctx, owner)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	order := testOrder(owner)
	require.NoError(t, repo.Insert(ctx, order))

	draft, err := repo.FindDraft(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, order.ID, draft.ID)
}

func TestOrderFindLatest(t *testing.T) {
	repo, cleanup := setupOrderRepo(t)
	defer cleanup()

	ctx := context.Background()
	owner := domain.OwnerForUser("u1")

	first := testOrder(owner)
	first.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Insert(ctx, first))
	_, err := repo.Complete(ctx, first.ID, "pi_1")
	require.NoError(t, err)

	second := testOrder(owner)
	require.NoError(t, repo.Insert(ctx, second))

	latest, err := repo.FindLatest(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
}

func TestOrderUpdateDraft(t *testing.T) {
	repo, cleanup := setupOrderRepo(t)
	defer cleanup()

	ctx := context.Background()
	order := testOrder(domain.OwnerForUser("u1"))
	require.NoError(t, repo.Insert(ctx, order))

	items := []domain.OrderItem{
		{ProductID: "p2", Name: "butter croissant", UnitPrice: 6000, Quantity: 1, LineTotal: 6000},
	}
	shipping := domain.ShippingInfo{Name: "Asha", Address: "4 MG Rd"}

	updated, err := repo.UpdateDraft(ctx, order.ID, items, 6000, shipping)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusModified, updated.Status)
	assert.Equal(t, int64(6000), updated.TotalPrice)
	assert.Equal(t, "4 MG Rd", updated.Shipping.Address)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, "p2", updated.Items[0].ProductID)
}

func TestOrderUpdateDraft_CompletedRejected(t *testing.T) {
	repo, cleanup := setupOrderRepo(t)
	defer cleanup()

	ctx := context.Background()
	order := testOrder(domain.OwnerForUser("u1"))
	require.NoError(t, repo.Insert(ctx, order))

	_, err := repo.Complete(ctx, order.ID, "pi_123")
	require.NoError(t, err)

	_, err = repo.UpdateDraft(ctx, order.ID, order.Items, order.TotalPrice, order.Shipping)
	assert.ErrorIs(t, err, ErrOrderNotDraft)
}

func TestOrderComplete(t *testing.T) {
	repo, cleanup := setupOrderRepo(t)
	defer cleanup()

	ctx := context.Background()
	order := testOrder(domain.OwnerForUser("u1"))
	require.NoError(t, repo.Insert(ctx, order))

	completed, err := repo.Complete(ctx, order.ID, "pi_123")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, completed.Status)
	assert.Equal(t, "pi_123", completed.PaymentRef)
}

func TestOrderComplete_DuplicateSameRef(t *testing.T) {
	repo, cleanup := setupOrderRepo(t)
	defer cleanup()

	ctx := context.Background()
	order := testOrder(domain.OwnerForUser("u1"))
	require.NoError(t, repo.Insert(ctx, order))

	_, err := repo.Complete(ctx, order.ID, "pi_123")
	require.NoError(t, err)

	// Redelivered confirmation with the same reference succeeds quietly.
	again, err := repo.Complete(ctx, order.ID, "pi_123")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, again.Status)
	assert.Equal(t, "pi_123", again.PaymentRef)
}

func TestOrderComplete_DifferentRefMismatch(t *testing.T) {
	repo, cleanup := setupOrderRepo(t)
	defer cleanup()

	ctx := context.Background()
	order := testOrder(domain.OwnerForUser("u1"))
	require.NoError(t, repo.Insert(ctx, order))

	_, err := repo.Complete(ctx, order.ID, "pi_123")
	require.NoError(t, err)

	_, err = repo.Complete(ctx, order.ID, "pi_999")
	assert.ErrorIs(t, err, ErrPaymentMismatch)

	// The stored reference must not move.
	got, err := repo.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "pi_123", got.PaymentRef)
}

func TestOrderComplete_CancelledRejected(t *testing.T) {
	repo, cleanup := setupOrderRepo(t)
	defer cleanup()

	ctx := context.Background()
	order := testOrder(domain.OwnerForUser("u1"))
	require.NoError(t, repo.Insert(ctx, order))

	_, err := repo.Cancel(ctx, order.ID)
	require.NoError(t, err)

	_, err = repo.Complete(ctx, order.ID, "pi_123")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestOrderCancel(t *testing.T) {
	repo, cleanup := setupOrderRepo(t)
	defer cleanup()

	ctx := context.Background()
	order := testOrder(domain.OwnerForUser("u1"))
	require.NoError(t, repo.Insert(ctx, order))

	cancelled, err := repo.Cancel(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)

	// Cancelling twice is idempotent.
	again, err := repo.Cancel(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, again.Status)
}

func TestOrderCancel_CompletedRejected(t *testing.T) {
	repo, cleanup := setupOrderRepo(t)
	defer cleanup()

	ctx := context.Background()
	order := testOrder(domain.OwnerForUser("u1"))
	require.NoError(t, repo.Insert(ctx, order))

	_, err := repo.Complete(ctx, order.ID, "pi_123")
	require.NoError(t, err)

	_, err = repo.Cancel(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}
