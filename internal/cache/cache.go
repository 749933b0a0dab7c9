package cache

import (
	"context"
	"errors"

	"github.com/shrush07/puff-n-sip-backend/internal/domain"
)

type CartCache interface {
	Get(ctx context.Context, owner domain.OwnerKey) (*domain.Cart, error)
	Set(ctx context.Context, owner domain.OwnerKey, cart *domain.Cart) error
	Delete(ctx context.Context, owner domain.OwnerKey) error
}

var ErrCacheMiss = errors.New("cache miss")
