package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shrush07/puff-n-sip-backend/internal/cache"
	"github.com/shrush07/puff-n-sip-backend/internal/catalog"
	"github.com/shrush07/puff-n-sip-backend/internal/domain"
	"github.com/shrush07/puff-n-sip-backend/internal/repository"
	"golang.org/x/sync/singleflight"
)

type CartService struct {
	repo    repository.CartRepository
	catalog catalog.Catalog
	cache   cache.CartCache
	sfg     singleflight.Group // prevents cache stampede
	log     *slog.Logger
}

func NewCartService(repo repository.CartRepository, cat catalog.Catalog, cartCache cache.CartCache, log *slog.Logger) *CartService {
	return &CartService{
		repo:    repo,
		catalog: cat,
		cache:   cartCache,
		log:     log,
	}
}

// GetCart returns the owner's cart. There is no auto-create: an owner
// who never added an item gets ErrCartNotFound.
func (s *CartService) GetCart(ctx context.Context, owner domain.OwnerKey) (*domain.Cart, error) {
	// Collapse concurrent misses for the same owner into one store read.
	v, err, _ := s.sfg.Do(owner.String(), func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, owner)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn("cart cache get failed", "owner", owner, "error", err)
		}

		cart, err = s.repo.Get(ctx, owner)
		if err != nil {
			return nil, err
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), owner, cart); errSet != nil {
				s.log.Warn("cart cache set failed", "owner", owner, "error", errSet)
			}
		}()

		return cart, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// AddItem resolves the product in the catalog, snapshots its name, image
// and price into the cart line, and increments the line if it already
// exists. Safe under concurrent calls for the same owner.
func (s *CartService) AddItem(ctx context.Context, owner domain.OwnerKey, productID string, quantity int) (*domain.Cart, error) {
	if productID == "" {
		return nil, fmt.Errorf("product id is required: %w", domain.ErrInvalidArgument)
	}
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", domain.ErrInvalidArgument)
	}

	product, err := s.catalog.Lookup(ctx, productID)
	if err != nil {
		return nil, err
	}

	item := domain.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		ImageURL:  product.ImageURL,
		UnitPrice: product.Price,
		Quantity:  quantity,
		AddedAt:   time.Now(),
	}

	if err := s.repo.AddItem(ctx, owner, item); err != nil {
		return nil, err
	}

	s.invalidate(owner)
	return s.repo.Get(ctx, owner)
}

// SetQuantity overwrites the stored quantity and unit price of a line
// and recomputes totals.
func (s *CartService) SetQuantity(ctx context.Context, owner domain.OwnerKey, productID string, quantity int, unitPrice int64) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", domain.ErrInvalidArgument)
	}
	if unitPrice < 0 {
		return nil, fmt.Errorf("price must not be negative: %w", domain.ErrInvalidArgument)
	}

	if err := s.repo.SetItem(ctx, owner, productID, quantity, unitPrice); err != nil {
		return nil, err
	}

	s.invalidate(owner)
	return s.repo.Get(ctx, owner)
}

// RemoveItem deletes a line. Removing an absent line (or from an absent
// cart) succeeds and returns the cart unchanged.
func (s *CartService) RemoveItem(ctx context.Context, owner domain.OwnerKey, productID string) (*domain.Cart, error) {
	if err := s.repo.RemoveItem(ctx, owner, productID); err != nil {
		return nil, err
	}

	s.invalidate(owner)

	cart, err := s.repo.Get(ctx, owner)
	if errors.Is(err, repository.ErrCartNotFound) {
		return emptyCart(owner), nil
	}
	return cart, err
}

// ClearCart empties the cart but keeps the record, so the owner binding
// survives checkout.
func (s *CartService) ClearCart(ctx context.Context, owner domain.OwnerKey) (*domain.Cart, error) {
	if err := s.repo.Clear(ctx, owner); err != nil {
		return nil, err
	}

	s.invalidate(owner)

	cart, err := s.repo.Get(ctx, owner)
	if errors.Is(err, repository.ErrCartNotFound) {
		return emptyCart(owner), nil
	}
	return cart, err
}

func (s *CartService) invalidate(owner domain.OwnerKey) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, owner); err != nil {
		s.log.Warn("cart cache invalidate failed", "owner", owner, "error", err)
	}
}

func emptyCart(owner domain.OwnerKey) *domain.Cart {
	now := time.Now()
	return &domain.Cart{
		OwnerKey:  owner,
		Items:     []domain.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
