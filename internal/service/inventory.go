package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/avolkov/storefront/internal/logging"
	"github.com/avolkov/storefront/internal/repo"
)

// InventoryService is the single gate for stock movements. Reserve is the
// only path that decrements, and it does so through one conditional UPDATE,
// so stock can never go negative no matter how many requests race on the
// same product.
type InventoryService struct {
	Repo *repo.GormRepo
}

func (s *InventoryService) Reserve(ctx context.Context, productID, quantity uint) error {
	if quantity == 0 {
		return fmt.Errorf("%w: quantity must be > 0", ErrValidation)
	}

	err := s.Repo.ReserveStock(ctx, productID, quantity)
	if err == nil {
		return nil
	}
	if errors.Is(err, repo.ErrInsufficientStock) {
		return fmt.Errorf("%w: product %d", ErrInsufficientStock, productID)
	}
	if repo.IsNotFound(err) {
		return fmt.Errorf("%w: product %d", ErrNotFound, productID)
	}
	return err
}

// Release puts stock back. A missing product means the catalog row vanished
// after the order was placed; that is a data-integrity problem worth a log
// line, not a reason to abort a cancellation.
func (s *InventoryService) Release(ctx context.Context, productID, quantity uint) error {
	err := s.Repo.ReleaseStock(ctx, productID, quantity)
	if err == nil {
		return nil
	}
	if repo.IsNotFound(err) {
		logging.FromContext(ctx).Warn("inventory_release_missing_product",
			"product_id", productID, "quantity", quantity)
		return fmt.Errorf("%w: product %d", ErrNotFound, productID)
	}
	return err
}
