package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryService_Reserve(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &InventoryService{Repo: r}
	ctx := context.Background()

	prod := createTestProduct(t, r, "mug", 12.50, 5)

	require.NoError(t, svc.Reserve(ctx, prod.ID, 3))
	assert.Equal(t, uint(2), productCount(t, r, prod.ID))

	// more than remaining: no partial deduction
	err := svc.Reserve(ctx, prod.ID, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, uint(2), productCount(t, r, prod.ID))
}

func TestInventoryService_Reserve_Validation(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &InventoryService{Repo: r}
	ctx := context.Background()

	prod := createTestProduct(t, r, "mug", 12.50, 5)

	err := svc.Reserve(ctx, prod.ID, 0)
	assert.ErrorIs(t, err, ErrValidation)

	err = svc.Reserve(ctx, prod.ID+100, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInventoryService_Release(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &InventoryService{Repo: r}
	ctx := context.Background()

	prod := createTestProduct(t, r, "mug", 12.50, 2)

	require.NoError(t, svc.Release(ctx, prod.ID, 3))
	assert.Equal(t, uint(5), productCount(t, r, prod.ID))

	err := svc.Release(ctx, prod.ID+100, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInventoryService_ConcurrentReserves_NeverOversell(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &InventoryService{Repo: r}
	ctx := context.Background()

	const stock = 5
	const contenders = 12

	prod := createTestProduct(t, r, "limited edition", 99.99, stock)

	var wg sync.WaitGroup
	results := make(chan error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- svc.Reserve(ctx, prod.ID, 1)
		}()
	}
	wg.Wait()
	close(results)

	succeeded, outOfStock := 0, 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, ErrInsufficientStock)
		outOfStock++
	}

	assert.Equal(t, stock, succeeded)
	assert.Equal(t, contenders-stock, outOfStock)
	assert.Equal(t, uint(0), productCount(t, r, prod.ID))
}
