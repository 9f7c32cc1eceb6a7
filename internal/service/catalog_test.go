package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/storefront/internal/transport"
)

func TestCatalogService_CreateProduct_DerivesSlug(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, transport.CreateProductRequest{
		Name:  "Vintage Leather Jacket",
		Price: 149.99,
		Count: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "vintage-leather-jacket", product.Slug)

	bySlug, err := svc.GetProductBySlug(ctx, "vintage-leather-jacket")
	require.NoError(t, err)
	assert.Equal(t, product.ID, bySlug.ID)
}

func TestCatalogService_CreateProduct_Validation(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, transport.CreateProductRequest{Price: 10})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateProduct(ctx, transport.CreateProductRequest{Name: "x", Price: -1})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCatalogService_PatchProduct_RenameReslugs(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, transport.CreateProductRequest{
		Name:  "Old Name",
		Price: 10,
	})
	require.NoError(t, err)

	newName := "Brand New Name"
	patched, err := svc.PatchProduct(ctx, product.ID, transport.PatchProductRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "brand-new-name", patched.Slug)

	// untouched fields survive a partial patch
	assert.Equal(t, 10.0, patched.Price)
}

func TestCatalogService_NotFound(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	_, err := svc.GetProduct(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.PatchProduct(ctx, 999, transport.PatchProductRequest{})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.DeleteProduct(ctx, 999), ErrNotFound)
}
