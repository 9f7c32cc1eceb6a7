package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/storefront/internal/models"
	"github.com/avolkov/storefront/internal/repo"
)

func seedReview(t *testing.T, r *repo.GormRepo, userID, productID uint, rating int, active bool) *models.Review {
	t.Helper()

	review := &models.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
		Title:     "title",
		Active:    active,
	}
	require.NoError(t, r.DB.Create(review).Error)
	return review
}

func TestRatingService_Recompute(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &RatingService{Repo: r}
	ctx := context.Background()

	prod := createTestProduct(t, r, "sneakers", 59.90, 5)

	for i, rating := range []int{5, 5, 4, 3} {
		seedReview(t, r, uint(i+1), prod.ID, rating, true)
	}
	// inactive reviews must not count
	seedReview(t, r, 99, prod.ID, 1, false)

	require.NoError(t, svc.Recompute(ctx, prod.ID))

	var got models.Product
	require.NoError(t, r.DB.First(&got, prod.ID).Error)

	assert.Equal(t, 4.3, got.Rating.Average)
	assert.Equal(t, uint(4), got.Rating.Count)
	assert.Equal(t, uint(0), got.Rating.Ones)
	assert.Equal(t, uint(0), got.Rating.Twos)
	assert.Equal(t, uint(1), got.Rating.Threes)
	assert.Equal(t, uint(1), got.Rating.Fours)
	assert.Equal(t, uint(2), got.Rating.Fives)
}

func TestRatingService_Recompute_Idempotent(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &RatingService{Repo: r}
	ctx := context.Background()

	prod := createTestProduct(t, r, "sneakers", 59.90, 5)
	seedReview(t, r, 1, prod.ID, 4, true)
	seedReview(t, r, 2, prod.ID, 2, true)

	require.NoError(t, svc.Recompute(ctx, prod.ID))
	var first models.Product
	require.NoError(t, r.DB.First(&first, prod.ID).Error)

	require.NoError(t, svc.Recompute(ctx, prod.ID))
	var second models.Product
	require.NoError(t, r.DB.First(&second, prod.ID).Error)

	assert.Equal(t, first.Rating, second.Rating)
}

func TestRatingService_Recompute_EmptySetResets(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &RatingService{Repo: r}
	ctx := context.Background()

	prod := createTestProduct(t, r, "sneakers", 59.90, 5)
	review := seedReview(t, r, 1, prod.ID, 5, true)

	require.NoError(t, svc.Recompute(ctx, prod.ID))

	review.Active = false
	require.NoError(t, r.DB.Save(review).Error)
	require.NoError(t, svc.Recompute(ctx, prod.ID))

	var got models.Product
	require.NoError(t, r.DB.First(&got, prod.ID).Error)
	assert.Equal(t, models.RatingAggregate{}, got.Rating)
}

func TestRatingService_Recompute_MissingProduct(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &RatingService{Repo: r}

	err := svc.Recompute(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrNotFound)
}
