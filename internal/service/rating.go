package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/avolkov/storefront/internal/models"
	"github.com/avolkov/storefront/internal/repo"
)

// RatingService keeps a product's rating aggregate consistent with its set
// of active reviews. Recompute always reads the full review set and writes
// the aggregate back whole, so concurrent review mutations can only race to
// a valid snapshot, never a partial one.
type RatingService struct {
	Repo *repo.GormRepo
}

func (s *RatingService) Recompute(ctx context.Context, productID uint) error {
	reviews, err := s.Repo.ListActiveReviews(ctx, productID)
	if err != nil {
		return err
	}

	agg := models.RatingAggregate{}
	if len(reviews) > 0 {
		sum := 0
		for _, rev := range reviews {
			sum += rev.Rating
			switch rev.Rating {
			case 1:
				agg.Ones++
			case 2:
				agg.Twos++
			case 3:
				agg.Threes++
			case 4:
				agg.Fours++
			case 5:
				agg.Fives++
			}
		}
		agg.Count = uint(len(reviews))
		agg.Average = decimal.NewFromInt(int64(sum)).
			Div(decimal.NewFromInt(int64(len(reviews)))).
			Round(1).
			InexactFloat64()
	}

	if err := s.Repo.UpdateRatingAggregate(ctx, productID, agg); err != nil {
		if repo.IsNotFound(err) {
			return fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return err
	}
	return nil
}
