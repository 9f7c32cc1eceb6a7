package service

import (
	"context"
	"fmt"

	"github.com/avolkov/storefront/internal/models"
	"github.com/avolkov/storefront/internal/repo"
	"github.com/avolkov/storefront/internal/transport"
)

type ReviewService struct {
	Repo   *repo.GormRepo
	Rating *RatingService
}

func (s *ReviewService) CreateReview(ctx context.Context, userID uint, req transport.CreateReviewRequest) (*models.Review, error) {
	if req.ProductID == 0 {
		return nil, fmt.Errorf("%w: product_id required", ErrValidation)
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title required", ErrValidation)
	}

	if _, err := s.Repo.GetProduct(ctx, req.ProductID); err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, req.ProductID)
		}
		return nil, err
	}

	if _, err := s.Repo.FindActiveReview(ctx, userID, req.ProductID); err == nil {
		return nil, fmt.Errorf("%w: review already exists for product %d", ErrConflict, req.ProductID)
	} else if !repo.IsNotFound(err) {
		return nil, err
	}

	review := &models.Review{
		UserID:    userID,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Title:     req.Title,
		Comment:   req.Comment,
		Active:    true,
	}

	created, err := s.Repo.CreateReview(ctx, review)
	if err != nil {
		return nil, err
	}

	if err := s.Rating.Recompute(ctx, req.ProductID); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *ReviewService) UpdateReview(ctx context.Context, reviewID, userID uint, req transport.PatchReviewRequest) (*models.Review, error) {
	review, err := s.getActiveReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, fmt.Errorf("%w: review %d", ErrForbidden, reviewID)
	}

	if req.Rating != nil {
		if *req.Rating < 1 || *req.Rating > 5 {
			return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
		}
		review.Rating = *req.Rating
	}
	if req.Title != nil {
		if *req.Title == "" {
			return nil, fmt.Errorf("%w: title required", ErrValidation)
		}
		review.Title = *req.Title
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
	}

	if err := s.Repo.SaveReview(ctx, review); err != nil {
		return nil, err
	}

	if err := s.Rating.Recompute(ctx, review.ProductID); err != nil {
		return nil, err
	}
	return review, nil
}

// DeleteReview withdraws a review by flipping its active flag. The row
// stays, so the (user, product) uniqueness check and the aggregate both
// keep working on the remaining active set.
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID, userID uint) error {
	review, err := s.getActiveReview(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != userID {
		return fmt.Errorf("%w: review %d", ErrForbidden, reviewID)
	}

	review.Active = false
	if err := s.Repo.SaveReview(ctx, review); err != nil {
		return err
	}

	return s.Rating.Recompute(ctx, review.ProductID)
}

// ToggleHelpful flips the caller's helpful mark. Helpful marks do not feed
// the rating aggregate, so no recompute happens here.
func (s *ReviewService) ToggleHelpful(ctx context.Context, reviewID, userID uint) (bool, int64, error) {
	if _, err := s.getActiveReview(ctx, reviewID); err != nil {
		return false, 0, err
	}

	marked, err := s.Repo.ToggleHelpful(ctx, reviewID, userID)
	if err != nil {
		return false, 0, err
	}

	total, err := s.Repo.CountHelpful(ctx, reviewID)
	if err != nil {
		return false, 0, err
	}
	return marked, total, nil
}

func (s *ReviewService) ListReviews(ctx context.Context, productID uint) ([]models.Review, error) {
	return s.Repo.ListActiveReviews(ctx, productID)
}

func (s *ReviewService) getActiveReview(ctx context.Context, reviewID uint) (*models.Review, error) {
	review, err := s.Repo.GetReview(ctx, reviewID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("%w: review %d", ErrNotFound, reviewID)
		}
		return nil, err
	}
	if !review.Active {
		return nil, fmt.Errorf("%w: review %d", ErrNotFound, reviewID)
	}
	return review, nil
}
