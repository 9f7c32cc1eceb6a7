package service

import (
	"context"
	"fmt"

	"github.com/avolkov/storefront/internal/models"
	"github.com/avolkov/storefront/internal/repo"
)

type FavoriteService struct {
	Repo *repo.GormRepo
}

func (s *FavoriteService) AddFavorite(ctx context.Context, userID, productID uint) (*models.Favorite, error) {
	if productID == 0 {
		return nil, fmt.Errorf("%w: product_id required", ErrValidation)
	}

	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return nil, err
	}

	if _, err := s.Repo.FindFavorite(ctx, userID, productID); err == nil {
		return nil, fmt.Errorf("%w: product %d already in favorites", ErrConflict, productID)
	} else if !repo.IsNotFound(err) {
		return nil, err
	}

	return s.Repo.CreateFavorite(ctx, &models.Favorite{UserID: userID, ProductID: productID})
}

func (s *FavoriteService) RemoveFavorite(ctx context.Context, userID, productID uint) error {
	err := s.Repo.DeleteFavorite(ctx, userID, productID)
	if err != nil {
		if repo.IsNotFound(err) {
			return fmt.Errorf("%w: favorite for product %d", ErrNotFound, productID)
		}
		return err
	}
	return nil
}

func (s *FavoriteService) ListFavorites(ctx context.Context, userID uint) ([]models.Favorite, error) {
	return s.Repo.ListFavorites(ctx, userID)
}
