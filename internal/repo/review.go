package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/avolkov/storefront/internal/models"
)

func (r *GormRepo) GetReview(ctx context.Context, id uint) (*models.Review, error) {
	review := models.Review{}
	if err := r.DB.WithContext(ctx).First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *GormRepo) ListActiveReviews(ctx context.Context, productID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.DB.WithContext(ctx).
		Where("product_id = ? AND active = ?", productID, true).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// FindActiveReview looks up the single active review a user may hold for a
// product. Returns gorm.ErrRecordNotFound when there is none.
func (r *GormRepo) FindActiveReview(ctx context.Context, userID, productID uint) (*models.Review, error) {
	review := models.Review{}
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ? AND active = ?", userID, productID, true).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *GormRepo) CreateReview(ctx context.Context, review *models.Review) (*models.Review, error) {
	if err := r.DB.WithContext(ctx).Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

func (r *GormRepo) SaveReview(ctx context.Context, review *models.Review) error {
	return r.DB.WithContext(ctx).Save(review).Error
}

// ToggleHelpful flips a user's helpful mark on a review. Returns true when
// the mark exists after the call.
func (r *GormRepo) ToggleHelpful(ctx context.Context, reviewID, userID uint) (bool, error) {
	marked := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var mark models.ReviewHelpful
		err := tx.Where("review_id = ? AND user_id = ?", reviewID, userID).First(&mark).Error
		if err == nil {
			return tx.Delete(&mark).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		marked = true
		return tx.Create(&models.ReviewHelpful{ReviewID: reviewID, UserID: userID}).Error
	})
	if err != nil {
		return false, err
	}
	return marked, nil
}

func (r *GormRepo) CountHelpful(ctx context.Context, reviewID uint) (int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).
		Model(&models.ReviewHelpful{}).
		Where("review_id = ?", reviewID).
		Count(&total).Error
	return total, err
}

func (r *GormRepo) CreateFavorite(ctx context.Context, fav *models.Favorite) (*models.Favorite, error) {
	if err := r.DB.WithContext(ctx).Create(fav).Error; err != nil {
		return nil, err
	}
	return fav, nil
}

func (r *GormRepo) FindFavorite(ctx context.Context, userID, productID uint) (*models.Favorite, error) {
	fav := models.Favorite{}
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&fav).Error
	if err != nil {
		return nil, err
	}
	return &fav, nil
}

func (r *GormRepo) DeleteFavorite(ctx context.Context, userID, productID uint) error {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) ListFavorites(ctx context.Context, userID uint) ([]models.Favorite, error) {
	var favs []models.Favorite
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&favs).Error; err != nil {
		return nil, err
	}
	return favs, nil
}
