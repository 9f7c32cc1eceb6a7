package repo

import (
	"errors"

	"gorm.io/gorm"
)

// ErrInsufficientStock is returned by the conditional inventory decrement
// when the product exists but holds less stock than requested.
var ErrInsufficientStock = errors.New("insufficient stock")

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}
