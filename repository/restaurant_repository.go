package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/pedidoshn/pedidos-app/models"
	"gorm.io/gorm"
)

var ErrRestaurantNotFound = errors.New("restaurant not found")

// RestaurantRepository is the read side used by the pages and the public API.
type RestaurantRepository interface {
	List(ctx context.Context) ([]models.Restaurant, error)
	FindBySlug(ctx context.Context, slug string) (models.Restaurant, error)
}

type GormRestaurantRepository struct {
	DB *gorm.DB
}

func NewGormRestaurantRepository(db *gorm.DB) *GormRestaurantRepository {
	return &GormRestaurantRepository{DB: db}
}

func (r *GormRestaurantRepository) List(ctx context.Context) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	if err := r.DB.WithContext(ctx).Order("nombre ASC").Find(&restaurants).Error; err != nil {
		return nil, fmt.Errorf("listing restaurants: %w", err)
	}
	return restaurants, nil
}

func (r *GormRestaurantRepository) FindBySlug(ctx context.Context, slug string) (models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.DB.WithContext(ctx).
		Preload("Dishes", func(db *gorm.DB) *gorm.DB { return db.Order("nombre ASC") }).
		Where("slug = ?", slug).
		First(&restaurant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Restaurant{}, ErrRestaurantNotFound
	}
	if err != nil {
		return models.Restaurant{}, fmt.Errorf("finding restaurant %q: %w", slug, err)
	}
	return restaurant, nil
}
