package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/pedidoshn/pedidos-app/models"
	"gorm.io/gorm"
)

var (
	ErrRestaurantExists = errors.New("restaurant slug already exists")
	ErrRestaurantInUse  = errors.New("restaurant has ordered dishes")
	ErrDishNotFound     = errors.New("dish not found")
	ErrDishInUse        = errors.New("dish is referenced by orders")
)

// RestaurantWriter is the admin side. Only the database source supports it.
type RestaurantWriter interface {
	Create(ctx context.Context, r *models.Restaurant) error
	Update(ctx context.Context, slug string, changes models.Restaurant) (models.Restaurant, error)
	Delete(ctx context.Context, slug string) error
	AddDish(ctx context.Context, slug string, d *models.Dish) error
	DeleteDish(ctx context.Context, dishID uint) error
}

func (r *GormRestaurantRepository) Create(ctx context.Context, restaurant *models.Restaurant) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Restaurant{}).Where("slug = ?", restaurant.Slug).Count(&count).Error; err != nil {
			return fmt.Errorf("checking slug %q: %w", restaurant.Slug, err)
		}
		if count > 0 {
			return ErrRestaurantExists
		}
		if err := tx.Create(restaurant).Error; err != nil {
			return fmt.Errorf("creating restaurant %q: %w", restaurant.Slug, err)
		}
		return nil
	})
}

// Update copies the descriptive fields; slug and dishes are left alone.
func (r *GormRestaurantRepository) Update(ctx context.Context, slug string, changes models.Restaurant) (models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findBySlug(tx, slug, &restaurant); err != nil {
			return err
		}
		updates := map[string]interface{}{
			"nombre":             changes.Name,
			"categoria":          changes.Category,
			"rating":             changes.Rating,
			"tiempo_preparacion": changes.PrepTime,
			"imagen_url":         changes.ImageURL,
		}
		if err := tx.Model(&restaurant).Updates(updates).Error; err != nil {
			return fmt.Errorf("updating restaurant %q: %w", slug, err)
		}
		return nil
	})
	if err != nil {
		return models.Restaurant{}, err
	}
	return restaurant, nil
}

func (r *GormRestaurantRepository) Delete(ctx context.Context, slug string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var restaurant models.Restaurant
		if err := findBySlug(tx, slug, &restaurant); err != nil {
			return err
		}
		var referenced int64
		if err := tx.Model(&models.OrderLine{}).
			Joins("JOIN platos ON platos.id = detalles_orden.plato_id").
			Where("platos.restaurante_id = ?", restaurant.ID).
			Count(&referenced).Error; err != nil {
			return fmt.Errorf("checking orders of restaurant %q: %w", slug, err)
		}
		if referenced > 0 {
			return ErrRestaurantInUse
		}
		if err := tx.Where("restaurante_id = ?", restaurant.ID).Delete(&models.Dish{}).Error; err != nil {
			return fmt.Errorf("deleting dishes of %q: %w", slug, err)
		}
		if err := tx.Delete(&restaurant).Error; err != nil {
			return fmt.Errorf("deleting restaurant %q: %w", slug, err)
		}
		return nil
	})
}

func (r *GormRestaurantRepository) AddDish(ctx context.Context, slug string, dish *models.Dish) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var restaurant models.Restaurant
		if err := findBySlug(tx, slug, &restaurant); err != nil {
			return err
		}
		dish.ID = 0
		dish.RestaurantID = restaurant.ID
		if err := tx.Create(dish).Error; err != nil {
			return fmt.Errorf("adding dish to %q: %w", slug, err)
		}
		return nil
	})
}

func (r *GormRestaurantRepository) DeleteDish(ctx context.Context, dishID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dish models.Dish
		if err := tx.First(&dish, dishID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDishNotFound
			}
			return fmt.Errorf("loading dish %d: %w", dishID, err)
		}
		var referenced int64
		if err := tx.Model(&models.OrderLine{}).Where("plato_id = ?", dishID).Count(&referenced).Error; err != nil {
			return fmt.Errorf("checking orders of dish %d: %w", dishID, err)
		}
		if referenced > 0 {
			return ErrDishInUse
		}
		if err := tx.Delete(&dish).Error; err != nil {
			return fmt.Errorf("deleting dish %d: %w", dishID, err)
		}
		return nil
	})
}

func findBySlug(tx *gorm.DB, slug string, out *models.Restaurant) error {
	err := tx.Where("slug = ?", slug).First(out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRestaurantNotFound
	}
	if err != nil {
		return fmt.Errorf("finding restaurant %q: %w", slug, err)
	}
	return nil
}
