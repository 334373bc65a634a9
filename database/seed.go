package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pedidoshn/pedidos-app/models"
	"github.com/pedidoshn/pedidos-app/repository"
	"github.com/pedidoshn/pedidos-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedRestaurants inserts every restaurant (with its dishes) whose slug is not in the
// database yet. Existing restaurants are left untouched.
func SeedRestaurants(ctx context.Context, db *gorm.DB, restaurants []models.Restaurant) (int, error) {
	created := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, r := range restaurants {
			var count int64
			if err := tx.Model(&models.Restaurant{}).Where("slug = ?", r.Slug).Count(&count).Error; err != nil {
				return fmt.Errorf("checking restaurant %q: %w", r.Slug, err)
			}
			if count > 0 {
				continue
			}

			r.ID = 0
			for i := range r.Dishes {
				r.Dishes[i].ID = 0
				r.Dishes[i].RestaurantID = 0
			}
			if err := tx.Create(&r).Error; err != nil {
				return fmt.Errorf("creating restaurant %q: %w", r.Slug, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	utils.InfoLogger.Printf("Seeded %d restaurants", created)
	return created, nil
}

func SeedFromFile(ctx context.Context, db *gorm.DB, path string) (int, error) {
	restaurants, err := repository.LoadRestaurantsFile(path)
	if err != nil {
		return 0, err
	}
	return SeedRestaurants(ctx, db, restaurants)
}

// EnsureAdmin creates the admin account or promotes an existing one with that email.
func EnsureAdmin(ctx context.Context, db *gorm.DB, name, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return errors.New("admin email and password are required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	hash := string(hashed)

	var user models.User
	err = db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{Name: name, Email: &email, Password: &hash, IsAdmin: true}
		if err := db.WithContext(ctx).Create(&user).Error; err != nil {
			return fmt.Errorf("creating admin: %w", err)
		}
	case err != nil:
		return fmt.Errorf("looking up admin: %w", err)
	default:
		if err := db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
			"es_admin": true,
			"password": hash,
		}).Error; err != nil {
			return fmt.Errorf("promoting admin: %w", err)
		}
	}
	utils.InfoLogger.Printf("Admin account ready: %s", email)
	return nil
}
