package database

import (
	"fmt"

	"github.com/pedidoshn/pedidos-app/models"
	"github.com/pedidoshn/pedidos-app/utils"
	"gorm.io/gorm"
)

// Migrate brings the schema up to date. Tables are ordered so foreign keys resolve.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.Dish{},
		&models.Order{},
		&models.OrderLine{},
		&models.ContactMessage{},
		&models.Session{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// listing pages sort each user's orders by date
	if !db.Migrator().HasIndex(&models.Order{}, "idx_ordenes_usuario_fecha") {
		if err := db.Exec("CREATE INDEX idx_ordenes_usuario_fecha ON ordenes (usuario_id, fecha)").Error; err != nil {
			return fmt.Errorf("creating order index: %w", err)
		}
	}

	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}
