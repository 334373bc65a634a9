package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Dish struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	RestaurantID uint            `gorm:"column:restaurante_id;not null;index" json:"restaurante_id"`
	Name         string          `gorm:"column:nombre;type:varchar(255);not null;index" json:"nombre"`
	Description  string          `gorm:"column:descripcion;type:text" json:"descripcion"`
	Price        decimal.Decimal `gorm:"column:precio;type:decimal(10,2);not null" json:"precio"`
	ImageURL     string          `gorm:"column:imagen_url;type:varchar(255)" json:"imagen_url"`
	CreatedAt    time.Time       `json:"-"`
	UpdatedAt    time.Time       `json:"-"`
}

func (Dish) TableName() string { return "platos" }
