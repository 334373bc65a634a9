package models

import "time"

type Restaurant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Slug      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	Name      string    `gorm:"column:nombre;type:varchar(255);not null" json:"nombre"`
	Category  string    `gorm:"column:categoria;type:varchar(100)" json:"categoria"`
	Rating    float64   `gorm:"column:rating;not null;default:0" json:"rating"`
	PrepTime  int       `gorm:"column:tiempo_preparacion;not null;default:0" json:"tiempo_preparacion"`
	ImageURL  string    `gorm:"column:imagen_url;type:varchar(255)" json:"imagen_url"`
	Dishes    []Dish    `gorm:"foreignKey:RestaurantID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"platos,omitempty"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (Restaurant) TableName() string { return "restaurantes" }
