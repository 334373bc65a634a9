package models

import "time"

type ContactMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"column:nombre;type:varchar(100);not null" json:"nombre"`
	Email     string    `gorm:"type:varchar(255);not null" json:"email"`
	Phone     string    `gorm:"column:telefono;type:varchar(15)" json:"telefono"`
	Message   string    `gorm:"column:mensaje;type:text;not null" json:"mensaje"`
	CreatedAt time.Time `gorm:"column:fecha" json:"fecha"`
}

func (ContactMessage) TableName() string { return "contactos" }
