package models

import "time"

// User is both a registered account and a guest who checked out without one.
// Guests have no email and no password.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"column:nombre;type:varchar(60);not null" json:"nombre"`
	Email     *string   `gorm:"type:varchar(255);uniqueIndex" json:"email,omitempty"`
	Address   string    `gorm:"column:direccion;type:varchar(255)" json:"direccion"`
	Phone     string    `gorm:"column:telefono;type:varchar(15)" json:"telefono"`
	Password  *string   `gorm:"column:password;type:varchar(255)" json:"-"`
	IsAdmin   bool      `gorm:"column:es_admin;not null;default:false" json:"es_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "usuarios" }

func (u User) IsGuest() bool { return u.Email == nil }
