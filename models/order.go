package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusDraft     OrderStatus = "draft"
	StatusConfirmed OrderStatus = "confirmed"
)

func (s OrderStatus) Label() string {
	switch s {
	case StatusDraft:
		return "Borrador"
	case StatusConfirmed:
		return "Confirmado"
	default:
		return string(s)
	}
}

type Order struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	UserID         uint        `gorm:"column:usuario_id;not null;index" json:"usuario_id"`
	RestaurantID   *uint       `gorm:"column:restaurante_id;index" json:"restaurante_id"`
	Restaurant     *Restaurant `gorm:"foreignKey:RestaurantID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"restaurante,omitempty"`
	RestaurantSlug string      `gorm:"column:restaurante_slug;type:varchar(100)" json:"restaurante_slug"`
	CustomerName   string      `gorm:"column:nombre;type:varchar(60);not null" json:"nombre"`
	Request        string      `gorm:"column:pedido;type:text;not null" json:"pedido"`
	Address        string      `gorm:"column:direccion;type:varchar(255);not null" json:"direccion"`
	Phone          string      `gorm:"column:telefono;type:varchar(15)" json:"telefono"`
	ScheduleDate   string      `gorm:"column:schedule_date;type:varchar(10)" json:"schedule_date"`
	ScheduleSlot   string      `gorm:"column:schedule_slot;type:varchar(30)" json:"schedule_slot"`
	Status         OrderStatus `gorm:"column:estado;type:varchar(20);not null;default:'draft'" json:"estado"`
	Lines          []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lineas"`
	CreatedAt      time.Time   `gorm:"column:fecha" json:"fecha"`
	UpdatedAt      time.Time   `json:"-"`
}

func (Order) TableName() string { return "ordenes" }

// Total sums price x quantity over the loaded lines. Lines without a loaded dish count as zero.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

func (o Order) IsDraft() bool { return o.Status == StatusDraft }

func (o Order) RestaurantName() string {
	if o.Restaurant != nil {
		return o.Restaurant.Name
	}
	return o.RestaurantSlug
}

func (o Order) Reference() string {
	return fmt.Sprintf("PHN-%06d", o.ID)
}
