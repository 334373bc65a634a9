package models

import "github.com/shopspring/decimal"

type OrderLine struct {
	ID       uint  `gorm:"primaryKey" json:"id"`
	OrderID  uint  `gorm:"column:orden_id;not null;index" json:"orden_id"`
	DishID   uint  `gorm:"column:plato_id;not null;index" json:"plato_id"`
	Dish     *Dish `gorm:"foreignKey:DishID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"plato,omitempty"`
	Quantity int   `gorm:"column:cantidad;not null" json:"cantidad"`
}

func (OrderLine) TableName() string { return "detalles_orden" }

func (l OrderLine) Subtotal() decimal.Decimal {
	if l.Dish == nil {
		return decimal.Zero
	}
	return l.Dish.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
