package models

import "time"

type EventType string

const (
	EventOrderCreated   EventType = "orden.creada"
	EventOrderConfirmed EventType = "orden.confirmada"
	EventOrderDeleted   EventType = "orden.eliminada"
)

// OrderEvent is what gets pushed to the admin feed and the message broker.
type OrderEvent struct {
	Type           EventType   `json:"event"`
	OrderID        uint        `json:"orden_id"`
	UserID         uint        `json:"usuario_id"`
	RestaurantSlug string      `json:"restaurante_slug,omitempty"`
	Status         OrderStatus `json:"estado,omitempty"`
	At             time.Time   `json:"fecha"`
}

func NewOrderEvent(t EventType, o Order, at time.Time) OrderEvent {
	return OrderEvent{
		Type:           t,
		OrderID:        o.ID,
		UserID:         o.UserID,
		RestaurantSlug: o.RestaurantSlug,
		Status:         o.Status,
		At:             at,
	}
}
