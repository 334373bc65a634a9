package services

import (
	"context"
	"sync"
	"testing"

	"github.com/pedidoshn/pedidos-app/database"
	"github.com/pedidoshn/pedidos-app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	return db
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []models.OrderEvent
}

func (r *recordingNotifier) Notify(_ context.Context, ev models.OrderEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingNotifier) types() []models.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.EventType, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

func seedCaracol(t *testing.T, db *gorm.DB) models.Restaurant {
	t.Helper()
	r := models.Restaurant{
		Slug: "sopa-de-caracol-tela",
		Name: "Sopa de Caracol Tela",
		Dishes: []models.Dish{
			{Name: "Sopa de Caracol", Price: decimal.RequireFromString("178.00")},
			{Name: "Pescado Frito", Price: decimal.RequireFromString("210.50")},
		},
	}
	require.NoError(t, db.Create(&r).Error)
	return r
}

func createAccount(t *testing.T, db *gorm.DB, name, email string) models.User {
	t.Helper()
	u := models.User{Name: name, Email: &email, Address: "Col. Kennedy", Phone: "99990000"}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
