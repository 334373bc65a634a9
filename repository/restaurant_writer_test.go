package repository

import (
	"context"
	"testing"

	"github.com/pedidoshn/pedidos-app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormRepositoryCreateRejectsDuplicateSlug(t *testing.T) {
	repo := NewGormRestaurantRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Restaurant{Slug: "pupuseria", Name: "Pupusería"}))
	err := repo.Create(ctx, &models.Restaurant{Slug: "pupuseria", Name: "Otra"})
	assert.ErrorIs(t, err, ErrRestaurantExists)
}

func TestGormRepositoryUpdateKeepsSlug(t *testing.T) {
	repo := NewGormRestaurantRepository(setupTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &models.Restaurant{Slug: "pupuseria", Name: "Pupusería", Rating: 4}))

	updated, err := repo.Update(ctx, "pupuseria", models.Restaurant{Slug: "ignored", Name: "Pupusería Olancho", Rating: 4.5})
	require.NoError(t, err)
	assert.Equal(t, "pupuseria", updated.Slug)

	got, err := repo.FindBySlug(ctx, "pupuseria")
	require.NoError(t, err)
	assert.Equal(t, "Pupusería Olancho", got.Name)
	assert.Equal(t, 4.5, got.Rating)

	_, err = repo.Update(ctx, "nope", models.Restaurant{Name: "x"})
	assert.ErrorIs(t, err, ErrRestaurantNotFound)
}

func TestGormRepositoryDeleteRefusesOrderedRestaurant(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.AutoMigrate(&models.OrderLine{}))
	repo := NewGormRestaurantRepository(db)
	ctx := context.Background()

	dish := models.Dish{Name: "Pupusa revuelta", Price: decimal.RequireFromString("25.00")}
	require.NoError(t, repo.Create(ctx, &models.Restaurant{Slug: "pupuseria", Name: "Pupusería"}))
	require.NoError(t, repo.AddDish(ctx, "pupuseria", &dish))
	require.NotZero(t, dish.ID)

	require.NoError(t, db.Create(&models.OrderLine{OrderID: 1, DishID: dish.ID, Quantity: 2}).Error)

	assert.ErrorIs(t, repo.Delete(ctx, "pupuseria"), ErrRestaurantInUse)
	assert.ErrorIs(t, repo.DeleteDish(ctx, dish.ID), ErrDishInUse)

	require.NoError(t, db.Where("plato_id = ?", dish.ID).Delete(&models.OrderLine{}).Error)
	require.NoError(t, repo.DeleteDish(ctx, dish.ID))
	assert.ErrorIs(t, repo.DeleteDish(ctx, dish.ID), ErrDishNotFound)
	require.NoError(t, repo.Delete(ctx, "pupuseria"))

	_, err := repo.FindBySlug(ctx, "pupuseria")
	assert.ErrorIs(t, err, ErrRestaurantNotFound)
}
