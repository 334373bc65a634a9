package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pedidoshn/pedidos-app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeedFromFileIsIdempotent(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)
	ctx := context.Background()
	path := filepath.Join("..", "data", "restaurantes.json")

	first, err := SeedFromFile(ctx, db, path)
	require.NoError(t, err)
	assert.Equal(t, 3, first)

	second, err := SeedFromFile(ctx, db, path)
	require.NoError(t, err)
	assert.Zero(t, second)

	var dishes int64
	require.NoError(t, db.Model(&models.Dish{}).Count(&dishes).Error)
	assert.EqualValues(t, 7, dishes)
}

func TestEnsureAdminPromotesExistingUser(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)
	ctx := context.Background()

	email := "admin@pedidoshn.test"
	require.NoError(t, db.Create(&models.User{Name: "Admin", Email: &email}).Error)

	require.NoError(t, EnsureAdmin(ctx, db, "Admin", "Admin@PedidosHN.test", "s3cret"))

	var user models.User
	require.NoError(t, db.Where("email = ?", email).First(&user).Error)
	assert.True(t, user.IsAdmin)
	require.NotNil(t, user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte("s3cret")))

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.EqualValues(t, 1, count)
}
