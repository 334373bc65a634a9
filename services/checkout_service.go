package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pedidoshn/pedidos-app/models"
	"github.com/pedidoshn/pedidos-app/utils"
	"gorm.io/gorm"
)

type CheckoutService struct {
	DB       *gorm.DB
	Notifier Notifier
	Clock    func() time.Time
}

func NewCheckoutService(db *gorm.DB, notifier Notifier, clock func() time.Time) *CheckoutService {
	if clock == nil {
		clock = time.Now
	}
	return &CheckoutService{DB: db, Notifier: notifierOrNop(notifier), Clock: clock}
}

// PlaceOrder persists a validated checkout: identity, draft order and, when the dish
// is known, a single line with quantity 1. Everything happens in one transaction.
func (s *CheckoutService) PlaceOrder(ctx context.Context, in ValidCheckout, sessionUserID *uint) (models.Order, error) {
	var order models.Order

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userID, err := resolveIdentity(tx, in, sessionUserID)
		if err != nil {
			return err
		}

		var restaurantID *uint
		var restaurant models.Restaurant
		err = tx.Where("slug = ?", in.RestaurantSlug).First(&restaurant).Error
		switch {
		case err == nil:
			id := restaurant.ID
			restaurantID = &id
		case errors.Is(err, gorm.ErrRecordNotFound):
			// unknown slug: keep the order, leave the reference empty
		default:
			return fmt.Errorf("looking up restaurant %q: %w", in.RestaurantSlug, err)
		}

		order = models.Order{
			UserID:         userID,
			RestaurantID:   restaurantID,
			RestaurantSlug: in.RestaurantSlug,
			CustomerName:   in.Name,
			Request:        in.Dish,
			Address:        in.Address,
			Phone:          in.Phone,
			ScheduleDate:   in.ScheduleDate.Format(DateLayout),
			ScheduleSlot:   in.ScheduleSlot,
			Status:         models.StatusDraft,
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("inserting order: %w", err)
		}

		dishQuery := tx.Where("nombre = ?", in.Dish)
		if restaurantID != nil {
			dishQuery = dishQuery.Where("restaurante_id = ?", *restaurantID)
		}
		var dish models.Dish
		err = dishQuery.First(&dish).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("looking up dish %q: %w", in.Dish, err)
		}

		line := models.OrderLine{OrderID: order.ID, DishID: dish.ID, Quantity: 1}
		if err := tx.Create(&line).Error; err != nil {
			return fmt.Errorf("inserting order line: %w", err)
		}
		line.Dish = &dish
		order.Lines = []models.OrderLine{line}
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}

	utils.InfoLogger.WithField("order_id", order.ID).
		WithField("user_id", order.UserID).
		WithField("lines", len(order.Lines)).
		Info("order placed")
	s.Notifier.Notify(ctx, models.NewOrderEvent(models.EventOrderCreated, order, s.Clock()))
	return order, nil
}

// resolveIdentity returns the user id the order is filed under. A session user gets
// their contact details overwritten; a guest always gets a fresh row.
func resolveIdentity(tx *gorm.DB, in ValidCheckout, sessionUserID *uint) (uint, error) {
	if sessionUserID != nil {
		var user models.User
		err := tx.Select("id").First(&user, *sessionUserID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("user %d: %w", *sessionUserID, ErrUserNotFound)
		}
		if err != nil {
			return 0, fmt.Errorf("loading user %d: %w", *sessionUserID, err)
		}
		if err := tx.Model(&user).Updates(map[string]interface{}{
			"direccion": in.Address,
			"telefono":  in.Phone,
		}).Error; err != nil {
			return 0, fmt.Errorf("updating user %d: %w", *sessionUserID, err)
		}
		return user.ID, nil
	}

	guest := models.User{
		Name:    in.Name,
		Address: in.Address,
		Phone:   in.Phone,
	}
	if err := tx.Create(&guest).Error; err != nil {
		return 0, fmt.Errorf("inserting guest user: %w", err)
	}
	return guest.ID, nil
}
