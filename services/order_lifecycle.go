package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pedidoshn/pedidos-app/models"
	"github.com/pedidoshn/pedidos-app/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderService owns every change to an order after checkout. Apart from AdminDelete and
// ListAll, each call is scoped to the order's owner.
type OrderService struct {
	DB       *gorm.DB
	Notifier Notifier
	Clock    func() time.Time
}

func NewOrderService(db *gorm.DB, notifier Notifier, clock func() time.Time) *OrderService {
	if clock == nil {
		clock = time.Now
	}
	return &OrderService{DB: db, Notifier: notifierOrNop(notifier), Clock: clock}
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("Restaurant").
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Lines.Dish")
}

func (s *OrderService) ListForUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := withDetails(s.DB.WithContext(ctx)).
		Where("usuario_id = ?", userID).
		Order("fecha DESC, id DESC").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("listing orders for user %d: %w", userID, err)
	}
	return orders, nil
}

func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := withDetails(s.DB.WithContext(ctx)).
		Order("fecha DESC, id DESC").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return orders, nil
}

// Get loads an owned order with its lines, dishes and the restaurant menu.
func (s *OrderService) Get(ctx context.Context, orderID, userID uint) (models.Order, error) {
	db := withDetails(s.DB.WithContext(ctx)).
		Preload("Restaurant.Dishes", func(db *gorm.DB) *gorm.DB { return db.Order("nombre ASC") })
	return loadOwned(db, orderID, userID)
}

func (s *OrderService) AddLine(ctx context.Context, orderID, userID, dishID uint, qty int) (models.OrderLine, error) {
	if qty < 1 {
		return models.OrderLine{}, ErrInvalidQuantity
	}

	var line models.OrderLine
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := loadOwned(forUpdate(tx), orderID, userID)
		if err != nil {
			return err
		}
		if !LinesEditable(order.Status) {
			return ErrOrderNotDraft
		}

		var dish models.Dish
		if err := tx.First(&dish, dishID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDishNotFound
			}
			return fmt.Errorf("loading dish %d: %w", dishID, err)
		}
		if order.RestaurantID != nil && dish.RestaurantID != *order.RestaurantID {
			return ErrDishNotFound
		}

		line = models.OrderLine{OrderID: order.ID, DishID: dish.ID, Quantity: qty}
		if err := tx.Create(&line).Error; err != nil {
			return fmt.Errorf("inserting line on order %d: %w", order.ID, err)
		}
		line.Dish = &dish
		return nil
	})
	return line, err
}

func (s *OrderService) RemoveLine(ctx context.Context, orderID, lineID, userID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := loadOwned(forUpdate(tx), orderID, userID)
		if err != nil {
			return err
		}
		if !LinesEditable(order.Status) {
			return ErrOrderNotDraft
		}

		res := tx.Where("id = ? AND orden_id = ?", lineID, order.ID).Delete(&models.OrderLine{})
		if res.Error != nil {
			return fmt.Errorf("deleting line %d: %w", lineID, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrLineNotFound
		}
		return nil
	})
}

func (s *OrderService) Confirm(ctx context.Context, orderID, userID uint) (models.Order, error) {
	var order models.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = loadOwned(forUpdate(tx), orderID, userID)
		if err != nil {
			return err
		}
		if err := CanTransition(order.Status, models.StatusConfirmed); err != nil {
			return err
		}

		// guarded on the current status so a concurrent confirm cannot apply twice
		res := tx.Model(&models.Order{}).
			Where("id = ? AND estado = ?", order.ID, order.Status).
			Update("estado", models.StatusConfirmed)
		if res.Error != nil {
			return fmt.Errorf("confirming order %d: %w", order.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrOrderNotDraft
		}
		order.Status = models.StatusConfirmed
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}

	utils.InfoLogger.WithField("order_id", order.ID).Info("order confirmed")
	s.Notifier.Notify(ctx, models.NewOrderEvent(models.EventOrderConfirmed, order, s.Clock()))
	return order, nil
}

func (s *OrderService) Delete(ctx context.Context, orderID, userID uint) error {
	var order models.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = loadOwned(forUpdate(tx), orderID, userID)
		if err != nil {
			return err
		}
		return deleteOrder(tx, order.ID)
	})
	if err != nil {
		return err
	}
	s.Notifier.Notify(ctx, models.NewOrderEvent(models.EventOrderDeleted, order, s.Clock()))
	return nil
}

// AdminDelete skips the ownership check. Callers must have checked utils.IsAdmin.
func (s *OrderService) AdminDelete(ctx context.Context, orderID uint) error {
	var order models.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("loading order %d: %w", orderID, err)
		}
		return deleteOrder(tx, order.ID)
	})
	if err != nil {
		return err
	}
	utils.InfoLogger.WithField("order_id", order.ID).Info("order deleted by admin")
	s.Notifier.Notify(ctx, models.NewOrderEvent(models.EventOrderDeleted, order, s.Clock()))
	return nil
}

// forUpdate locks the selected order rows until the transaction ends, so a status
// check holds for the rest of it. sqlite ignores the clause.
func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
}

func loadOwned(tx *gorm.DB, orderID, userID uint) (models.Order, error) {
	var order models.Order
	if err := tx.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, ErrOrderNotFound
		}
		return models.Order{}, fmt.Errorf("loading order %d: %w", orderID, err)
	}
	if order.UserID != userID {
		return models.Order{}, ErrNotOwner
	}
	return order, nil
}

// deleteOrder removes lines first, then the header.
func deleteOrder(tx *gorm.DB, orderID uint) error {
	if err := tx.Where("orden_id = ?", orderID).Delete(&models.OrderLine{}).Error; err != nil {
		return fmt.Errorf("deleting lines of order %d: %w", orderID, err)
	}
	if err := tx.Delete(&models.Order{}, orderID).Error; err != nil {
		return fmt.Errorf("deleting order %d: %w", orderID, err)
	}
	return nil
}

// DeleteUser removes a user together with their orders. Admin only.
func (s *OrderService) DeleteUser(ctx context.Context, userID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("loading user %d: %w", userID, err)
		}

		var orderIDs []uint
		if err := tx.Model(&models.Order{}).Where("usuario_id = ?", userID).Pluck("id", &orderIDs).Error; err != nil {
			return fmt.Errorf("listing orders of user %d: %w", userID, err)
		}
		for _, id := range orderIDs {
			if err := deleteOrder(tx, id); err != nil {
				return err
			}
		}
		if err := tx.Delete(&user).Error; err != nil {
			return fmt.Errorf("deleting user %d: %w", userID, err)
		}
		return nil
	})
}
