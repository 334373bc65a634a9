package services

import "errors"

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrNotOwner        = errors.New("order belongs to another user")
	ErrOrderNotDraft   = errors.New("order is no longer a draft")
	ErrDishNotFound    = errors.New("dish not found")
	ErrLineNotFound    = errors.New("order line not found")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrUserNotFound    = errors.New("session user not found")
)
