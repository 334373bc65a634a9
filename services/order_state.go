package services

import (
	"fmt"
	"strings"

	"github.com/pedidoshn/pedidos-app/models"
)

type Transition struct {
	From models.OrderStatus
	To   models.OrderStatus
}

// validTransitions is the whole order state machine. Confirmed is terminal.
var validTransitions = []Transition{
	{From: models.StatusDraft, To: models.StatusConfirmed},
}

var transitionMap = func() map[Transition]bool {
	m := make(map[Transition]bool, len(validTransitions))
	for _, t := range validTransitions {
		m[t] = true
	}
	return m
}()

func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	for _, t := range validTransitions {
		if t.From == status {
			nexts = append(nexts, t.To)
		}
	}
	return nexts
}

// CanTransition returns an error wrapping ErrOrderNotDraft when from -> to is not allowed.
func CanTransition(from, to models.OrderStatus) error {
	if transitionMap[Transition{From: from, To: to}] {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s not allowed, valid from %s: %s",
		ErrOrderNotDraft, from, to, from, describeValidFrom(from))
}

// LinesEditable reports whether lines may still be added or removed.
func LinesEditable(status models.OrderStatus) bool {
	return status == models.StatusDraft
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	names := make([]string, len(nexts))
	for i, s := range nexts {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
