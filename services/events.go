package services

import (
	"context"

	"github.com/pedidoshn/pedidos-app/models"
)

// Notifier receives order events after the change is committed. Implementations
// must not block for long and must swallow (log) their own failures.
type Notifier interface {
	Notify(ctx context.Context, ev models.OrderEvent)
}

type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, ev models.OrderEvent) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, ev)
		}
	}
}

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, models.OrderEvent) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return NopNotifier{}
	}
	return n
}
