package service

import (
	"context"

	"github.com/ecommkit/storefront/internal/models"
)

// OrderNotifier is the fire-and-forget hook invoked after a checkout
// commits. Implementations own their error handling; a failed delivery never
// propagates back into the checkout path.
type OrderNotifier interface {
	NotifyOrderCreated(ctx context.Context, order *models.Order)
}

type fanoutNotifier struct {
	notifiers []OrderNotifier
}

// NewFanoutNotifier broadcasts to every configured notifier in order.
func NewFanoutNotifier(notifiers ...OrderNotifier) OrderNotifier {
	return &fanoutNotifier{notifiers: notifiers}
}

func (f *fanoutNotifier) NotifyOrderCreated(ctx context.Context, order *models.Order) {
	for _, n := range f.notifiers {
		n.NotifyOrderCreated(ctx, order)
	}
}
