package handlers

import (
	"tifincart/internal/models"
)

// orderStatusFlow is the forward-only transition graph. Delivered and
// cancelled are terminal; cancellation is only reachable before the kitchen
// starts preparing.
var orderStatusFlow = map[string][]string{
	models.OrderStatusPending:        {models.OrderStatusConfirmed, models.OrderStatusCancelled},
	models.OrderStatusConfirmed:      {models.OrderStatusPreparing, models.OrderStatusCancelled},
	models.OrderStatusPreparing:      {models.OrderStatusOutForDelivery},
	models.OrderStatusOutForDelivery: {models.OrderStatusDelivered},
	models.OrderStatusDelivered:      {},
	models.OrderStatusCancelled:      {},
}

func isKnownOrderStatus(status string) bool {
	_, ok := orderStatusFlow[status]
	return ok
}

func canTransitionOrder(from, to string) bool {
	for _, allowed := range orderStatusFlow[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func isKnownPaymentMethod(method string) bool {
	return method == models.PaymentMethodCOD || method == models.PaymentMethodUPI
}
