package handlers

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tifincart/internal/models"
)

func TestOrderStatusFlowAllowsDocumentedEdges(t *testing.T) {
	allowed := [][2]string{
		{models.OrderStatusPending, models.OrderStatusConfirmed},
		{models.OrderStatusPending, models.OrderStatusCancelled},
		{models.OrderStatusConfirmed, models.OrderStatusPreparing},
		{models.OrderStatusConfirmed, models.OrderStatusCancelled},
		{models.OrderStatusPreparing, models.OrderStatusOutForDelivery},
		{models.OrderStatusOutForDelivery, models.OrderStatusDelivered},
	}

	for _, edge := range allowed {
		if !canTransitionOrder(edge[0], edge[1]) {
			t.Fatalf("expected %s -> %s to be allowed", edge[0], edge[1])
		}
	}
}

func TestOrderStatusFlowRejectsBackwardsAndTerminal(t *testing.T) {
	rejected := [][2]string{
		{models.OrderStatusConfirmed, models.OrderStatusPending},
		{models.OrderStatusPreparing, models.OrderStatusCancelled},
		{models.OrderStatusOutForDelivery, models.OrderStatusCancelled},
		{models.OrderStatusDelivered, models.OrderStatusPending},
		{models.OrderStatusDelivered, models.OrderStatusDelivered},
		{models.OrderStatusCancelled, models.OrderStatusConfirmed},
		{models.OrderStatusPending, models.OrderStatusDelivered},
	}

	for _, edge := range rejected {
		if canTransitionOrder(edge[0], edge[1]) {
			t.Fatalf("expected %s -> %s to be rejected", edge[0], edge[1])
		}
	}
}

func TestIsKnownOrderStatus(t *testing.T) {
	for _, status := range []string{
		models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusPreparing,
		models.OrderStatusOutForDelivery, models.OrderStatusDelivered, models.OrderStatusCancelled,
	} {
		if !isKnownOrderStatus(status) {
			t.Fatalf("expected %s to be known", status)
		}
	}
	if isKnownOrderStatus("shipped") {
		t.Fatal("expected shipped to be unknown")
	}
}

func deliverableCart() models.Cart {
	seller := primitive.NewObjectID()
	kitchen := primitive.NewObjectID()
	return models.Cart{
		CustomerID: primitive.NewObjectID(),
		Items: []models.CartItem{
			{MenuItemID: primitive.NewObjectID(), SellerID: seller, KitchenID: kitchen, Name: "Dal Chawal", Price: 100, Quantity: 2, MealCategory: "lunch", IsAvailable: true},
			{MenuItemID: primitive.NewObjectID(), SellerID: seller, KitchenID: kitchen, Name: "Roti Sabzi", Price: 50, Quantity: 1, MealCategory: "lunch", IsAvailable: true},
		},
	}
}

func TestBuildOrderFromCartSnapshotsTotals(t *testing.T) {
	cart := deliverableCart()
	address := models.OrderAddress{Line1: "12 MG Road", City: "Pune", Pincode: "411001"}

	order, err := buildOrderFromCart(cart, address, models.PaymentMethodCOD, "", "")
	if err != nil {
		t.Fatalf("buildOrderFromCart returned error: %v", err)
	}

	if order.Subtotal != 250 {
		t.Fatalf("expected subtotal 250, got %v", order.Subtotal)
	}
	if order.DeliveryFee != 30 {
		t.Fatalf("expected delivery fee 30, got %v", order.DeliveryFee)
	}
	if order.Tax != 12.5 {
		t.Fatalf("expected tax 12.5, got %v", order.Tax)
	}
	if order.TotalAmount != 292.5 {
		t.Fatalf("expected totalAmount 292.5, got %v", order.TotalAmount)
	}
	if order.TotalAmount != order.Subtotal+order.DeliveryFee+order.Tax {
		t.Fatal("expected totalAmount to equal subtotal + deliveryFee + tax")
	}
}

func TestBuildOrderFromCartInitialState(t *testing.T) {
	cart := deliverableCart()

	order, err := buildOrderFromCart(cart, models.OrderAddress{Line1: "12 MG Road", City: "Pune", Pincode: "411001"}, models.PaymentMethodUPI, "2026-09-01", "12:00-13:00")
	if err != nil {
		t.Fatalf("buildOrderFromCart returned error: %v", err)
	}

	if order.Status != models.OrderStatusPending {
		t.Fatalf("expected initial status pending, got %s", order.Status)
	}
	if len(order.StatusHistory) != 1 {
		t.Fatalf("expected statusHistory length 1, got %d", len(order.StatusHistory))
	}
	if order.StatusHistory[0].Status != models.OrderStatusPending {
		t.Fatalf("expected first history entry pending, got %s", order.StatusHistory[0].Status)
	}
	if order.SellerID != cart.Items[0].SellerID || order.KitchenID != cart.Items[0].KitchenID {
		t.Fatal("expected order to carry the cart's seller and kitchen")
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 snapshot items, got %d", len(order.Items))
	}
}

func TestBuildOrderFromCartEmptyCart(t *testing.T) {
	_, err := buildOrderFromCart(models.Cart{}, models.OrderAddress{}, models.PaymentMethodCOD, "", "")
	var empty emptyCartError
	if !errors.As(err, &empty) {
		t.Fatalf("expected emptyCartError, got %v", err)
	}
}

func TestBuildOrderFromCartUnavailableItem(t *testing.T) {
	cart := deliverableCart()
	cart.Items[1].IsAvailable = false

	_, err := buildOrderFromCart(cart, models.OrderAddress{Line1: "12 MG Road", City: "Pune", Pincode: "411001"}, models.PaymentMethodCOD, "", "")
	var unavailable unavailableItemError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected unavailableItemError, got %v", err)
	}
	if unavailable.Name != "Roti Sabzi" {
		t.Fatalf("expected offending item name in error, got %q", unavailable.Name)
	}
}

func TestKitchenStatusFlow(t *testing.T) {
	if !canTransitionKitchen(models.KitchenStatusPending, models.KitchenStatusApproved) {
		t.Fatal("expected pending -> approved to be allowed")
	}
	if !canTransitionKitchen(models.KitchenStatusPending, models.KitchenStatusRejected) {
		t.Fatal("expected pending -> rejected to be allowed")
	}
	if !canTransitionKitchen(models.KitchenStatusPending, models.KitchenStatusSuspended) {
		t.Fatal("expected an admin to be able to suspend a pending kitchen")
	}
	if !canTransitionKitchen(models.KitchenStatusApproved, models.KitchenStatusSuspended) {
		t.Fatal("expected approved -> suspended to be allowed")
	}
	if canTransitionKitchen(models.KitchenStatusRejected, models.KitchenStatusApproved) {
		t.Fatal("expected rejected -> approved to require owner resubmit")
	}
	if canTransitionKitchen(models.KitchenStatusSuspended, models.KitchenStatusApproved) {
		t.Fatal("expected suspended -> approved to require owner resubmit")
	}
}
