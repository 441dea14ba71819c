package handlers

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tifincart/internal/models"
)

func TestCartSubtotalSumsLines(t *testing.T) {
	seller := primitive.NewObjectID()
	items := []models.CartItem{
		{MenuItemID: primitive.NewObjectID(), SellerID: seller, Price: 100, Quantity: 2},
		{MenuItemID: primitive.NewObjectID(), SellerID: seller, Price: 50, Quantity: 1},
	}

	if got := cartSubtotal(items); got != 250 {
		t.Fatalf("expected subtotal 250, got %v", got)
	}
}

func TestApplyCartTotals(t *testing.T) {
	seller := primitive.NewObjectID()
	cart := models.Cart{Items: []models.CartItem{
		{MenuItemID: primitive.NewObjectID(), SellerID: seller, Price: 100, Quantity: 2},
		{MenuItemID: primitive.NewObjectID(), SellerID: seller, Price: 50, Quantity: 1},
	}}

	applyCartTotals(&cart)

	if cart.Subtotal != 250 {
		t.Fatalf("expected subtotal 250, got %v", cart.Subtotal)
	}
	if cart.DeliveryFee != 30 {
		t.Fatalf("expected delivery fee 30, got %v", cart.DeliveryFee)
	}
	if cart.Tax != 12.5 {
		t.Fatalf("expected tax 12.5, got %v", cart.Tax)
	}
	if cart.Total != 292.5 {
		t.Fatalf("expected total 292.5, got %v", cart.Total)
	}
}

func TestDeliveryFeeThreshold(t *testing.T) {
	if got := deliveryFeeFor(499.99); got != flatDeliveryFee {
		t.Fatalf("expected flat fee below threshold, got %v", got)
	}
	if got := deliveryFeeFor(500); got != 0 {
		t.Fatalf("expected free delivery at threshold, got %v", got)
	}
	if got := deliveryFeeFor(0); got != 0 {
		t.Fatalf("expected no fee on empty cart, got %v", got)
	}
}

func TestMergeCartItemSumsQuantities(t *testing.T) {
	seller := primitive.NewObjectID()
	menuItem := primitive.NewObjectID()

	items := []models.CartItem{{MenuItemID: menuItem, SellerID: seller, Price: 100, Quantity: 2}}

	merged, err := mergeCartItem(items, models.CartItem{MenuItemID: menuItem, SellerID: seller, Price: 100, Quantity: 3})
	if err != nil {
		t.Fatalf("mergeCartItem returned error: %v", err)
	}
	if len(merged) != 1 {
		t.Fatalf("expected a single line, got %d", len(merged))
	}
	if merged[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", merged[0].Quantity)
	}
}

func TestMergeCartItemRejectsSecondSeller(t *testing.T) {
	items := []models.CartItem{{MenuItemID: primitive.NewObjectID(), SellerID: primitive.NewObjectID(), Price: 100, Quantity: 1}}

	_, err := mergeCartItem(items, models.CartItem{MenuItemID: primitive.NewObjectID(), SellerID: primitive.NewObjectID(), Price: 50, Quantity: 1})
	var conflict sellerConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected sellerConflictError, got %v", err)
	}
}

func TestSingleSellerInvariantAfterMerges(t *testing.T) {
	seller := primitive.NewObjectID()
	var items []models.CartItem
	var err error

	for i := 0; i < 4; i++ {
		items, err = mergeCartItem(items, models.CartItem{MenuItemID: primitive.NewObjectID(), SellerID: seller, Price: 10, Quantity: 1})
		if err != nil {
			t.Fatalf("mergeCartItem returned error: %v", err)
		}
	}

	for _, item := range items {
		if item.SellerID != seller {
			t.Fatalf("expected all lines to share sellerId %s, got %s", seller.Hex(), item.SellerID.Hex())
		}
	}
}

func TestSetCartItemQuantityZeroRemovesLine(t *testing.T) {
	seller := primitive.NewObjectID()
	menuItem := primitive.NewObjectID()
	items := []models.CartItem{
		{MenuItemID: menuItem, SellerID: seller, Price: 100, Quantity: 2},
		{MenuItemID: primitive.NewObjectID(), SellerID: seller, Price: 50, Quantity: 1},
	}

	updated, err := setCartItemQuantity(items, menuItem, 0)
	if err != nil {
		t.Fatalf("setCartItemQuantity returned error: %v", err)
	}
	if len(updated) != 1 {
		t.Fatalf("expected line removed, got %d lines", len(updated))
	}
	if updated[0].MenuItemID == menuItem {
		t.Fatal("expected the zeroed line to be gone")
	}
}

func TestSetCartItemQuantityReplaces(t *testing.T) {
	seller := primitive.NewObjectID()
	menuItem := primitive.NewObjectID()
	items := []models.CartItem{{MenuItemID: menuItem, SellerID: seller, Price: 100, Quantity: 2}}

	updated, err := setCartItemQuantity(items, menuItem, 7)
	if err != nil {
		t.Fatalf("setCartItemQuantity returned error: %v", err)
	}
	if updated[0].Quantity != 7 {
		t.Fatalf("expected quantity 7, got %d", updated[0].Quantity)
	}
}

func TestSetCartItemQuantityMissingLine(t *testing.T) {
	_, err := setCartItemQuantity(nil, primitive.NewObjectID(), 1)
	var notFound cartItemNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected cartItemNotFoundError, got %v", err)
	}
}

func TestRemoveCartItemIdempotent(t *testing.T) {
	seller := primitive.NewObjectID()
	menuItem := primitive.NewObjectID()
	items := []models.CartItem{{MenuItemID: menuItem, SellerID: seller, Price: 100, Quantity: 1}}

	items = removeCartItem(items, menuItem)
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(items))
	}

	items = removeCartItem(items, menuItem)
	if len(items) != 0 {
		t.Fatalf("expected removal to stay idempotent, got %d lines", len(items))
	}
}
