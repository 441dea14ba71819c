package handlers

import (
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tifincart/internal/models"
)

const (
	flatDeliveryFee       = 30.0
	freeDeliveryThreshold = 500.0
	taxRate               = 0.05
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func cartSubtotal(items []models.CartItem) float64 {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}
	return round2(subtotal)
}

func deliveryFeeFor(subtotal float64) float64 {
	if subtotal <= 0 || subtotal >= freeDeliveryThreshold {
		return 0
	}
	return flatDeliveryFee
}

func taxFor(subtotal float64) float64 {
	return round2(subtotal * taxRate)
}

// applyCartTotals recomputes the derived money fields in place.
func applyCartTotals(cart *models.Cart) {
	cart.Subtotal = cartSubtotal(cart.Items)
	cart.DeliveryFee = deliveryFeeFor(cart.Subtotal)
	cart.Tax = taxFor(cart.Subtotal)
	cart.Total = round2(cart.Subtotal + cart.DeliveryFee + cart.Tax)
}

// cartSellerID returns the seller all current lines belong to. The second
// return is false for an empty cart.
func cartSellerID(items []models.CartItem) (primitive.ObjectID, bool) {
	if len(items) == 0 {
		return primitive.NilObjectID, false
	}
	return items[0].SellerID, true
}

type sellerConflictError struct {
	CartSellerID primitive.ObjectID
	ItemSellerID primitive.ObjectID
}

func (e sellerConflictError) Error() string {
	return "cart already contains items from another kitchen"
}

type cartItemNotFoundError struct {
	MenuItemID primitive.ObjectID
}

func (e cartItemNotFoundError) Error() string {
	return "item not in cart"
}

// mergeCartItem adds the line, summing quantities when the menu item is
// already present, and rejects lines from a second seller.
func mergeCartItem(items []models.CartItem, line models.CartItem) ([]models.CartItem, error) {
	if sellerID, ok := cartSellerID(items); ok && sellerID != line.SellerID {
		return nil, sellerConflictError{CartSellerID: sellerID, ItemSellerID: line.SellerID}
	}

	for i, existing := range items {
		if existing.MenuItemID == line.MenuItemID {
			items[i].Quantity += line.Quantity
			if line.SpecialInstructions != "" {
				items[i].SpecialInstructions = line.SpecialInstructions
			}
			return items, nil
		}
	}

	return append(items, line), nil
}

// setCartItemQuantity replaces the line quantity; zero removes the line.
func setCartItemQuantity(items []models.CartItem, menuItemID primitive.ObjectID, quantity int) ([]models.CartItem, error) {
	index := -1
	for i, item := range items {
		if item.MenuItemID == menuItemID {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, cartItemNotFoundError{MenuItemID: menuItemID}
	}

	if quantity == 0 {
		return append(items[:index], items[index+1:]...), nil
	}

	items[index].Quantity = quantity
	return items, nil
}

// removeCartItem drops the line if present. Idempotent.
func removeCartItem(items []models.CartItem, menuItemID primitive.ObjectID) []models.CartItem {
	updated := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.MenuItemID == menuItemID {
			continue
		}
		updated = append(updated, item)
	}
	return updated
}
