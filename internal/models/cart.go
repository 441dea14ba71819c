package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is a live line in a customer's cart. Name, price and availability
// are refreshed from the menu item on every cart read; nothing here is a
// snapshot until checkout turns the cart into an order.
type CartItem struct {
	MenuItemID          primitive.ObjectID `bson:"menuItemId" json:"menuItemId"`
	SellerID            primitive.ObjectID `bson:"sellerId" json:"sellerId"`
	KitchenID           primitive.ObjectID `bson:"kitchenId" json:"kitchenId"`
	Name                string             `bson:"name" json:"name"`
	Price               float64            `bson:"price" json:"price"`
	Quantity            int                `bson:"quantity" json:"quantity"`
	MealCategory        string             `bson:"mealCategory,omitempty" json:"mealCategory,omitempty"`
	SpecialInstructions string             `bson:"specialInstructions,omitempty" json:"specialInstructions,omitempty"`
	IsAvailable         bool               `bson:"-" json:"isAvailable"`
}

// Cart is the single active cart per customer. All items must share one
// seller; the unique customerId index keeps the cart itself singular.
type Cart struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerID  primitive.ObjectID `bson:"customerId" json:"customerId"`
	Items       []CartItem         `bson:"items" json:"items"`
	Subtotal    float64            `bson:"subtotal" json:"subtotal"`
	DeliveryFee float64            `bson:"deliveryFee" json:"deliveryFee"`
	Tax         float64            `bson:"tax" json:"tax"`
	Total       float64            `bson:"total" json:"total"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
