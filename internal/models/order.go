package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OrderStatusPending        = "pending"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusPreparing      = "preparing"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

const (
	PaymentMethodCOD = "cod"
	PaymentMethodUPI = "upi"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// OrderItem is a frozen copy of a cart line. Decoupled from the live menu so
// historical orders stay stable when sellers rename or reprice items.
type OrderItem struct {
	MenuItemID          primitive.ObjectID `bson:"menuItemId" json:"menuItemId"`
	Name                string             `bson:"name" json:"name"`
	Price               float64            `bson:"price" json:"price"`
	Quantity            int                `bson:"quantity" json:"quantity"`
	SpecialInstructions string             `bson:"specialInstructions,omitempty" json:"specialInstructions,omitempty"`
}

// StatusEntry is one row of the append-only status audit log.
type StatusEntry struct {
	Status    string    `bson:"status" json:"status"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Note      string    `bson:"note,omitempty" json:"note,omitempty"`
}

// OrderAddress is the delivery address frozen into the order.
type OrderAddress struct {
	Label   string `bson:"label,omitempty" json:"label,omitempty"`
	Line1   string `bson:"line1" json:"line1"`
	Line2   string `bson:"line2,omitempty" json:"line2,omitempty"`
	City    string `bson:"city" json:"city"`
	Pincode string `bson:"pincode" json:"pincode"`
	Note    string `bson:"note,omitempty" json:"note,omitempty"`
}

// Order is created by snapshotting a cart at checkout. TotalAmount is
// computed once at creation and never recomputed from the lines afterward.
type Order struct {
	ID                 primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	CustomerID         primitive.ObjectID   `bson:"customerId" json:"customerId"`
	SellerID           primitive.ObjectID   `bson:"sellerId" json:"sellerId"`
	KitchenID          primitive.ObjectID   `bson:"kitchenId" json:"kitchenId"`
	Items              []OrderItem          `bson:"items" json:"items"`
	Subtotal           float64              `bson:"subtotal" json:"subtotal"`
	DeliveryFee        float64              `bson:"deliveryFee" json:"deliveryFee"`
	Tax                float64              `bson:"tax" json:"tax"`
	TotalAmount        float64              `bson:"totalAmount" json:"totalAmount"`
	PaymentMethod      string               `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus      string               `bson:"paymentStatus" json:"paymentStatus"`
	Status             string               `bson:"status" json:"status"`
	StatusHistory      []StatusEntry        `bson:"statusHistory" json:"statusHistory"`
	KitchenReviewID    *primitive.ObjectID  `bson:"kitchenReviewId,omitempty" json:"kitchenReviewId,omitempty"`
	ItemReviewIDs      []primitive.ObjectID `bson:"itemReviewIds,omitempty" json:"itemReviewIds,omitempty"`
	DeliveryAddress    OrderAddress         `bson:"deliveryAddress" json:"deliveryAddress"`
	DeliveryDate       string               `bson:"deliveryDate,omitempty" json:"deliveryDate,omitempty"`
	DeliveryTimeWindow string               `bson:"deliveryTimeWindow,omitempty" json:"deliveryTimeWindow,omitempty"`
	MealCategory       string               `bson:"mealCategory,omitempty" json:"mealCategory,omitempty"`
	CreatedAt          time.Time            `bson:"createdAt" json:"createdAt"`
}
