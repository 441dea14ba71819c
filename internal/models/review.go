package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ReviewTypeKitchen = "kitchen"
	ReviewTypeItem    = "item"
)

// Review is accepted only against delivered orders. One review per
// (customer, order, type, menu item) tuple, enforced by a unique index.
type Review struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CustomerID primitive.ObjectID  `bson:"customerId" json:"customerId"`
	OrderID    primitive.ObjectID  `bson:"orderId" json:"orderId"`
	SellerID   primitive.ObjectID  `bson:"sellerId" json:"sellerId"`
	KitchenID  primitive.ObjectID  `bson:"kitchenId" json:"kitchenId"`
	MenuItemID *primitive.ObjectID `bson:"menuItemId,omitempty" json:"menuItemId,omitempty"`
	Type       string              `bson:"type" json:"type"`
	Rating     int                 `bson:"rating" json:"rating"`
	Title      string              `bson:"title,omitempty" json:"title,omitempty"`
	Comment    string              `bson:"comment,omitempty" json:"comment,omitempty"`
	Tags       StringList          `bson:"tags" json:"tags"`
	CreatedAt  time.Time           `bson:"createdAt" json:"createdAt"`
}
