package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ItemRating mirrors KitchenRating for a single menu item.
type ItemRating struct {
	Average     float64 `bson:"average" json:"average"`
	ReviewCount int     `bson:"reviewCount" json:"reviewCount"`
}

// MenuItem is a tiffin offered by a kitchen.
type MenuItem struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	KitchenID    primitive.ObjectID `bson:"kitchenId" json:"kitchenId"`
	SellerID     primitive.ObjectID `bson:"sellerId" json:"sellerId"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Price        float64            `bson:"price" json:"price"`
	MealCategory string             `bson:"mealCategory" json:"mealCategory"`
	Tags         StringList         `bson:"tags" json:"tags"`
	IsVeg        bool               `bson:"isVeg" json:"isVeg"`
	IsAvailable  bool               `bson:"isAvailable" json:"isAvailable"`
	Rating       ItemRating         `bson:"rating" json:"rating"`
	IsDeleted    bool               `bson:"isDeleted" json:"isDeleted,omitempty"`
	DeletedAt    *time.Time         `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
