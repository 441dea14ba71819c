package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	KitchenStatusPending   = "pending"
	KitchenStatusApproved  = "approved"
	KitchenStatusRejected  = "rejected"
	KitchenStatusSuspended = "suspended"
)

// KitchenRating is the denormalized average kept in sync by full recompute
// whenever a new kitchen review lands.
type KitchenRating struct {
	Average      float64 `bson:"average" json:"average"`
	TotalReviews int     `bson:"totalReviews" json:"totalReviews"`
}

type KitchenDeliveryInfo struct {
	RadiusKm   float64 `bson:"radiusKm" json:"radiusKm"`
	TimeWindow string  `bson:"timeWindow,omitempty" json:"timeWindow,omitempty"`
}

// Kitchen is a seller's storefront. It only becomes publicly visible once an
// admin moves it to approved.
type Kitchen struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	OwnerID       primitive.ObjectID  `bson:"ownerId" json:"ownerId"`
	Name          string              `bson:"name" json:"name"`
	Description   string              `bson:"description,omitempty" json:"description,omitempty"`
	Cuisine       string              `bson:"cuisine,omitempty" json:"cuisine,omitempty"`
	Address       string              `bson:"address" json:"address"`
	Phone         string              `bson:"phone" json:"phone"`
	LicenseNumber string              `bson:"licenseNumber" json:"licenseNumber"`
	DeliveryInfo  KitchenDeliveryInfo `bson:"deliveryInfo" json:"deliveryInfo"`
	Status        string              `bson:"status" json:"status"`
	AdminRemarks  string              `bson:"adminRemarks,omitempty" json:"adminRemarks,omitempty"`
	Rating        KitchenRating       `bson:"rating" json:"rating"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}
