package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tifincart/internal/models"
)

type kitchenRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	Cuisine       string  `json:"cuisine"`
	Address       string  `json:"address" binding:"required"`
	Phone         string  `json:"phone" binding:"required"`
	LicenseNumber string  `json:"licenseNumber" binding:"required"`
	RadiusKm      float64 `json:"radiusKm"`
	TimeWindow    string  `json:"timeWindow"`
}

// GetKitchens lists approved kitchens for browsing.
func GetKitchens(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /kitchens"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid pagination params")
			return
		}

		filter := bson.M{"status": models.KitchenStatusApproved}
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			filter["name"] = bson.M{"$regex": search, "$options": "i"}
		}
		if cuisine := strings.TrimSpace(c.Query("cuisine")); cuisine != "" {
			filter["cuisine"] = cuisine
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		findOpts := options.Find().
			SetSort(bson.D{{Key: "rating.average", Value: -1}}).
			SetSkip((page - 1) * limit).
			SetLimit(limit)

		cursor, err := db.Collection("kitchens").Find(ctx, filter, findOpts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		kitchens := make([]models.Kitchen, 0)
		if err := cursor.All(ctx, &kitchens); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondData(c, http.StatusOK, kitchens)
	}
}

// GetKitchen returns one approved kitchen with its available menu.
func GetKitchen(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /kitchens/:id"
		defer handlePanic(c, route)

		kitchenID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid kitchen id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var kitchen models.Kitchen
		err = db.Collection("kitchens").FindOne(ctx, bson.M{
			"_id":    kitchenID,
			"status": models.KitchenStatusApproved,
		}).Decode(&kitchen)
		if err != nil {
			respondWithError(c, http.StatusNotFound, route, "kitchen not found")
			return
		}

		menu, err := loadKitchenMenu(ctx, db, kitchenID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondData(c, http.StatusOK, gin.H{"kitchen": kitchen, "menu": menu})
	}
}

func GetKitchenMenu(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /kitchens/:id/menu"
		defer handlePanic(c, route)

		kitchenID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid kitchen id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := db.Collection("kitchens").FindOne(ctx, bson.M{
			"_id":    kitchenID,
			"status": models.KitchenStatusApproved,
		}).Err(); err != nil {
			respondWithError(c, http.StatusNotFound, route, "kitchen not found")
			return
		}

		menu, err := loadKitchenMenu(ctx, db, kitchenID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondData(c, http.StatusOK, menu)
	}
}

func loadKitchenMenu(ctx context.Context, db *mongo.Database, kitchenID primitive.ObjectID) ([]models.MenuItem, error) {
	cursor, err := db.Collection("menu_items").Find(ctx, bson.M{
		"kitchenId":   kitchenID,
		"isAvailable": true,
		"isDeleted":   bson.M{"$ne": true},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeMenuItems(ctx, cursor)
}

// CreateKitchen registers a new kitchen for the acting seller. It starts in
// pending until an admin reviews it.
func CreateKitchen(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /seller/kitchens"
		defer handlePanic(c, route)

		ownerID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req kitchenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		now := time.Now()
		kitchen := models.Kitchen{
			OwnerID:       ownerID,
			Name:          strings.TrimSpace(req.Name),
			Description:   strings.TrimSpace(req.Description),
			Cuisine:       strings.TrimSpace(req.Cuisine),
			Address:       strings.TrimSpace(req.Address),
			Phone:         strings.TrimSpace(req.Phone),
			LicenseNumber: strings.TrimSpace(req.LicenseNumber),
			DeliveryInfo: models.KitchenDeliveryInfo{
				RadiusKm:   req.RadiusKm,
				TimeWindow: strings.TrimSpace(req.TimeWindow),
			},
			Status:    models.KitchenStatusPending,
			Rating:    models.KitchenRating{},
			CreatedAt: now,
			UpdatedAt: now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("kitchens").InsertOne(ctx, kitchen)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			kitchen.ID = id
		}

		respondData(c, http.StatusCreated, kitchen)
	}
}

func GetSellerKitchens(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /seller/kitchens"
		defer handlePanic(c, route)

		ownerID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("kitchens").Find(ctx, bson.M{"ownerId": ownerID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		kitchens := make([]models.Kitchen, 0)
		if err := cursor.All(ctx, &kitchens); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondData(c, http.StatusOK, kitchens)
	}
}

// UpdateKitchen lets the owner edit kitchen details. Changing the license of
// an approved kitchen sends it back through review; rejected and suspended
// kitchens also return to pending on resubmit.
func UpdateKitchen(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /seller/kitchens/:id"
		defer handlePanic(c, route)

		ownerID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		kitchenID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid kitchen id")
			return
		}

		var req kitchenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var kitchen models.Kitchen
		if err := db.Collection("kitchens").FindOne(ctx, bson.M{"_id": kitchenID}).Decode(&kitchen); err != nil {
			respondWithError(c, http.StatusNotFound, route, "kitchen not found")
			return
		}
		if kitchen.OwnerID != ownerID {
			respondWithError(c, http.StatusForbidden, route, "forbidden")
			return
		}

		newStatus := kitchen.Status
		license := strings.TrimSpace(req.LicenseNumber)
		switch {
		case kitchen.Status == models.KitchenStatusRejected || kitchen.Status == models.KitchenStatusSuspended:
			newStatus = models.KitchenStatusPending
		case kitchen.Status == models.KitchenStatusApproved && license != kitchen.LicenseNumber:
			newStatus = models.KitchenStatusPending
		}

		update := bson.M{
			"name":          strings.TrimSpace(req.Name),
			"description":   strings.TrimSpace(req.Description),
			"cuisine":       strings.TrimSpace(req.Cuisine),
			"address":       strings.TrimSpace(req.Address),
			"phone":         strings.TrimSpace(req.Phone),
			"licenseNumber": license,
			"deliveryInfo": models.KitchenDeliveryInfo{
				RadiusKm:   req.RadiusKm,
				TimeWindow: strings.TrimSpace(req.TimeWindow),
			},
			"status":    newStatus,
			"updatedAt": time.Now(),
		}

		if _, err := db.Collection("kitchens").UpdateByID(ctx, kitchenID, bson.M{"$set": update}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if err := db.Collection("kitchens").FindOne(ctx, bson.M{"_id": kitchenID}).Decode(&kitchen); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondData(c, http.StatusOK, kitchen)
	}
}
