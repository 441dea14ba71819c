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

	"tifincart/internal/models"
)

type menuItemRequest struct {
	KitchenID    string   `json:"kitchenId" binding:"required"`
	Name         string   `json:"name" binding:"required"`
	Description  string   `json:"description"`
	Price        float64  `json:"price" binding:"required,gt=0"`
	MealCategory string   `json:"mealCategory" binding:"required"`
	Tags         []string `json:"tags"`
	IsVeg        bool     `json:"isVeg"`
	IsAvailable  *bool    `json:"isAvailable"`
}

var mealCategories = map[string]bool{
	"breakfast": true,
	"lunch":     true,
	"dinner":    true,
	"snacks":    true,
}

// ownedKitchen loads the kitchen and checks the acting seller owns it.
func ownedKitchen(ctx context.Context, db *mongo.Database, kitchenID, ownerID primitive.ObjectID) (models.Kitchen, int, string) {
	var kitchen models.Kitchen
	if err := db.Collection("kitchens").FindOne(ctx, bson.M{"_id": kitchenID}).Decode(&kitchen); err != nil {
		return models.Kitchen{}, http.StatusNotFound, "kitchen not found"
	}
	if kitchen.OwnerID != ownerID {
		return models.Kitchen{}, http.StatusForbidden, "forbidden"
	}
	return kitchen, 0, ""
}

func CreateMenuItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /seller/menu-items"
		defer handlePanic(c, route)

		sellerID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req menuItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if !mealCategories[strings.ToLower(strings.TrimSpace(req.MealCategory))] {
			respondWithError(c, http.StatusBadRequest, route, "mealCategory must be breakfast, lunch, dinner or snacks")
			return
		}

		kitchenID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.KitchenID))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid kitchenId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if _, status, message := ownedKitchen(ctx, db, kitchenID, sellerID); status != 0 {
			respondWithError(c, status, route, message)
			return
		}

		available := true
		if req.IsAvailable != nil {
			available = *req.IsAvailable
		}

		now := time.Now()
		item := models.MenuItem{
			KitchenID:    kitchenID,
			SellerID:     sellerID,
			Name:         strings.TrimSpace(req.Name),
			Description:  strings.TrimSpace(req.Description),
			Price:        req.Price,
			MealCategory: strings.ToLower(strings.TrimSpace(req.MealCategory)),
			Tags:         models.StringList(req.Tags),
			IsVeg:        req.IsVeg,
			IsAvailable:  available,
			Rating:       models.ItemRating{},
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		res, err := db.Collection("menu_items").InsertOne(ctx, item)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			item.ID = id
		}

		respondData(c, http.StatusCreated, item)
	}
}

func UpdateMenuItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /seller/menu-items/:id"
		defer handlePanic(c, route)

		sellerID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		itemID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid menu item id")
			return
		}

		var req menuItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if !mealCategories[strings.ToLower(strings.TrimSpace(req.MealCategory))] {
			respondWithError(c, http.StatusBadRequest, route, "mealCategory must be breakfast, lunch, dinner or snacks")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var item models.MenuItem
		err = db.Collection("menu_items").FindOne(ctx, bson.M{
			"_id":       itemID,
			"isDeleted": bson.M{"$ne": true},
		}).Decode(&item)
		if err != nil {
			respondWithError(c, http.StatusNotFound, route, "menu item not found")
			return
		}
		if item.SellerID != sellerID {
			respondWithError(c, http.StatusForbidden, route, "forbidden")
			return
		}

		available := item.IsAvailable
		if req.IsAvailable != nil {
			available = *req.IsAvailable
		}

		update := bson.M{
			"name":         strings.TrimSpace(req.Name),
			"description":  strings.TrimSpace(req.Description),
			"price":        req.Price,
			"mealCategory": strings.ToLower(strings.TrimSpace(req.MealCategory)),
			"tags":         models.StringList(req.Tags),
			"isVeg":        req.IsVeg,
			"isAvailable":  available,
			"updatedAt":    time.Now(),
		}

		if _, err := db.Collection("menu_items").UpdateByID(ctx, itemID, bson.M{"$set": update}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if err := db.Collection("menu_items").FindOne(ctx, bson.M{"_id": itemID}).Decode(&item); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondData(c, http.StatusOK, item)
	}
}

// DeleteMenuItem soft-deletes so historical orders keep resolving the id.
func DeleteMenuItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /seller/menu-items/:id"
		defer handlePanic(c, route)

		sellerID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		itemID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid menu item id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var item models.MenuItem
		err = db.Collection("menu_items").FindOne(ctx, bson.M{
			"_id":       itemID,
			"isDeleted": bson.M{"$ne": true},
		}).Decode(&item)
		if err != nil {
			respondWithError(c, http.StatusNotFound, route, "menu item not found")
			return
		}
		if item.SellerID != sellerID {
			respondWithError(c, http.StatusForbidden, route, "forbidden")
			return
		}

		now := time.Now()
		if _, err := db.Collection("menu_items").UpdateByID(ctx, itemID, bson.M{
			"$set": bson.M{
				"isDeleted":   true,
				"deletedAt":   now,
				"isAvailable": false,
				"updatedAt":   now,
			},
		}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondData(c, http.StatusOK, gin.H{"message": "menu item deleted"})
	}
}

func GetSellerMenuItems(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /seller/menu-items"
		defer handlePanic(c, route)

		sellerID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("menu_items").Find(ctx, bson.M{
			"sellerId":  sellerID,
			"isDeleted": bson.M{"$ne": true},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		items, err := decodeMenuItems(ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondData(c, http.StatusOK, items)
	}
}
