package handlers

import (
	"context"
	"log"
	"math"
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

type submitReviewRequest struct {
	OrderID    string   `json:"orderId" binding:"required"`
	SellerID   string   `json:"sellerId" binding:"required"`
	MenuItemID string   `json:"menuItemId"`
	Type       string   `json:"type" binding:"required"`
	Rating     int      `json:"rating" binding:"required,min=1,max=5"`
	Title      string   `json:"title"`
	Comment    string   `json:"comment"`
	Tags       []string `json:"tags"`
}

func roundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}

// SubmitReview accepts a post-delivery review. The failure branches are
// deliberately distinguishable: missing order (404), seller mismatch (403),
// wrong status (400), duplicate (409).
func SubmitReview(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /customer/reviews"
		defer handlePanic(c, route)

		customerID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req submitReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		reviewType := strings.TrimSpace(req.Type)
		if reviewType != models.ReviewTypeKitchen && reviewType != models.ReviewTypeItem {
			respondWithError(c, http.StatusBadRequest, route, "type must be kitchen or item")
			return
		}

		orderID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.OrderID))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid orderId")
			return
		}
		sellerID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.SellerID))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid sellerId")
			return
		}

		var menuItemID *primitive.ObjectID
		if reviewType == models.ReviewTypeItem {
			id, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.MenuItemID))
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "menuItemId is required for item reviews")
				return
			}
			menuItemID = &id
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err = db.Collection("orders").FindOne(ctx, bson.M{
			"_id":        orderID,
			"customerId": customerID,
		}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if order.SellerID != sellerID {
			respondWithError(c, http.StatusForbidden, route, "order does not belong to this seller")
			return
		}
		if order.Status != models.OrderStatusDelivered {
			respondWithError(c, http.StatusBadRequest, route, "order is not delivered yet")
			return
		}

		if menuItemID != nil {
			found := false
			for _, item := range order.Items {
				if item.MenuItemID == *menuItemID {
					found = true
					break
				}
			}
			if !found {
				respondWithError(c, http.StatusBadRequest, route, "menu item is not part of this order")
				return
			}
		}

		// friendly pre-check; the unique index is the real guarantee
		dupFilter := bson.M{
			"customerId": customerID,
			"orderId":    orderID,
			"type":       reviewType,
		}
		if menuItemID != nil {
			dupFilter["menuItemId"] = *menuItemID
		}
		count, err := db.Collection("reviews").CountDocuments(ctx, dupFilter)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if count > 0 {
			respondWithError(c, http.StatusConflict, route, "review already submitted for this order")
			return
		}

		review := models.Review{
			CustomerID: customerID,
			OrderID:    orderID,
			SellerID:   sellerID,
			KitchenID:  order.KitchenID,
			MenuItemID: menuItemID,
			Type:       reviewType,
			Rating:     req.Rating,
			Title:      strings.TrimSpace(req.Title),
			Comment:    strings.TrimSpace(req.Comment),
			Tags:       models.StringList(req.Tags),
			CreatedAt:  time.Now(),
		}

		res, err := db.Collection("reviews").InsertOne(ctx, review)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondWithError(c, http.StatusConflict, route, "review already submitted for this order")
				return
			}
			log.Println("[REVIEW] [ERROR] insert failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			review.ID = id
		}

		// back-reference on the order
		orderUpdate := bson.M{}
		if reviewType == models.ReviewTypeKitchen {
			orderUpdate = bson.M{"$set": bson.M{"kitchenReviewId": review.ID}}
		} else {
			orderUpdate = bson.M{"$push": bson.M{"itemReviewIds": review.ID}}
		}
		if _, err := db.Collection("orders").UpdateByID(ctx, orderID, orderUpdate); err != nil {
			log.Println("[REVIEW] [ERROR] order back-reference update failed:", err)
		}

		if err := recomputeTargetRating(ctx, db, review); err != nil {
			// the review itself stands; the denormalized average heals on
			// the next recompute
			log.Println("[REVIEW] [ERROR] rating recompute failed:", err)
		}

		log.Println("[REVIEW] [INFO] review submitted:", review.ID.Hex())
		respondData(c, http.StatusCreated, review)
	}
}

// recomputeTargetRating re-reads every review for the target and stores the
// rounded mean. Full recompute on each write, not an incremental counter.
func recomputeTargetRating(ctx context.Context, db *mongo.Database, review models.Review) error {
	match := bson.M{"type": review.Type}
	if review.Type == models.ReviewTypeKitchen {
		match["kitchenId"] = review.KitchenID
	} else {
		match["menuItemId"] = review.MenuItemID
	}

	cursor, err := db.Collection("reviews").Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"average": bson.M{"$avg": "$rating"},
			"count":   bson.M{"$sum": 1},
		}}},
	})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Average float64 `bson:"average"`
		Count   int     `bson:"count"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return err
	}

	average := 0.0
	count := 0
	if len(results) > 0 {
		average = roundRating(results[0].Average)
		count = results[0].Count
	}

	if review.Type == models.ReviewTypeKitchen {
		_, err = db.Collection("kitchens").UpdateByID(ctx, review.KitchenID, bson.M{
			"$set": bson.M{"rating": models.KitchenRating{Average: average, TotalReviews: count}},
		})
		return err
	}

	_, err = db.Collection("menu_items").UpdateByID(ctx, *review.MenuItemID, bson.M{
		"$set": bson.M{"rating": models.ItemRating{Average: average, ReviewCount: count}},
	})
	return err
}

func GetKitchenReviews(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /kitchens/:id/reviews"
		defer handlePanic(c, route)

		kitchenID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid kitchen id")
			return
		}

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid pagination params")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		findOpts := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetSkip((page - 1) * limit).
			SetLimit(limit)

		cursor, err := db.Collection("reviews").Find(ctx, bson.M{
			"kitchenId": kitchenID,
			"type":      models.ReviewTypeKitchen,
		}, findOpts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		reviews := make([]models.Review, 0)
		if err := cursor.All(ctx, &reviews); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondData(c, http.StatusOK, reviews)
	}
}
