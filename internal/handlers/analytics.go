package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"tifincart/internal/models"
)

// GetSellerAnalytics reports revenue, order counts and growth for the acting
// seller. Cancelled orders are excluded from every roll-up.
func GetSellerAnalytics(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /seller/analytics"
		defer handlePanic(c, route)

		sellerID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		window, err := resolveAnalyticsRange(c.Query("range"), time.Now())
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		current, err := fetchSellerOrders(ctx, db, sellerID, window.From, time.Time{})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		revenue, orderCount, avgValue := summarizeOrders(current)

		revenueGrowth := 0.0
		orderGrowth := 0.0
		if !window.All {
			previous, err := fetchSellerOrders(ctx, db, sellerID, window.PrevFrom, window.From)
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			prevRevenue, prevCount, _ := summarizeOrders(previous)
			revenueGrowth = growthPercent(revenue, prevRevenue)
			orderGrowth = growthPercent(float64(orderCount), float64(prevCount))
		}

		respondData(c, http.StatusOK, gin.H{
			"revenue":           revenue,
			"orderCount":        orderCount,
			"averageOrderValue": avgValue,
			"revenueGrowth":     revenueGrowth,
			"orderCountGrowth":  orderGrowth,
			"ordersByHour":      bucketOrdersByHour(current),
			"revenueByCategory": revenueByMealCategory(current),
		})
	}
}

// fetchSellerOrders pulls non-cancelled orders for the seller created in
// [from, to). Zero times widen the window on that side.
func fetchSellerOrders(ctx context.Context, db *mongo.Database, sellerID primitive.ObjectID, from, to time.Time) ([]models.Order, error) {
	match := bson.M{
		"sellerId": sellerID,
		"status":   bson.M{"$ne": models.OrderStatusCancelled},
	}

	createdAt := bson.M{}
	if !from.IsZero() {
		createdAt["$gte"] = from
	}
	if !to.IsZero() {
		createdAt["$lt"] = to
	}
	if len(createdAt) > 0 {
		match["createdAt"] = createdAt
	}

	cursor, err := db.Collection("orders").Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.M{"createdAt": 1}}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := make([]models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
