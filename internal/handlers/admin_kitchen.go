package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"tifincart/internal/models"
	"tifincart/internal/notify"
)

type kitchenDecisionRequest struct {
	Status       string `json:"status" binding:"required"`
	AdminRemarks string `json:"adminRemarks"`
}

// kitchenStatusFlow: a pending kitchen can be approved, rejected or
// suspended; an approved kitchen can later be suspended. Rejected and
// suspended kitchens return to pending only through an owner resubmit, not
// through this workflow.
var kitchenStatusFlow = map[string][]string{
	models.KitchenStatusPending:   {models.KitchenStatusApproved, models.KitchenStatusRejected, models.KitchenStatusSuspended},
	models.KitchenStatusApproved:  {models.KitchenStatusSuspended},
	models.KitchenStatusRejected:  {},
	models.KitchenStatusSuspended: {},
}

func isKnownKitchenStatus(status string) bool {
	switch status {
	case models.KitchenStatusPending, models.KitchenStatusApproved,
		models.KitchenStatusRejected, models.KitchenStatusSuspended:
		return true
	}
	return false
}

// decisionNeedsRemarks: every decision except approval must carry an
// explanation for the owner.
func decisionNeedsRemarks(status string) bool {
	return status != models.KitchenStatusApproved
}

func canTransitionKitchen(from, to string) bool {
	for _, allowed := range kitchenStatusFlow[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// GetAdminKitchens lists kitchens for moderation, optionally by status.
func GetAdminKitchens(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/kitchens"
		defer handlePanic(c, route)

		filter := bson.M{}
		if status := strings.TrimSpace(c.Query("status")); status != "" {
			if !isKnownKitchenStatus(status) {
				respondWithError(c, http.StatusBadRequest, route, "unknown status")
				return
			}
			filter["status"] = status
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("kitchens").Find(ctx, filter)
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

// DecideKitchen applies an admin decision and notifies the owner. The email
// is fire-and-forget; a failed send never rolls the decision back.
func DecideKitchen(db *mongo.Database, mailer *notify.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/kitchens/:id"
		defer handlePanic(c, route)

		kitchenID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid kitchen id")
			return
		}

		var req kitchenDecisionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		status := strings.TrimSpace(req.Status)
		remarks := strings.TrimSpace(req.AdminRemarks)

		if !isKnownKitchenStatus(status) {
			respondWithError(c, http.StatusBadRequest, route, "unknown status")
			return
		}
		if decisionNeedsRemarks(status) && remarks == "" {
			respondWithError(c, http.StatusBadRequest, route, "adminRemarks is required for this decision")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var kitchen models.Kitchen
		if err := db.Collection("kitchens").FindOne(ctx, bson.M{"_id": kitchenID}).Decode(&kitchen); err != nil {
			respondWithError(c, http.StatusNotFound, route, "kitchen not found")
			return
		}

		if !canTransitionKitchen(kitchen.Status, status) {
			respondWithError(c, http.StatusConflict, route, "cannot move kitchen from "+kitchen.Status+" to "+status)
			return
		}

		if _, err := db.Collection("kitchens").UpdateByID(ctx, kitchenID, bson.M{
			"$set": bson.M{
				"status":       status,
				"adminRemarks": remarks,
				"updatedAt":    time.Now(),
			},
		}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		kitchen.Status = status
		kitchen.AdminRemarks = remarks

		var owner models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": kitchen.OwnerID}).Decode(&owner); err != nil {
			log.Println("[KITCHEN] [ERROR] decision notification skipped, owner lookup failed:", err)
		} else {
			mailer.SendAsync(notify.TemplateKitchenDecision, map[string]interface{}{
				"to":          owner.Email,
				"name":        owner.Name,
				"kitchenName": kitchen.Name,
				"status":      status,
				"remarks":     remarks,
			})
		}

		log.Println("[KITCHEN] [INFO] decision applied:", kitchenID.Hex(), "->", status)
		respondData(c, http.StatusOK, kitchen)
	}
}
