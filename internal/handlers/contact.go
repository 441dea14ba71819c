package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tifincart/internal/models"
	"tifincart/internal/notify"
)

type contactRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Subject  string `json:"subject" binding:"required"`
	Category string `json:"category"`
	Message  string `json:"message" binding:"required"`
}

type contactStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func isKnownContactStatus(status string) bool {
	switch status {
	case models.ContactStatusOpen, models.ContactStatusInProgress,
		models.ContactStatusResolved, models.ContactStatusClosed:
		return true
	}
	return false
}

// CreateContactMessage is the public support entry point; no auth required.
func CreateContactMessage(db *mongo.Database, mailer *notify.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /contact"
		defer handlePanic(c, route)

		var req contactRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		now := time.Now()
		message := models.ContactMessage{
			TicketRef: uuid.NewString(),
			Name:      strings.TrimSpace(req.Name),
			Email:     strings.ToLower(strings.TrimSpace(req.Email)),
			Subject:   strings.TrimSpace(req.Subject),
			Category:  strings.TrimSpace(req.Category),
			Priority:  "normal",
			Message:   strings.TrimSpace(req.Message),
			Status:    models.ContactStatusOpen,
			CreatedAt: now,
			UpdatedAt: now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("contact_messages").InsertOne(ctx, message)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			message.ID = id
		}

		mailer.SendAsync(notify.TemplateContactReceived, map[string]interface{}{
			"to":        message.Email,
			"name":      message.Name,
			"ticketRef": message.TicketRef,
		})

		log.Println("[CONTACT] [INFO] ticket created:", message.TicketRef)
		respondData(c, http.StatusCreated, message)
	}
}

func GetContactMessages(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/contact-messages"
		defer handlePanic(c, route)

		filter := bson.M{}
		if status := strings.TrimSpace(c.Query("status")); status != "" {
			if !isKnownContactStatus(status) {
				respondWithError(c, http.StatusBadRequest, route, "unknown status")
				return
			}
			filter["status"] = status
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("contact_messages").Find(ctx, filter,
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		messages := make([]models.ContactMessage, 0)
		if err := cursor.All(ctx, &messages); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondData(c, http.StatusOK, messages)
	}
}

func UpdateContactMessage(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/contact-messages/:id"
		defer handlePanic(c, route)

		messageID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid message id")
			return
		}

		var req contactStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		status := strings.TrimSpace(req.Status)
		if !isKnownContactStatus(status) {
			respondWithError(c, http.StatusBadRequest, route, "unknown status")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("contact_messages").UpdateByID(ctx, messageID, bson.M{
			"$set": bson.M{
				"status":    status,
				"updatedAt": time.Now(),
			},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "message not found")
			return
		}

		respondData(c, http.StatusOK, gin.H{"message": "status updated"})
	}
}
