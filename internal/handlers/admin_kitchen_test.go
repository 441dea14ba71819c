package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tifincart/internal/models"
)

func TestDecisionNeedsRemarks(t *testing.T) {
	if decisionNeedsRemarks(models.KitchenStatusApproved) {
		t.Fatal("expected approval to not require remarks")
	}
	for _, status := range []string{
		models.KitchenStatusRejected, models.KitchenStatusSuspended, models.KitchenStatusPending,
	} {
		if !decisionNeedsRemarks(status) {
			t.Fatalf("expected %s to require remarks", status)
		}
	}
}

func TestDecideKitchenRejectsMissingRemarks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", primitive.NewObjectID())
		c.Set("role", models.RoleAdmin)
	})
	r.PATCH("/admin/kitchens/:id", DecideKitchen(nil, nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/admin/kitchens/"+primitive.NewObjectID().Hex(),
		strings.NewReader(`{"status":"rejected"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "adminRemarks") {
		t.Fatalf("expected adminRemarks message, got %s", w.Body.String())
	}
}
