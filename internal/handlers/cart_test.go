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

func TestUpdateCartItemRejectsNegativeQuantity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", primitive.NewObjectID())
		c.Set("role", models.RoleCustomer)
	})
	r.PATCH("/cart", UpdateCartItem(nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/cart",
		strings.NewReader(`{"menuItemId":"`+primitive.NewObjectID().Hex()+`","quantity":-1}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "quantity must not be negative") {
		t.Fatalf("expected negative quantity message, got %s", w.Body.String())
	}
}

func TestRefreshCartLinesDropsDeadLines(t *testing.T) {
	deadID := primitive.NewObjectID()
	liveID := primitive.NewObjectID()
	seller := primitive.NewObjectID()

	items := []models.CartItem{
		{MenuItemID: deadID, SellerID: seller, Price: 100, Quantity: 1},
		{MenuItemID: liveID, SellerID: seller, Price: 50, Quantity: 2},
	}
	byID := map[primitive.ObjectID]models.MenuItem{
		deadID: {ID: deadID, IsDeleted: true},
		liveID: {ID: liveID, Name: "Poha", Price: 55, IsAvailable: true},
	}

	refreshed := refreshCartLines(items, byID)
	if len(refreshed) != 1 {
		t.Fatalf("expected the deleted line dropped, got %d lines", len(refreshed))
	}
	if refreshed[0].MenuItemID != liveID {
		t.Fatal("expected the live line to survive")
	}
	if refreshed[0].Price != 55 || refreshed[0].Name != "Poha" {
		t.Fatalf("expected live menu data copied onto the line, got %+v", refreshed[0])
	}
}

func TestRefreshCartLinesUnblocksOtherKitchen(t *testing.T) {
	deadID := primitive.NewObjectID()
	items := []models.CartItem{{MenuItemID: deadID, SellerID: primitive.NewObjectID(), Price: 100, Quantity: 1}}

	refreshed := refreshCartLines(items, map[primitive.ObjectID]models.MenuItem{
		deadID: {ID: deadID, IsDeleted: true},
	})

	merged, err := mergeCartItem(refreshed, models.CartItem{
		MenuItemID: primitive.NewObjectID(),
		SellerID:   primitive.NewObjectID(),
		Price:      80,
		Quantity:   1,
	})
	if err != nil {
		t.Fatalf("expected add from another kitchen to succeed once the dead line is gone, got %v", err)
	}
	if len(merged) != 1 {
		t.Fatalf("expected a single line, got %d", len(merged))
	}
}
