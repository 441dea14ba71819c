package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"tifincart/internal/models"
)

type addCartItemRequest struct {
	MenuItemID          string `json:"menuItemId" binding:"required"`
	Quantity            int    `json:"quantity" binding:"required"`
	SpecialInstructions string `json:"specialInstructions"`
}

type updateCartItemRequest struct {
	MenuItemID string `json:"menuItemId" binding:"required"`
	Quantity   *int   `json:"quantity" binding:"required"`
}

// loadOrCreateCart returns the customer's cart, creating an empty one on
// first touch. The unique customerId index turns a create race into a
// duplicate-key error, in which case the winner's cart is re-read.
func loadOrCreateCart(ctx context.Context, db *mongo.Database, customerID primitive.ObjectID) (models.Cart, error) {
	var cart models.Cart
	err := db.Collection("carts").FindOne(ctx, bson.M{"customerId": customerID}).Decode(&cart)
	if err == nil {
		return cart, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.Cart{}, err
	}

	now := time.Now()
	cart = models.Cart{
		CustomerID: customerID,
		Items:      []models.CartItem{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	res, err := db.Collection("carts").InsertOne(ctx, cart)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			err = db.Collection("carts").FindOne(ctx, bson.M{"customerId": customerID}).Decode(&cart)
			return cart, err
		}
		return models.Cart{}, err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		cart.ID = id
	}
	return cart, nil
}

// refreshCartItems re-reads the referenced menu items so the response always
// carries the current name, price and availability. Lines whose menu item
// was hard-deleted are dropped.
func refreshCartItems(ctx context.Context, db *mongo.Database, cart *models.Cart) error {
	if len(cart.Items) == 0 {
		return nil
	}

	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.MenuItemID)
	}

	cursor, err := db.Collection("menu_items").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var menuItems []models.MenuItem
	if err := cursor.All(ctx, &menuItems); err != nil {
		return err
	}

	byID := make(map[primitive.ObjectID]models.MenuItem, len(menuItems))
	for _, mi := range menuItems {
		byID[mi.ID] = mi
	}

	cart.Items = refreshCartLines(cart.Items, byID)
	return nil
}

// refreshCartLines copies live menu item data onto the cart lines and drops
// lines whose menu item is gone.
func refreshCartLines(items []models.CartItem, byID map[primitive.ObjectID]models.MenuItem) []models.CartItem {
	refreshed := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		mi, exists := byID[item.MenuItemID]
		if !exists || mi.IsDeleted {
			continue
		}
		item.Name = mi.Name
		item.Price = mi.Price
		item.MealCategory = mi.MealCategory
		item.IsAvailable = mi.IsAvailable
		refreshed = append(refreshed, item)
	}
	return refreshed
}

// saveCart recomputes totals and persists the item list.
func saveCart(ctx context.Context, db *mongo.Database, cart *models.Cart) error {
	applyCartTotals(cart)
	cart.UpdatedAt = time.Now()

	_, err := db.Collection("carts").UpdateOne(ctx, bson.M{"customerId": cart.CustomerID}, bson.M{
		"$set": bson.M{
			"items":       cart.Items,
			"subtotal":    cart.Subtotal,
			"deliveryFee": cart.DeliveryFee,
			"tax":         cart.Tax,
			"total":       cart.Total,
			"updatedAt":   cart.UpdatedAt,
		},
	})
	return err
}

func GetCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /cart"
		defer handlePanic(c, route)

		customerID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := loadOrCreateCart(ctx, db, customerID)
		if err != nil {
			log.Println("[CART] [ERROR] load cart failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if err := refreshCartItems(ctx, db, &cart); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		applyCartTotals(&cart)

		respondData(c, http.StatusOK, cart)
	}
}

func AddCartItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart"
		defer handlePanic(c, route)

		customerID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if req.Quantity <= 0 {
			respondWithError(c, http.StatusBadRequest, route, "quantity must be greater than zero")
			return
		}

		menuItemID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.MenuItemID))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid menuItemId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var menuItem models.MenuItem
		err = db.Collection("menu_items").FindOne(ctx, bson.M{
			"_id":       menuItemID,
			"isDeleted": bson.M{"$ne": true},
		}).Decode(&menuItem)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "menu item not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if !menuItem.IsAvailable {
			respondWithError(c, http.StatusNotFound, route, "menu item is not available")
			return
		}

		cart, err := loadOrCreateCart(ctx, db, customerID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		// drop stale lines first so a dead line cannot block a new kitchen
		if err := refreshCartItems(ctx, db, &cart); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		line := models.CartItem{
			MenuItemID:          menuItem.ID,
			SellerID:            menuItem.SellerID,
			KitchenID:           menuItem.KitchenID,
			Name:                menuItem.Name,
			Price:               menuItem.Price,
			Quantity:            req.Quantity,
			MealCategory:        menuItem.MealCategory,
			SpecialInstructions: strings.TrimSpace(req.SpecialInstructions),
			IsAvailable:         menuItem.IsAvailable,
		}

		items, err := mergeCartItem(cart.Items, line)
		if err != nil {
			var conflict sellerConflictError
			if errors.As(err, &conflict) {
				respondWithError(c, http.StatusConflict, route, "cart contains items from another kitchen; clear it first")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		cart.Items = items

		if err := saveCart(ctx, db, &cart); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Println("[CART] [INFO] item added:", menuItem.ID.Hex())
		respondData(c, http.StatusOK, cart)
	}
}

func UpdateCartItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /cart"
		defer handlePanic(c, route)

		customerID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req updateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if *req.Quantity < 0 {
			respondWithError(c, http.StatusBadRequest, route, "quantity must not be negative")
			return
		}

		menuItemID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.MenuItemID))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid menuItemId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := loadOrCreateCart(ctx, db, customerID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		items, err := setCartItemQuantity(cart.Items, menuItemID, *req.Quantity)
		if err != nil {
			var notFound cartItemNotFoundError
			if errors.As(err, &notFound) {
				respondWithError(c, http.StatusNotFound, route, "item not in cart")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		cart.Items = items

		if err := refreshCartItems(ctx, db, &cart); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if err := saveCart(ctx, db, &cart); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondData(c, http.StatusOK, cart)
	}
}

func RemoveCartItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart/items/:menuItemId"
		defer handlePanic(c, route)

		customerID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		menuItemID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("menuItemId")))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid menuItemId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := loadOrCreateCart(ctx, db, customerID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		cart.Items = removeCartItem(cart.Items, menuItemID)

		if err := refreshCartItems(ctx, db, &cart); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if err := saveCart(ctx, db, &cart); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondData(c, http.StatusOK, cart)
	}
}

func ClearCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart"
		defer handlePanic(c, route)

		customerID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := loadOrCreateCart(ctx, db, customerID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		cart.Items = []models.CartItem{}
		if err := saveCart(ctx, db, &cart); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondData(c, http.StatusOK, cart)
	}
}
