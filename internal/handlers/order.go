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
	"go.mongodb.org/mongo-driver/mongo/options"

	"tifincart/internal/models"
	"tifincart/internal/notify"
)

type checkoutRequest struct {
	DeliveryAddressID  string           `json:"deliveryAddressId"`
	DeliveryAddress    *checkoutAddress `json:"deliveryAddress"`
	PaymentMethod      string           `json:"paymentMethod" binding:"required"`
	DeliveryDate       string           `json:"deliveryDate"`
	DeliveryTimeWindow string           `json:"deliveryTimeWindow"`
}

type checkoutAddress struct {
	Label   string `json:"label"`
	Line1   string `json:"line1" binding:"required"`
	Line2   string `json:"line2"`
	City    string `json:"city" binding:"required"`
	Pincode string `json:"pincode" binding:"required"`
	Note    string `json:"note"`
}

type updateOrderStatusRequest struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status" binding:"required"`
	Note    string `json:"note"`
}

type emptyCartError struct{}

func (emptyCartError) Error() string { return "cart is empty" }

type unavailableItemError struct {
	Name string
}

func (e unavailableItemError) Error() string { return "item is no longer available" }

// buildOrderFromCart freezes the cart into an order document. Totals are
// derived from the same helpers the cart uses and fixed here for good; the
// order never recomputes them from its lines again.
func buildOrderFromCart(cart models.Cart, address models.OrderAddress, paymentMethod, deliveryDate, timeWindow string) (models.Order, error) {
	if len(cart.Items) == 0 {
		return models.Order{}, emptyCartError{}
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		if !line.IsAvailable {
			return models.Order{}, unavailableItemError{Name: line.Name}
		}
		items = append(items, models.OrderItem{
			MenuItemID:          line.MenuItemID,
			Name:                line.Name,
			Price:               line.Price,
			Quantity:            line.Quantity,
			SpecialInstructions: line.SpecialInstructions,
		})
	}

	subtotal := cartSubtotal(cart.Items)
	deliveryFee := deliveryFeeFor(subtotal)
	tax := taxFor(subtotal)
	now := time.Now()

	order := models.Order{
		CustomerID:    cart.CustomerID,
		SellerID:      cart.Items[0].SellerID,
		KitchenID:     cart.Items[0].KitchenID,
		Items:         items,
		Subtotal:      subtotal,
		DeliveryFee:   deliveryFee,
		Tax:           tax,
		TotalAmount:   round2(subtotal + deliveryFee + tax),
		PaymentMethod: paymentMethod,
		PaymentStatus: models.PaymentStatusPending,
		Status:        models.OrderStatusPending,
		StatusHistory: []models.StatusEntry{
			{Status: models.OrderStatusPending, Timestamp: now, Note: "order placed"},
		},
		DeliveryAddress:    address,
		DeliveryDate:       strings.TrimSpace(deliveryDate),
		DeliveryTimeWindow: strings.TrimSpace(timeWindow),
		MealCategory:       cart.Items[0].MealCategory,
		CreatedAt:          now,
	}

	return order, nil
}

func CreateOrder(db *mongo.Database, mailer *notify.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"
		defer handlePanic(c, route)

		customerID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if !isKnownPaymentMethod(req.PaymentMethod) {
			respondWithError(c, http.StatusBadRequest, route, "invalid payment method")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var customer models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": customerID}).Decode(&customer); err != nil {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		address, err := resolveDeliveryAddress(customer, req)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		cart, err := loadOrCreateCart(ctx, db, customerID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if err := refreshCartItems(ctx, db, &cart); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		order, err := buildOrderFromCart(cart, address, req.PaymentMethod, req.DeliveryDate, req.DeliveryTimeWindow)
		if err != nil {
			var unavailable unavailableItemError
			if errors.As(err, &unavailable) {
				respondWithError(c, http.StatusBadRequest, route, unavailable.Name+" is no longer available")
				return
			}
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		res, err := db.Collection("orders").InsertOne(ctx, order)
		if err != nil {
			log.Println("[ORDER] [ERROR] insert failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			order.ID = id
		}

		// cart is emptied after the order exists; a failure here leaves a
		// stale cart, not a lost order
		cart.Items = []models.CartItem{}
		if err := saveCart(ctx, db, &cart); err != nil {
			log.Println("[ORDER] [ERROR] cart clear after checkout failed:", err)
		}

		var kitchen models.Kitchen
		kitchenName := ""
		if err := db.Collection("kitchens").FindOne(ctx, bson.M{"_id": order.KitchenID}).Decode(&kitchen); err == nil {
			kitchenName = kitchen.Name
		}

		mailer.SendAsync(notify.TemplateOrderPlaced, map[string]interface{}{
			"to":            customer.Email,
			"name":          customer.Name,
			"orderId":       order.ID.Hex(),
			"kitchenName":   kitchenName,
			"total":         order.TotalAmount,
			"paymentMethod": order.PaymentMethod,
		})

		log.Println("[ORDER] [INFO] order created:", order.ID.Hex())
		respondData(c, http.StatusCreated, order)
	}
}

func resolveDeliveryAddress(customer models.User, req checkoutRequest) (models.OrderAddress, error) {
	if id := strings.TrimSpace(req.DeliveryAddressID); id != "" {
		for _, addr := range customer.Addresses {
			if addr.ID == id {
				return models.OrderAddress{
					Label:   addr.Label,
					Line1:   addr.Line1,
					Line2:   addr.Line2,
					City:    addr.City,
					Pincode: addr.Pincode,
					Note:    addr.Note,
				}, nil
			}
		}
		return models.OrderAddress{}, errors.New("delivery address not found")
	}

	if req.DeliveryAddress != nil {
		if strings.TrimSpace(req.DeliveryAddress.Line1) == "" ||
			strings.TrimSpace(req.DeliveryAddress.City) == "" ||
			strings.TrimSpace(req.DeliveryAddress.Pincode) == "" {
			return models.OrderAddress{}, errors.New("delivery address is incomplete")
		}
		return models.OrderAddress{
			Label:   strings.TrimSpace(req.DeliveryAddress.Label),
			Line1:   strings.TrimSpace(req.DeliveryAddress.Line1),
			Line2:   strings.TrimSpace(req.DeliveryAddress.Line2),
			City:    strings.TrimSpace(req.DeliveryAddress.City),
			Pincode: strings.TrimSpace(req.DeliveryAddress.Pincode),
			Note:    strings.TrimSpace(req.DeliveryAddress.Note),
		}, nil
	}

	return models.OrderAddress{}, errors.New("deliveryAddressId or deliveryAddress is required")
}

func GetCustomerOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders"
		defer handlePanic(c, route)

		customerID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
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

		cursor, err := db.Collection("orders").Find(ctx, bson.M{"customerId": customerID}, findOpts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondData(c, http.StatusOK, orders)
	}
}

func GetSellerOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /seller/orders"
		defer handlePanic(c, route)

		sellerID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		filter := bson.M{"sellerId": sellerID}
		if status := strings.TrimSpace(c.Query("status")); status != "" {
			if !isKnownOrderStatus(status) {
				respondWithError(c, http.StatusBadRequest, route, "unknown status")
				return
			}
			filter["status"] = status
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("orders").Find(ctx, filter,
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondData(c, http.StatusOK, orders)
	}
}

func GetOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/:id"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}
		role, _ := c.Get("role")

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid order id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}

		if order.CustomerID != userID && order.SellerID != userID && role != models.RoleAdmin {
			respondWithError(c, http.StatusForbidden, route, "forbidden")
			return
		}

		respondData(c, http.StatusOK, order)
	}
}

// applyOrderStatusChange validates and persists one transition, appending to
// the audit log. Shared by the seller, admin and customer-cancel paths.
func applyOrderStatusChange(ctx context.Context, db *mongo.Database, order *models.Order, newStatus, note string) (int, string) {
	if !isKnownOrderStatus(newStatus) {
		return http.StatusBadRequest, "unknown status"
	}
	if !canTransitionOrder(order.Status, newStatus) {
		return http.StatusConflict, "cannot move order from " + order.Status + " to " + newStatus
	}

	entry := models.StatusEntry{Status: newStatus, Timestamp: time.Now(), Note: strings.TrimSpace(note)}
	update := bson.M{
		"$set":  bson.M{"status": newStatus},
		"$push": bson.M{"statusHistory": entry},
	}
	if newStatus == models.OrderStatusDelivered && order.PaymentMethod == models.PaymentMethodCOD {
		update["$set"].(bson.M)["paymentStatus"] = models.PaymentStatusPaid
	}

	res, err := db.Collection("orders").UpdateOne(ctx, bson.M{"_id": order.ID, "status": order.Status}, update)
	if err != nil {
		log.Println("[ORDER] [ERROR] status update failed:", err)
		return http.StatusInternalServerError, "db error"
	}
	if res.MatchedCount == 0 {
		// someone else moved the order first
		return http.StatusConflict, "order status changed concurrently; retry"
	}

	order.Status = newStatus
	order.StatusHistory = append(order.StatusHistory, entry)
	return 0, ""
}

func notifyOrderStatus(ctx context.Context, db *mongo.Database, mailer *notify.Mailer, order models.Order, note string) {
	var customer models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": order.CustomerID}).Decode(&customer); err != nil {
		log.Println("[ORDER] [ERROR] status notification skipped, customer lookup failed:", err)
		return
	}
	mailer.SendAsync(notify.TemplateOrderStatus, map[string]interface{}{
		"to":      customer.Email,
		"name":    customer.Name,
		"orderId": order.ID.Hex(),
		"status":  order.Status,
		"note":    note,
	})
}

// UpdateOrderStatus serves both the seller route (ownership enforced) and
// the admin route (orderId taken from the body, any order).
func UpdateOrderStatus(db *mongo.Database, mailer *notify.Mailer, adminRoute bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := "PATCH /seller/orders/:id/status"
		if adminRoute {
			route = "PATCH /admin/orders"
		}
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req updateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		rawID := c.Param("id")
		if adminRoute {
			rawID = req.OrderID
		}
		orderID, err := primitive.ObjectIDFromHex(strings.TrimSpace(rawID))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid order id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}

		if !adminRoute && order.SellerID != userID {
			respondWithError(c, http.StatusForbidden, route, "forbidden")
			return
		}

		if status, message := applyOrderStatusChange(ctx, db, &order, req.Status, req.Note); status != 0 {
			respondWithError(c, status, route, message)
			return
		}

		notifyOrderStatus(ctx, db, mailer, order, req.Note)

		log.Println("[ORDER] [INFO] status updated:", order.ID.Hex(), "->", order.Status)
		respondData(c, http.StatusOK, order)
	}
}

func CancelOrder(db *mongo.Database, mailer *notify.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders/:id/cancel"
		defer handlePanic(c, route)

		customerID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid order id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}

		if order.CustomerID != customerID {
			respondWithError(c, http.StatusForbidden, route, "forbidden")
			return
		}

		if status, message := applyOrderStatusChange(ctx, db, &order, models.OrderStatusCancelled, "cancelled by customer"); status != 0 {
			respondWithError(c, status, route, message)
			return
		}

		notifyOrderStatus(ctx, db, mailer, order, "cancelled by customer")

		respondData(c, http.StatusOK, order)
	}
}
