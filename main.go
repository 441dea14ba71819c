package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"tifincart/internal/config"
	"tifincart/internal/database"
	"tifincart/internal/handlers"
	"tifincart/internal/middleware"
	"tifincart/internal/models"
	"tifincart/internal/notify"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("⚠️ user index warning: %v", err)
	}
	if err := database.EnsureCartIndexes(db); err != nil {
		log.Printf("⚠️ cart index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("⚠️ order index warning: %v", err)
	}
	if err := database.EnsureReviewIndexes(db); err != nil {
		log.Printf("⚠️ review index warning: %v", err)
	}
	if err := database.EnsureMenuItemIndexes(db); err != nil {
		log.Printf("⚠️ menu item index warning: %v", err)
	}

	mailer := notify.NewMailer(config.AppEnv.PostmarkToken, config.AppEnv.EmailSender)

	secret := config.AppEnv.JWTSecret
	accessTTL := config.AppEnv.AccessTokenTTL
	refreshTTL := config.AppEnv.RefreshTokenTTL

	r := gin.Default()

	r.POST("/auth/register", handlers.Register(db, mailer))
	r.POST("/auth/login", handlers.Login(db, secret, accessTTL, refreshTTL))
	r.POST("/auth/refresh", handlers.Refresh(db, secret, accessTTL, refreshTTL))
	r.POST("/auth/logout", handlers.Logout(db))
	r.GET("/auth/me", middleware.Auth(secret), handlers.GetMe(db))

	r.GET("/kitchens", handlers.GetKitchens(db))
	r.GET("/kitchens/:id", handlers.GetKitchen(db))
	r.GET("/kitchens/:id/menu", handlers.GetKitchenMenu(db))
	r.GET("/kitchens/:id/reviews", handlers.GetKitchenReviews(db))

	r.POST("/contact", handlers.CreateContactMessage(db, mailer))

	customer := r.Group("/")
	customer.Use(middleware.Auth(secret, models.RoleCustomer))
	{
		customer.GET("/cart", handlers.GetCart(db))
		customer.POST("/cart", handlers.AddCartItem(db))
		customer.PATCH("/cart", handlers.UpdateCartItem(db))
		customer.DELETE("/cart", handlers.ClearCart(db))
		customer.DELETE("/cart/items/:menuItemId", handlers.RemoveCartItem(db))

		customer.POST("/orders", handlers.CreateOrder(db, mailer))
		customer.GET("/orders", handlers.GetCustomerOrders(db))
		customer.POST("/orders/:id/cancel", handlers.CancelOrder(db, mailer))

		customer.POST("/customer/reviews", handlers.SubmitReview(db))

		customer.GET("/customer/addresses", handlers.GetUserAddresses(db))
		customer.POST("/customer/addresses", handlers.CreateUserAddress(db))
		customer.PUT("/customer/addresses/:id", handlers.UpdateUserAddress(db))
		customer.DELETE("/customer/addresses/:id", handlers.DeleteUserAddress(db))
	}

	r.GET("/orders/:id", middleware.Auth(secret), handlers.GetOrder(db))

	seller := r.Group("/seller")
	seller.Use(middleware.Auth(secret, models.RoleSeller))
	{
		seller.POST("/kitchens", handlers.CreateKitchen(db))
		seller.GET("/kitchens", handlers.GetSellerKitchens(db))
		seller.PUT("/kitchens/:id", handlers.UpdateKitchen(db))

		seller.GET("/menu-items", handlers.GetSellerMenuItems(db))
		seller.POST("/menu-items", handlers.CreateMenuItem(db))
		seller.PUT("/menu-items/:id", handlers.UpdateMenuItem(db))
		seller.DELETE("/menu-items/:id", handlers.DeleteMenuItem(db))

		seller.GET("/orders", handlers.GetSellerOrders(db))
		seller.PATCH("/orders/:id/status", handlers.UpdateOrderStatus(db, mailer, false))

		seller.GET("/analytics", handlers.GetSellerAnalytics(db))
	}

	admin := r.Group("/admin")
	admin.Use(middleware.AdminAuth(secret))
	{
		admin.GET("/kitchens", handlers.GetAdminKitchens(db))
		admin.PATCH("/kitchens/:id", handlers.DecideKitchen(db, mailer))

		admin.PATCH("/orders", handlers.UpdateOrderStatus(db, mailer, true))

		admin.GET("/contact-messages", handlers.GetContactMessages(db))
		admin.PATCH("/contact-messages/:id", handlers.UpdateContactMessage(db))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
