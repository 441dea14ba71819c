package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("users").Indexes()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	log.Println("EnsureUserIndexes: creating email_unique index")
	_, err := indexes.CreateOne(ctx, emailIndex)
	if err != nil {
		log.Println("EnsureUserIndexes: email index error:", err)
		return err
	}
	return nil
}

// EnsureCartIndexes keeps at most one active cart per customer.
func EnsureCartIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("carts").Indexes()

	customerIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "customerId", Value: 1}},
		Options: options.Index().
			SetName("customerId_unique").
			SetUnique(true),
	}

	log.Println("EnsureCartIndexes: creating customerId_unique index")
	_, err := indexes.CreateOne(ctx, customerIndex)
	if err != nil {
		log.Println("EnsureCartIndexes: customerId index error:", err)
		return err
	}
	return nil
}

func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("orders").Indexes()

	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "customerId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("customerId_createdAt"),
		},
		{
			Keys:    bson.D{{Key: "sellerId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("sellerId_createdAt"),
		},
	}

	log.Println("EnsureOrderIndexes: creating order indexes")
	_, err := indexes.CreateMany(ctx, models)
	if err != nil {
		log.Println("EnsureOrderIndexes: order index error:", err)
		return err
	}
	return nil
}

// EnsureReviewIndexes enforces one review per (customer, order, type, menu
// item) at the storage layer. The handler pre-check alone cannot rule out
// two concurrent identical submissions; this index can.
func EnsureReviewIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("reviews").Indexes()

	dedupIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "customerId", Value: 1},
			{Key: "orderId", Value: 1},
			{Key: "type", Value: 1},
			{Key: "menuItemId", Value: 1},
		},
		Options: options.Index().
			SetName("review_dedup_unique").
			SetUnique(true),
	}

	log.Println("EnsureReviewIndexes: creating review_dedup_unique index")
	_, err := indexes.CreateOne(ctx, dedupIndex)
	if err != nil {
		log.Println("EnsureReviewIndexes: review dedup index error:", err)
		return err
	}
	return nil
}

func EnsureMenuItemIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("menu_items").Indexes()

	kitchenIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "kitchenId", Value: 1}},
		Options: options.Index().SetName("kitchenId_index"),
	}

	log.Println("EnsureMenuItemIndexes: creating kitchenId_index index")
	_, err := indexes.CreateOne(ctx, kitchenIndex)
	if err != nil {
		log.Println("EnsureMenuItemIndexes: kitchenId index error:", err)
		return err
	}
	return nil
}
