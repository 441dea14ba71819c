package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNormalizeMenuItemDocumentLegacyFields(t *testing.T) {
	raw := bson.M{
		"_id":          primitive.NewObjectID(),
		"name":         "Poha",
		"tags":         "spicy",
		"isAvailable":  "true",
		"price":        int32(45),
		"mealCategory": "breakfast",
	}

	item, err := normalizeMenuItemDocument(raw)
	if err != nil {
		t.Fatalf("normalizeMenuItemDocument returned error: %v", err)
	}

	if len(item.Tags) != 1 || item.Tags[0] != "spicy" {
		t.Fatalf("expected string tag wrapped into a list, got %v", item.Tags)
	}
	if !item.IsAvailable {
		t.Fatal("expected string \"true\" availability to decode as true")
	}
	if item.Price != 45 {
		t.Fatalf("expected int32 price promoted to 45, got %v", item.Price)
	}
}

func TestNormalizeMenuItemDocumentDefaults(t *testing.T) {
	raw := bson.M{
		"_id":  primitive.NewObjectID(),
		"name": "Idli",
	}

	item, err := normalizeMenuItemDocument(raw)
	if err != nil {
		t.Fatalf("normalizeMenuItemDocument returned error: %v", err)
	}

	if item.IsAvailable {
		t.Fatal("expected missing availability to default to false")
	}
	if item.Price != 0 {
		t.Fatalf("expected missing price to stay zero, got %v", item.Price)
	}
}

func TestNormalizeMenuItemDocumentInt64Price(t *testing.T) {
	raw := bson.M{
		"_id":         primitive.NewObjectID(),
		"name":        "Thali",
		"isAvailable": true,
		"price":       int64(120),
	}

	item, err := normalizeMenuItemDocument(raw)
	if err != nil {
		t.Fatalf("normalizeMenuItemDocument returned error: %v", err)
	}
	if item.Price != 120 {
		t.Fatalf("expected int64 price promoted to 120, got %v", item.Price)
	}
	if !item.IsAvailable {
		t.Fatal("expected bool availability preserved")
	}
}
