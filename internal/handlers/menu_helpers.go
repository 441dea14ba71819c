package handlers

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"tifincart/internal/models"
)

// normalizeMenuItemDocument fixes up legacy menu item documents: tags stored
// as a single string, availability stored as a string flag, and integer
// fields that drifted between BSON number types.
func normalizeMenuItemDocument(raw bson.M) (models.MenuItem, error) {
	if tag, ok := raw["tags"].(string); ok {
		raw["tags"] = []string{tag}
	}

	if val, ok := raw["isAvailable"]; ok {
		switch typed := val.(type) {
		case string:
			raw["isAvailable"] = typed == "true"
		case bool:
			// already bool, keep as is
		default:
			raw["isAvailable"] = false
		}
	} else {
		raw["isAvailable"] = false
	}

	if val, ok := raw["price"]; ok {
		switch typed := val.(type) {
		case int32:
			raw["price"] = float64(typed)
		case int64:
			raw["price"] = float64(typed)
		case float64:
			raw["price"] = typed
		default:
			raw["price"] = 0.0
		}
	}

	data, err := bson.Marshal(raw)
	if err != nil {
		return models.MenuItem{}, err
	}

	var item models.MenuItem
	if err := bson.Unmarshal(data, &item); err != nil {
		return models.MenuItem{}, err
	}

	return item, nil
}

func decodeMenuItems(ctx context.Context, cursor *mongo.Cursor) ([]models.MenuItem, error) {
	items := make([]models.MenuItem, 0)

	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}

		item, err := normalizeMenuItemDocument(raw)
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
