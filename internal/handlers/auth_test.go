package handlers

import (
	"errors"
	"net/http"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestRegisterInsertStatusDuplicateEmail(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}

	status, message := registerInsertStatus(dup)
	if status != http.StatusConflict {
		t.Fatalf("expected 409 for a duplicate email insert, got %d", status)
	}
	if message != "email already registered" {
		t.Fatalf("expected the same message the pre-check gives, got %q", message)
	}
}

func TestRegisterInsertStatusOtherErrors(t *testing.T) {
	status, message := registerInsertStatus(errors.New("connection reset"))
	if status != http.StatusInternalServerError {
		t.Fatalf("expected 500 for a non-duplicate failure, got %d", status)
	}
	if message != "db error" {
		t.Fatalf("expected db error message, got %q", message)
	}
}
