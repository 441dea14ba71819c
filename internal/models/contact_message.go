package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ContactStatusOpen       = "open"
	ContactStatusInProgress = "in_progress"
	ContactStatusResolved   = "resolved"
	ContactStatusClosed     = "closed"
)

// ContactMessage is a standalone support ticket, not coupled to orders.
type ContactMessage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TicketRef string             `bson:"ticketRef" json:"ticketRef"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Subject   string             `bson:"subject" json:"subject"`
	Category  string             `bson:"category,omitempty" json:"category,omitempty"`
	Priority  string             `bson:"priority" json:"priority"`
	Message   string             `bson:"message" json:"message"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
