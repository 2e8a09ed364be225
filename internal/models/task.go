package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Task is a single to-do record. Category, priority, dueDate and
// estimatedTime are free-form text: dueDate is conventionally an ISO
// YYYY-MM-DD string but nothing enforces that.
type Task struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description" json:"description"`
	Category      string             `bson:"category,omitempty" json:"category,omitempty"`
	Priority      string             `bson:"priority,omitempty" json:"priority,omitempty"`
	DueDate       string             `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	EstimatedTime string             `bson:"estimatedTime,omitempty" json:"estimatedTime,omitempty"`
	// OwnerID is set from the authenticated session, never from the client.
	OwnerID string `bson:"ownerId" json:"-"`
}

// TaskUpdate carries a partial update: only non-nil fields are written.
type TaskUpdate struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Category      *string `json:"category"`
	Priority      *string `json:"priority"`
	DueDate       *string `json:"dueDate"`
	EstimatedTime *string `json:"estimatedTime"`
}
