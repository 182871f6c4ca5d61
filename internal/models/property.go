package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PropertyOwner is the owner identity projected into listing responses.
type PropertyOwner struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone string             `bson:"phone" json:"phone"`
}

// Property is a real-estate listing. It is publicly visible only when both
// IsApproved and IsActive are true. Title, Description and Location are
// text-indexed for full-text search.
type Property struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OwnerID     primitive.ObjectID `bson:"owner" json:"-"`
	Owner       *PropertyOwner     `bson:"-" json:"owner,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Type        string             `bson:"type" json:"type"`
	BHK         string             `bson:"bhk,omitempty" json:"bhk,omitempty"`
	Location    string             `bson:"location" json:"location"`
	Price       float64            `bson:"price" json:"price"`
	Status      string             `bson:"status" json:"status"`
	Images      []string           `bson:"images" json:"images"`
	IsApproved  bool               `bson:"isApproved" json:"isApproved"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	Views       int64              `bson:"views" json:"views"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
