package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a registered account. Phone is the primary login key and unique
// across the collection; email is unique when present. The password hash is
// never serialized.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone     string             `bson:"phone" json:"phone"`
	Password  string             `bson:"password" json:"-"`
	Role      string             `bson:"role" json:"role"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	LastLogin time.Time          `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// OwnerView projects the identity fields of a user into listing responses.
func (u User) OwnerView() *PropertyOwner {
	return &PropertyOwner{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Phone: u.Phone,
	}
}
