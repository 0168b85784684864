package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role constants for user authorization.
const (
	RoleAdmin  = "Admin"
	RoleMember = "Member"
)

var ValidRoles = []string{RoleAdmin, RoleMember}

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username  string             `bson:"username" json:"username"`
	Password  string             `bson:"password" json:"-"` // bcrypt hash
	Role      string             `bson:"role" json:"role"`  // Admin or Member
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
