package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// RoleAdmin is the only role the API recognises; an empty role is a regular customer.
const RoleAdmin = "admin"

// User is a registered customer or administrator, keyed by email.
type User struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email string             `bson:"email" json:"email"`
	Name  string             `bson:"name,omitempty" json:"name,omitempty"`
	Photo string             `bson:"photo,omitempty" json:"photo,omitempty"`
	Role  string             `bson:"role,omitempty" json:"role,omitempty"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }
