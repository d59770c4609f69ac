package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser    = "user"
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"`
	Role     string             `bson:"role" json:"role"`
	Photo    *Photo             `bson:"photo,omitempty" json:"photo,omitempty"`

	// Single-use, time-bounded reset token (sha256 digest of the value
	// mailed to the user).
	ForgotPasswordToken  string     `bson:"forgotPasswordToken,omitempty" json:"-"`
	ForgotPasswordExpiry *time.Time `bson:"forgotPasswordExpiry,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
