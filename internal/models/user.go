package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role defines the authorization roles a user can hold.
type Role string

const (
	RoleNone  Role = ""
	RoleAdmin Role = "admin"
	RoleAgent Role = "agent"
)

// ValidRole returns true if r is a role that can be assigned via the admin API.
func ValidRole(r string) bool {
	switch Role(r) {
	case RoleAdmin, RoleAgent:
		return true
	}
	return false
}

// FraudStatus marks the outcome of an admin fraud review of an agent.
type FraudStatus string

const (
	FraudStatusUnchecked FraudStatus = ""
	FraudStatusVerified  FraudStatus = "verified"
	FraudStatusFraud     FraudStatus = "fraud"
)

// User represents a marketplace account. Accounts are created on first
// sign-in; credentials live with the external identity provider, so only
// the email claim ties a token to a record here.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	PhotoURL    string             `bson:"photo_url,omitempty" json:"photoURL,omitempty"`
	Role        Role               `bson:"role,omitempty" json:"role,omitempty"`
	FraudStatus FraudStatus        `bson:"fraud_status,omitempty" json:"fraudStatus,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
