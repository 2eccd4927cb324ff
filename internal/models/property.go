package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VerificationStatus is the admin review state of a listing.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// SellingStatus tracks whether a listing has been sold through an offering.
type SellingStatus string

const (
	SellingAvailable SellingStatus = "available"
	SellingSold      SellingStatus = "sold"
)

// PriceRange is the agent's asking band for a property.
type PriceRange struct {
	Min float64 `bson:"min" json:"min"`
	Max float64 `bson:"max" json:"max"`
}

// Property represents a listing owned by an agent.
type Property struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Title              string             `bson:"title" json:"title"`
	Location           string             `bson:"location" json:"location"`
	Image              string             `bson:"image,omitempty" json:"image,omitempty"`
	Description        string             `bson:"description,omitempty" json:"description,omitempty"`
	AgentEmail         string             `bson:"agent_email" json:"agentEmail"`
	AgentName          string             `bson:"agent_name" json:"agentName"`
	AgentImage         string             `bson:"agent_image,omitempty" json:"agentImage,omitempty"`
	PriceRange         PriceRange         `bson:"price_range" json:"priceRange"`
	VerificationStatus VerificationStatus `bson:"verification_status" json:"verificationStatus"`
	Advertised         bool               `bson:"advertised" json:"advertised"`
	SellingStatus      SellingStatus      `bson:"selling_status" json:"sellingStatus"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updated_at"`
}
