package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WishlistEntry is a user's saved property. It denormalizes the property
// fields the UI shows, including the owning agent's email so that the
// fraud cascade can remove entries by agent email. An entry is consumed
// (deleted) exactly once when the wisher turns it into an offering.
type WishlistEntry struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	PropertyID         primitive.ObjectID `bson:"property_id" json:"propertyId"`
	WisherEmail        string             `bson:"wisher_email" json:"wisherEmail"`
	PropertyTitle      string             `bson:"property_title" json:"propertyTitle"`
	PropertyImage      string             `bson:"property_image,omitempty" json:"propertyImage,omitempty"`
	PropertyLocation   string             `bson:"property_location,omitempty" json:"propertyLocation,omitempty"`
	AgentEmail         string             `bson:"agent_email" json:"agentEmail"`
	AgentName          string             `bson:"agent_name" json:"agentName"`
	PriceRange         PriceRange         `bson:"price_range" json:"priceRange"`
	VerificationStatus VerificationStatus `bson:"verification_status" json:"verificationStatus"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
}
