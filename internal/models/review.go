package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is a user's comment on a property. The property reference is weak:
// reviews survive the property they point at.
type Review struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ReviewedPropertyID primitive.ObjectID `bson:"reviewed_property_id" json:"reviewedPropertyId"`
	PropertyTitle      string             `bson:"property_title" json:"propertyTitle"`
	AgentName          string             `bson:"agent_name" json:"agentName"`
	ReviewerEmail      string             `bson:"reviewer_email" json:"reviewerEmail"`
	ReviewerName       string             `bson:"reviewer_name" json:"reviewerName"`
	ReviewerImage      string             `bson:"reviewer_image,omitempty" json:"reviewerImage,omitempty"`
	Text               string             `bson:"text" json:"text"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
}
