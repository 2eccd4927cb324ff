package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentRecord is an append-only record of a completed purchase.
type PaymentRecord struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	OfferingID    primitive.ObjectID `bson:"offering_id" json:"offeringId"`
	PropertyID    primitive.ObjectID `bson:"property_id" json:"propertyId"`
	PropertyTitle string             `bson:"property_title" json:"propertyTitle"`
	BuyerEmail    string             `bson:"buyer_email" json:"buyerEmail"`
	BuyerName     string             `bson:"buyer_name" json:"buyerName"`
	AgentEmail    string             `bson:"agent_email" json:"agentEmail"`
	OfferPrice    float64            `bson:"offer_price" json:"offerPrice"`
	TransactionID string             `bson:"transaction_id" json:"transactionId"`
	PaidAt        time.Time          `bson:"paid_at" json:"paidAt"`
}
