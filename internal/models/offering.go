package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OfferStatus is the explicit lifecycle state of an offering.
type OfferStatus string

const (
	OfferPending  OfferStatus = "pending"
	OfferAccepted OfferStatus = "accepted"
	OfferRejected OfferStatus = "rejected"
	OfferBought   OfferStatus = "bought"
)

// CanTransition reports whether moving from s to next is a legal lifecycle
// step. Bought and rejected are terminal.
func (s OfferStatus) CanTransition(next OfferStatus) bool {
	switch s {
	case OfferPending:
		return next == OfferAccepted || next == OfferRejected
	case OfferAccepted:
		return next == OfferBought
	}
	return false
}

// ErrIllegalTransition is returned when an offering is asked to move to a
// state its current state does not allow.
type ErrIllegalTransition struct {
	From OfferStatus
	To   OfferStatus
}

func (e ErrIllegalTransition) Error() string {
	return fmt.Sprintf("offering cannot move from %q to %q", e.From, e.To)
}

// Offering is a buyer's monetary offer on a property, created by consuming
// a wishlist entry.
type Offering struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	WishID        primitive.ObjectID `bson:"wish_id" json:"wishId"`
	PropertyID    primitive.ObjectID `bson:"property_id" json:"propertyId"`
	PropertyTitle string             `bson:"property_title" json:"propertyTitle"`
	PropertyImage string             `bson:"property_image,omitempty" json:"propertyImage,omitempty"`
	BuyerEmail    string             `bson:"buyer_email" json:"buyerEmail"`
	BuyerName     string             `bson:"buyer_name" json:"buyerName"`
	AgentEmail    string             `bson:"agent_email" json:"agentEmail"`
	OfferPrice    float64            `bson:"offer_price" json:"offerPrice"`
	BuyingDate    string             `bson:"buying_date,omitempty" json:"buyingDate,omitempty"`
	Status        OfferStatus        `bson:"status" json:"status"`
	TransactionID string             `bson:"transaction_id,omitempty" json:"transactionId,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}
