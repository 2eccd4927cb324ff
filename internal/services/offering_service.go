package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"propex/server/internal/db"
	"propex/server/internal/models"
)

// IOfferingService defines the interface for the offering lifecycle.
type IOfferingService interface {
	CreateFromWishlist(ctx context.Context, wishID primitive.ObjectID, buyerName string, offerPrice float64, buyingDate string) (*models.Offering, error)
	FindByID(ctx context.Context, offeringID primitive.ObjectID) (*models.Offering, error)
	FindByBuyer(ctx context.Context, buyerEmail string) ([]models.Offering, error)
	FindByAgent(ctx context.Context, agentEmail string) ([]models.Offering, error)
	Accept(ctx context.Context, offeringID, propertyID primitive.ObjectID) (*models.Offering, error)
	Reject(ctx context.Context, offeringID primitive.ObjectID) (*models.Offering, error)
	CompletePayment(ctx context.Context, offeringID primitive.ObjectID, transactionID string) (*models.Offering, error)
}

const offeringsCollection = "offerings"

type offeringService struct {
	db *mongo.Database
}

// NewOfferingService creates a new OfferingService.
func NewOfferingService(database *mongo.Database) IOfferingService {
	return &offeringService{db: database}
}

// CreateFromWishlist converts a wishlist entry into a pending offering and
// consumes the entry. The insert and the wishlist delete are two separate
// writes against the store; a crash between them can leave the entry behind.
// That gap is a property of the store (no cross-collection transaction is
// taken) and callers should treat a leftover entry as re-offerable.
func (s *offeringService) CreateFromWishlist(ctx context.Context, wishID primitive.ObjectID, buyerName string, offerPrice float64, buyingDate string) (*models.Offering, error) {
	var entry models.WishlistEntry
	err := s.db.Collection(wishlistsCollection).FindOne(ctx, bson.M{"_id": wishID}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("error finding wishlist entry %s: %w", wishID.Hex(), err)
	}

	now := time.Now().UTC()
	offering := &models.Offering{
		WishID:        entry.ID,
		PropertyID:    entry.PropertyID,
		PropertyTitle: entry.PropertyTitle,
		PropertyImage: entry.PropertyImage,
		BuyerEmail:    entry.WisherEmail,
		BuyerName:     buyerName,
		AgentEmail:    entry.AgentEmail,
		OfferPrice:    offerPrice,
		BuyingDate:    buyingDate,
		Status:        models.OfferPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	operation := func() error {
		offering.ID = primitive.NewObjectID()
		_, insertErr := s.db.Collection(offeringsCollection).InsertOne(ctx, offering)
		return insertErr
	}
	if err := db.Try(operation); err != nil {
		return nil, fmt.Errorf("failed to insert offering for wish %s: %w", wishID.Hex(), err)
	}

	if _, err := s.db.Collection(wishlistsCollection).DeleteOne(ctx, bson.M{"_id": wishID}); err != nil {
		return nil, fmt.Errorf("offering %s created but wishlist entry %s not consumed: %w",
			offering.ID.Hex(), wishID.Hex(), err)
	}

	return offering, nil
}

func (s *offeringService) FindByID(ctx context.Context, offeringID primitive.ObjectID) (*models.Offering, error) {
	var offering models.Offering
	err := s.db.Collection(offeringsCollection).FindOne(ctx, bson.M{"_id": offeringID}).Decode(&offering)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("error finding offering %s: %w", offeringID.Hex(), err)
	}
	return &offering, nil
}

func (s *offeringService) FindByBuyer(ctx context.Context, buyerEmail string) ([]models.Offering, error) {
	return s.find(ctx, bson.M{"buyer_email": buyerEmail})
}

func (s *offeringService) FindByAgent(ctx context.Context, agentEmail string) ([]models.Offering, error) {
	return s.find(ctx, bson.M{"agent_email": agentEmail})
}

func (s *offeringService) find(ctx context.Context, filter bson.M) ([]models.Offering, error) {
	cursor, err := s.db.Collection(offeringsCollection).Find(ctx, filter,
		options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, fmt.Errorf("error listing offerings: %w", err)
	}
	defer cursor.Close(ctx)

	offerings := []models.Offering{}
	if err := cursor.All(ctx, &offerings); err != nil {
		return nil, fmt.Errorf("error decoding offerings: %w", err)
	}
	return offerings, nil
}

// Accept marks the target offering accepted and then mass-rejects every
// other pending offering on the same property. The two steps run in accept
// then reject order; either completes to the same final state, but the
// filtered target update runs first so a second concurrent Accept on the
// same offering fails cleanly on the status guard.
//
// Two concurrent Accepts on different offerings for one property can both
// pass the guard before either mass-reject runs, leaving two accepted
// offerings. The store offers no cheap guard against that without a
// transaction, so it is documented behavior rather than patched here.
func (s *offeringService) Accept(ctx context.Context, offeringID, propertyID primitive.ObjectID) (*models.Offering, error) {
	offering, err := s.transition(ctx, offeringID, models.OfferAccepted, bson.M{})
	if err != nil {
		return nil, err
	}

	siblingFilter := bson.M{
		"property_id": propertyID,
		"_id":         bson.M{"$ne": offeringID},
		"status":      models.OfferPending,
	}
	update := bson.M{"$set": bson.M{"status": models.OfferRejected, "updated_at": time.Now().UTC()}}
	if _, err := s.db.Collection(offeringsCollection).UpdateMany(ctx, siblingFilter, update); err != nil {
		return nil, fmt.Errorf("accepted offering %s but failed to reject siblings: %w", offeringID.Hex(), err)
	}

	return offering, nil
}

// Reject marks a single pending offering rejected.
func (s *offeringService) Reject(ctx context.Context, offeringID primitive.ObjectID) (*models.Offering, error) {
	return s.transition(ctx, offeringID, models.OfferRejected, bson.M{})
}

// CompletePayment moves an accepted offering to bought and records the
// processor's transaction id. The property selling status is updated by a
// separate request, not here.
func (s *offeringService) CompletePayment(ctx context.Context, offeringID primitive.ObjectID, transactionID string) (*models.Offering, error) {
	return s.transition(ctx, offeringID, models.OfferBought, bson.M{"transaction_id": transactionID})
}

// transition applies a validated status change plus any extra fields. The
// current status is re-checked inside the filtered update so a stale read
// cannot push an offering through an illegal step.
func (s *offeringService) transition(ctx context.Context, offeringID primitive.ObjectID, next models.OfferStatus, extra bson.M) (*models.Offering, error) {
	current, err := s.FindByID(ctx, offeringID)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransition(next) {
		return nil, models.ErrIllegalTransition{From: current.Status, To: next}
	}

	fields := bson.M{"status": next, "updated_at": time.Now().UTC()}
	for k, v := range extra {
		fields[k] = v
	}

	filter := bson.M{"_id": offeringID, "status": current.Status}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Offering
	err = s.db.Collection(offeringsCollection).FindOneAndUpdate(ctx, filter, bson.M{"$set": fields}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Status moved under us between the read and the write.
			return nil, models.ErrIllegalTransition{From: current.Status, To: next}
		}
		return nil, fmt.Errorf("failed to update offering %s: %w", offeringID.Hex(), err)
	}
	return &updated, nil
}
