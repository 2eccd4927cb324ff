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

	"propex/server/internal/models"
)

// IWishlistService defines the interface for wishlist operations.
type IWishlistService interface {
	Create(ctx context.Context, entry *models.WishlistEntry) (*models.WishlistEntry, error)
	FindByID(ctx context.Context, wishID primitive.ObjectID) (*models.WishlistEntry, error)
	FindByWisher(ctx context.Context, wisherEmail string) ([]models.WishlistEntry, error)
	Delete(ctx context.Context, wishID primitive.ObjectID) error
}

type wishlistService struct {
	db *mongo.Database
}

// NewWishlistService creates a new WishlistService.
func NewWishlistService(db *mongo.Database) IWishlistService {
	return &wishlistService{db: db}
}

func (s *wishlistService) Create(ctx context.Context, entry *models.WishlistEntry) (*models.WishlistEntry, error) {
	collection := s.db.Collection(wishlistsCollection)

	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now().UTC()

	if _, err := collection.InsertOne(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to insert wishlist entry for %s: %w", entry.WisherEmail, err)
	}
	return entry, nil
}

func (s *wishlistService) FindByID(ctx context.Context, wishID primitive.ObjectID) (*models.WishlistEntry, error) {
	var entry models.WishlistEntry
	collection := s.db.Collection(wishlistsCollection)

	err := collection.FindOne(ctx, bson.M{"_id": wishID}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("error finding wishlist entry %s: %w", wishID.Hex(), err)
	}
	return &entry, nil
}

func (s *wishlistService) FindByWisher(ctx context.Context, wisherEmail string) ([]models.WishlistEntry, error) {
	collection := s.db.Collection(wishlistsCollection)

	cursor, err := collection.Find(ctx, bson.M{"wisher_email": wisherEmail},
		options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, fmt.Errorf("error listing wishlist for %s: %w", wisherEmail, err)
	}
	defer cursor.Close(ctx)

	entries := []models.WishlistEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("error decoding wishlist entries: %w", err)
	}
	return entries, nil
}

func (s *wishlistService) Delete(ctx context.Context, wishID primitive.ObjectID) error {
	collection := s.db.Collection(wishlistsCollection)

	result, err := collection.DeleteOne(ctx, bson.M{"_id": wishID})
	if err != nil {
		return fmt.Errorf("failed to delete wishlist entry %s: %w", wishID.Hex(), err)
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
