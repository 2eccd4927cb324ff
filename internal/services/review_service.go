package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"propex/server/internal/models"
)

// IReviewService defines the interface for review operations.
type IReviewService interface {
	Create(ctx context.Context, review *models.Review) (*models.Review, error)
	FindByProperty(ctx context.Context, propertyID primitive.ObjectID) ([]models.Review, error)
	GetAll(ctx context.Context) ([]models.Review, error)
	FindByReviewer(ctx context.Context, reviewerEmail string) ([]models.Review, error)
	Delete(ctx context.Context, reviewID primitive.ObjectID) error
}

const reviewsCollection = "reviews"

type reviewService struct {
	db *mongo.Database
}

// NewReviewService creates a new ReviewService.
func NewReviewService(db *mongo.Database) IReviewService {
	return &reviewService{db: db}
}

func (s *reviewService) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	collection := s.db.Collection(reviewsCollection)

	review.ID = primitive.NewObjectID()
	review.CreatedAt = time.Now().UTC()

	if _, err := collection.InsertOne(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to insert review by %s: %w", review.ReviewerEmail, err)
	}
	return review, nil
}

func (s *reviewService) FindByProperty(ctx context.Context, propertyID primitive.ObjectID) ([]models.Review, error) {
	return s.find(ctx, bson.M{"reviewed_property_id": propertyID})
}

// GetAll returns every review, newest first.
func (s *reviewService) GetAll(ctx context.Context) ([]models.Review, error) {
	return s.find(ctx, bson.M{})
}

func (s *reviewService) FindByReviewer(ctx context.Context, reviewerEmail string) ([]models.Review, error) {
	return s.find(ctx, bson.M{"reviewer_email": reviewerEmail})
}

func (s *reviewService) find(ctx context.Context, filter bson.M) ([]models.Review, error) {
	collection := s.db.Collection(reviewsCollection)

	cursor, err := collection.Find(ctx, filter, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, fmt.Errorf("error listing reviews: %w", err)
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("error decoding reviews: %w", err)
	}
	return reviews, nil
}

func (s *reviewService) Delete(ctx context.Context, reviewID primitive.ObjectID) error {
	collection := s.db.Collection(reviewsCollection)

	result, err := collection.DeleteOne(ctx, bson.M{"_id": reviewID})
	if err != nil {
		return fmt.Errorf("failed to delete review %s: %w", reviewID.Hex(), err)
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
