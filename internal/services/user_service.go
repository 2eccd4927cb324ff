package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"propex/server/internal/models"
)

// ErrUserExists is returned when a sign-in upsert finds the email already registered.
var ErrUserExists = errors.New("user already exists")

// IUserService defines the interface for user-related operations.
// This allows for easier mocking in tests.
type IUserService interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	GetAll(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, userID primitive.ObjectID) error
	SetRole(ctx context.Context, userID primitive.ObjectID, role models.Role) error
	SetFraudStatus(ctx context.Context, userID primitive.ObjectID, status models.FraudStatus, agentEmail string) error
	FraudStatusByEmail(ctx context.Context, email string) (models.FraudStatus, error)
}

const (
	usersCollection     = "users"
	wishlistsCollection = "wishlists"
)

// userService implements IUserService.
type userService struct {
	db *mongo.Database
}

// NewUserService creates a new UserService.
func NewUserService(db *mongo.Database) IUserService {
	return &userService{db: db}
}

// FindByEmail finds a user by their email address.
// Returns nil and mongo.ErrNoDocuments if not found.
func (s *userService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	collection := s.db.Collection(usersCollection)

	err := collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("error finding user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetAll returns every user record. Admin-only at the API layer.
func (s *userService) GetAll(ctx context.Context) ([]models.User, error) {
	collection := s.db.Collection(usersCollection)

	cursor, err := collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("error decoding users: %w", err)
	}
	return users, nil
}

// Create stores a user on first sign-in. The upsert is idempotent by email:
// if a record with the same email exists, no write happens and ErrUserExists
// is returned so the handler can reply with the "User Exist" sentinel.
func (s *userService) Create(ctx context.Context, user *models.User) (*models.User, error) {
	collection := s.db.Collection(usersCollection)

	count, err := collection.CountDocuments(ctx, bson.M{"email": user.Email})
	if err != nil {
		return nil, fmt.Errorf("error checking email uniqueness for %s: %w", user.Email, err)
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := collection.InsertOne(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to insert user %s: %w", user.Email, err)
	}
	return user, nil
}

// Delete removes a user and, as an explicit admin action, cascades to the
// records that hang off their email: their property listings and the
// wishlist entries pointing at those listings.
func (s *userService) Delete(ctx context.Context, userID primitive.ObjectID) error {
	collection := s.db.Collection(usersCollection)

	var user models.User
	err := collection.FindOneAndDelete(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return mongo.ErrNoDocuments
		}
		return fmt.Errorf("failed to delete user %s: %w", userID.Hex(), err)
	}

	if _, err := s.db.Collection(propertiesCollection).DeleteMany(ctx, bson.M{"agent_email": user.Email}); err != nil {
		return fmt.Errorf("failed to cascade property delete for %s: %w", user.Email, err)
	}
	if _, err := s.db.Collection(wishlistsCollection).DeleteMany(ctx, bson.M{"agent_email": user.Email}); err != nil {
		return fmt.Errorf("failed to cascade wishlist delete for %s: %w", user.Email, err)
	}
	return nil
}

// SetRole updates a user's role.
func (s *userService) SetRole(ctx context.Context, userID primitive.ObjectID, role models.Role) error {
	collection := s.db.Collection(usersCollection)

	update := bson.M{"$set": bson.M{"role": role, "updated_at": time.Now().UTC()}}
	result, err := collection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return fmt.Errorf("failed to set role for user %s: %w", userID.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetFraudStatus records an admin fraud decision. Marking an agent as fraud
// cascades: every property they list is removed, along with every wishlist
// entry carrying their agent email. Offerings referencing those properties
// are left in place.
// TODO: decide what buyers should see for offerings on a removed listing.
func (s *userService) SetFraudStatus(ctx context.Context, userID primitive.ObjectID, status models.FraudStatus, agentEmail string) error {
	collection := s.db.Collection(usersCollection)

	update := bson.M{"$set": bson.M{"fraud_status": status, "updated_at": time.Now().UTC()}}
	result, err := collection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return fmt.Errorf("failed to set fraud status for user %s: %w", userID.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	if status != models.FraudStatusFraud {
		return nil
	}

	if _, err := s.db.Collection(propertiesCollection).DeleteMany(ctx, bson.M{"agent_email": agentEmail}); err != nil {
		return fmt.Errorf("failed to remove properties of fraudulent agent %s: %w", agentEmail, err)
	}
	if _, err := s.db.Collection(wishlistsCollection).DeleteMany(ctx, bson.M{"agent_email": agentEmail}); err != nil {
		return fmt.Errorf("failed to remove wishlist entries of fraudulent agent %s: %w", agentEmail, err)
	}
	return nil
}

// FraudStatusByEmail reports the fraud flag for an email.
func (s *userService) FraudStatusByEmail(ctx context.Context, email string) (models.FraudStatus, error) {
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return user.FraudStatus, nil
}
