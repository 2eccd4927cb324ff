package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"propex/server/internal/db"
	"propex/server/internal/models"
)

// IPropertyService defines the interface for property listing operations.
type IPropertyService interface {
	Create(ctx context.Context, property *models.Property) (*models.Property, error)
	FindByID(ctx context.Context, propertyID primitive.ObjectID) (*models.Property, error)
	Search(ctx context.Context, titleQuery string) ([]models.Property, error)
	FindByAgent(ctx context.Context, agentEmail string) ([]models.Property, error)
	Update(ctx context.Context, propertyID primitive.ObjectID, agentEmail string, updates map[string]interface{}) (*models.Property, error)
	Delete(ctx context.Context, propertyID primitive.ObjectID, agentEmail string) error
	SetVerification(ctx context.Context, propertyID primitive.ObjectID, status models.VerificationStatus) error
	SetAdvertised(ctx context.Context, propertyID primitive.ObjectID, advertised bool) error
	SetSellingStatus(ctx context.Context, propertyID primitive.ObjectID, status models.SellingStatus) error
	AgentStatistics(ctx context.Context, agentEmail string) (*AgentStatistics, error)
}

const propertiesCollection = "properties"

// AgentStatistics aggregates an agent's marketplace position.
type AgentStatistics struct {
	AgentEmail      string  `json:"agentEmail"`
	TotalProperties int64   `json:"totalProperties"`
	TotalSold       int64   `json:"totalSold"`
	SoldAmount      float64 `json:"soldAmount"`
}

// propertyService implements IPropertyService.
type propertyService struct {
	db *mongo.Database
}

// NewPropertyService creates a new PropertyService.
func NewPropertyService(db *mongo.Database) IPropertyService {
	return &propertyService{db: db}
}

// Create inserts a new listing. New listings start unverified, unadvertised
// and available.
func (s *propertyService) Create(ctx context.Context, property *models.Property) (*models.Property, error) {
	collection := s.db.Collection(propertiesCollection)
	now := time.Now().UTC()

	property.VerificationStatus = models.VerificationPending
	property.Advertised = false
	property.SellingStatus = models.SellingAvailable
	property.CreatedAt = now
	property.UpdatedAt = now

	operation := func() error {
		property.ID = primitive.NewObjectID()
		_, insertErr := collection.InsertOne(ctx, property)
		return insertErr
	}

	if err := db.Try(operation); err != nil {
		return nil, fmt.Errorf("failed to insert property for agent %s: %w", property.AgentEmail, err)
	}
	return property, nil
}

// FindByID returns a single listing.
func (s *propertyService) FindByID(ctx context.Context, propertyID primitive.ObjectID) (*models.Property, error) {
	var property models.Property
	collection := s.db.Collection(propertiesCollection)

	err := collection.FindOne(ctx, bson.M{"_id": propertyID}).Decode(&property)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("error finding property %s: %w", propertyID.Hex(), err)
	}
	return &property, nil
}

// Search returns listings, optionally filtered by a case-insensitive title
// match. The query string is treated as a literal, not a user regex.
func (s *propertyService) Search(ctx context.Context, titleQuery string) ([]models.Property, error) {
	collection := s.db.Collection(propertiesCollection)

	filter := bson.M{}
	if titleQuery != "" {
		filter["title"] = bson.M{"$regex": regexp.QuoteMeta(titleQuery), "$options": "i"}
	}

	cursor, err := collection.Find(ctx, filter, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, fmt.Errorf("error searching properties: %w", err)
	}
	defer cursor.Close(ctx)

	properties := []models.Property{}
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, fmt.Errorf("error decoding properties: %w", err)
	}
	return properties, nil
}

// FindByAgent returns all listings owned by an agent email.
func (s *propertyService) FindByAgent(ctx context.Context, agentEmail string) ([]models.Property, error) {
	collection := s.db.Collection(propertiesCollection)

	cursor, err := collection.Find(ctx, bson.M{"agent_email": agentEmail})
	if err != nil {
		return nil, fmt.Errorf("error listing properties for agent %s: %w", agentEmail, err)
	}
	defer cursor.Close(ctx)

	properties := []models.Property{}
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, fmt.Errorf("error decoding properties: %w", err)
	}
	return properties, nil
}

// Update modifies the agent-editable fields of a listing the agent owns.
func (s *propertyService) Update(ctx context.Context, propertyID primitive.ObjectID, agentEmail string, updates map[string]interface{}) (*models.Property, error) {
	collection := s.db.Collection(propertiesCollection)

	allowedUpdates := bson.M{}
	for key, value := range updates {
		switch key {
		case "title", "location", "image", "description", "price_range":
			allowedUpdates[key] = value
		default:
			return nil, fmt.Errorf("field '%s' cannot be updated via Update", key)
		}
	}
	if len(allowedUpdates) == 0 {
		return nil, fmt.Errorf("no valid fields provided for update")
	}
	allowedUpdates["updated_at"] = time.Now().UTC()

	filter := bson.M{"_id": propertyID, "agent_email": agentEmail}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Property
	err := collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": allowedUpdates}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("failed to update property %s: %w", propertyID.Hex(), err)
	}
	return &updated, nil
}

// Delete removes a listing the agent owns.
func (s *propertyService) Delete(ctx context.Context, propertyID primitive.ObjectID, agentEmail string) error {
	collection := s.db.Collection(propertiesCollection)

	result, err := collection.DeleteOne(ctx, bson.M{"_id": propertyID, "agent_email": agentEmail})
	if err != nil {
		return fmt.Errorf("failed to delete property %s: %w", propertyID.Hex(), err)
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetVerification is the admin review decision for a listing.
func (s *propertyService) SetVerification(ctx context.Context, propertyID primitive.ObjectID, status models.VerificationStatus) error {
	return s.setField(ctx, propertyID, bson.M{"verification_status": status})
}

// SetAdvertised toggles the admin advertise flag.
func (s *propertyService) SetAdvertised(ctx context.Context, propertyID primitive.ObjectID, advertised bool) error {
	return s.setField(ctx, propertyID, bson.M{"advertised": advertised})
}

// SetSellingStatus marks a listing sold (or available again). Called after
// payment completes, in a request separate from the offering status update.
func (s *propertyService) SetSellingStatus(ctx context.Context, propertyID primitive.ObjectID, status models.SellingStatus) error {
	return s.setField(ctx, propertyID, bson.M{"selling_status": status})
}

func (s *propertyService) setField(ctx context.Context, propertyID primitive.ObjectID, fields bson.M) error {
	collection := s.db.Collection(propertiesCollection)

	fields["updated_at"] = time.Now().UTC()
	result, err := collection.UpdateOne(ctx, bson.M{"_id": propertyID}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update property %s: %w", propertyID.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AgentStatistics counts an agent's listings and sums their completed sales
// from the payments collection.
func (s *propertyService) AgentStatistics(ctx context.Context, agentEmail string) (*AgentStatistics, error) {
	stats := &AgentStatistics{AgentEmail: agentEmail}

	total, err := s.db.Collection(propertiesCollection).CountDocuments(ctx, bson.M{"agent_email": agentEmail})
	if err != nil {
		return nil, fmt.Errorf("error counting properties for agent %s: %w", agentEmail, err)
	}
	stats.TotalProperties = total

	cursor, err := s.db.Collection(paymentsCollection).Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"agent_email": agentEmail}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":    nil,
			"count":  bson.M{"$sum": 1},
			"amount": bson.M{"$sum": "$offer_price"},
		}}},
	})
	if err != nil {
		return nil, fmt.Errorf("error aggregating sales for agent %s: %w", agentEmail, err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Count  int64   `bson:"count"`
		Amount float64 `bson:"amount"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("error decoding sales aggregate: %w", err)
	}
	if len(rows) > 0 {
		stats.TotalSold = rows[0].Count
		stats.SoldAmount = rows[0].Amount
	}
	return stats, nil
}
