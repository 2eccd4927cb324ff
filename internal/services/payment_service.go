package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"propex/server/internal/db"
	"propex/server/internal/models"
)

// IPaymentService records completed payments. Records are append-only;
// there is no update or delete path.
type IPaymentService interface {
	Record(ctx context.Context, payment *models.PaymentRecord) (*models.PaymentRecord, error)
	FindByAgent(ctx context.Context, agentEmail string) ([]models.PaymentRecord, error)
}

const paymentsCollection = "payments"

type paymentService struct {
	db *mongo.Database
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(database *mongo.Database) IPaymentService {
	return &paymentService{db: database}
}

func (s *paymentService) Record(ctx context.Context, payment *models.PaymentRecord) (*models.PaymentRecord, error) {
	payment.PaidAt = time.Now().UTC()

	operation := func() error {
		payment.ID = primitive.NewObjectID()
		_, err := s.db.Collection(paymentsCollection).InsertOne(ctx, payment)
		return err
	}
	if err := db.Try(operation); err != nil {
		return nil, fmt.Errorf("failed to record payment for offering %s: %w", payment.OfferingID.Hex(), err)
	}
	return payment, nil
}

func (s *paymentService) FindByAgent(ctx context.Context, agentEmail string) ([]models.PaymentRecord, error) {
	cursor, err := s.db.Collection(paymentsCollection).Find(ctx, bson.M{"agent_email": agentEmail},
		options.Find().SetSort(bson.M{"paid_at": -1}))
	if err != nil {
		return nil, fmt.Errorf("error listing payments for agent %s: %w", agentEmail, err)
	}
	defer cursor.Close(ctx)

	payments := []models.PaymentRecord{}
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("error decoding payments: %w", err)
	}
	return payments, nil
}
