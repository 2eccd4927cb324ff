package handlers_test

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"propex/server/internal/models"
	"propex/server/internal/payments"
	"propex/server/internal/services"
)

// --- Mocks ---

// MockUserService implements services.IUserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetAll(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserService) Create(ctx context.Context, user *models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, userID primitive.ObjectID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserService) SetRole(ctx context.Context, userID primitive.ObjectID, role models.Role) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

func (m *MockUserService) SetFraudStatus(ctx context.Context, userID primitive.ObjectID, status models.FraudStatus, agentEmail string) error {
	args := m.Called(ctx, userID, status, agentEmail)
	return args.Error(0)
}

func (m *MockUserService) FraudStatusByEmail(ctx context.Context, email string) (models.FraudStatus, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.FraudStatus), args.Error(1)
}

// MockPropertyService implements services.IPropertyService
type MockPropertyService struct {
	mock.Mock
}

func (m *MockPropertyService) Create(ctx context.Context, property *models.Property) (*models.Property, error) {
	args := m.Called(ctx, property)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) FindByID(ctx context.Context, propertyID primitive.ObjectID) (*models.Property, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) Search(ctx context.Context, titleQuery string) ([]models.Property, error) {
	args := m.Called(ctx, titleQuery)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Property), args.Error(1)
}

func (m *MockPropertyService) FindByAgent(ctx context.Context, agentEmail string) ([]models.Property, error) {
	args := m.Called(ctx, agentEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Property), args.Error(1)
}

func (m *MockPropertyService) Update(ctx context.Context, propertyID primitive.ObjectID, agentEmail string, updates map[string]interface{}) (*models.Property, error) {
	args := m.Called(ctx, propertyID, agentEmail, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) Delete(ctx context.Context, propertyID primitive.ObjectID, agentEmail string) error {
	args := m.Called(ctx, propertyID, agentEmail)
	return args.Error(0)
}

func (m *MockPropertyService) SetVerification(ctx context.Context, propertyID primitive.ObjectID, status models.VerificationStatus) error {
	args := m.Called(ctx, propertyID, status)
	return args.Error(0)
}

func (m *MockPropertyService) SetAdvertised(ctx context.Context, propertyID primitive.ObjectID, advertised bool) error {
	args := m.Called(ctx, propertyID, advertised)
	return args.Error(0)
}

func (m *MockPropertyService) SetSellingStatus(ctx context.Context, propertyID primitive.ObjectID, status models.SellingStatus) error {
	args := m.Called(ctx, propertyID, status)
	return args.Error(0)
}

func (m *MockPropertyService) AgentStatistics(ctx context.Context, agentEmail string) (*services.AgentStatistics, error) {
	args := m.Called(ctx, agentEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AgentStatistics), args.Error(1)
}

// MockReviewService implements services.IReviewService
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	args := m.Called(ctx, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) FindByProperty(ctx context.Context, propertyID primitive.ObjectID) ([]models.Review, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewService) GetAll(ctx context.Context) ([]models.Review, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewService) FindByReviewer(ctx context.Context, reviewerEmail string) ([]models.Review, error) {
	args := m.Called(ctx, reviewerEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, reviewID primitive.ObjectID) error {
	args := m.Called(ctx, reviewID)
	return args.Error(0)
}

// MockWishlistService implements services.IWishlistService
type MockWishlistService struct {
	mock.Mock
}

func (m *MockWishlistService) Create(ctx context.Context, entry *models.WishlistEntry) (*models.WishlistEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WishlistEntry), args.Error(1)
}

func (m *MockWishlistService) FindByID(ctx context.Context, wishID primitive.ObjectID) (*models.WishlistEntry, error) {
	args := m.Called(ctx, wishID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WishlistEntry), args.Error(1)
}

func (m *MockWishlistService) FindByWisher(ctx context.Context, wisherEmail string) ([]models.WishlistEntry, error) {
	args := m.Called(ctx, wisherEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WishlistEntry), args.Error(1)
}

func (m *MockWishlistService) Delete(ctx context.Context, wishID primitive.ObjectID) error {
	args := m.Called(ctx, wishID)
	return args.Error(0)
}

// MockOfferingService implements services.IOfferingService
type MockOfferingService struct {
	mock.Mock
}

func (m *MockOfferingService) CreateFromWishlist(ctx context.Context, wishID primitive.ObjectID, buyerName string, offerPrice float64, buyingDate string) (*models.Offering, error) {
	args := m.Called(ctx, wishID, buyerName, offerPrice, buyingDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offering), args.Error(1)
}

func (m *MockOfferingService) FindByID(ctx context.Context, offeringID primitive.ObjectID) (*models.Offering, error) {
	args := m.Called(ctx, offeringID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offering), args.Error(1)
}

func (m *MockOfferingService) FindByBuyer(ctx context.Context, buyerEmail string) ([]models.Offering, error) {
	args := m.Called(ctx, buyerEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Offering), args.Error(1)
}

func (m *MockOfferingService) FindByAgent(ctx context.Context, agentEmail string) ([]models.Offering, error) {
	args := m.Called(ctx, agentEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Offering), args.Error(1)
}

func (m *MockOfferingService) Accept(ctx context.Context, offeringID, propertyID primitive.ObjectID) (*models.Offering, error) {
	args := m.Called(ctx, offeringID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offering), args.Error(1)
}

func (m *MockOfferingService) Reject(ctx context.Context, offeringID primitive.ObjectID) (*models.Offering, error) {
	args := m.Called(ctx, offeringID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offering), args.Error(1)
}

func (m *MockOfferingService) CompletePayment(ctx context.Context, offeringID primitive.ObjectID, transactionID string) (*models.Offering, error) {
	args := m.Called(ctx, offeringID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offering), args.Error(1)
}

// MockPaymentService implements services.IPaymentService
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) Record(ctx context.Context, payment *models.PaymentRecord) (*models.PaymentRecord, error) {
	args := m.Called(ctx, payment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentRecord), args.Error(1)
}

func (m *MockPaymentService) FindByAgent(ctx context.Context, agentEmail string) ([]models.PaymentRecord, error) {
	args := m.Called(ctx, agentEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PaymentRecord), args.Error(1)
}

// MockPaymentGateway implements payments.IPaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreatePaymentIntent(ctx context.Context, amountMinorUnits int64) (*payments.PaymentIntent, error) {
	args := m.Called(ctx, amountMinorUnits)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.PaymentIntent), args.Error(1)
}

// MockS3Storage implements storage.IS3Storage
type MockS3Storage struct {
	mock.Mock
}

func (m *MockS3Storage) GeneratePresignedPutURL(ctx context.Context, agentEmail, filename, contentType string) (string, string, error) {
	args := m.Called(ctx, agentEmail, filename, contentType)
	return args.String(0), args.String(1), args.Error(2)
}

// MockAsynqClient implements handlers.IAsynqClient
type MockAsynqClient struct {
	mock.Mock
}

func (m *MockAsynqClient) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asynq.TaskInfo), args.Error(1)
}
