package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"propex/server/internal/api/handlers"
	"propex/server/internal/models"
)

func setupOfferingRouter(offeringSvc *MockOfferingService, paymentSvc *MockPaymentService, taskClient *MockAsynqClient) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewRestOfferingHandler(offeringSvc, paymentSvc, taskClient)

	r := gin.New()
	r.POST("/offerings", handler.CreateOffering)
	r.GET("/offerings/:email", handler.GetOfferingsByBuyer)
	r.GET("/getOfferings", handler.GetOfferingsByAgent)
	r.PATCH("/rejectOffering/:id", handler.RejectOffering)
	r.PATCH("/acceptOffering", handler.AcceptOffering)
	r.GET("/buyingProperty/:id", handler.GetBuyingProperty)
	r.POST("/soldProperties", handler.RecordSoldProperty)
	r.PATCH("/after-payment-status", handler.AfterPaymentStatus)
	r.GET("/my-sold-properties", handler.GetSoldProperties)
	return r
}

func TestRestOfferingHandler_CreateOffering_Success(t *testing.T) {
	offeringSvc := new(MockOfferingService)
	paymentSvc := new(MockPaymentService)
	taskClient := new(MockAsynqClient)
	r := setupOfferingRouter(offeringSvc, paymentSvc, taskClient)

	wishID := primitive.NewObjectID()
	offering := &models.Offering{
		ID:            primitive.NewObjectID(),
		WishID:        wishID,
		PropertyTitle: "Lakeside Villa",
		BuyerEmail:    "buyer@example.com",
		BuyerName:     "Buyer",
		AgentEmail:    "agent@example.com",
		OfferPrice:    250000,
		Status:        models.OfferPending,
	}
	offeringSvc.On("CreateFromWishlist", mock.Anything, wishID, "Buyer", 250000.0, "2026-09-15").Return(offering, nil)
	taskClient.On("EnqueueContext", mock.Anything, mock.Anything).Return(nil, nil)

	w := httptest.NewRecorder()
	body := `{"wishId":"` + wishID.Hex() + `","buyerName":"Buyer","offerPrice":250000,"buyingDate":"2026-09-15"}`
	req, _ := http.NewRequest("POST", "/offerings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Equal(t, offering.ID.Hex(), respBody["insertedId"])
	offeringSvc.AssertExpectations(t)
	taskClient.AssertExpectations(t)
}

func TestRestOfferingHandler_CreateOffering_WishNotFound(t *testing.T) {
	offeringSvc := new(MockOfferingService)
	r := setupOfferingRouter(offeringSvc, new(MockPaymentService), new(MockAsynqClient))

	wishID := primitive.NewObjectID()
	offeringSvc.On("CreateFromWishlist", mock.Anything, wishID, "", 100.0, "").Return(nil, mongo.ErrNoDocuments)

	w := httptest.NewRecorder()
	body := `{"wishId":"` + wishID.Hex() + `","offerPrice":100}`
	req, _ := http.NewRequest("POST", "/offerings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRestOfferingHandler_AcceptOffering_Success(t *testing.T) {
	offeringSvc := new(MockOfferingService)
	taskClient := new(MockAsynqClient)
	r := setupOfferingRouter(offeringSvc, new(MockPaymentService), taskClient)

	offeringID := primitive.NewObjectID()
	propertyID := primitive.NewObjectID()
	accepted := &models.Offering{
		ID:            offeringID,
		PropertyID:    propertyID,
		PropertyTitle: "Lakeside Villa",
		BuyerEmail:    "buyer@example.com",
		OfferPrice:    250000,
		Status:        models.OfferAccepted,
	}
	offeringSvc.On("Accept", mock.Anything, offeringID, propertyID).Return(accepted, nil)
	taskClient.On("EnqueueContext", mock.Anything, mock.Anything).Return(nil, nil)

	w := httptest.NewRecorder()
	body := `{"id":"` + offeringID.Hex() + `","propertyId":"` + propertyID.Hex() + `"}`
	req, _ := http.NewRequest("PATCH", "/acceptOffering", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	offeringSvc.AssertExpectations(t)
	taskClient.AssertExpectations(t)
}

func TestRestOfferingHandler_RejectOffering_IllegalTransition(t *testing.T) {
	offeringSvc := new(MockOfferingService)
	r := setupOfferingRouter(offeringSvc, new(MockPaymentService), new(MockAsynqClient))

	offeringID := primitive.NewObjectID()
	offeringSvc.On("Reject", mock.Anything, offeringID).
		Return(nil, models.ErrIllegalTransition{From: models.OfferBought, To: models.OfferRejected})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PATCH", "/rejectOffering/"+offeringID.Hex(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	var respBody map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Contains(t, respBody["error"], "cannot move")
}

func TestRestOfferingHandler_AfterPaymentStatus_Success(t *testing.T) {
	offeringSvc := new(MockOfferingService)
	taskClient := new(MockAsynqClient)
	r := setupOfferingRouter(offeringSvc, new(MockPaymentService), taskClient)

	offeringID := primitive.NewObjectID()
	bought := &models.Offering{
		ID:            offeringID,
		PropertyTitle: "Lakeside Villa",
		BuyerName:     "Buyer",
		AgentEmail:    "agent@example.com",
		OfferPrice:    250000,
		Status:        models.OfferBought,
		TransactionID: "txn_123",
	}
	offeringSvc.On("CompletePayment", mock.Anything, offeringID, "txn_123").Return(bought, nil)
	taskClient.On("EnqueueContext", mock.Anything, mock.Anything).Return(nil, nil)

	w := httptest.NewRecorder()
	body := `{"id":"` + offeringID.Hex() + `","transactionId":"txn_123"}`
	req, _ := http.NewRequest("PATCH", "/after-payment-status", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	offeringSvc.AssertExpectations(t)
}

func TestRestOfferingHandler_GetSoldProperties_MissingAgentEmail(t *testing.T) {
	r := setupOfferingRouter(new(MockOfferingService), new(MockPaymentService), new(MockAsynqClient))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/my-sold-properties", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRestOfferingHandler_GetOfferingsByAgent(t *testing.T) {
	offeringSvc := new(MockOfferingService)
	r := setupOfferingRouter(offeringSvc, new(MockPaymentService), new(MockAsynqClient))

	offerings := []models.Offering{
		{ID: primitive.NewObjectID(), AgentEmail: "agent@example.com", Status: models.OfferPending},
	}
	offeringSvc.On("FindByAgent", mock.Anything, "agent@example.com").Return(offerings, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/getOfferings?agentEmail=agent@example.com", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody []models.Offering
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Len(t, respBody, 1)
	offeringSvc.AssertExpectations(t)
}
