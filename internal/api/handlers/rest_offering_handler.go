package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"propex/server/internal/api/middleware"
	"propex/server/internal/models"
	"propex/server/internal/services"
	"propex/server/internal/tasks"
)

// IAsynqClient defines the interface for the Asynq client methods used by
// the handler. This allows easier mocking than using the concrete
// asynq.Client.
type IAsynqClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// RestOfferingHandler handles REST requests for the offering lifecycle,
// from wishlist conversion through payment completion.
type RestOfferingHandler struct {
	offeringService services.IOfferingService
	paymentService  services.IPaymentService
	taskClient      IAsynqClient
}

// NewRestOfferingHandler creates a new RestOfferingHandler.
func NewRestOfferingHandler(offeringService services.IOfferingService, paymentService services.IPaymentService, taskClient IAsynqClient) *RestOfferingHandler {
	return &RestOfferingHandler{
		offeringService: offeringService,
		paymentService:  paymentService,
		taskClient:      taskClient,
	}
}

// notify enqueues a notification email. Failures are logged, not surfaced:
// the state change already happened and must not be rolled back over a
// queueing error.
func (h *RestOfferingHandler) notify(ctx context.Context, to, subject, body string) {
	if h.taskClient == nil || to == "" {
		return
	}
	task, err := tasks.NewEmailDeliveryTask(to, subject, body)
	if err != nil {
		log.Printf("Failed to build notification email task for %s: %v", to, err)
		return
	}
	if _, err := h.taskClient.EnqueueContext(ctx, task); err != nil {
		log.Printf("Failed to enqueue notification email for %s: %v", to, err)
	}
}

type createOfferingRequest struct {
	WishID     string  `json:"wishId" binding:"required"`
	BuyerName  string  `json:"buyerName"`
	OfferPrice float64 `json:"offerPrice" binding:"required"`
	BuyingDate string  `json:"buyingDate"`
}

// CreateOffering handles POST /offerings. Converts a wishlist entry into a
// pending offering.
func (h *RestOfferingHandler) CreateOffering(c *gin.Context) {
	var req createOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "wishId and offerPrice are required"})
		return
	}

	wishID, err := primitive.ObjectIDFromHex(req.WishID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wishlist ID format"})
		return
	}

	offering, err := h.offeringService.CreateFromWishlist(c.Request.Context(), wishID, req.BuyerName, req.OfferPrice, req.BuyingDate)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wishlist entry not found"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create offering"})
		return
	}

	h.notify(c.Request.Context(), offering.AgentEmail,
		fmt.Sprintf("New offer on %s", offering.PropertyTitle),
		fmt.Sprintf("%s (%s) made an offer of %.2f on your listing %q.",
			offering.BuyerName, offering.BuyerEmail, offering.OfferPrice, offering.PropertyTitle))

	c.JSON(http.StatusOK, gin.H{"insertedId": offering.ID.Hex(), "acknowledged": true})
}

// GetOfferingsByBuyer handles GET /offerings/:email.
func (h *RestOfferingHandler) GetOfferingsByBuyer(c *gin.Context) {
	offerings, err := h.offeringService.FindByBuyer(c.Request.Context(), c.Param("email"))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve offerings"})
		return
	}
	c.JSON(http.StatusOK, offerings)
}

// GetOfferingsByAgent handles GET /getOfferings?agentEmail= (agent).
func (h *RestOfferingHandler) GetOfferingsByAgent(c *gin.Context) {
	agentEmail := c.Query("agentEmail")
	if agentEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "agentEmail query parameter is required"})
		return
	}

	offerings, err := h.offeringService.FindByAgent(c.Request.Context(), agentEmail)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve offerings"})
		return
	}
	c.JSON(http.StatusOK, offerings)
}

// RejectOffering handles PATCH /rejectOffering/:id (agent).
func (h *RestOfferingHandler) RejectOffering(c *gin.Context) {
	offeringID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offering ID format"})
		return
	}

	offering, err := h.offeringService.Reject(c.Request.Context(), offeringID)
	if err != nil {
		h.respondTransitionError(c, err, "Failed to reject offering")
		return
	}

	h.notify(c.Request.Context(), offering.BuyerEmail,
		fmt.Sprintf("Your offer on %s was rejected", offering.PropertyTitle),
		fmt.Sprintf("The agent rejected your offer of %.2f on %q.", offering.OfferPrice, offering.PropertyTitle))

	c.JSON(http.StatusOK, gin.H{"modifiedCount": 1})
}

type acceptOfferingRequest struct {
	ID         string `json:"id" binding:"required"`
	PropertyID string `json:"propertyId" binding:"required"`
}

// AcceptOffering handles PATCH /acceptOffering (agent). Accepting one offer
// rejects every other pending offer on the same property.
func (h *RestOfferingHandler) AcceptOffering(c *gin.Context) {
	var req acceptOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id and propertyId are required"})
		return
	}

	offeringID, err := primitive.ObjectIDFromHex(req.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offering ID format"})
		return
	}
	propertyID, err := primitive.ObjectIDFromHex(req.PropertyID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID format"})
		return
	}

	offering, err := h.offeringService.Accept(c.Request.Context(), offeringID, propertyID)
	if err != nil {
		h.respondTransitionError(c, err, "Failed to accept offering")
		return
	}

	h.notify(c.Request.Context(), offering.BuyerEmail,
		fmt.Sprintf("Your offer on %s was accepted", offering.PropertyTitle),
		fmt.Sprintf("The agent accepted your offer of %.2f on %q. You can now complete the payment.",
			offering.OfferPrice, offering.PropertyTitle))

	c.JSON(http.StatusOK, gin.H{"modifiedCount": 1})
}

// GetBuyingProperty handles GET /buyingProperty/:id. The payment page loads
// the accepted offering through this.
func (h *RestOfferingHandler) GetBuyingProperty(c *gin.Context) {
	offeringID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offering ID format"})
		return
	}

	offering, err := h.offeringService.FindByID(c.Request.Context(), offeringID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Offering not found"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve offering"})
		return
	}
	c.JSON(http.StatusOK, offering)
}

type soldPropertyRequest struct {
	OfferingID    string  `json:"offeringId" binding:"required"`
	PropertyID    string  `json:"propertyId" binding:"required"`
	PropertyTitle string  `json:"propertyTitle"`
	BuyerName     string  `json:"buyerName"`
	AgentEmail    string  `json:"agentEmail" binding:"required"`
	OfferPrice    float64 `json:"offerPrice" binding:"required"`
	TransactionID string  `json:"transactionId" binding:"required"`
}

// RecordSoldProperty handles POST /soldProperties. Appends the payment
// record after the processor confirms the charge.
func (h *RestOfferingHandler) RecordSoldProperty(c *gin.Context) {
	var req soldPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Offering, property, agent and transaction details are required"})
		return
	}

	offeringID, err := primitive.ObjectIDFromHex(req.OfferingID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offering ID format"})
		return
	}
	propertyID, err := primitive.ObjectIDFromHex(req.PropertyID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID format"})
		return
	}

	payment := &models.PaymentRecord{
		OfferingID:    offeringID,
		PropertyID:    propertyID,
		PropertyTitle: req.PropertyTitle,
		BuyerEmail:    c.GetString(middleware.ContextKeyEmail),
		BuyerName:     req.BuyerName,
		AgentEmail:    req.AgentEmail,
		OfferPrice:    req.OfferPrice,
		TransactionID: req.TransactionID,
	}

	recorded, err := h.paymentService.Record(c.Request.Context(), payment)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"insertedId": recorded.ID.Hex(), "acknowledged": true})
}

type afterPaymentRequest struct {
	ID            string `json:"id" binding:"required"`
	TransactionID string `json:"transactionId" binding:"required"`
}

// AfterPaymentStatus handles PATCH /after-payment-status. Moves the
// offering to bought with the transaction id.
func (h *RestOfferingHandler) AfterPaymentStatus(c *gin.Context) {
	var req afterPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id and transactionId are required"})
		return
	}

	offeringID, err := primitive.ObjectIDFromHex(req.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offering ID format"})
		return
	}

	offering, err := h.offeringService.CompletePayment(c.Request.Context(), offeringID, req.TransactionID)
	if err != nil {
		h.respondTransitionError(c, err, "Failed to update offering status")
		return
	}

	h.notify(c.Request.Context(), offering.AgentEmail,
		fmt.Sprintf("Payment received for %s", offering.PropertyTitle),
		fmt.Sprintf("%s completed the payment of %.2f for %q (transaction %s).",
			offering.BuyerName, offering.OfferPrice, offering.PropertyTitle, offering.TransactionID))

	c.JSON(http.StatusOK, gin.H{"modifiedCount": 1})
}

// GetSoldProperties handles GET /my-sold-properties?agentEmail= (agent).
func (h *RestOfferingHandler) GetSoldProperties(c *gin.Context) {
	agentEmail := c.Query("agentEmail")
	if agentEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "agentEmail query parameter is required"})
		return
	}

	payments, err := h.paymentService.FindByAgent(c.Request.Context(), agentEmail)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve sold properties"})
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (h *RestOfferingHandler) respondTransitionError(c *gin.Context, err error, fallback string) {
	var illegal models.ErrIllegalTransition
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		c.JSON(http.StatusNotFound, gin.H{"error": "Offering not found"})
	case errors.As(err, &illegal):
		c.JSON(http.StatusConflict, gin.H{"error": illegal.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
