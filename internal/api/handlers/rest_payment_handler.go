package handlers

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"propex/server/internal/payments"
)

// RestPaymentHandler handles payment intent creation.
type RestPaymentHandler struct {
	gateway payments.IPaymentGateway
}

// NewRestPaymentHandler creates a new RestPaymentHandler.
func NewRestPaymentHandler(gateway payments.IPaymentGateway) *RestPaymentHandler {
	return &RestPaymentHandler{
		gateway: gateway,
	}
}

type createPaymentIntentRequest struct {
	Price *float64 `json:"price" binding:"required"`
}

// CreatePaymentIntent handles POST /create-payment-intent. The price is in
// major units and converted to cents; anything below one cent is rejected
// before the processor is contacted.
func (h *RestPaymentHandler) CreatePaymentIntent(c *gin.Context) {
	var req createPaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price is required"})
		return
	}

	amountMinorUnits := int64(math.Round(*req.Price * 100))
	if amountMinorUnits < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must be at least 0.01"})
		return
	}

	intent, err := h.gateway.CreatePaymentIntent(c.Request.Context(), amountMinorUnits)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment intent"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"clientSecret": intent.ClientSecret})
}
