package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"propex/server/internal/api/middleware"
	"propex/server/internal/models"
	"propex/server/internal/services"
)

// RestReviewHandler handles REST requests related to reviews.
type RestReviewHandler struct {
	reviewService services.IReviewService
}

// NewRestReviewHandler creates a new RestReviewHandler.
func NewRestReviewHandler(reviewService services.IReviewService) *RestReviewHandler {
	return &RestReviewHandler{
		reviewService: reviewService,
	}
}

type createReviewRequest struct {
	ReviewedPropertyID string `json:"reviewedPropertyId" binding:"required"`
	PropertyTitle      string `json:"propertyTitle"`
	AgentName          string `json:"agentName"`
	ReviewerName       string `json:"reviewerName"`
	ReviewerImage      string `json:"reviewerImage"`
	Text               string `json:"text" binding:"required"`
}

// CreateReview handles POST /review. The reviewer email comes from the token.
func (h *RestReviewHandler) CreateReview(c *gin.Context) {
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Property ID and review text are required"})
		return
	}

	propertyID, err := primitive.ObjectIDFromHex(req.ReviewedPropertyID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID format"})
		return
	}

	review := &models.Review{
		ReviewedPropertyID: propertyID,
		PropertyTitle:      req.PropertyTitle,
		AgentName:          req.AgentName,
		ReviewerEmail:      c.GetString(middleware.ContextKeyEmail),
		ReviewerName:       req.ReviewerName,
		ReviewerImage:      req.ReviewerImage,
		Text:               req.Text,
	}

	created, err := h.reviewService.Create(c.Request.Context(), review)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"insertedId": created.ID.Hex(), "acknowledged": true})
}

// GetReviewsByProperty handles GET /reviews/:propertyId.
func (h *RestReviewHandler) GetReviewsByProperty(c *gin.Context) {
	propertyID, err := primitive.ObjectIDFromHex(c.Param("propertyId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID format"})
		return
	}

	reviews, err := h.reviewService.FindByProperty(c.Request.Context(), propertyID)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reviews"})
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// GetAllReviews handles GET /reviews. Used by the landing page for latest
// reviews.
func (h *RestReviewHandler) GetAllReviews(c *gin.Context) {
	reviews, err := h.reviewService.GetAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reviews"})
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// GetReviewsByUser handles GET /userReview/:email.
func (h *RestReviewHandler) GetReviewsByUser(c *gin.Context) {
	reviews, err := h.reviewService.FindByReviewer(c.Request.Context(), c.Param("email"))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reviews"})
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// DeleteReview handles DELETE /review/:id.
func (h *RestReviewHandler) DeleteReview(c *gin.Context) {
	reviewID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID format"})
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), reviewID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete review"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deletedCount": 1})
}
