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
	"propex/server/internal/storage"
)

// RestPropertyHandler handles REST requests related to property listings.
type RestPropertyHandler struct {
	propertyService services.IPropertyService
	storageService  storage.IS3Storage
}

// NewRestPropertyHandler creates a new RestPropertyHandler.
func NewRestPropertyHandler(propertyService services.IPropertyService, storageService storage.IS3Storage) *RestPropertyHandler {
	return &RestPropertyHandler{
		propertyService: propertyService,
		storageService:  storageService,
	}
}

type createPropertyRequest struct {
	Title       string            `json:"title" binding:"required"`
	Location    string            `json:"location" binding:"required"`
	Image       string            `json:"image"`
	Description string            `json:"description"`
	AgentName   string            `json:"agentName"`
	AgentImage  string            `json:"agentImage"`
	PriceRange  models.PriceRange `json:"priceRange"`
}

// CreateProperty handles POST /property (agent). The owning agent email
// comes from the token, not the body, so an agent cannot list on behalf of
// another.
func (h *RestPropertyHandler) CreateProperty(c *gin.Context) {
	var req createPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and location are required"})
		return
	}

	property := &models.Property{
		Title:       req.Title,
		Location:    req.Location,
		Image:       req.Image,
		Description: req.Description,
		AgentEmail:  c.GetString(middleware.ContextKeyEmail),
		AgentName:   req.AgentName,
		AgentImage:  req.AgentImage,
		PriceRange:  req.PriceRange,
	}

	created, err := h.propertyService.Create(c.Request.Context(), property)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create property"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"insertedId": created.ID.Hex(), "acknowledged": true})
}

// SearchProperties handles GET /properties?search=. An empty search
// returns every listing.
func (h *RestPropertyHandler) SearchProperties(c *gin.Context) {
	properties, err := h.propertyService.Search(c.Request.Context(), c.Query("search"))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve properties"})
		return
	}
	c.JSON(http.StatusOK, properties)
}

// GetPropertiesByAgent handles GET /properties/:email (agent).
func (h *RestPropertyHandler) GetPropertiesByAgent(c *gin.Context) {
	properties, err := h.propertyService.FindByAgent(c.Request.Context(), c.Param("email"))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve properties"})
		return
	}
	c.JSON(http.StatusOK, properties)
}

// GetPropertyByID handles GET /single-property/:id.
func (h *RestPropertyHandler) GetPropertyByID(c *gin.Context) {
	propertyID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID format"})
		return
	}

	property, err := h.propertyService.FindByID(c.Request.Context(), propertyID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve property"})
		return
	}
	c.JSON(http.StatusOK, property)
}

// DeleteProperty handles DELETE /properties/:id (agent). Only the owning
// agent can delete a listing.
func (h *RestPropertyHandler) DeleteProperty(c *gin.Context) {
	propertyID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID format"})
		return
	}

	agentEmail := c.GetString(middleware.ContextKeyEmail)
	if err := h.propertyService.Delete(c.Request.Context(), propertyID, agentEmail); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete property"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deletedCount": 1})
}

type updatePropertyRequest struct {
	Title       *string            `json:"title"`
	Location    *string            `json:"location"`
	Image       *string            `json:"image"`
	Description *string            `json:"description"`
	PriceRange  *models.PriceRange `json:"priceRange"`
}

// UpdateProperty handles PUT /property/update/:id (agent). Only the fields
// sent are changed; ownership and review state cannot be edited here.
func (h *RestPropertyHandler) UpdateProperty(c *gin.Context) {
	propertyID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID format"})
		return
	}

	var req updatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.PriceRange != nil {
		updates["price_range"] = *req.PriceRange
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No updatable fields provided"})
		return
	}

	agentEmail := c.GetString(middleware.ContextKeyEmail)
	updated, err := h.propertyService.Update(c.Request.Context(), propertyID, agentEmail, updates)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update property"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

type verifyPropertyRequest struct {
	Status models.VerificationStatus `json:"status" binding:"required"`
}

// VerifyProperty handles PATCH /property/verify/:id (admin).
func (h *RestPropertyHandler) VerifyProperty(c *gin.Context) {
	propertyID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID format"})
		return
	}

	var req verifyPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}
	if req.Status != models.VerificationVerified && req.Status != models.VerificationRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be verified or rejected"})
		return
	}

	if err := h.propertyService.SetVerification(c.Request.Context(), propertyID, req.Status); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update verification status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"modifiedCount": 1})
}

type advertisePropertyRequest struct {
	Advertised bool `json:"advertised"`
}

// AdvertiseProperty handles PATCH /property/advertise/:id (admin).
func (h *RestPropertyHandler) AdvertiseProperty(c *gin.Context) {
	propertyID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID format"})
		return
	}

	var req advertisePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.propertyService.SetAdvertised(c.Request.Context(), propertyID, req.Advertised); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update advertising status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"modifiedCount": 1})
}

// UpdateSellingStatus handles PATCH /update-selling-status/:propertyId.
// Called after a completed payment to mark the listing sold.
func (h *RestPropertyHandler) UpdateSellingStatus(c *gin.Context) {
	propertyID, err := primitive.ObjectIDFromHex(c.Param("propertyId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID format"})
		return
	}

	if err := h.propertyService.SetSellingStatus(c.Request.Context(), propertyID, models.SellingSold); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update selling status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"modifiedCount": 1})
}

// AgentStatistics handles GET /agent-statistics?agentEmail=.
func (h *RestPropertyHandler) AgentStatistics(c *gin.Context) {
	agentEmail := c.Query("agentEmail")
	if agentEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "agentEmail query parameter is required"})
		return
	}

	stats, err := h.propertyService.AgentStatistics(c.Request.Context(), agentEmail)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute agent statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

type imageUploadURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// ImageUploadURL handles POST /property/image-upload-url (agent). Returns
// a pre-signed S3 PUT URL so the browser uploads the listing image directly.
func (h *RestPropertyHandler) ImageUploadURL(c *gin.Context) {
	var req imageUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Filename and contentType are required"})
		return
	}

	agentEmail := c.GetString(middleware.ContextKeyEmail)
	uploadURL, objectKey, err := h.storageService.GeneratePresignedPutURL(c.Request.Context(), agentEmail, req.Filename, req.ContentType)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate upload URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"uploadUrl": uploadURL, "key": objectKey})
}
