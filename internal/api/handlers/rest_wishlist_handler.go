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

// RestWishlistHandler handles REST requests related to wishlists.
type RestWishlistHandler struct {
	wishlistService services.IWishlistService
	propertyService services.IPropertyService
}

// NewRestWishlistHandler creates a new RestWishlistHandler.
func NewRestWishlistHandler(wishlistService services.IWishlistService, propertyService services.IPropertyService) *RestWishlistHandler {
	return &RestWishlistHandler{
		wishlistService: wishlistService,
		propertyService: propertyService,
	}
}

type createWishRequest struct {
	PropertyID string `json:"propertyId" binding:"required"`
}

// CreateWish handles POST /wishlist-property. The entry snapshots the
// property fields the wishlist page renders, so later listing edits don't
// rewrite saved entries.
func (h *RestWishlistHandler) CreateWish(c *gin.Context) {
	var req createWishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "propertyId is required"})
		return
	}

	propertyID, err := primitive.ObjectIDFromHex(req.PropertyID)
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

	entry := &models.WishlistEntry{
		PropertyID:         property.ID,
		WisherEmail:        c.GetString(middleware.ContextKeyEmail),
		PropertyTitle:      property.Title,
		PropertyImage:      property.Image,
		PropertyLocation:   property.Location,
		AgentEmail:         property.AgentEmail,
		AgentName:          property.AgentName,
		PriceRange:         property.PriceRange,
		VerificationStatus: property.VerificationStatus,
	}

	created, err := h.wishlistService.Create(c.Request.Context(), entry)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add property to wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"insertedId": created.ID.Hex(), "acknowledged": true})
}

// GetWishes handles GET /wishes?email=.
func (h *RestWishlistHandler) GetWishes(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter is required"})
		return
	}

	wishes, err := h.wishlistService.FindByWisher(c.Request.Context(), email)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve wishlist"})
		return
	}
	c.JSON(http.StatusOK, wishes)
}

// GetWishByID handles GET /wishes/:id. Used by the make-offer page.
func (h *RestWishlistHandler) GetWishByID(c *gin.Context) {
	wishID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wishlist ID format"})
		return
	}

	wish, err := h.wishlistService.FindByID(c.Request.Context(), wishID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wishlist entry not found"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve wishlist entry"})
		return
	}
	c.JSON(http.StatusOK, wish)
}

// DeleteWish handles DELETE /wishes/:id.
func (h *RestWishlistHandler) DeleteWish(c *gin.Context) {
	wishID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wishlist ID format"})
		return
	}

	if err := h.wishlistService.Delete(c.Request.Context(), wishID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wishlist entry not found"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove wishlist entry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deletedCount": 1})
}
