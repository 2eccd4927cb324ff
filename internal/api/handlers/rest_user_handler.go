package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"propex/server/internal/models"
	"propex/server/internal/services"
)

// RestUserHandler handles REST requests related to users.
type RestUserHandler struct {
	userService services.IUserService
}

// NewRestUserHandler creates a new RestUserHandler.
func NewRestUserHandler(userService services.IUserService) *RestUserHandler {
	return &RestUserHandler{
		userService: userService,
	}
}

// GetAllUsers handles GET /users (admin).
func (h *RestUserHandler) GetAllUsers(c *gin.Context) {
	users, err := h.userService.GetAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUserByEmail handles GET /user/:email. Returns null when the email is
// unknown, which first-sign-in clients use to decide whether to register.
func (h *RestUserHandler) GetUserByEmail(c *gin.Context) {
	email := c.Param("email")

	user, err := h.userService.FindByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusOK, nil)
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required,email"`
	PhotoURL string `json:"photoURL"`
}

// CreateUser handles POST /user. Registration is idempotent by email: a
// repeat sign-in gets the "User Exist" sentinel instead of a second record.
func (h *RestUserHandler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email is required"})
		return
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		PhotoURL: req.PhotoURL,
	}

	created, err := h.userService.Create(c.Request.Context(), user)
	if err != nil {
		if errors.Is(err, services.ErrUserExists) {
			c.JSON(http.StatusOK, gin.H{"message": "User Exist", "insertedId": nil})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"insertedId": created.ID.Hex(), "acknowledged": true})
}

// DeleteUser handles DELETE /user/:id (admin).
func (h *RestUserHandler) DeleteUser(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	if err := h.userService.Delete(c.Request.Context(), userID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deletedCount": 1})
}

// MakeAdmin handles PATCH /users/admin/:id (admin).
func (h *RestUserHandler) MakeAdmin(c *gin.Context) {
	h.setRole(c, models.RoleAdmin)
}

// MakeAgent handles PATCH /users/agent/:id (admin).
func (h *RestUserHandler) MakeAgent(c *gin.Context) {
	h.setRole(c, models.RoleAgent)
}

func (h *RestUserHandler) setRole(c *gin.Context, role models.Role) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	if err := h.userService.SetRole(c.Request.Context(), userID, role); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"modifiedCount": 1})
}

type fraudStatusRequest struct {
	Status models.FraudStatus `json:"status" binding:"required"`
	Email  string             `json:"email" binding:"required,email"`
}

// SetFraudStatus handles PATCH /users/fraud/:id (admin). Marking an agent
// as fraud removes their listings and the wishlist entries pointing at them.
func (h *RestUserHandler) SetFraudStatus(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	var req fraudStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status and email are required"})
		return
	}
	if req.Status != models.FraudStatusVerified && req.Status != models.FraudStatusFraud {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be verified or fraud"})
		return
	}

	if err := h.userService.SetFraudStatus(c.Request.Context(), userID, req.Status, req.Email); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update fraud status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"modifiedCount": 1})
}

// FraudCheck handles GET /user/fraudCheck/:email. Clients call this before
// showing an agent's listings.
func (h *RestUserHandler) FraudCheck(c *gin.Context) {
	email := c.Param("email")

	status, err := h.userService.FraudStatusByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusOK, gin.H{"status": nil})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check fraud status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": status})
}
