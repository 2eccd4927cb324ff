package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"propex/server/internal/auth"
)

// RestAuthHandler issues access tokens.
type RestAuthHandler struct {
	jwtSecret string
	jwtTTL    time.Duration
}

// NewRestAuthHandler creates a new RestAuthHandler.
func NewRestAuthHandler(jwtSecret string, jwtTTL time.Duration) *RestAuthHandler {
	return &RestAuthHandler{
		jwtSecret: jwtSecret,
		jwtTTL:    jwtTTL,
	}
}

type issueTokenRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// IssueToken handles POST /jwt. The client sends the signed-in user's
// email and receives a bearer token for it. Identity is established by the
// upstream auth provider; this endpoint only mints the API token.
func (h *RestAuthHandler) IssueToken(c *gin.Context) {
	var req issueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email is required"})
		return
	}

	token, err := auth.GenerateJWT(req.Email, h.jwtSecret, h.jwtTTL)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
