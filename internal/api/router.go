package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"propex/server/internal/api/handlers"
	"propex/server/internal/api/middleware"
	"propex/server/internal/config"
	"propex/server/internal/models"
	"propex/server/internal/payments"
	"propex/server/internal/services"
	"propex/server/internal/storage"
)

// SetupRouter configures and returns the main Gin engine.
func SetupRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, taskClient handlers.IAsynqClient) *gin.Engine {
	userService := services.NewUserService(db)
	propertyService := services.NewPropertyService(db)
	reviewService := services.NewReviewService(db)
	wishlistService := services.NewWishlistService(db)
	offeringService := services.NewOfferingService(db)
	paymentService := services.NewPaymentService(db)

	s3StorageService, err := storage.NewS3Storage(cfg)
	if err != nil {
		log.Fatalf("CRITICAL: Failed to initialize S3 storage for API: %v", err)
	}

	paymentGateway := payments.NewStripeGateway(cfg)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	authHandler := handlers.NewRestAuthHandler(cfg.JwtSecret, cfg.JwtTTL)
	userHandler := handlers.NewRestUserHandler(userService)
	propertyHandler := handlers.NewRestPropertyHandler(propertyService, s3StorageService)
	reviewHandler := handlers.NewRestReviewHandler(reviewService)
	wishlistHandler := handlers.NewRestWishlistHandler(wishlistService, propertyService)
	offeringHandler := handlers.NewRestOfferingHandler(offeringService, paymentService, taskClient)
	paymentHandler := handlers.NewRestPaymentHandler(paymentGateway)

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "%s is Running", cfg.AppName)
	})
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	// Public routes
	r.POST("/jwt", authHandler.IssueToken)
	r.GET("/user/:email", userHandler.GetUserByEmail)
	r.GET("/user/fraudCheck/:email", userHandler.FraudCheck)
	r.POST("/user", userHandler.CreateUser)
	r.GET("/properties", propertyHandler.SearchProperties)
	r.GET("/reviews", reviewHandler.GetAllReviews)
	r.GET("/reviews/:propertyId", reviewHandler.GetReviewsByProperty)

	// Authenticated routes
	authed := r.Group("/", middleware.AuthMiddleware(cfg.JwtSecret))
	{
		authed.GET("/single-property/:id", propertyHandler.GetPropertyByID)
		authed.GET("/userReview/:email", reviewHandler.GetReviewsByUser)
		authed.POST("/review", reviewHandler.CreateReview)
		authed.DELETE("/review/:id", reviewHandler.DeleteReview)

		authed.POST("/wishlist-property", wishlistHandler.CreateWish)
		authed.GET("/wishes", wishlistHandler.GetWishes)
		authed.GET("/wishes/:id", wishlistHandler.GetWishByID)
		authed.DELETE("/wishes/:id", wishlistHandler.DeleteWish)

		authed.POST("/offerings", offeringHandler.CreateOffering)
		authed.GET("/offerings/:email", offeringHandler.GetOfferingsByBuyer)
		authed.GET("/buyingProperty/:id", offeringHandler.GetBuyingProperty)
		authed.POST("/soldProperties", offeringHandler.RecordSoldProperty)
		authed.PATCH("/after-payment-status", offeringHandler.AfterPaymentStatus)
		authed.PATCH("/update-selling-status/:propertyId", propertyHandler.UpdateSellingStatus)

		authed.POST("/create-payment-intent", paymentHandler.CreatePaymentIntent)
	}

	// Agent routes
	agentOnly := authed.Group("/", middleware.RequireRole(userService, models.RoleAgent))
	{
		agentOnly.POST("/property", propertyHandler.CreateProperty)
		agentOnly.GET("/properties/:email", propertyHandler.GetPropertiesByAgent)
		agentOnly.DELETE("/properties/:id", propertyHandler.DeleteProperty)
		agentOnly.PUT("/property/update/:id", propertyHandler.UpdateProperty)
		agentOnly.POST("/property/image-upload-url", propertyHandler.ImageUploadURL)

		agentOnly.GET("/getOfferings", offeringHandler.GetOfferingsByAgent)
		agentOnly.PATCH("/rejectOffering/:id", offeringHandler.RejectOffering)
		agentOnly.PATCH("/acceptOffering", offeringHandler.AcceptOffering)
		agentOnly.GET("/my-sold-properties", offeringHandler.GetSoldProperties)
		agentOnly.GET("/agent-statistics", propertyHandler.AgentStatistics)
	}

	// Admin routes
	adminOnly := authed.Group("/", middleware.RequireRole(userService, models.RoleAdmin))
	{
		adminOnly.GET("/users", userHandler.GetAllUsers)
		adminOnly.DELETE("/user/:id", userHandler.DeleteUser)
		adminOnly.PATCH("/users/admin/:id", userHandler.MakeAdmin)
		adminOnly.PATCH("/users/agent/:id", userHandler.MakeAgent)
		adminOnly.PATCH("/users/fraud/:id", userHandler.SetFraudStatus)

		adminOnly.PATCH("/property/verify/:id", propertyHandler.VerifyProperty)
		adminOnly.PATCH("/property/advertise/:id", propertyHandler.AdvertiseProperty)
	}

	return r
}
