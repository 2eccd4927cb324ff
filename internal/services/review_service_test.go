package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"propex/server/internal/models"
	"propex/server/internal/utils"
)

func setupReviewServiceTest(t *testing.T) IReviewService {
	db := utils.SetupTestDB(t, "propex_test_reviews", reviewsCollection)
	return NewReviewService(db)
}

func TestReviewService_CreateAndFindByProperty(t *testing.T) {
	svc := setupReviewServiceTest(t)
	ctx := context.Background()

	propertyID := primitive.NewObjectID()
	_, err := svc.Create(ctx, &models.Review{
		ReviewedPropertyID: propertyID,
		ReviewerEmail:      "buyer@example.com",
		Text:               "Great view of the lake.",
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &models.Review{
		ReviewedPropertyID: primitive.NewObjectID(),
		ReviewerEmail:      "buyer@example.com",
		Text:               "Too noisy.",
	})
	require.NoError(t, err)

	byProperty, err := svc.FindByProperty(ctx, propertyID)
	require.NoError(t, err)
	assert.Len(t, byProperty, 1)

	byReviewer, err := svc.FindByReviewer(ctx, "buyer@example.com")
	require.NoError(t, err)
	assert.Len(t, byReviewer, 2)

	all, err := svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestReviewService_ReviewsSurviveUnknownProperty(t *testing.T) {
	svc := setupReviewServiceTest(t)
	ctx := context.Background()

	// The property reference is weak; a review for an id that no longer
	// resolves is still stored and listed.
	created, err := svc.Create(ctx, &models.Review{
		ReviewedPropertyID: primitive.NewObjectID(),
		ReviewerEmail:      "buyer@example.com",
		Text:               "Posted after the listing was withdrawn.",
	})
	require.NoError(t, err)

	byReviewer, err := svc.FindByReviewer(ctx, "buyer@example.com")
	require.NoError(t, err)
	require.Len(t, byReviewer, 1)
	assert.Equal(t, created.ID, byReviewer[0].ID)
}

func TestReviewService_Delete(t *testing.T) {
	svc := setupReviewServiceTest(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.Review{
		ReviewedPropertyID: primitive.NewObjectID(),
		ReviewerEmail:      "buyer@example.com",
		Text:               "Removing this.",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), mongo.ErrNoDocuments)
}
