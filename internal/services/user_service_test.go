package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"propex/server/internal/models"
	"propex/server/internal/utils"
)

func setupUserServiceTest(t *testing.T) (*mongo.Database, IUserService) {
	db := utils.SetupTestDB(t, "propex_test_users", usersCollection, propertiesCollection, wishlistsCollection)
	return db, NewUserService(db)
}

func TestUserService_Create_IdempotentByEmail(t *testing.T) {
	db, svc := setupUserServiceTest(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, &models.User{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.False(t, first.ID.IsZero())

	_, err = svc.Create(ctx, &models.User{Name: "Alice Again", Email: "alice@example.com"})
	assert.ErrorIs(t, err, ErrUserExists)

	count, err := db.Collection(usersCollection).CountDocuments(ctx, bson.M{"email": "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "repeat sign-in must not insert a second record")
}

func TestUserService_FindByEmail_NotFound(t *testing.T) {
	_, svc := setupUserServiceTest(t)

	_, err := svc.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
}

func TestUserService_SetRole(t *testing.T) {
	_, svc := setupUserServiceTest(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, &models.User{Name: "Bob", Email: "bob@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.SetRole(ctx, user.ID, models.RoleAgent))

	updated, err := svc.FindByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAgent, updated.Role)
}

// The cascade matches wishlist entries on agent_email, not wisher_email,
// so a buyer's wishes for other agents survive even though the buyer owns
// the entries.
func TestUserService_SetFraudStatus_CascadesByAgentEmail(t *testing.T) {
	db, svc := setupUserServiceTest(t)
	ctx := context.Background()

	fraudster, err := svc.Create(ctx, &models.User{Name: "Mallory", Email: "mallory@example.com", Role: models.RoleAgent})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &models.User{Name: "Honest", Email: "honest@example.com", Role: models.RoleAgent})
	require.NoError(t, err)

	properties := db.Collection(propertiesCollection)
	_, err = properties.InsertMany(ctx, []interface{}{
		bson.M{"title": "Shack A", "agent_email": "mallory@example.com"},
		bson.M{"title": "Shack B", "agent_email": "mallory@example.com"},
		bson.M{"title": "House", "agent_email": "honest@example.com"},
	})
	require.NoError(t, err)

	wishlists := db.Collection(wishlistsCollection)
	_, err = wishlists.InsertMany(ctx, []interface{}{
		bson.M{"wisher_email": "buyer@example.com", "agent_email": "mallory@example.com"},
		bson.M{"wisher_email": "buyer@example.com", "agent_email": "honest@example.com"},
	})
	require.NoError(t, err)

	require.NoError(t, svc.SetFraudStatus(ctx, fraudster.ID, models.FraudStatusFraud, "mallory@example.com"))

	flagged, err := svc.FindByEmail(ctx, "mallory@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.FraudStatusFraud, flagged.FraudStatus)

	remaining, err := properties.CountDocuments(ctx, bson.M{"agent_email": "mallory@example.com"})
	require.NoError(t, err)
	assert.Zero(t, remaining, "fraudulent agent's listings must be removed")

	others, err := properties.CountDocuments(ctx, bson.M{"agent_email": "honest@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), others, "other agents' listings must survive")

	wishes, err := wishlists.CountDocuments(ctx, bson.M{"agent_email": "mallory@example.com"})
	require.NoError(t, err)
	assert.Zero(t, wishes)

	otherWishes, err := wishlists.CountDocuments(ctx, bson.M{"agent_email": "honest@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), otherWishes, "the buyer keeps entries for other agents")
}

func TestUserService_SetFraudStatus_VerifiedDoesNotCascade(t *testing.T) {
	db, svc := setupUserServiceTest(t)
	ctx := context.Background()

	agent, err := svc.Create(ctx, &models.User{Name: "Clean", Email: "clean@example.com", Role: models.RoleAgent})
	require.NoError(t, err)

	_, err = db.Collection(propertiesCollection).InsertOne(ctx,
		bson.M{"title": "Cottage", "agent_email": "clean@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.SetFraudStatus(ctx, agent.ID, models.FraudStatusVerified, "clean@example.com"))

	count, err := db.Collection(propertiesCollection).CountDocuments(ctx, bson.M{"agent_email": "clean@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUserService_Delete_CascadesOwnedRecords(t *testing.T) {
	db, svc := setupUserServiceTest(t)
	ctx := context.Background()

	agent, err := svc.Create(ctx, &models.User{Name: "Gone", Email: "gone@example.com", Role: models.RoleAgent})
	require.NoError(t, err)

	_, err = db.Collection(propertiesCollection).InsertOne(ctx,
		bson.M{"title": "Bungalow", "agent_email": "gone@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, agent.ID))

	_, err = svc.FindByEmail(ctx, "gone@example.com")
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)

	count, err := db.Collection(propertiesCollection).CountDocuments(ctx, bson.M{"agent_email": "gone@example.com"})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUserService_FraudStatusByEmail(t *testing.T) {
	_, svc := setupUserServiceTest(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &models.User{Name: "Fresh", Email: "fresh@example.com"})
	require.NoError(t, err)

	status, err := svc.FraudStatusByEmail(ctx, "fresh@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.FraudStatusUnchecked, status)
}
