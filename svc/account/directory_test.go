package account_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/userkit/pkg/mongo"
	"github.com/dmitrymomot/userkit/pkg/rbac"
	"github.com/dmitrymomot/userkit/svc/account"
)

// Runs against a real server when MONGODB_TEST_URL is set.
func testDatabase(t *testing.T) *account.MongoDirectory {
	t.Helper()
	url := os.Getenv("MONGODB_TEST_URL")
	if url == "" {
		t.Skip("MONGODB_TEST_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, mongo.Config{
		ConnectionURL:  url,
		ConnectTimeout: 5 * time.Second,
		MaxPoolSize:    10,
		RetryAttempts:  1,
	})
	require.NoError(t, err)

	db := client.Database("userkit_test_" + bson.NewObjectID().Hex())
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	roles := account.NewMongoRoleSource(db)
	require.NoError(t, roles.EnsureDefaults(ctx))
	reg, err := rbac.NewRegistry(ctx, roles)
	require.NoError(t, err)
	assert.Equal(t, []string{"ADMIN_ROLE", "USER_ROLE"}, reg.Roles())

	dir := account.NewMongoDirectory(db)
	require.NoError(t, dir.EnsureIndexes(ctx))
	return dir
}

func TestMongoDirectory(t *testing.T) {
	dir := testDatabase(t)
	ctx := context.Background()

	acc := &account.Account{Name: "Ann", Email: "ann@example.com", PasswordHash: "h", Role: account.RoleUser, Active: true}
	require.NoError(t, dir.Save(ctx, acc))
	require.False(t, acc.ID.IsZero())

	dup := &account.Account{Name: "Ann 2", Email: "ann@example.com", Role: account.RoleUser, Active: true}
	assert.ErrorIs(t, dir.Save(ctx, dup), account.ErrEmailTaken)
	assert.True(t, dup.ID.IsZero())

	got, err := dir.FindByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, got.ID)
	assert.Equal(t, "h", got.PasswordHash)

	got, err = dir.FindByID(ctx, acc.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)

	_, err = dir.FindByID(ctx, "not-hex")
	assert.ErrorIs(t, err, account.ErrNotFound)
	_, err = dir.FindByID(ctx, bson.NewObjectID().Hex())
	assert.ErrorIs(t, err, account.ErrNotFound)

	other := &account.Account{Name: "Bob", Email: "bob@example.com", Role: account.RoleUser, Active: true}
	require.NoError(t, dir.Save(ctx, other))

	n, err := dir.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	other.Active = false
	require.NoError(t, dir.Save(ctx, other))

	n, err = dir.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	page, err := dir.FindActivePage(ctx, 0, 5)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, acc.ID, page[0].ID)

	ghost := &account.Account{ID: bson.NewObjectID(), Email: "ghost@example.com"}
	assert.ErrorIs(t, dir.Save(ctx, ghost), account.ErrNotFound)
}
