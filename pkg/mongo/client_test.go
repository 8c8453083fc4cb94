package mongo_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	driver "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/userkit/pkg/mongo"
)

func TestConnect_InvalidURL(t *testing.T) {
	t.Parallel()

	started := time.Now()
	client, err := mongo.Connect(context.Background(), mongo.Config{
		ConnectionURL: "not-a-mongo-url",
		RetryAttempts: 2,
		RetryInterval: 10 * time.Millisecond,
	})
	require.Error(t, err)
	assert.Nil(t, client)
	assert.ErrorIs(t, err, mongo.ErrFailedToConnectToMongo)
	assert.Less(t, time.Since(started), 5*time.Second)
}

func TestConnect_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mongo.Connect(ctx, mongo.Config{
		ConnectionURL: "not-a-mongo-url",
		RetryAttempts: 5,
		RetryInterval: time.Hour,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, mongo.ErrFailedToConnectToMongo)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsDuplicateKey(t *testing.T) {
	t.Parallel()

	dup := driver.WriteException{WriteErrors: []driver.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	assert.True(t, mongo.IsDuplicateKey(dup))
	assert.True(t, mongo.IsDuplicateKey(fmt.Errorf("save: %w", dup)))
	assert.False(t, mongo.IsDuplicateKey(errors.New("boom")))
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	assert.True(t, mongo.IsNotFound(fmt.Errorf("find: %w", driver.ErrNoDocuments)))
	assert.False(t, mongo.IsNotFound(errors.New("boom")))
}
