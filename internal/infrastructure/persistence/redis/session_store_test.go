package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imRyuukii/LoginPage/internal/domain/models"
	"github.com/imRyuukii/LoginPage/pkg/constants"
	"github.com/imRyuukii/LoginPage/pkg/errors"
	"github.com/imRyuukii/LoginPage/pkg/logger"
)

func setupStore(t *testing.T) (*miniredis.Miniredis, *SessionStore) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewSessionStore(client, time.Hour, logger.NewNoopLogger()).(*SessionStore)
	return mr, store
}

func newSession(userID uint64) *models.Session {
	return &models.Session{UserID: userID, Username: "alice", Role: constants.RoleUser, ClientIP: "10.0.0.5"}
}

func TestSessionStore_CreateGetDelete(t *testing.T) {
	_, store := setupStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, newSession(1))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	session, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), session.UserID)
	assert.Equal(t, "alice", session.Username)

	require.NoError(t, store.Delete(ctx, id))
	_, err = store.Get(ctx, id)
	assert.True(t, errors.IsUnauthorized(err))

	// deleting twice is fine
	assert.NoError(t, store.Delete(ctx, id))
}

func TestSessionStore_Expiry(t *testing.T) {
	mr, store := setupStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, newSession(1))
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)
	_, err = store.Get(ctx, id)
	assert.True(t, errors.IsUnauthorized(err))
}

func TestSessionStore_DeleteByUser(t *testing.T) {
	_, store := setupStore(t)
	ctx := context.Background()

	first, err := store.Create(ctx, newSession(7))
	require.NoError(t, err)
	second, err := store.Create(ctx, newSession(7))
	require.NoError(t, err)
	other, err := store.Create(ctx, newSession(8))
	require.NoError(t, err)

	require.NoError(t, store.DeleteByUser(ctx, 7))

	for _, id := range []string{first, second} {
		_, err := store.Get(ctx, id)
		assert.True(t, errors.IsUnauthorized(err))
	}
	_, err = store.Get(ctx, other)
	assert.NoError(t, err)
}

func TestSessionStore_Unavailable(t *testing.T) {
	mr, store := setupStore(t)
	mr.Close()

	_, err := store.Create(context.Background(), newSession(1))
	require.Error(t, err)
	assert.Equal(t, 503, errors.HTTPStatus(err))
}
