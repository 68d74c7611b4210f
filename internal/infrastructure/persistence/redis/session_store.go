package redis

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/imRyuukii/LoginPage/internal/domain/models"
	"github.com/imRyuukii/LoginPage/internal/domain/repository"
	"github.com/imRyuukii/LoginPage/pkg/constants"
	"github.com/imRyuukii/LoginPage/pkg/errors"
	"github.com/imRyuukii/LoginPage/pkg/logger"
)

// SessionStore keeps sessions as JSON values with a TTL. A per-user set
// indexes the ids so every session of a user can be revoked at once.
type SessionStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger logger.Logger
}

// NewSessionStore creates a Redis-backed session store.
func NewSessionStore(client redis.UniversalClient, ttl time.Duration, log logger.Logger) repository.SessionStore {
	if ttl <= 0 {
		ttl = constants.DefaultSessionTTL
	}
	return &SessionStore{
		client: client,
		ttl:    ttl,
		logger: log.WithComponent("session_store"),
	}
}

func sessionKey(id string) string {
	return constants.SessionKeyPrefix + id
}

func userSessionsKey(userID uint64) string {
	return constants.SessionKeyPrefix + "user:" + strconv.FormatUint(userID, 10)
}

// Create stores the session under a fresh random id.
func (s *SessionStore) Create(ctx context.Context, session *models.Session) (string, error) {
	session.ID = uuid.NewString()
	payload, err := json.Marshal(session)
	if err != nil {
		return "", errors.ErrInternal("failed to encode session").WithCause(err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(session.ID), payload, s.ttl)
	pipe.SAdd(ctx, userSessionsKey(session.UserID), session.ID)
	pipe.Expire(ctx, userSessionsKey(session.UserID), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Error(ctx, "Failed to store session", err, logger.Int64("user_id", int64(session.UserID)))
		return "", errors.ErrUnavailable("session store unavailable").WithCause(err)
	}
	return session.ID, nil
}

// Get loads a live session.
func (s *SessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	if id == "" {
		return nil, errors.ErrUnauthorized("not logged in")
	}
	payload, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return nil, errors.ErrUnauthorized("session expired or unknown")
		}
		s.logger.Error(ctx, "Failed to load session", err)
		return nil, errors.ErrUnavailable("session store unavailable").WithCause(err)
	}

	var session models.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, errors.ErrInternal("failed to decode session").WithCause(err)
	}
	return &session, nil
}

// Delete removes one session. Unknown ids are ignored.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	session, err := s.Get(ctx, id)
	if err != nil {
		if errors.IsUnauthorized(err) {
			return nil
		}
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKey(id))
	pipe.SRem(ctx, userSessionsKey(session.UserID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.ErrUnavailable("session store unavailable").WithCause(err)
	}
	return nil
}

// DeleteByUser removes every session of a user.
func (s *SessionStore) DeleteByUser(ctx context.Context, userID uint64) error {
	ids, err := s.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return errors.ErrUnavailable("session store unavailable").WithCause(err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}
	keys = append(keys, userSessionsKey(userID))
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return errors.ErrUnavailable("session store unavailable").WithCause(err)
	}

	s.logger.Info(ctx, "Revoked user sessions",
		logger.Int64("user_id", int64(userID)),
		logger.Int("sessions", len(ids)),
	)
	return nil
}
