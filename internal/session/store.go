// Package session holds the authenticated user for the portal. Sessions
// are durably persisted in Redis and referenced from the browser by a
// signed cookie, so a login survives both page reloads and portal restarts.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/reliefpc/clinic-portal/pkg/logging"
)

// Identity is the client-held record of the authenticated user: the
// username plus whatever else the login endpoint echoed back.
type Identity struct {
	Username string `json:"username"`

	// Raw is the full user object as returned by the clinic API. It is
	// what gets persisted, so server-echoed fields round-trip untouched.
	Raw json.RawMessage `json:"-"`
}

// ParseIdentity builds an Identity from a raw user payload.
func ParseIdentity(raw json.RawMessage) (*Identity, error) {
	var id Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		return nil, fmt.Errorf("session: parse identity: %w", err)
	}
	id.Raw = raw
	return &id, nil
}

// Store persists identities in Redis keyed by session id.
type Store struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

func NewStore(redisClient *redis.Client, ttl time.Duration, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{redis: redisClient, ttl: ttl, logger: logger.Component("session")}
}

func (s *Store) key(sid string) string {
	return fmt.Sprintf("session:%s", sid)
}

// Login persists an identity and returns the new session id.
func (s *Store) Login(ctx context.Context, id *Identity) (string, error) {
	sid := uuid.NewString()
	if err := s.redis.Set(ctx, s.key(sid), []byte(id.Raw), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session: persist: %w", err)
	}
	s.logger.Info("session created", "username", id.Username)
	return sid, nil
}

// Current loads the identity for a session id. A missing session returns
// (nil, nil): logged-out is a state, not an error. A corrupt persisted
// value is wiped and likewise reads as logged out; the parse failure is
// logged but never propagated.
func (s *Store) Current(ctx context.Context, sid string) (*Identity, error) {
	data, err := s.redis.Get(ctx, s.key(sid)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: load: %w", err)
	}

	id, err := ParseIdentity(data)
	if err != nil {
		s.logger.Warn("discarding corrupt session state", "error", err)
		if delErr := s.redis.Del(ctx, s.key(sid)).Err(); delErr != nil {
			s.logger.Warn("failed to delete corrupt session", "error", delErr)
		}
		return nil, nil
	}
	return id, nil
}

// Logout removes the durable session. Deleting an unknown id is a no-op.
func (s *Store) Logout(ctx context.Context, sid string) error {
	if err := s.redis.Del(ctx, s.key(sid)).Err(); err != nil {
		return fmt.Errorf("session: logout: %w", err)
	}
	return nil
}
