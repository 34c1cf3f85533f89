package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"dutycal/src/models"
)

const SessionCookieName = "session_id"

// Session is the server-side state tied to one browser, keyed by an
// opaque cookie. State holds the pending OAuth CSRF token between login
// and callback; Credentials and UserEmail are set once the callback
// succeeds and live only as long as the session does.
type Session struct {
	ID          string                   `json:"id"`
	State       string                   `json:"state,omitempty"`
	Credentials *models.CredentialBundle `json:"credentials,omitempty"`
	UserEmail   string                   `json:"user_email,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
	ExpiresAt   time.Time                `json:"expires_at"`
}

// Authenticated reports whether the session holds delegated credentials.
func (s *Session) Authenticated() bool {
	return s != nil && s.Credentials != nil
}

type SessionStore struct {
	client          *redis.Client
	sessionDuration time.Duration
}

func NewSessionStore(client *redis.Client, sessionDuration time.Duration) *SessionStore {
	return &SessionStore{
		client:          client,
		sessionDuration: sessionDuration,
	}
}

func (s *SessionStore) CreateSession(ctx context.Context) (*Session, error) {
	session := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(s.sessionDuration),
	}

	if err := s.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (s *SessionStore) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	key := fmt.Sprintf("session:%s", sessionID)

	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("session not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		s.DeleteSession(ctx, sessionID)
		return nil, fmt.Errorf("session expired")
	}

	return &session, nil
}

func (s *SessionStore) SaveSession(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	key := fmt.Sprintf("session:%s", session.ID)
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (s *SessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	key := fmt.Sprintf("session:%s", sessionID)
	return s.client.Del(ctx, key).Err()
}
