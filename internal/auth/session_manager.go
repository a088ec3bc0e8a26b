package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"carfleet/internal/model"
	"carfleet/internal/repository"
)

// CookieName is the session cookie used across the application.
const CookieName = "session_id"

// SessionManagerInterface defines session lifecycle operations.
type SessionManagerInterface interface {
	Create(ctx context.Context, userID uint) (*model.Session, error)
	// Resolve returns the unexpired session for the token, or an error that
	// callers must treat identically to "no session".
	Resolve(ctx context.Context, id string) (*model.Session, error)
	Destroy(ctx context.Context, id string) error
	// RememberReturnTo records the originally requested URL on the session so
	// a successful login can resume it.
	RememberReturnTo(ctx context.Context, session *model.Session, url string) error
	// ConsumeReturnTo returns the recorded URL and clears it.
	ConsumeReturnTo(ctx context.Context, session *model.Session) (string, error)
}

// SessionManager creates, resolves and destroys server-side sessions.
type SessionManager struct {
	sessions repository.SessionRepository
	ttl      time.Duration
}

var _ SessionManagerInterface = (*SessionManager)(nil)

// NewSessionManager creates a session manager with the given session lifetime.
func NewSessionManager(sessions repository.SessionRepository, ttl time.Duration) *SessionManager {
	return &SessionManager{sessions: sessions, ttl: ttl}
}

// TTL returns the configured session lifetime.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

func (m *SessionManager) Create(ctx context.Context, userID uint) (*model.Session, error) {
	id, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}

	session := &model.Session{
		ID:        id,
		UserID:    userID,
		ExpiresAt: time.Now().Add(m.ttl),
	}
	if err := m.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

func (m *SessionManager) Resolve(ctx context.Context, id string) (*model.Session, error) {
	return m.sessions.FindValid(ctx, id)
}

func (m *SessionManager) Destroy(ctx context.Context, id string) error {
	return m.sessions.Delete(ctx, id)
}

func (m *SessionManager) RememberReturnTo(ctx context.Context, session *model.Session, url string) error {
	session.ReturnTo = url
	return m.sessions.Update(ctx, session)
}

func (m *SessionManager) ConsumeReturnTo(ctx context.Context, session *model.Session) (string, error) {
	url := session.ReturnTo
	if url == "" {
		return "", nil
	}
	session.ReturnTo = ""
	if err := m.sessions.Update(ctx, session); err != nil {
		return "", err
	}
	return url, nil
}

// generateSessionID returns a 256-bit random token, hex encoded.
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
