package session

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/lnuais/member_service/internal/domain"
	"github.com/lnuais/member_service/internal/helper/utils"
)

const (
	// CookieName carries the opaque session token. HTTP-only; the frontend
	// never reads it.
	CookieName = "member_session"

	// DefaultTTL is the absolute session lifetime. No sliding expiry.
	DefaultTTL = 30 * 24 * time.Hour

	keyPrefix = "session:"
	tokenLen  = 32
)

// Manager issues and validates server-side sessions keyed by an opaque
// token. The record lives in the external store so logins survive process
// restarts and are shared across instances.
type Manager struct {
	store Store
	ttl   time.Duration
}

func NewManager(store Store, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{store: store, ttl: ttl}
}

func (m *Manager) TTL() time.Duration { return m.ttl }

// Establish creates a session for the account and returns the token to put
// in the cookie.
func (m *Manager) Establish(ctx context.Context, userID uint) (string, error) {
	token, err := utils.RandomToken(tokenLen)
	if err != nil {
		return "", errors.New("failed to generate session token")
	}

	val := []byte(strconv.FormatUint(uint64(userID), 10))
	if err := m.store.Set(ctx, keyPrefix+token, val, m.ttl); err != nil {
		return "", errors.New("failed to persist session")
	}
	return token, nil
}

// Validate resolves a token to the account id it was issued for. Absent or
// expired sessions come back as ErrUnauthenticated.
func (m *Manager) Validate(ctx context.Context, token string) (uint, error) {
	if token == "" {
		return 0, domain.ErrUnauthenticated
	}

	val, err := m.store.Get(ctx, keyPrefix+token)
	if err != nil {
		return 0, errors.New("failed to read session")
	}
	if val == nil {
		return 0, domain.ErrUnauthenticated
	}

	id, err := strconv.ParseUint(string(val), 10, 64)
	if err != nil {
		return 0, domain.ErrUnauthenticated
	}
	return uint(id), nil
}

// Terminate deletes the session record. Unknown tokens are not an error;
// logout is idempotent.
func (m *Manager) Terminate(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.store.Delete(ctx, keyPrefix+token)
}
