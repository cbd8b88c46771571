package session

import (
	"context"
	"testing"
	"time"

	"github.com/lnuais/member_service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstablishAndValidate(t *testing.T) {
	m := NewManager(NewMemoryStore(), DefaultTTL)
	ctx := context.Background()

	token, err := m.Establish(ctx, 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := m.Validate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestValidateUnknownToken(t *testing.T) {
	m := NewManager(NewMemoryStore(), DefaultTTL)

	_, err := m.Validate(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = m.Validate(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestTerminateIsIdempotent(t *testing.T) {
	m := NewManager(NewMemoryStore(), DefaultTTL)
	ctx := context.Background()

	token, err := m.Establish(ctx, 7)
	require.NoError(t, err)

	require.NoError(t, m.Terminate(ctx, token))

	_, err = m.Validate(ctx, token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	// A second logout with the same token is fine.
	assert.NoError(t, m.Terminate(ctx, token))
	assert.NoError(t, m.Terminate(ctx, ""))
}

func TestSessionExpiry(t *testing.T) {
	m := NewManager(NewMemoryStore(), 20*time.Millisecond)
	ctx := context.Background()

	token, err := m.Establish(ctx, 9)
	require.NoError(t, err)

	_, err = m.Validate(ctx, token)
	require.NoError(t, err)

	time.Sleep(40 * time.Millisecond)

	_, err = m.Validate(ctx, token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestTokensAreUnique(t *testing.T) {
	m := NewManager(NewMemoryStore(), DefaultTTL)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, err := m.Establish(ctx, uint(i+1))
		require.NoError(t, err)
		require.False(t, seen[token])
		seen[token] = true
	}
}
