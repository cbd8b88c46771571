package mailer

import (
	"testing"

	"github.com/lnuais/member_service/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWelcome(t *testing.T) {
	subject, body, err := renderEvent(dto.MailEvent{
		Kind:     dto.EventWelcome,
		Email:    "ada@example.com",
		FullName: "Ada Lovelace",
	})
	require.NoError(t, err)
	assert.Equal(t, "Welcome to LNU AIS!", subject)
	assert.Contains(t, body, "Ada Lovelace")
	assert.Contains(t, body, "Welcome to LNU AIS")
}

func TestRenderVerification(t *testing.T) {
	subject, body, err := renderEvent(dto.MailEvent{
		Kind:      dto.EventVerifyEmail,
		Email:     "ada@example.com",
		FullName:  "Ada Lovelace",
		Code:      "123456",
		ExpiresAt: "2026-08-30T12:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, "Verify your LNU AIS email", subject)
	assert.Contains(t, body, "123456")
	assert.Contains(t, body, "2026-08-30T12:00:00Z")
}

func TestRenderPasswordReset(t *testing.T) {
	subject, body, err := renderEvent(dto.MailEvent{
		Kind:     dto.EventResetPassword,
		Email:    "ada@example.com",
		FullName: "Ada Lovelace",
		Code:     "654321",
	})
	require.NoError(t, err)
	assert.Equal(t, "Your LNU AIS password reset code", subject)
	assert.Contains(t, body, "654321")
}

func TestRenderUnknownKind(t *testing.T) {
	_, _, err := renderEvent(dto.MailEvent{Kind: "user.unknown"})
	assert.Error(t, err)
}

func TestHandleMessageRejectsBadPayloads(t *testing.T) {
	s := &MailService{}

	assert.Error(t, s.HandleMessage("not json"))
	assert.Error(t, s.HandleMessage(`{"kind":"user.welcome"}`)) // no recipient
}
