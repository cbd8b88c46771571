package domain

import "errors"

// Business errors returned by the service layer. Handlers match these with
// errors.Is and translate them to a status plus machine-readable code; any
// other error is reported as an internal failure without detail.
var (
	// ErrValidation is wrapped around malformed-input errors so handlers can
	// distinguish them from store failures; the wrapped message is shown to
	// the client.
	ErrValidation = errors.New("invalid input")

	ErrEmailTaken           = errors.New("email already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrAlreadyVerified      = errors.New("email already verified")
	ErrInvalidCode          = errors.New("invalid verification code")
	ErrCodeExpired          = errors.New("verification code expired")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUnverifiedAccount    = errors.New("email not verified")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired reset code")
	ErrAccountDisabled      = errors.New("account is disabled")
	ErrUnsupportedImage     = errors.New("unsupported image")
	ErrUnauthenticated      = errors.New("not authenticated")
)
