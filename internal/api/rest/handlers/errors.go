package handlers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/lnuais/member_service/internal/domain"
	"github.com/lnuais/member_service/internal/helper/utils"
)

// respondServiceError translates a service error into the shared error
// envelope. Anything that is not a known business error is reported as an
// internal failure with no detail leaked.
func respondServiceError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		msg := strings.TrimPrefix(err.Error(), domain.ErrValidation.Error()+": ")
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "VALIDATION_ERROR", msg)
	case errors.Is(err, domain.ErrEmailTaken):
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "CONFLICT", "User already exists with this email")
	case errors.Is(err, domain.ErrUserNotFound):
		return utils.ResponseError(ctx, fiber.StatusNotFound, "NOT_FOUND", "User not found")
	case errors.Is(err, domain.ErrAlreadyVerified):
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "ALREADY_VERIFIED", "Email already verified")
	case errors.Is(err, domain.ErrInvalidCode):
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "INVALID_CODE", "Invalid verification code")
	case errors.Is(err, domain.ErrCodeExpired):
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "CODE_EXPIRED", "Verification code expired. Please request a new one.")
	case errors.Is(err, domain.ErrInvalidOrExpiredCode):
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "INVALID_OR_EXPIRED_CODE", "Invalid or expired reset code")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	case errors.Is(err, domain.ErrUnverifiedAccount):
		return utils.ResponseError(ctx, fiber.StatusForbidden, "UNVERIFIED_ACCOUNT", "Please verify your email before logging in")
	case errors.Is(err, domain.ErrAccountDisabled):
		return utils.ResponseError(ctx, fiber.StatusForbidden, "ACCOUNT_DISABLED", "Account is disabled")
	case errors.Is(err, domain.ErrUnsupportedImage):
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "VALIDATION_ERROR", "unsupported image format (need jpeg/png)")
	case errors.Is(err, domain.ErrUnauthenticated):
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "UNAUTHENTICATED", "Not authenticated")
	default:
		log.Printf("internal error: %v", err)
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
