package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/lnuais/member_service/internal/helper/utils"
	"github.com/lnuais/member_service/internal/session"
)

// SessionAuth resolves the session cookie to an account id and stores it in
// the request locals. Missing or expired sessions end the request with 401.
func SessionAuth(sessions *session.Manager) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		token := strings.TrimSpace(ctx.Cookies(session.CookieName))

		userID, err := sessions.Validate(ctx.UserContext(), token)
		if err != nil {
			return utils.ResponseError(ctx, fiber.StatusUnauthorized, "UNAUTHENTICATED", "Not authenticated")
		}

		ctx.Locals("userID", userID)
		ctx.Locals("sessionToken", token)
		return ctx.Next()
	}
}
