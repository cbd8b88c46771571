package handlers

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lnuais/member_service/internal/dto"
	"github.com/lnuais/member_service/internal/helper/utils"
	"github.com/lnuais/member_service/internal/oauth"
	"github.com/lnuais/member_service/internal/services"
	"github.com/lnuais/member_service/internal/session"
)

type AuthHandler struct {
	svc         services.UserService
	sessions    *session.Manager
	google      *oauth.Google
	frontendURL string
}

func NewAuthHandler(svc services.UserService, sessions *session.Manager, google *oauth.Google, frontendURL string) *AuthHandler {
	return &AuthHandler{
		svc:         svc,
		sessions:    sessions,
		google:      google,
		frontendURL: frontendURL,
	}
}

func (h *AuthHandler) SetupRoutes(app *fiber.App, requireAuth fiber.Handler) {
	auth := app.Group("/api/auth")

	auth.Post("/login", h.Login)
	auth.Post("/verify-email", h.VerifyEmail)
	auth.Post("/resend-verification", h.ResendVerification)
	auth.Post("/request-password-reset", h.RequestPasswordReset)
	auth.Post("/reset-password", h.ResetPassword)

	auth.Get("/google", h.GoogleStart)
	auth.Get("/google/callback", h.GoogleCallback)

	auth.Get("/logout", h.Logout)
	auth.Get("/current-user", requireAuth, h.CurrentUser)
}

func (h *AuthHandler) setSessionCookie(ctx *fiber.Ctx, token string) {
	ctx.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessions.TTL().Seconds()),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

func (h *AuthHandler) clearSessionCookie(ctx *fiber.Ctx) {
	ctx.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

func (h *AuthHandler) Login(ctx *fiber.Ctx) error {
	var requestBody dto.UserLogin
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Email == "" || requestBody.Password == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "VALIDATION_ERROR", "email and password are required")
	}

	user, err := h.svc.Login(requestBody.Email, requestBody.Password)
	if err != nil {
		return respondServiceError(ctx, err)
	}

	token, err := h.sessions.Establish(ctx.UserContext(), user.ID)
	if err != nil {
		log.Printf("session establish failed for user %d: %v", user.ID, err)
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Login failed")
	}
	h.setSessionCookie(ctx, token)

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Login successful",
		"user":    user,
	})
}

func (h *AuthHandler) VerifyEmail(ctx *fiber.Ctx) error {
	var requestBody dto.VerifyEmailRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Email == "" || requestBody.Code == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "VALIDATION_ERROR", "email and code are required")
	}

	user, err := h.svc.VerifyEmail(requestBody.Email, requestBody.Code)
	if err != nil {
		return respondServiceError(ctx, err)
	}

	// Verification is committed at this point. A session failure must not
	// undo it; the user is just asked to log in manually.
	token, err := h.sessions.Establish(ctx.UserContext(), user.ID)
	if err != nil {
		log.Printf("auto-login after verification failed for user %d: %v", user.ID, err)
		return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
			"message": "Email verified! Please log in.",
		})
	}
	h.setSessionCookie(ctx, token)

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Email verified successfully! Logging you in...",
		"user":    user,
	})
}

func (h *AuthHandler) ResendVerification(ctx *fiber.Ctx) error {
	var requestBody dto.ResendVerificationRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Email == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "VALIDATION_ERROR", "email is required")
	}

	if err := h.svc.ResendVerification(requestBody.Email); err != nil {
		return respondServiceError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Verification code resent. Check your email.",
	})
}

func (h *AuthHandler) RequestPasswordReset(ctx *fiber.Ctx) error {
	var requestBody dto.RequestPasswordResetRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Email == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "VALIDATION_ERROR", "email is required")
	}

	if err := h.svc.RequestPasswordReset(requestBody.Email); err != nil {
		return respondServiceError(ctx, err)
	}

	// Identical response whether or not the email exists.
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "If that email exists, a reset code has been sent.",
	})
}

func (h *AuthHandler) ResetPassword(ctx *fiber.Ctx) error {
	var requestBody dto.ResetPasswordRequest
	if err := ctx.BodyParser(&requestBody); err != nil ||
		requestBody.Email == "" || requestBody.Code == "" || requestBody.NewPassword == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "VALIDATION_ERROR", "email, code and newPassword are required")
	}
	if len(strings.TrimSpace(requestBody.NewPassword)) < 6 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "VALIDATION_ERROR", "newPassword must be at least 6 characters")
	}

	if err := h.svc.ResetPassword(requestBody.Email, requestBody.Code, requestBody.NewPassword); err != nil {
		return respondServiceError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Password reset successfully. You can now log in.",
	})
}

func (h *AuthHandler) Logout(ctx *fiber.Ctx) error {
	token := ctx.Cookies(session.CookieName)

	if err := h.sessions.Terminate(ctx.UserContext(), token); err != nil {
		log.Printf("logout failed: %v", err)
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Logout failed")
	}
	h.clearSessionCookie(ctx)

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Logged out successfully",
	})
}

func (h *AuthHandler) CurrentUser(ctx *fiber.Ctx) error {
	userID, _ := ctx.Locals("userID").(uint)

	user, err := h.svc.GetProfile(userID)
	if err != nil {
		return respondServiceError(ctx, err)
	}

	// Flattened shape the portal frontend consumes directly.
	return ctx.Status(fiber.StatusOK).JSON(dto.NewCurrentUserResponse(user))
}

func (h *AuthHandler) GoogleStart(ctx *fiber.Ctx) error {
	url, err := h.google.AuthURL(ctx.UserContext())
	if err != nil {
		log.Printf("google auth url failed: %v", err)
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to start Google sign-in")
	}
	return ctx.Redirect(url, fiber.StatusFound)
}

func (h *AuthHandler) GoogleCallback(ctx *fiber.Ctx) error {
	failureURL := h.frontendURL + "/signin.html?error=auth_failed"

	if ctx.Query("error") != "" || ctx.Query("code") == "" {
		return ctx.Redirect(failureURL, fiber.StatusFound)
	}

	ident, err := h.google.Exchange(ctx.UserContext(), ctx.Query("code"), ctx.Query("state"))
	if err != nil {
		log.Printf("google exchange failed: %v", err)
		return ctx.Redirect(failureURL, fiber.StatusFound)
	}

	user, err := h.svc.LinkGoogleAccount(ident.Sub, ident.Email, ident.Name, ident.Picture)
	if err != nil {
		log.Printf("google account link failed: %v", err)
		return ctx.Redirect(failureURL, fiber.StatusFound)
	}

	token, err := h.sessions.Establish(ctx.UserContext(), user.ID)
	if err != nil {
		log.Printf("session establish after google login failed for user %d: %v", user.ID, err)
		return ctx.Redirect(failureURL, fiber.StatusFound)
	}
	h.setSessionCookie(ctx, token)

	// Accounts created by Google sign-in have no programme/level yet; send
	// them to profile completion first.
	if !user.ProfileComplete() {
		return ctx.Redirect(h.frontendURL+"/dashboard.html?action=complete_profile", fiber.StatusFound)
	}
	return ctx.Redirect(h.frontendURL+"/dashboard.html", fiber.StatusFound)
}
