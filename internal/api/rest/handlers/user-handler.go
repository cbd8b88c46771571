package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/lnuais/member_service/internal/domain"
	"github.com/lnuais/member_service/internal/dto"
	"github.com/lnuais/member_service/internal/helper/utils"
	"github.com/lnuais/member_service/internal/services"
	pkgutils "github.com/lnuais/member_service/pkg/utils"
)

const maxAvatarSize = 5 * 1024 * 1024 // 5MB

type UserHandler struct {
	svc services.UserService
}

func NewUserHandler(svc services.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) SetupRoutes(app *fiber.App, requireAuth fiber.Handler) {
	users := app.Group("/api/users")

	users.Post("/register", h.Register)

	users.Get("/", requireAuth, h.ListUsers)
	users.Get("/:id", requireAuth, h.GetUser)
	users.Put("/:id", requireAuth, h.UpdateUser)
	users.Delete("/:id", requireAuth, h.DeleteUser)
	users.Put("/:id/password", requireAuth, h.SetPassword)
	users.Put("/:id/avatar", requireAuth, h.UpdateAvatar)
}

func (h *UserHandler) Register(ctx *fiber.Ctx) error {
	var requestBody dto.RegisterRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "VALIDATION_ERROR", "Please provide valid inputs")
	}

	requestBody.FullName = strings.TrimSpace(requestBody.FullName)
	requestBody.Email = strings.TrimSpace(requestBody.Email)
	requestBody.Programme = strings.TrimSpace(requestBody.Programme)

	if requestBody.FullName == "" || requestBody.Email == "" || requestBody.Programme == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "VALIDATION_ERROR", "full_name, email and programme are required")
	}
	if !strings.Contains(requestBody.Email, "@") {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "VALIDATION_ERROR", "email must be a valid email address")
	}
	if !domain.ValidExperienceLevel(strings.TrimSpace(requestBody.ExperienceLevel)) {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "VALIDATION_ERROR", "experience_level must be one of Beginner, Intermediate, Advanced")
	}
	if pw := strings.TrimSpace(requestBody.Password); pw != "" && len(pw) < 6 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "VALIDATION_ERROR", "password must be at least 6 characters")
	}

	user, err := h.svc.Register(requestBody)
	if err != nil {
		return respondServiceError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusCreated, user)
}

func (h *UserHandler) ListUsers(ctx *fiber.Ctx) error {
	page := ctx.QueryInt("page", 1)
	limit := ctx.QueryInt("limit", 10)

	list, err := h.svc.ListUsers(page, limit)
	if err != nil {
		return respondServiceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(list)
}

func (h *UserHandler) GetUser(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid user id")
	}

	user, err := h.svc.GetProfile(uint(id))
	if err != nil {
		return respondServiceError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, user)
}

// requireSelf allows mutations only on the caller's own account.
func requireSelf(ctx *fiber.Ctx) (uint, error) {
	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, utils.ResponseError(ctx, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid user id")
	}

	userID, _ := ctx.Locals("userID").(uint)
	if userID != uint(id) {
		return 0, utils.ResponseError(ctx, fiber.StatusForbidden, "FORBIDDEN", "cannot modify another user")
	}
	return userID, nil
}

func (h *UserHandler) UpdateUser(ctx *fiber.Ctx) error {
	userID, errResp := requireSelf(ctx)
	if errResp != nil {
		return errResp
	}

	var requestBody dto.UpdateUserProfile
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "VALIDATION_ERROR", "Please provide valid inputs")
	}

	user, err := h.svc.UpdateProfile(userID, requestBody)
	if err != nil {
		return respondServiceError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, user)
}

func (h *UserHandler) DeleteUser(ctx *fiber.Ctx) error {
	userID, errResp := requireSelf(ctx)
	if errResp != nil {
		return errResp
	}

	if err := h.svc.DeleteUser(userID); err != nil {
		return respondServiceError(ctx, err)
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}

func (h *UserHandler) SetPassword(ctx *fiber.Ctx) error {
	userID, errResp := requireSelf(ctx)
	if errResp != nil {
		return errResp
	}

	var requestBody dto.SetPasswordRequest
	if err := ctx.BodyParser(&requestBody); err != nil || len(strings.TrimSpace(requestBody.NewPassword)) < 6 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "VALIDATION_ERROR", "new_password must be at least 6 characters")
	}

	if err := h.svc.SetPassword(userID, requestBody.NewPassword); err != nil {
		return respondServiceError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Password updated successfully",
	})
}

func (h *UserHandler) UpdateAvatar(ctx *fiber.Ctx) error {
	userID, errResp := requireSelf(ctx)
	if errResp != nil {
		return errResp
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "VALIDATION_ERROR", "file is required")
	}
	if file.Size > maxAvatarSize {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "VALIDATION_ERROR", "file too large (max 5MB)")
	}

	f, err := file.Open()
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "INTERNAL_ERROR", "cannot open uploaded file")
	}
	defer f.Close()

	data, err := pkgutils.ReadAllLimit(f, maxAvatarSize)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "VALIDATION_ERROR", "file too large (max 5MB)")
	}

	user, err := h.svc.UpdateAvatar(ctx.UserContext(), userID, file.Filename, data)
	if err != nil {
		return respondServiceError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, user)
}
