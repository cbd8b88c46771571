package utils

import "github.com/gofiber/fiber/v2"

// ResponseError writes the error envelope shared by every endpoint:
// a human message plus a machine-readable code for the frontend.
func ResponseError(ctx *fiber.Ctx, status int, code, msg string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"error": msg,
		"code":  code,
	})
}

func ResponseSuccess(ctx *fiber.Ctx, status int, data interface{}) error {
	return ctx.Status(status).JSON(fiber.Map{"data": data})
}
