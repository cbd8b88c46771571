package middleware

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/lnuais/member_service/internal/domain"
)

const legacyRegisterKey = "POST /users/new_member"

// DefaultAliases maps the portal's legacy frontend routes to the canonical
// API. Built once at startup and passed to NewRewrite; nothing mutates it
// afterwards.
func DefaultAliases() map[string]string {
	return map[string]string{
		"POST /users/login":                  "/api/auth/login",
		"POST /users/verify-email":           "/api/auth/verify-email",
		"POST /users/verify":                 "/api/auth/verify-email",
		"POST /users/resend-verification":    "/api/auth/resend-verification",
		"POST /users/request-password-reset": "/api/auth/request-password-reset",
		"POST /users/reset-password":         "/api/auth/reset-password",
		"GET /users/google":                  "/api/auth/google",
		"GET /users/logout":                  "/api/auth/logout",
		"GET /users/current-user":            "/api/auth/current-user",
		"GET /users/profile":                 "/api/auth/current-user",
		legacyRegisterKey:                    "/api/users/register",
	}
}

// NewRewrite returns the compatibility stage. It must be registered before
// any route so legacy paths are rewritten before validation and routing.
// After a rewrite the canonical path no longer matches an alias, so the
// transformation is applied at most once per request.
func NewRewrite(aliases map[string]string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Method() + " " + c.Path()
		target, ok := aliases[key]
		if !ok {
			return c.Next()
		}

		log.Printf("route alias: %s -> %s", c.Path(), target)

		if key == legacyRegisterKey {
			rewriteLegacyRegisterBody(c)
		}

		c.Path(target)
		return c.RestartRouting()
	}
}

// rewriteLegacyRegisterBody remaps the old signup payload to the canonical
// registration fields: name -> full_name, program -> programme and the
// LOW/MID/HIGH level enum -> experience_level. Unknown levels fall back to
// Beginner. Unrelated fields pass through untouched; a body that is not a
// JSON object is left alone for the handler's validation to reject.
func rewriteLegacyRegisterBody(c *fiber.Ctx) {
	body := c.Body()
	if len(body) == 0 {
		return
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return
	}

	if v, ok := fields["name"]; ok {
		fields["full_name"] = v
		delete(fields, "name")
	}
	if v, ok := fields["program"]; ok {
		fields["programme"] = v
		delete(fields, "program")
	}
	if v, ok := fields["level"]; ok {
		level := domain.LevelBeginner
		if s, ok := v.(string); ok {
			switch s {
			case "LOW":
				level = domain.LevelBeginner
			case "MID":
				level = domain.LevelIntermediate
			case "HIGH":
				level = domain.LevelAdvanced
			}
		}
		fields["experience_level"] = level
		delete(fields, "level")
	}

	out, err := json.Marshal(fields)
	if err != nil {
		return
	}

	c.Request().SetBodyRaw(out)
	c.Request().Header.SetContentLength(len(out))
}
