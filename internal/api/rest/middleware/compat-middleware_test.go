package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCompatApp() *fiber.App {
	app := fiber.New()
	app.Use(NewRewrite(DefaultAliases()))

	app.Post("/api/users/register", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusCreated).Send(c.Body())
	})
	app.Post("/api/auth/login", func(c *fiber.Ctx) error {
		return c.SendString("login")
	})
	app.Get("/api/auth/current-user", func(c *fiber.Ctx) error {
		return c.SendString("current-user")
	})
	app.Post("/elsewhere", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusAccepted).Send(c.Body())
	})
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload []byte) (*http.Response, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	if len(raw) > 0 && json.Valid(raw) {
		require.NoError(t, json.Unmarshal(raw, &body))
	}
	return resp, body
}

func TestLegacyRegisterBodyRemap(t *testing.T) {
	app := newCompatApp()

	resp, body := postJSON(t, app, "/users/new_member", []byte(
		`{"name":"Ada","email":"ada@example.com","program":"CS","level":"MID"}`))

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Ada", body["full_name"])
	assert.Equal(t, "CS", body["programme"])
	assert.Equal(t, "Intermediate", body["experience_level"])
	assert.Equal(t, "ada@example.com", body["email"])

	// Legacy keys must not leak through to the handler.
	_, hasName := body["name"]
	_, hasProgram := body["program"]
	_, hasLevel := body["level"]
	assert.False(t, hasName)
	assert.False(t, hasProgram)
	assert.False(t, hasLevel)
}

func TestLegacyRegisterLevelMapping(t *testing.T) {
	app := newCompatApp()

	cases := map[string]string{
		"LOW":     "Beginner",
		"MID":     "Intermediate",
		"HIGH":    "Advanced",
		"UNKNOWN": "Beginner",
	}

	for legacy, want := range cases {
		_, body := postJSON(t, app, "/users/new_member", []byte(
			`{"name":"Ada","email":"ada@example.com","program":"CS","level":"`+legacy+`"}`))
		assert.Equal(t, want, body["experience_level"], "level %s", legacy)
	}
}

func TestLegacyRegisterInvalidBodyPassesThrough(t *testing.T) {
	app := newCompatApp()

	req := httptest.NewRequest(http.MethodPost, "/users/new_member", bytes.NewReader([]byte("not json")))
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	// Routed to the canonical handler with the body untouched.
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "not json", string(raw))
}

func TestLegacyLoginAlias(t *testing.T) {
	app := newCompatApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/users/login", nil))
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "login", string(raw))
}

func TestLegacyProfileAlias(t *testing.T) {
	app := newCompatApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/users/profile", nil))
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "current-user", string(raw))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/users/current-user", nil))
	require.NoError(t, err)
	raw, _ = io.ReadAll(resp.Body)
	assert.Equal(t, "current-user", string(raw))
}

func TestUnmatchedRequestUntouched(t *testing.T) {
	app := newCompatApp()

	payload := []byte(`{"name":"Ada","level":"MID"}`)
	req := httptest.NewRequest(http.MethodPost, "/elsewhere", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)

	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	assert.Equal(t, string(payload), string(raw))
}

func TestAliasMethodMismatchNotRewritten(t *testing.T) {
	app := newCompatApp()

	// GET on a POST-only alias is not rewritten and falls through to 404/405.
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/users/login", nil))
	require.NoError(t, err)
	assert.NotEqual(t, fiber.StatusOK, resp.StatusCode)
}
