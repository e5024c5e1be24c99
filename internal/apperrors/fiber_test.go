package apperrors

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(debug bool, err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(debug)})
	app.Get("/", func(c *fiber.Ctx) error { return err })
	return app
}

func do(t *testing.T, app *fiber.App) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		debug    bool
		err      error
		wantCode int
		wantErr  Code
		wantMsg  string
	}{
		{"conflict", false, Conflict("User already exists with this email"), 409, CodeConflict, "User already exists with this email"},
		{"not found", false, NotFound("Post not found"), 404, CodeNotFound, "Post not found"},
		{"fiber error", false, fiber.ErrUnauthorized, 401, CodeUnauthorized, "Unauthorized"},
		{"plain error redacted", false, errors.New("pq: connection refused"), 500, CodeInternal, "Internal server error"},
		{"plain error in debug", true, errors.New("pq: connection refused"), 500, CodeInternal, "pq: connection refused"},
		{"internal redacted", false, Internal("db write failed", errors.New("boom")), 500, CodeInternal, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, newApp(tt.debug, tt.err))
			assert.Equal(t, tt.wantCode, status)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantMsg, body["message"])

			inner, ok := body["error"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, string(tt.wantErr), inner["code"])
			assert.Equal(t, tt.wantMsg, inner["message"])
		})
	}
}

func TestErrorHandler_ValidationDetails(t *testing.T) {
	status, body := do(t, newApp(false, Validation(map[string]string{"email": "This field is required"})))
	assert.Equal(t, 400, status)

	inner := body["error"].(map[string]any)
	details, ok := inner["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "This field is required", details["email"])
}

func TestAs_Wrapped(t *testing.T) {
	base := Forbidden("nope")
	wrapped := errors.Join(errors.New("ctx"), base)

	got, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, 403, got.HTTPCode)
}
