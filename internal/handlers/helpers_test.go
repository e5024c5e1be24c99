package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/sthapati/sthapati_be/internal/apperrors"
	"github.com/sthapati/sthapati_be/internal/middleware"
	"github.com/sthapati/sthapati_be/internal/models"
	"github.com/sthapati/sthapati_be/internal/store"
	"github.com/sthapati/sthapati_be/internal/utils"
)

const testSecret = "test-secret"

var testSessions = SessionIssuer{Secret: testSecret, ExpiresMin: 60}

// sessionUsers resolves only the user carried by the test cookie, so handler
// mocks see nothing but the calls under test.
type sessionUsers struct{ u *models.User }

func (s sessionUsers) ByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if s.u == nil || s.u.ID != id {
		return nil, store.ErrNotFound
	}
	return s.u, nil
}

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: apperrors.ErrorHandler(false)})
}

// authed is the protected chain used by cmd/api, minus the store.
func authed(app *fiber.App, u *models.User) fiber.Router {
	return app.Group("",
		middleware.JWTFromCookie(testSecret),
		middleware.AttachJWTLocals(),
		middleware.LoadUser(sessionUsers{u}),
	)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]int  `json:"meta"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func do(t *testing.T, app *fiber.App, method, path string, body any, u *models.User) (*http.Response, envelope) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if u != nil {
		withSession(t, req, u)
	}
	return send(t, app, req)
}

func withSession(t *testing.T, req *http.Request, u *models.User) {
	t.Helper()
	tok, err := utils.SignJWT(testSecret, utils.ClaimsFor(u), 60)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: utils.SessionCookie, Value: tok})
}

func send(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, envelope) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func activeUser(name string) *models.User {
	phone := "+919800000000"
	return &models.User{
		ID:       uuid.New(),
		Name:     name,
		Email:    name + "@example.com",
		Phone:    &phone,
		Category: models.CategoryContractor,
		Status:   models.StatusActive,
	}
}

func sessionCookieOf(resp *http.Response) *http.Cookie {
	for _, ck := range resp.Cookies() {
		if ck.Name == utils.SessionCookie {
			return ck
		}
	}
	return nil
}
