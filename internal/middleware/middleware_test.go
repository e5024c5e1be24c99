package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/sthapati/sthapati_be/internal/apperrors"
	"github.com/sthapati/sthapati_be/internal/metrics"
	"github.com/sthapati/sthapati_be/internal/models"
	"github.com/sthapati/sthapati_be/internal/store"
	"github.com/sthapati/sthapati_be/internal/utils"
)

const testSecret = "test-secret"

func sessionCookie(t *testing.T, u *models.User) *http.Cookie {
	t.Helper()
	tok, err := utils.SignJWT(testSecret, utils.ClaimsFor(u), 60)
	require.NoError(t, err)
	return &http.Cookie{Name: utils.SessionCookie, Value: tok}
}

func newGateApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apperrors.ErrorHandler(false)})
	app.Use(AccessGate(testSecret, metrics.New()))
	app.Get("/*", func(c *fiber.Ctx) error { return c.SendString("page") })
	return app
}

func TestAccessGate(t *testing.T) {
	active := &models.User{ID: uuid.New(), Status: models.StatusActive}
	activeComplete := &models.User{ID: uuid.New(), Status: models.StatusActive, IsProfileComplete: true}
	banned := &models.User{ID: uuid.New(), Status: models.StatusBanned}

	tests := []struct {
		name     string
		user     *models.User
		cookie   string
		target   string
		wantCode int
		wantLoc  string
	}{
		{"anon dashboard", nil, "", "/dashboard?tab=jobs", 307, "/login?callbackUrl=%2Fdashboard%3Ftab%3Djobs"},
		{"garbage cookie is anon", nil, "garbage", "/admin", 307, "/login?callbackUrl=%2Fadmin"},
		{"anon home", nil, "", "/", 200, ""},
		{"static bypass", banned, "", "/_next/static/app.js", 200, ""},
		{"banned page", banned, "", "/jobs", 307, "/status?state=banned"},
		{"banned api", banned, "", "/api/auth/session", 200, ""},
		{"non-admin admin", activeComplete, "", "/admin", 307, "/login"},
		{"incomplete dashboard", active, "", "/dashboard/posts", 307, "/dashboard/edit-profile"},
		{"incomplete edit profile", active, "", "/dashboard/edit-profile", 200, ""},
	}

	app := newGateApp()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			if tt.user != nil {
				req.AddCookie(sessionCookie(t, tt.user))
			} else if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: utils.SessionCookie, Value: tt.cookie})
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, resp.StatusCode)
			assert.Equal(t, tt.wantLoc, resp.Header.Get("Location"))
		})
	}
}

type mockLoader struct {
	mock.Mock
}

func (m *mockLoader) ByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func newProtectedApp(loader UserLoader, extra ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apperrors.ErrorHandler(false)})
	chain := []fiber.Handler{JWTFromCookie(testSecret), AttachJWTLocals(), LoadUser(loader)}
	chain = append(chain, extra...)
	chain = append(chain, func(c *fiber.Ctx) error {
		u, _ := CurrentUser(c)
		return c.SendString(u.Email)
	})
	app.Get("/x", chain...)
	return app
}

func TestProtectedChain(t *testing.T) {
	admin := &models.User{ID: uuid.New(), Email: "admin@x.com", Status: models.StatusActive, IsAdmin: true}
	member := &models.User{ID: uuid.New(), Email: "m@x.com", Status: models.StatusActive}
	pending := &models.User{ID: uuid.New(), Email: "p@x.com", Status: models.StatusPending}
	gone := &models.User{ID: uuid.New()}

	loader := &mockLoader{}
	loader.On("ByID", mock.Anything, admin.ID).Return(admin, nil)
	loader.On("ByID", mock.Anything, member.ID).Return(member, nil)
	loader.On("ByID", mock.Anything, pending.ID).Return(pending, nil)
	loader.On("ByID", mock.Anything, gone.ID).Return(nil, store.ErrNotFound)

	tests := []struct {
		name string
		app  *fiber.App
		user *models.User
		want int
	}{
		{"no cookie", newProtectedApp(loader), nil, 401},
		{"deleted user", newProtectedApp(loader), gone, 401},
		{"member", newProtectedApp(loader), member, 200},
		{"admin only rejects member", newProtectedApp(loader, RequireAdmin()), member, 403},
		{"admin only allows admin", newProtectedApp(loader, RequireAdmin()), admin, 200},
		{"active only rejects pending", newProtectedApp(loader, RequireActive()), pending, 403},
		{"active only allows member", newProtectedApp(loader, RequireActive()), member, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/x", nil)
			if tt.user != nil {
				req.AddCookie(sessionCookie(t, tt.user))
			}
			resp, err := tt.app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestRateLimit(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: apperrors.ErrorHandler(false)})
	app.Post("/otp", RateLimit(NewRateLimiter(rate.Limit(0.001), 2)), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/otp", nil))
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{204, 204, 429}, codes)
}

func TestRateLimiter_PerKey(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(0.001), 1)
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))
}

func TestRateLimiter_FullTableKeepsNewKeys(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(0.001), 1)
	for i := 0; i < maxVisitors+100; i++ {
		rl.Allow(fmt.Sprintf("10.0.%d.%d", i/256, i%256))
	}

	allowed := 0
	for i := 0; i < 10; i++ {
		if rl.Allow("203.0.113.7") {
			allowed++
		}
	}
	assert.Equal(t, 1, allowed)
}
