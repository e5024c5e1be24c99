package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sthapati/sthapati_be/internal/access"
	"github.com/sthapati/sthapati_be/internal/metrics"
	"github.com/sthapati/sthapati_be/internal/utils"
)

// AccessGate routes page requests according to the caller's account state.
// It only ever proceeds or answers 307; API handlers do their own checks.
func AccessGate(secret string, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if access.IsStaticAsset(path) {
			return c.Next()
		}

		var claims *access.Claims
		if tc, err := utils.ParseJWT(secret, c.Cookies(utils.SessionCookie)); err == nil {
			claims = &access.Claims{
				Status:            tc.Status,
				IsAdmin:           tc.IsAdmin,
				IsProfileComplete: tc.IsProfileComplete,
			}
		}

		subject := access.SubjectFrom(claims)
		route := access.Classify(path, string(c.Request().URI().QueryString()))
		decision := access.Decide(subject, route)
		if !decision.Redirects() {
			return c.Next()
		}

		zap.L().Debug("access gate redirect",
			zap.String("path", route.Target),
			zap.Stringer("state", subject.State),
			zap.String("to", decision.Redirect),
		)
		if m != nil {
			m.GateRedirects.WithLabelValues(redirectLabel(decision.Redirect)).Inc()
		}
		return c.Redirect(decision.Redirect, fiber.StatusTemporaryRedirect)
	}
}

func redirectLabel(target string) string {
	path, _, _ := strings.Cut(target, "?")
	return path
}
