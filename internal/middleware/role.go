package middleware

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/sthapati/sthapati_be/internal/apperrors"
	"github.com/sthapati/sthapati_be/internal/models"
	"github.com/sthapati/sthapati_be/internal/store"
)

const localUser = "currentUser"

type UserLoader interface {
	ByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// LoadUser fetches the session user from the store so authorization works on
// current data rather than token claims. A deleted user is unauthenticated.
func LoadUser(users UserLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid, ok := UserID(c)
		if !ok {
			return apperrors.Unauthorized("Authentication required")
		}
		u, err := users.ByID(c.UserContext(), uid)
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.Unauthorized("Authentication required")
		}
		if err != nil {
			return apperrors.Internal("failed to load user", err)
		}
		c.Locals(localUser, u)
		return c.Next()
	}
}

func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	u, ok := c.Locals(localUser).(*models.User)
	return u, ok && u != nil
}

// RequireAdmin must run after LoadUser.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, ok := CurrentUser(c)
		if !ok {
			return apperrors.Unauthorized("Authentication required")
		}
		if !u.IsAdmin {
			return apperrors.Forbidden("Admin access required")
		}
		return c.Next()
	}
}

// RequireActive must run after LoadUser.
func RequireActive() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, ok := CurrentUser(c)
		if !ok {
			return apperrors.Unauthorized("Authentication required")
		}
		if u.Status != models.StatusActive {
			return apperrors.Forbidden("Your account is not active")
		}
		return c.Next()
	}
}
