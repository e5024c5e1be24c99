package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/sthapati/sthapati_be/internal/apperrors"
)

const localUserID = "userId"

// AttachJWTLocals exposes the session user id as a uuid under "userId".
// Optional sessions pass through untouched.
func AttachJWTLocals() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsOf(c)
		if !ok {
			return c.Next()
		}
		uid, err := uuid.Parse(claims.UserID)
		if err != nil {
			return apperrors.Unauthorized("Authentication required")
		}
		c.Locals(localUserID, uid)
		return c.Next()
	}
}

func UserID(c *fiber.Ctx) (uuid.UUID, bool) {
	uid, ok := c.Locals(localUserID).(uuid.UUID)
	return uid, ok && uid != uuid.Nil
}
