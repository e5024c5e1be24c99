package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sthapati/sthapati_be/internal/apperrors"
	"github.com/sthapati/sthapati_be/internal/utils"
)

const localClaims = "claims"

// JWTFromCookie requires a valid session cookie and stores its claims in
// c.Locals.
func JWTFromCookie(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.ParseJWT(secret, c.Cookies(utils.SessionCookie))
		if err != nil {
			return apperrors.Unauthorized("Authentication required")
		}
		c.Locals(localClaims, claims)
		return c.Next()
	}
}

// OptionalJWT stores claims when a valid cookie is present and never rejects.
func OptionalJWT(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if claims, err := utils.ParseJWT(secret, c.Cookies(utils.SessionCookie)); err == nil {
			c.Locals(localClaims, claims)
		}
		return c.Next()
	}
}

func ClaimsOf(c *fiber.Ctx) (*utils.Claims, bool) {
	claims, ok := c.Locals(localClaims).(*utils.Claims)
	return claims, ok && claims != nil
}
