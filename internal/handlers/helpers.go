package handlers

import (
	"errors"
	"math"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/sthapati/sthapati_be/internal/apperrors"
	"github.com/sthapati/sthapati_be/internal/middleware"
	"github.com/sthapati/sthapati_be/internal/models"
	"github.com/sthapati/sthapati_be/internal/store"
	"github.com/sthapati/sthapati_be/internal/utils"
)

func respond(c *fiber.Ctx, status int, message string, data any) error {
	body := fiber.Map{"success": true, "data": data}
	if message != "" {
		body["message"] = message
	}
	return c.Status(status).JSON(body)
}

func respondPage(c *fiber.Ctx, data any, p store.Page, total int64) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"meta": fiber.Map{
			"page":        p.Page,
			"limit":       p.Limit,
			"total_items": total,
			"total_pages": int(math.Ceil(float64(total) / float64(p.Limit))),
		},
	})
}

func pageFrom(c *fiber.Ctx) store.Page {
	return store.NewPage(c.QueryInt("page", 1), c.QueryInt("limit", store.DefaultLimit))
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperrors.BadRequest("Invalid " + name)
	}
	return id, nil
}

func bind(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}
	return nil
}

// currentUser is set by middleware.LoadUser on every protected route.
func currentUser(c *fiber.Ctx) (*models.User, error) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, apperrors.Unauthorized("Authentication required")
	}
	return u, nil
}

// notFoundOr maps store.ErrNotFound to a 404 with msg and wraps anything else
// as an internal error.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NotFound(msg)
	}
	return apperrors.Internal(msg, err)
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func trimList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SessionIssuer signs session cookies from stored users.
type SessionIssuer struct {
	Secret     string
	ExpiresMin int
	Secure     bool
}

func (s SessionIssuer) Issue(c *fiber.Ctx, u *models.User) (utils.Claims, error) {
	claims := utils.ClaimsFor(u)
	token, err := utils.SignJWT(s.Secret, claims, s.ExpiresMin)
	if err != nil {
		return claims, apperrors.Internal("Failed to create session", err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     utils.SessionCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   s.Secure,
		SameSite: "Lax",
		MaxAge:   s.ExpiresMin * 60,
	})
	return claims, nil
}

func (s SessionIssuer) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     utils.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   s.Secure,
		SameSite: "Lax",
	})
}

func claimsView(cl utils.Claims) fiber.Map {
	return fiber.Map{
		"uid":               cl.UserID,
		"status":            cl.Status,
		"category":          cl.Category,
		"isAdmin":           cl.IsAdmin,
		"isProfileComplete": cl.IsProfileComplete,
		"googleId":          cl.GoogleID,
	}
}
