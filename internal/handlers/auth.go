package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/sthapati/sthapati_be/internal/apperrors"
	"github.com/sthapati/sthapati_be/internal/metrics"
	"github.com/sthapati/sthapati_be/internal/models"
	"github.com/sthapati/sthapati_be/internal/services/account"
	"github.com/sthapati/sthapati_be/internal/store"
	"github.com/sthapati/sthapati_be/internal/utils"
	"github.com/sthapati/sthapati_be/internal/validation"
)

const (
	msgEmailExists = "User already exists with this email"
	msgPhoneExists = "User already exists with this phone number"
)

type AuthHandler struct {
	Users     UserRepo
	Validator *validation.Validator
	Sessions  SessionIssuer
	Metrics   *metrics.Metrics
}

type RegisterReq struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Category string `json:"category" validate:"required"`
	Phone    string `json:"phone" validate:"omitempty,min=8,max=20"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterReq
	if err := bind(c, &req); err != nil {
		return err
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	if err := h.Validator.Struct(req); err != nil {
		return err
	}

	category, ok := models.ParseCategory(req.Category)
	if !ok {
		return apperrors.Validation(map[string]string{"category": "Unknown category"})
	}

	ctx := c.UserContext()
	taken, err := h.Users.EmailTaken(ctx, req.Email)
	if err != nil {
		return apperrors.Internal("Failed to check email", err)
	}
	if taken {
		return apperrors.Conflict(msgEmailExists)
	}
	if req.Phone != "" {
		taken, err := h.Users.PhoneTaken(ctx, req.Phone, uuid.Nil)
		if err != nil {
			return apperrors.Internal("Failed to check phone", err)
		}
		if taken {
			return apperrors.Conflict(msgPhoneExists)
		}
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return apperrors.Internal("Failed to process password", err)
	}

	u := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hash,
		Category: category,
		Status:   account.InitialStatus(),
	}
	if req.Phone != "" {
		u.Phone = &req.Phone
	}
	account.RefreshProfileComplete(u)

	if err := h.Users.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return apperrors.Conflict(msgEmailExists)
		}
		return apperrors.Internal("Failed to register", err)
	}

	claims, err := h.Sessions.Issue(c, u)
	if err != nil {
		return err
	}
	h.Metrics.Registrations.WithLabelValues(string(u.Category)).Inc()

	return respond(c, fiber.StatusCreated, "Registration successful", fiber.Map{
		"user":    u,
		"session": claimsView(claims),
	})
}

type LoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login accepts users of every status; the access gate routes them afterwards.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginReq
	if err := bind(c, &req); err != nil {
		return err
	}
	req.Email = normalizeEmail(req.Email)
	if err := h.Validator.Struct(req); err != nil {
		return err
	}

	u, err := h.Users.ByEmail(c.UserContext(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.Unauthorized("Invalid email or password")
	}
	if err != nil {
		return apperrors.Internal("Failed to load user", err)
	}
	if !utils.CheckPassword(u.Password, req.Password) {
		return apperrors.Unauthorized("Invalid email or password")
	}

	claims, err := h.Sessions.Issue(c, u)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Login successful", fiber.Map{
		"user":    u,
		"session": claimsView(claims),
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.Sessions.Clear(c)
	return respond(c, fiber.StatusOK, "Logged out", nil)
}

// Session re-reads the user and re-issues the cookie, so status changes made
// by admins reach the token.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	claims, err := h.Sessions.Issue(c, u)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", fiber.Map{
		"user":    u,
		"session": claimsView(claims),
	})
}

type CompleteRegistrationReq struct {
	Category string `json:"category" validate:"required"`
	Phone    string `json:"phone" validate:"required,min=8,max=20"`
	Name     string `json:"name" validate:"omitempty,max=120"`
}

// CompleteRegistration lets a user who signed in with Google pick a category.
func (h *AuthHandler) CompleteRegistration(c *fiber.Ctx) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	if u.Status != models.StatusNone {
		return apperrors.Conflict("Registration already completed")
	}

	var req CompleteRegistrationReq
	if err := bind(c, &req); err != nil {
		return err
	}
	req.Phone = strings.TrimSpace(req.Phone)
	req.Name = strings.TrimSpace(req.Name)
	if err := h.Validator.Struct(req); err != nil {
		return err
	}
	category, ok := models.ParseCategory(req.Category)
	if !ok {
		return apperrors.Validation(map[string]string{"category": "Unknown category"})
	}

	ctx := c.UserContext()
	taken, err := h.Users.PhoneTaken(ctx, req.Phone, u.ID)
	if err != nil {
		return apperrors.Internal("Failed to check phone", err)
	}
	if taken {
		return apperrors.Conflict(msgPhoneExists)
	}

	if u.PhoneNumber() != req.Phone {
		u.PhoneVerified = false
	}
	u.Phone = &req.Phone
	u.Category = category
	if req.Name != "" {
		u.Name = req.Name
	}
	u.Status = account.InitialStatus()
	account.RefreshProfileComplete(u)

	if err := h.Users.Save(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return apperrors.Conflict(msgPhoneExists)
		}
		return apperrors.Internal("Failed to complete registration", err)
	}

	claims, err := h.Sessions.Issue(c, u)
	if err != nil {
		return err
	}
	h.Metrics.Registrations.WithLabelValues(string(u.Category)).Inc()

	return respond(c, fiber.StatusOK, "Registration completed", fiber.Map{
		"user":    u,
		"session": claimsView(claims),
	})
}
