package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sthapati/sthapati_be/internal/apperrors"
	"github.com/sthapati/sthapati_be/internal/metrics"
	"github.com/sthapati/sthapati_be/internal/models"
	"github.com/sthapati/sthapati_be/internal/services/account"
	"github.com/sthapati/sthapati_be/internal/store"
	"github.com/sthapati/sthapati_be/internal/validation"
)

type AdminHandler struct {
	Users         UserRepo
	Posts         PostRepo
	Jobs          JobRepo
	Applications  ApplicationRepo
	Announcements AnnouncementRepo
	Accounts      *account.Service
	Notifier      Notifier
	Validator     *validation.Validator
	Metrics       *metrics.Metrics
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	f := store.UserFilter{Query: c.Query("q")}
	if raw := c.Query("status"); raw != "" {
		st := models.Status(strings.ToLower(raw))
		if raw == "none" {
			st = models.StatusNone
		}
		if !st.Valid() {
			return apperrors.BadRequest("Unknown status")
		}
		f.Status = &st
	}
	if raw := c.Query("category"); raw != "" {
		cat, ok := models.ParseCategory(raw)
		if !ok {
			return apperrors.BadRequest("Unknown category")
		}
		f.Category = cat
	}

	p := pageFrom(c)
	users, total, err := h.Users.List(c.UserContext(), f, p)
	if err != nil {
		return apperrors.Internal("Failed to list users", err)
	}
	return respondPage(c, users, p, total)
}

func (h *AdminHandler) PendingUsers(c *fiber.Ctx) error {
	st := models.StatusPending
	p := pageFrom(c)
	users, total, err := h.Users.List(c.UserContext(), store.UserFilter{Status: &st}, p)
	if err != nil {
		return apperrors.Internal("Failed to list users", err)
	}
	return respondPage(c, users, p, total)
}

// Transition returns a handler applying one account action to /:id.
func (h *AdminHandler) Transition(action account.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		admin, err := currentUser(c)
		if err != nil {
			return err
		}
		id, err := paramID(c, "id")
		if err != nil {
			return err
		}

		u, err := h.Accounts.Apply(c.UserContext(), admin.ID, id, action)
		switch {
		case err == nil:
		case errors.Is(err, account.ErrSelfBan):
			return apperrors.BadRequest("You cannot ban yourself")
		case errors.Is(err, account.ErrIllegalTransition):
			return apperrors.BadRequest(strings.TrimPrefix(err.Error(), account.ErrIllegalTransition.Error()+": "))
		default:
			return notFoundOr(err, "User not found")
		}

		h.Metrics.StatusChanges.WithLabelValues(string(action)).Inc()
		return respond(c, fiber.StatusOK, "User "+string(u.Status), u)
	}
}

type SetAdminReq struct {
	IsAdmin *bool `json:"isAdmin" validate:"required"`
}

func (h *AdminHandler) SetAdmin(c *fiber.Ctx) error {
	admin, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req SetAdminReq
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.Validator.Struct(req); err != nil {
		return err
	}
	if id == admin.ID && !*req.IsAdmin {
		return apperrors.BadRequest("You cannot revoke your own admin access")
	}

	ctx := c.UserContext()
	u, err := h.Users.ByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "User not found")
	}
	u.IsAdmin = *req.IsAdmin
	if err := h.Users.Save(ctx, u); err != nil {
		return apperrors.Internal("Failed to update user", err)
	}
	return respond(c, fiber.StatusOK, "Admin access updated", u)
}

func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	ctx := c.UserContext()
	byStatus, err := h.Users.CountByStatus(ctx)
	if err != nil {
		return apperrors.Internal("Failed to load stats", err)
	}
	byCategory, err := h.Users.CountByCategory(ctx)
	if err != nil {
		return apperrors.Internal("Failed to load stats", err)
	}
	posts, err := h.Posts.Count(ctx)
	if err != nil {
		return apperrors.Internal("Failed to load stats", err)
	}
	jobs, err := h.Jobs.Count(ctx)
	if err != nil {
		return apperrors.Internal("Failed to load stats", err)
	}
	apps, err := h.Applications.Count(ctx)
	if err != nil {
		return apperrors.Internal("Failed to load stats", err)
	}

	var users int64
	for _, n := range byStatus {
		users += n
	}
	return respond(c, fiber.StatusOK, "", fiber.Map{
		"users":        fiber.Map{"total": users, "byStatus": byStatus, "byCategory": byCategory},
		"posts":        posts,
		"jobs":         jobs,
		"applications": apps,
	})
}

type CreateAnnouncementReq struct {
	Message string `json:"message" validate:"required,max=2000"`
}

type UpdateAnnouncementReq struct {
	Message  *string `json:"message" validate:"omitempty,min=1,max=2000"`
	IsActive *bool   `json:"isActive"`
}

func (h *AdminHandler) ListAnnouncements(c *fiber.Ctx) error {
	list, err := h.Announcements.List(c.UserContext())
	if err != nil {
		return apperrors.Internal("Failed to list announcements", err)
	}
	return respond(c, fiber.StatusOK, "", list)
}

func (h *AdminHandler) CreateAnnouncement(c *fiber.Ctx) error {
	admin, err := currentUser(c)
	if err != nil {
		return err
	}
	var req CreateAnnouncementReq
	if err := bind(c, &req); err != nil {
		return err
	}
	req.Message = strings.TrimSpace(req.Message)
	if err := h.Validator.Struct(req); err != nil {
		return err
	}

	a := &models.Announcement{Message: req.Message, IsActive: true, CreatedBy: admin.ID}
	if err := h.Announcements.Create(c.UserContext(), a); err != nil {
		return apperrors.Internal("Failed to create announcement", err)
	}
	h.Notifier.AnnouncementPublished(a)
	return respond(c, fiber.StatusCreated, "Announcement published", a)
}

// UpdateAnnouncement pushes the announcement again when it is switched back on.
func (h *AdminHandler) UpdateAnnouncement(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateAnnouncementReq
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.Validator.Struct(req); err != nil {
		return err
	}

	ctx := c.UserContext()
	a, err := h.Announcements.ByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "Announcement not found")
	}
	wasActive := a.IsActive
	setTrimmed(&a.Message, req.Message)
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}
	if a.Message == "" {
		return apperrors.Validation(map[string]string{"message": "This field is required"})
	}
	if err := h.Announcements.Save(ctx, a); err != nil {
		return apperrors.Internal("Failed to update announcement", err)
	}
	if a.IsActive && !wasActive {
		h.Notifier.AnnouncementPublished(a)
	}
	return respond(c, fiber.StatusOK, "Announcement updated", a)
}

func (h *AdminHandler) DeleteAnnouncement(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Announcements.Delete(c.UserContext(), id); err != nil {
		return notFoundOr(err, "Announcement not found")
	}
	return respond(c, fiber.StatusOK, "Announcement deleted", nil)
}
