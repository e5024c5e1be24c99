package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sthapati/sthapati_be/internal/apperrors"
	"github.com/sthapati/sthapati_be/internal/models"
)

type AnnouncementHandler struct {
	Announcements AnnouncementRepo
	Users         UserRepo
	Now           func() time.Time
}

func (h *AnnouncementHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// Active lists announcements that are switched on, younger than a day and
// not dismissed by the session user.
func (h *AnnouncementHandler) Active(c *fiber.Ctx) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	now := h.now()
	all, err := h.Announcements.Active(c.UserContext(), now)
	if err != nil {
		return apperrors.Internal("Failed to load announcements", err)
	}
	visible := make([]models.Announcement, 0, len(all))
	for i := range all {
		if all[i].VisibleTo(u, now) {
			visible = append(visible, all[i])
		}
	}
	return respond(c, fiber.StatusOK, "", visible)
}

func (h *AnnouncementHandler) Dismiss(c *fiber.Ctx) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	if _, err := h.Announcements.ByID(ctx, id); err != nil {
		return notFoundOr(err, "Announcement not found")
	}
	if err := h.Users.AddDismissed(ctx, u.ID, id); err != nil {
		return notFoundOr(err, "User not found")
	}
	return respond(c, fiber.StatusOK, "Announcement dismissed", nil)
}
