package handlers

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sthapati/sthapati_be/internal/models"
	"github.com/sthapati/sthapati_be/internal/store"
)

var annNow = time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

func newAnnouncementApp(anns *mockAnnouncements, users *mockUsers, session *models.User) *fiber.App {
	h := &AnnouncementHandler{Announcements: anns, Users: users, Now: func() time.Time { return annNow }}
	app := newTestApp()
	protected := authed(app, session)
	protected.Get("/announcements/active", h.Active)
	protected.Post("/announcements/:id/dismiss", h.Dismiss)
	return app
}

func TestActiveAnnouncements_Visibility(t *testing.T) {
	fresh := models.Announcement{ID: uuid.New(), Message: "Maintenance tonight", IsActive: true, CreatedAt: annNow.Add(-time.Hour)}
	dismissed := models.Announcement{ID: uuid.New(), Message: "Old news", IsActive: true, CreatedAt: annNow.Add(-2 * time.Hour)}
	stale := models.Announcement{ID: uuid.New(), Message: "Yesterday", IsActive: true, CreatedAt: annNow.Add(-25 * time.Hour)}

	u := activeUser("tara")
	u.DismissedAnnouncements = []uuid.UUID{dismissed.ID}

	anns := new(mockAnnouncements)
	anns.On("Active", mock.Anything, annNow).Return([]models.Announcement{fresh, dismissed, stale}, nil)

	resp, env := do(t, newAnnouncementApp(anns, new(mockUsers), u), fiber.MethodGet, "/announcements/active", nil, u)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	got := decode[[]models.Announcement](t, env.Data)
	require.Len(t, got, 1)
	assert.Equal(t, fresh.ID, got[0].ID)
}

func TestDismissAnnouncement(t *testing.T) {
	u := activeUser("tara")
	a := &models.Announcement{ID: uuid.New(), IsActive: true, CreatedAt: annNow}

	anns := new(mockAnnouncements)
	anns.On("ByID", mock.Anything, a.ID).Return(a, nil)
	users := new(mockUsers)
	users.On("AddDismissed", mock.Anything, u.ID, a.ID).Return(nil).Twice()
	app := newAnnouncementApp(anns, users, u)

	for i := 0; i < 2; i++ {
		resp, _ := do(t, app, fiber.MethodPost, "/announcements/"+a.ID.String()+"/dismiss", nil, u)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
	users.AssertExpectations(t)

	missing := uuid.New()
	anns.On("ByID", mock.Anything, missing).Return(nil, store.ErrNotFound)
	resp, _ := do(t, app, fiber.MethodPost, "/announcements/"+missing.String()+"/dismiss", nil, u)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
