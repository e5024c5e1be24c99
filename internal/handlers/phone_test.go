package handlers

import (
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sthapati/sthapati_be/internal/metrics"
	"github.com/sthapati/sthapati_be/internal/models"
	"github.com/sthapati/sthapati_be/internal/otp"
	"github.com/sthapati/sthapati_be/internal/validation"
)

type phoneFixture struct {
	users    *mockUsers
	otp      *mockOTP
	sms      *mockSender
	notifier *mockNotifier
	app      *fiber.App
}

func newPhoneFixture(session *models.User) *phoneFixture {
	f := &phoneFixture{
		users:    new(mockUsers),
		otp:      new(mockOTP),
		sms:      new(mockSender),
		notifier: new(mockNotifier),
	}
	h := &PhoneHandler{
		Users:     f.users,
		OTP:       f.otp,
		SMS:       f.sms,
		Notifier:  f.notifier,
		Validator: validation.New(),
		Sessions:  testSessions,
		Metrics:   metrics.New(),
	}
	f.app = newTestApp()
	protected := authed(f.app, session)
	protected.Post("/phone/send-otp", h.SendOTP)
	protected.Post("/phone/verify", h.Verify)
	return f
}

func pendingUser(category models.Category) *models.User {
	phone := "+919844444444"
	return &models.User{
		ID:       uuid.New(),
		Name:     "Dev",
		Email:    "dev@example.com",
		Phone:    &phone,
		Category: category,
		Status:   models.StatusPending,
	}
}

func TestSendOTP(t *testing.T) {
	u := pendingUser(models.CategoryBuilder)
	f := newPhoneFixture(u)
	f.otp.On("Issue", mock.Anything, u.ID, "+919844444444").Return("123456", nil).Once()
	f.sms.On("Send", mock.Anything, "+919844444444", mock.MatchedBy(func(msg string) bool {
		return strings.Contains(msg, "123456")
	})).Return(nil).Once()

	resp, _ := do(t, f.app, fiber.MethodPost, "/phone/send-otp", fiber.Map{"phone": "+919844444444"}, u)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	f.sms.AssertExpectations(t)

	f.otp.On("Issue", mock.Anything, u.ID, "+919844444444").Return("", otp.ErrCooldown).Once()
	resp, _ = do(t, f.app, fiber.MethodPost, "/phone/send-otp", fiber.Map{"phone": "+919844444444"}, u)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestSendOTP_ForeignNumber(t *testing.T) {
	u := pendingUser(models.CategoryBuilder)
	f := newPhoneFixture(u)

	resp, env := do(t, f.app, fiber.MethodPost, "/phone/send-otp", fiber.Map{"phone": "+919855555555"}, u)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Phone number does not match your account", env.Message)
	f.otp.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerify_ActivatesNonArchitect(t *testing.T) {
	u := pendingUser(models.CategoryStudent)
	f := newPhoneFixture(u)
	f.otp.On("Verify", mock.Anything, u.ID, "+919844444444", "654321").Return(nil)
	f.users.On("Save", mock.Anything, u).Return(nil)
	f.notifier.On("AccountStatusChanged", mock.Anything, u, models.StatusPending).Return()

	resp, env := do(t, f.app, fiber.MethodPost, "/phone/verify",
		fiber.Map{"phone": "+919844444444", "code": "654321"}, u)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	assert.True(t, u.PhoneVerified)
	assert.Equal(t, models.StatusActive, u.Status)
	assert.NotNil(t, sessionCookieOf(resp))
	f.notifier.AssertExpectations(t)
}

func TestVerify_ArchitectStaysPending(t *testing.T) {
	u := pendingUser(models.CategoryArchitect)
	f := newPhoneFixture(u)
	f.otp.On("Verify", mock.Anything, u.ID, "+919844444444", "654321").Return(nil)
	f.users.On("Save", mock.Anything, u).Return(nil)

	resp, _ := do(t, f.app, fiber.MethodPost, "/phone/verify",
		fiber.Map{"phone": "+919844444444", "code": "654321"}, u)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, u.PhoneVerified)
	assert.Equal(t, models.StatusPending, u.Status)
	f.notifier.AssertNotCalled(t, "AccountStatusChanged", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerify_BannedUserStaysBanned(t *testing.T) {
	u := pendingUser(models.CategoryBuilder)
	u.Status = models.StatusBanned
	f := newPhoneFixture(u)
	f.otp.On("Verify", mock.Anything, u.ID, "+919844444444", "654321").Return(nil)
	f.users.On("Save", mock.Anything, u).Return(nil)

	resp, _ := do(t, f.app, fiber.MethodPost, "/phone/verify",
		fiber.Map{"phone": "+919844444444", "code": "654321"}, u)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, models.StatusBanned, u.Status)
}

func TestVerify_BadCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"invalid", otp.ErrInvalidCode},
		{"expired", otp.ErrExpired},
		{"too many attempts", otp.ErrTooManyAttempts},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := pendingUser(models.CategoryBuilder)
			f := newPhoneFixture(u)
			f.otp.On("Verify", mock.Anything, u.ID, "+919844444444", "000000").Return(tt.err)

			resp, _ := do(t, f.app, fiber.MethodPost, "/phone/verify",
				fiber.Map{"phone": "+919844444444", "code": "000000"}, u)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.False(t, u.PhoneVerified)
			f.users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}
