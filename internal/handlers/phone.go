package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sthapati/sthapati_be/internal/apperrors"
	"github.com/sthapati/sthapati_be/internal/metrics"
	"github.com/sthapati/sthapati_be/internal/models"
	"github.com/sthapati/sthapati_be/internal/otp"
	"github.com/sthapati/sthapati_be/internal/services/account"
	"github.com/sthapati/sthapati_be/internal/validation"
)

type PhoneHandler struct {
	Users     UserRepo
	OTP       OTPStore
	SMS       otp.Sender
	Notifier  Notifier
	Validator *validation.Validator
	Sessions  SessionIssuer
	Metrics   *metrics.Metrics
}

type SendOTPReq struct {
	Phone string `json:"phone" validate:"required,min=8,max=20"`
}

type VerifyOTPReq struct {
	Phone string `json:"phone" validate:"required,min=8,max=20"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// ownPhone rejects numbers other than the one stored on the session user, so
// a code can only ever verify the caller's own account.
func ownPhone(u *models.User, phone string) error {
	if u.PhoneNumber() == "" {
		return apperrors.BadRequest("Add a phone number to your profile first")
	}
	if u.PhoneNumber() != phone {
		return apperrors.BadRequest("Phone number does not match your account")
	}
	return nil
}

func (h *PhoneHandler) SendOTP(c *fiber.Ctx) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	var req SendOTPReq
	if err := bind(c, &req); err != nil {
		return err
	}
	req.Phone = strings.TrimSpace(req.Phone)
	if err := h.Validator.Struct(req); err != nil {
		return err
	}
	if err := ownPhone(u, req.Phone); err != nil {
		return err
	}
	if u.PhoneVerified {
		return apperrors.BadRequest("Phone number already verified")
	}

	ctx := c.UserContext()
	code, err := h.OTP.Issue(ctx, u.ID, req.Phone)
	if errors.Is(err, otp.ErrCooldown) {
		return apperrors.TooManyRequests("Please wait before requesting another code")
	}
	if err != nil {
		return apperrors.Internal("Failed to issue code", err)
	}

	msg := fmt.Sprintf("Your Sthāpati verification code is %s", code)
	if err := h.SMS.Send(ctx, req.Phone, msg); err != nil {
		return apperrors.Internal("Failed to send code", err)
	}
	h.Metrics.OTPSent.Inc()

	return respond(c, fiber.StatusOK, "Verification code sent", nil)
}

func (h *PhoneHandler) Verify(c *fiber.Ctx) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	var req VerifyOTPReq
	if err := bind(c, &req); err != nil {
		return err
	}
	req.Phone = strings.TrimSpace(req.Phone)
	req.Code = strings.TrimSpace(req.Code)
	if err := h.Validator.Struct(req); err != nil {
		return err
	}
	if err := ownPhone(u, req.Phone); err != nil {
		return err
	}

	ctx := c.UserContext()
	switch err := h.OTP.Verify(ctx, u.ID, req.Phone, req.Code); {
	case errors.Is(err, otp.ErrTooManyAttempts):
		return apperrors.BadRequest("Too many attempts, request a new code")
	case errors.Is(err, otp.ErrExpired), errors.Is(err, otp.ErrInvalidCode):
		return apperrors.BadRequest("Invalid or expired code")
	case err != nil:
		return apperrors.Internal("Failed to verify code", err)
	}

	from := u.Status
	activated := account.MarkPhoneVerified(u)
	account.RefreshProfileComplete(u)
	if err := h.Users.Save(ctx, u); err != nil {
		return apperrors.Internal("Failed to save user", err)
	}
	if activated {
		zap.L().Info("account activated by phone verification", zap.Stringer("user", u.ID))
		if h.Notifier != nil {
			h.Notifier.AccountStatusChanged(ctx, u, from)
		}
	}

	claims, err := h.Sessions.Issue(c, u)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Phone number verified", fiber.Map{
		"user":    u,
		"session": claimsView(claims),
	})
}
