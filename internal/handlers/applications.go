package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sthapati/sthapati_be/internal/apperrors"
	"github.com/sthapati/sthapati_be/internal/models"
	"github.com/sthapati/sthapati_be/internal/validation"
)

type ApplicationHandler struct {
	Applications ApplicationRepo
	Validator    *validation.Validator
}

func (h *ApplicationHandler) Mine(c *fiber.Ctx) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	apps, err := h.Applications.ListByApplicant(c.UserContext(), u.ID)
	if err != nil {
		return apperrors.Internal("Failed to list applications", err)
	}
	return respond(c, fiber.StatusOK, "", apps)
}

type UpdateApplicationStatusReq struct {
	Status string `json:"status" validate:"required,oneof=applied reviewed shortlisted rejected hired"`
}

// UpdateStatus is reserved for the poster of the job applied to.
func (h *ApplicationHandler) UpdateStatus(c *fiber.Ctx) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateApplicationStatusReq
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.Validator.Struct(req); err != nil {
		return err
	}

	ctx := c.UserContext()
	app, err := h.Applications.ByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "Application not found")
	}
	if app.Job == nil || app.Job.PosterID != u.ID {
		return apperrors.Forbidden("Only the job poster can update this application")
	}

	status := models.ApplicationStatus(req.Status)
	if err := h.Applications.UpdateStatus(ctx, app.ID, status); err != nil {
		return notFoundOr(err, "Application not found")
	}
	app.Status = status
	return respond(c, fiber.StatusOK, "Application updated", app)
}
