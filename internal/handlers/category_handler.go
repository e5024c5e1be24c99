package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sthapati/sthapati_be/internal/apperrors"
	"github.com/sthapati/sthapati_be/internal/models"
)

type CategoryHandler struct {
	Users UserRepo
}

func NewCategoryHandler(users UserRepo) *CategoryHandler {
	return &CategoryHandler{Users: users}
}

// GetCategories lists the professional categories in display order with the
// number of members in each, along with the job and post types forms offer.
func (h *CategoryHandler) GetCategories(c *fiber.Ctx) error {
	counts, err := h.Users.CountByCategory(c.UserContext())
	if err != nil {
		return apperrors.Internal("Failed to load categories", err)
	}

	categories := make([]fiber.Map, 0, len(models.Categories))
	for _, cat := range models.Categories {
		categories = append(categories, fiber.Map{
			"name":    cat,
			"members": counts[string(cat)],
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"categories": categories,
			"jobTypes": []models.JobType{
				models.JobTypeFullTime,
				models.JobTypePartTime,
				models.JobTypeContract,
				models.JobTypeInternship,
				models.JobTypeFreelance,
			},
			"postTypes": []models.PostType{models.PostTypePost, models.PostTypeArticle, models.PostTypeGallery},
		},
	})
}
