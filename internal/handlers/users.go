package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sthapati/sthapati_be/internal/apperrors"
	"github.com/sthapati/sthapati_be/internal/models"
	"github.com/sthapati/sthapati_be/internal/services/account"
	"github.com/sthapati/sthapati_be/internal/storage"
	"github.com/sthapati/sthapati_be/internal/store"
	"github.com/sthapati/sthapati_be/internal/validation"
)

const (
	maxGalleryImages = 50
	maxImageBytes    = 10 << 20
)

type UserHandler struct {
	Users     UserRepo
	Posts     PostRepo
	Storage   storage.Storage
	Validator *validation.Validator
	Sessions  SessionIssuer
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", u)
}

type ProjectReq struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Year        int    `json:"year" validate:"omitempty,min=1900,max=2100"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,url"`
}

type UpdateProfileReq struct {
	Name            *string       `json:"name" validate:"omitempty,min=1,max=120"`
	Phone           *string       `json:"phone" validate:"omitempty,min=8,max=20"`
	Bio             *string       `json:"bio" validate:"omitempty,max=2000"`
	Location        *string       `json:"location" validate:"omitempty,max=200"`
	Company         *string       `json:"company" validate:"omitempty,max=200"`
	Website         *string       `json:"website" validate:"omitempty,url"`
	AvatarURL       *string       `json:"avatarUrl" validate:"omitempty,url"`
	LicenseNumber   *string       `json:"licenseNumber" validate:"omitempty,max=60"`
	ExperienceYears *int          `json:"experienceYears" validate:"omitempty,min=0,max=80"`
	Skills          *[]string     `json:"skills" validate:"omitempty,max=50"`
	Projects        *[]ProjectReq `json:"projects" validate:"omitempty,max=50,dive"`
}

func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	var req UpdateProfileReq
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.Validator.Struct(req); err != nil {
		return err
	}

	ctx := c.UserContext()
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if phone != u.PhoneNumber() {
			taken, err := h.Users.PhoneTaken(ctx, phone, u.ID)
			if err != nil {
				return apperrors.Internal("Failed to check phone", err)
			}
			if taken {
				return apperrors.Conflict(msgPhoneExists)
			}
			u.Phone = &phone
			u.PhoneVerified = false
		}
	}

	setTrimmed(&u.Name, req.Name)
	setTrimmed(&u.Bio, req.Bio)
	setTrimmed(&u.Location, req.Location)
	setTrimmed(&u.Company, req.Company)
	setTrimmed(&u.Website, req.Website)
	setTrimmed(&u.AvatarURL, req.AvatarURL)
	setTrimmed(&u.LicenseNumber, req.LicenseNumber)
	if req.ExperienceYears != nil {
		u.ExperienceYears = *req.ExperienceYears
	}
	if req.Skills != nil {
		u.Skills = trimList(*req.Skills)
	}
	if req.Projects != nil {
		projects := make([]models.Project, 0, len(*req.Projects))
		for _, p := range *req.Projects {
			projects = append(projects, models.Project{
				Title:       strings.TrimSpace(p.Title),
				Description: strings.TrimSpace(p.Description),
				Year:        p.Year,
				ImageURL:    p.ImageURL,
			})
		}
		u.Projects = projects
	}
	if strings.TrimSpace(u.Name) == "" {
		return apperrors.Validation(map[string]string{"name": "This field is required"})
	}

	account.RefreshProfileComplete(u)
	if err := h.Users.Save(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return apperrors.Conflict(msgPhoneExists)
		}
		return apperrors.Internal("Failed to update profile", err)
	}

	if _, err := h.Sessions.Issue(c, u); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Profile updated", u)
}

func setTrimmed(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func (h *UserHandler) UploadGallery(c *fiber.Ctx) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	if len(u.Gallery) >= maxGalleryImages {
		return apperrors.BadRequest("Gallery is full")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return apperrors.BadRequest("Image file is required")
	}
	if file.Size > maxImageBytes {
		return apperrors.BadRequest("Image exceeds 10MB limit")
	}
	contentType := file.Header.Get("Content-Type")
	ext, ok := storage.ImageExt(contentType)
	if !ok {
		return apperrors.BadRequest("Only JPEG, PNG, WEBP or GIF images are allowed")
	}

	src, err := file.Open()
	if err != nil {
		return apperrors.BadRequest("Could not read upload")
	}
	defer src.Close()

	ctx := c.UserContext()
	key := storage.NewKey("gallery/"+u.ID.String(), ext)
	url, err := h.Storage.Save(ctx, key, src, contentType)
	if err != nil {
		return apperrors.Internal("Failed to store image", err)
	}

	u.Gallery = append(u.Gallery, url)
	if err := h.Users.Save(ctx, u); err != nil {
		_ = h.Storage.Delete(ctx, key)
		return apperrors.Internal("Failed to update gallery", err)
	}
	return respond(c, fiber.StatusCreated, "Image added", fiber.Map{"url": url, "gallery": u.Gallery})
}

type RemoveGalleryReq struct {
	URL string `json:"url" validate:"required"`
}

func (h *UserHandler) RemoveGallery(c *fiber.Ctx) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	var req RemoveGalleryReq
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.Validator.Struct(req); err != nil {
		return err
	}

	kept := make([]string, 0, len(u.Gallery))
	found := false
	for _, g := range u.Gallery {
		if g == req.URL && !found {
			found = true
			continue
		}
		kept = append(kept, g)
	}
	if !found {
		return apperrors.NotFound("Image not found in gallery")
	}

	ctx := c.UserContext()
	u.Gallery = kept
	if err := h.Users.Save(ctx, u); err != nil {
		return apperrors.Internal("Failed to update gallery", err)
	}
	if key, ok := storage.KeyFromURL(h.Storage, req.URL); ok {
		if err := h.Storage.Delete(ctx, key); err != nil {
			zap.L().Warn("gallery object not deleted", zap.String("key", key), zap.Error(err))
		}
	}
	return respond(c, fiber.StatusOK, "Image removed", fiber.Map{"gallery": u.Gallery})
}

// publicProfile hides contact details from other members.
func publicProfile(u *models.User) fiber.Map {
	return fiber.Map{
		"id":                u.ID,
		"name":              u.Name,
		"category":          u.Category,
		"status":            u.Status,
		"bio":               u.Bio,
		"location":          u.Location,
		"company":           u.Company,
		"website":           u.Website,
		"avatarUrl":         u.AvatarURL,
		"licenseNumber":     u.LicenseNumber,
		"experienceYears":   u.ExperienceYears,
		"skills":            u.Skills,
		"projects":          u.Projects,
		"gallery":           u.Gallery,
		"isProfileComplete": u.IsProfileComplete,
		"createdAt":         u.CreatedAt,
	}
}

// GetByID serves a member profile. Inactive accounts are visible only to
// admins and to their owner.
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	u, err := h.Users.ByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "User not found")
	}

	viewer, err := currentUser(c)
	if err != nil {
		return err
	}
	isAdmin := viewer.IsAdmin
	isSelf := viewer.ID == u.ID
	if u.Status != models.StatusActive && !isAdmin && !isSelf {
		return apperrors.NotFound("User not found")
	}

	articles, err := h.Posts.CountArticles(ctx, u.ID)
	if err != nil {
		return apperrors.Internal("Failed to count articles", err)
	}

	view := publicProfile(u)
	if isAdmin || isSelf {
		view["email"] = u.Email
		view["phone"] = u.PhoneNumber()
	}
	view["articleCount"] = articles
	return respond(c, fiber.StatusOK, "", view)
}

func (h *UserHandler) Directory(c *fiber.Ctx) error {
	f := store.UserFilter{OnlyActive: true, Query: c.Query("q")}
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
	out := make([]fiber.Map, 0, len(users))
	for i := range users {
		out = append(out, publicProfile(&users[i]))
	}
	return respondPage(c, out, p, total)
}
