package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/sthapati/sthapati_be/internal/apperrors"
	"github.com/sthapati/sthapati_be/internal/metrics"
	"github.com/sthapati/sthapati_be/internal/models"
	"github.com/sthapati/sthapati_be/internal/store"
	"github.com/sthapati/sthapati_be/internal/validation"
)

const msgAlreadyApplied = "You have already applied for this job"

type JobHandler struct {
	Jobs         JobRepo
	Applications ApplicationRepo
	Validator    *validation.Validator
	Metrics      *metrics.Metrics
	Now          func() time.Time
}

func (h *JobHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

type CreateJobReq struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"required,max=20000"`
	Company     string     `json:"company" validate:"max=200"`
	Location    string     `json:"location" validate:"max=200"`
	JobType     string     `json:"jobType" validate:"omitempty,oneof=full_time part_time contract internship freelance"`
	Skills      []string   `json:"skills" validate:"omitempty,max=30"`
	SalaryMin   int64      `json:"salaryMin" validate:"min=0"`
	SalaryMax   int64      `json:"salaryMax" validate:"min=0"`
	Deadline    *time.Time `json:"deadline"`
}

type UpdateJobReq struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description" validate:"omitempty,min=1,max=20000"`
	Company     *string    `json:"company" validate:"omitempty,max=200"`
	Location    *string    `json:"location" validate:"omitempty,max=200"`
	JobType     *string    `json:"jobType" validate:"omitempty,oneof=full_time part_time contract internship freelance"`
	Skills      *[]string  `json:"skills" validate:"omitempty,max=30"`
	SalaryMin   *int64     `json:"salaryMin" validate:"omitempty,min=0"`
	SalaryMax   *int64     `json:"salaryMax" validate:"omitempty,min=0"`
	Deadline    *time.Time `json:"deadline"`
	IsOpen      *bool      `json:"isOpen"`
}

type ApplyReq struct {
	CoverLetter string `json:"coverLetter" validate:"max=5000"`
	ResumeURL   string `json:"resumeUrl" validate:"omitempty,url"`
}

func (h *JobHandler) List(c *fiber.Ctx) error {
	f := store.JobFilter{
		Query:    c.Query("q"),
		Location: c.Query("location"),
	}
	if raw := c.Query("jobType"); raw != "" {
		t := models.JobType(strings.ToLower(raw))
		if !t.Valid() {
			return apperrors.BadRequest("Unknown job type")
		}
		f.JobType = t
	}
	if raw := c.Query("poster"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperrors.BadRequest("Invalid poster")
		}
		f.PosterID = id
		f.IncludeClosed = true
	}

	p := pageFrom(c)
	jobs, total, err := h.Jobs.List(c.UserContext(), f, p)
	if err != nil {
		return apperrors.Internal("Failed to list jobs", err)
	}
	for i := range jobs {
		if jobs[i].Poster != nil {
			jobs[i].Poster = authorView(jobs[i].Poster)
		}
	}
	return respondPage(c, jobs, p, total)
}

func (h *JobHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	job, err := h.Jobs.ByID(c.UserContext(), id)
	if err != nil {
		return notFoundOr(err, "Job not found")
	}
	if job.Poster != nil {
		job.Poster = authorView(job.Poster)
	}
	return respond(c, fiber.StatusOK, "", job)
}

func (h *JobHandler) Create(c *fiber.Ctx) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	var req CreateJobReq
	if err := bind(c, &req); err != nil {
		return err
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if err := h.Validator.Struct(req); err != nil {
		return err
	}
	if req.SalaryMax > 0 && req.SalaryMax < req.SalaryMin {
		return apperrors.Validation(map[string]string{"salaryMax": "Must not be less than salaryMin"})
	}
	if req.Deadline != nil && !req.Deadline.After(h.now()) {
		return apperrors.Validation(map[string]string{"deadline": "Must be in the future"})
	}

	jobType := models.JobTypeFullTime
	if req.JobType != "" {
		jobType = models.JobType(req.JobType)
	}
	job := &models.Job{
		PosterID:    u.ID,
		Title:       req.Title,
		Description: req.Description,
		Company:     strings.TrimSpace(req.Company),
		Location:    strings.TrimSpace(req.Location),
		JobType:     jobType,
		Skills:      trimList(req.Skills),
		SalaryMin:   req.SalaryMin,
		SalaryMax:   req.SalaryMax,
		Deadline:    req.Deadline,
		IsOpen:      true,
	}
	if err := h.Jobs.Create(c.UserContext(), job); err != nil {
		return apperrors.Internal("Failed to create job", err)
	}
	return respond(c, fiber.StatusCreated, "Job posted", job)
}

func (h *JobHandler) Update(c *fiber.Ctx) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateJobReq
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.Validator.Struct(req); err != nil {
		return err
	}

	ctx := c.UserContext()
	job, err := h.Jobs.ByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "Job not found")
	}
	if job.PosterID != u.ID {
		return apperrors.Forbidden("Only the poster can edit this job")
	}

	setTrimmed(&job.Title, req.Title)
	setTrimmed(&job.Description, req.Description)
	setTrimmed(&job.Company, req.Company)
	setTrimmed(&job.Location, req.Location)
	if req.JobType != nil {
		job.JobType = models.JobType(*req.JobType)
	}
	if req.Skills != nil {
		job.Skills = trimList(*req.Skills)
	}
	if req.SalaryMin != nil {
		job.SalaryMin = *req.SalaryMin
	}
	if req.SalaryMax != nil {
		job.SalaryMax = *req.SalaryMax
	}
	if req.Deadline != nil {
		job.Deadline = req.Deadline
	}
	if req.IsOpen != nil {
		job.IsOpen = *req.IsOpen
	}
	if job.SalaryMax > 0 && job.SalaryMax < job.SalaryMin {
		return apperrors.Validation(map[string]string{"salaryMax": "Must not be less than salaryMin"})
	}

	if err := h.Jobs.Save(ctx, job); err != nil {
		return apperrors.Internal("Failed to update job", err)
	}
	if job.Poster != nil {
		job.Poster = authorView(job.Poster)
	}
	return respond(c, fiber.StatusOK, "Job updated", job)
}

func (h *JobHandler) Delete(c *fiber.Ctx) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	job, err := h.Jobs.ByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "Job not found")
	}
	if job.PosterID != u.ID && !u.IsAdmin {
		return apperrors.Forbidden("You cannot delete this job")
	}
	if err := h.Jobs.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Job not found")
	}
	return respond(c, fiber.StatusOK, "Job deleted", nil)
}

// Apply records one application per (job, applicant). The existence check
// catches the common case; the unique index catches concurrent submissions.
func (h *JobHandler) Apply(c *fiber.Ctx) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req ApplyReq
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.Validator.Struct(req); err != nil {
		return err
	}

	ctx := c.UserContext()
	job, err := h.Jobs.ByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "Job not found")
	}
	if job.PosterID == u.ID {
		return apperrors.BadRequest("You cannot apply to your own job")
	}
	if !job.AcceptsApplications(h.now()) {
		return apperrors.BadRequest("This job is no longer accepting applications")
	}

	exists, err := h.Applications.Exists(ctx, job.ID, u.ID)
	if err != nil {
		return apperrors.Internal("Failed to check application", err)
	}
	if exists {
		return apperrors.BadRequest(msgAlreadyApplied)
	}

	app := &models.Application{
		JobID:       job.ID,
		ApplicantID: u.ID,
		CoverLetter: strings.TrimSpace(req.CoverLetter),
		ResumeURL:   strings.TrimSpace(req.ResumeURL),
		Status:      models.ApplicationApplied,
	}
	if err := h.Applications.Create(ctx, app); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return apperrors.BadRequest(msgAlreadyApplied)
		}
		return apperrors.Internal("Failed to submit application", err)
	}
	h.Metrics.Applications.Inc()
	return respond(c, fiber.StatusCreated, "Application submitted", app)
}

func (h *JobHandler) ListApplications(c *fiber.Ctx) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	job, err := h.Jobs.ByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "Job not found")
	}
	if job.PosterID != u.ID && !u.IsAdmin {
		return apperrors.Forbidden("Only the poster can view applications")
	}

	apps, err := h.Applications.ListByJob(ctx, job.ID)
	if err != nil {
		return apperrors.Internal("Failed to list applications", err)
	}
	for i := range apps {
		if apps[i].Applicant != nil {
			apps[i].Applicant = applicantView(apps[i].Applicant)
		}
	}
	return respond(c, fiber.StatusOK, "", apps)
}

// applicantView keeps the contact details a poster needs to reach an applicant.
func applicantView(u *models.User) *models.User {
	v := authorView(u)
	v.Email = u.Email
	v.Phone = u.Phone
	v.Skills = u.Skills
	v.ExperienceYears = u.ExperienceYears
	return v
}
