package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sthapati/sthapati_be/internal/models"
	"github.com/sthapati/sthapati_be/internal/store"
)

type UserRepo interface {
	Create(ctx context.Context, u *models.User) error
	ByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	PhoneTaken(ctx context.Context, phone string, except uuid.UUID) (bool, error)
	Save(ctx context.Context, u *models.User) error
	AddDismissed(ctx context.Context, userID, announcementID uuid.UUID) error
	List(ctx context.Context, f store.UserFilter, p store.Page) ([]models.User, int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountByCategory(ctx context.Context) (map[string]int64, error)
}

type PostRepo interface {
	Create(ctx context.Context, p *models.Post) error
	ByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	Save(ctx context.Context, p *models.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f store.PostFilter, p store.Page) ([]models.Post, int64, error)
	CountArticles(ctx context.Context, authorID uuid.UUID) (int64, error)
	Count(ctx context.Context) (int64, error)
	ToggleLike(ctx context.Context, postID, userID uuid.UUID) (bool, int, error)
	LikedBy(ctx context.Context, postID, userID uuid.UUID) (bool, error)
}

type JobRepo interface {
	Create(ctx context.Context, j *models.Job) error
	ByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	Save(ctx context.Context, j *models.Job) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f store.JobFilter, p store.Page) ([]models.Job, int64, error)
	Count(ctx context.Context) (int64, error)
}

type ApplicationRepo interface {
	Create(ctx context.Context, a *models.Application) error
	Exists(ctx context.Context, jobID, applicantID uuid.UUID) (bool, error)
	ByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Application, error)
	ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]models.Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) error
	Count(ctx context.Context) (int64, error)
}

type AnnouncementRepo interface {
	Create(ctx context.Context, a *models.Announcement) error
	ByID(ctx context.Context, id uuid.UUID) (*models.Announcement, error)
	Save(ctx context.Context, a *models.Announcement) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]models.Announcement, error)
	Active(ctx context.Context, now time.Time) ([]models.Announcement, error)
}

type OTPStore interface {
	Issue(ctx context.Context, userID uuid.UUID, phone string) (string, error)
	Verify(ctx context.Context, userID uuid.UUID, phone, code string) error
}

type Notifier interface {
	AccountStatusChanged(ctx context.Context, u *models.User, from models.Status)
	AnnouncementPublished(a *models.Announcement)
}
