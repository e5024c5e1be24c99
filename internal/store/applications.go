package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sthapati/sthapati_be/internal/models"
)

type ApplicationStore struct {
	db *gorm.DB
}

// Create returns ErrDuplicate when the applicant already applied to the job.
func (s *ApplicationStore) Create(ctx context.Context, a *models.Application) error {
	return translate(s.db.WithContext(ctx).Omit("Job", "Applicant").Create(a).Error)
}

func (s *ApplicationStore) Exists(ctx context.Context, jobID, applicantID uuid.UUID) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Application{}).
		Where("job_id = ? AND applicant_id = ?", jobID, applicantID).
		Count(&n).Error
	return n > 0, err
}

func (s *ApplicationStore) ByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	var a models.Application
	if err := s.db.WithContext(ctx).Preload("Job").First(&a, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (s *ApplicationStore) ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	err := s.db.WithContext(ctx).Preload("Applicant").
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

func (s *ApplicationStore) ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	err := s.db.WithContext(ctx).Preload("Job").
		Where("applicant_id = ?", applicantID).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

func (s *ApplicationStore) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) error {
	res := s.db.WithContext(ctx).Model(&models.Application{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ApplicationStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Application{}).Count(&n).Error
	return n, err
}
