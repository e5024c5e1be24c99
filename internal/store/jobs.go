package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sthapati/sthapati_be/internal/models"
)

type JobStore struct {
	db *gorm.DB
}

type JobFilter struct {
	Query    string
	Location string
	JobType  models.JobType
	PosterID uuid.UUID
	// IncludeClosed lists closed jobs too; the public board shows open ones.
	IncludeClosed bool
}

func (s *JobStore) Create(ctx context.Context, j *models.Job) error {
	return translate(s.db.WithContext(ctx).Create(j).Error)
}

func (s *JobStore) ByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var j models.Job
	if err := s.db.WithContext(ctx).Preload("Poster").First(&j, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &j, nil
}

func (s *JobStore) Save(ctx context.Context, j *models.Job) error {
	return translate(s.db.WithContext(ctx).Omit("Poster").Save(j).Error)
}

// Delete removes the job and its applications.
func (s *JobStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", id).Delete(&models.Application{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Job{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *JobStore) List(ctx context.Context, f JobFilter, p Page) ([]models.Job, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Job{})
	if !f.IncludeClosed {
		q = q.Where("is_open = ?", true)
	}
	if f.Query != "" {
		pat := likePattern(f.Query)
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(company) LIKE ?", pat, pat, pat)
	}
	if f.Location != "" {
		q = q.Where("LOWER(location) LIKE ?", likePattern(f.Location))
	}
	if f.JobType != "" {
		q = q.Where("job_type = ?", f.JobType)
	}
	if f.PosterID != uuid.Nil {
		q = q.Where("poster_id = ?", f.PosterID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobs []models.Job
	if err := p.apply(q.Preload("Poster").Order("created_at DESC")).Find(&jobs).Error; err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (s *JobStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Job{}).Count(&n).Error
	return n, err
}
