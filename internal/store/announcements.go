package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sthapati/sthapati_be/internal/models"
)

type AnnouncementStore struct {
	db *gorm.DB
}

// Create stamps CreatedAt and ExpiresAt when they are unset.
func (s *AnnouncementStore) Create(ctx context.Context, a *models.Announcement) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	if a.ExpiresAt.IsZero() {
		a.ExpiresAt = a.CreatedAt.Add(models.AnnouncementLifetime)
	}
	return translate(s.db.WithContext(ctx).Create(a).Error)
}

func (s *AnnouncementStore) ByID(ctx context.Context, id uuid.UUID) (*models.Announcement, error) {
	var a models.Announcement
	if err := s.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (s *AnnouncementStore) Save(ctx context.Context, a *models.Announcement) error {
	return translate(s.db.WithContext(ctx).Save(a).Error)
}

func (s *AnnouncementStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&models.Announcement{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *AnnouncementStore) List(ctx context.Context) ([]models.Announcement, error) {
	var out []models.Announcement
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

// Active returns announcements that are switched on and younger than 24h at now.
// Per-user dismissal is applied by the caller.
func (s *AnnouncementStore) Active(ctx context.Context, now time.Time) ([]models.Announcement, error) {
	var out []models.Announcement
	err := s.db.WithContext(ctx).
		Where("is_active = ? AND created_at > ?", true, now.Add(-models.AnnouncementLifetime)).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// PurgeExpired deletes rows past their expiry and reports how many went.
func (s *AnnouncementStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.Announcement{})
	return res.RowsAffected, res.Error
}
