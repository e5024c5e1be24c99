package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sthapati/sthapati_be/internal/models"
)

type UserStore struct {
	db *gorm.DB
}

type UserFilter struct {
	Status     *models.Status
	Category   models.Category
	Query      string
	OnlyActive bool
}

func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Create(u).Error)
}

func (s *UserStore) ByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *UserStore) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *UserStore) ByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("google_id = ?", googleID).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *UserStore) EmailTaken(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, "email = ?", email)
}

// PhoneTaken ignores the row of except, so a user can resubmit their own number.
func (s *UserStore) PhoneTaken(ctx context.Context, phone string, except uuid.UUID) (bool, error) {
	if except == uuid.Nil {
		return s.exists(ctx, "phone = ?", phone)
	}
	return s.exists(ctx, "phone = ? AND id <> ?", phone, except)
}

func (s *UserStore) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Where(query, args...).Limit(1).Count(&n).Error
	return n > 0, err
}

func (s *UserStore) Save(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Save(u).Error)
}

// AddDismissed appends announcementID to the user's dismissed set. Repeated
// calls leave the set unchanged.
func (s *UserStore) AddDismissed(ctx context.Context, userID, announcementID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "dismissed_announcements").
			First(&u, "id = ?", userID).Error
		if err != nil {
			return translate(err)
		}
		if u.HasDismissed(announcementID) {
			return nil
		}
		u.DismissedAnnouncements = append(u.DismissedAnnouncements, announcementID)
		return tx.Model(&models.User{}).Where("id = ?", userID).
			Update("dismissed_announcements", u.DismissedAnnouncements).Error
	})
}

func (s *UserStore) List(ctx context.Context, f UserFilter, p Page) ([]models.User, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.User{})
	if f.OnlyActive {
		q = q.Where("status = ?", models.StatusActive)
	} else if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Query != "" {
		pat := likePattern(f.Query)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(company) LIKE ? OR LOWER(location) LIKE ?", pat, pat, pat, pat)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := p.apply(q.Order("created_at DESC")).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

type GroupCount struct {
	Key   string
	Count int64
}

func (s *UserStore) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return s.countBy(ctx, "status")
}

func (s *UserStore) CountByCategory(ctx context.Context) (map[string]int64, error) {
	return s.countBy(ctx, "category")
}

func (s *UserStore) countBy(ctx context.Context, column string) (map[string]int64, error) {
	var rows []GroupCount
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Select("COALESCE(" + column + ", '') AS key, COUNT(*) AS count").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		key := r.Key
		if key == "" {
			key = "none"
		}
		out[key] += r.Count
	}
	return out, nil
}
