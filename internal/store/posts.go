package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sthapati/sthapati_be/internal/models"
)

type PostStore struct {
	db *gorm.DB
}

type PostFilter struct {
	Type     models.PostType
	AuthorID uuid.UUID
}

func (s *PostStore) Create(ctx context.Context, p *models.Post) error {
	return translate(s.db.WithContext(ctx).Create(p).Error)
}

func (s *PostStore) ByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var p models.Post
	err := s.db.WithContext(ctx).Preload("Author").First(&p, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *PostStore) Save(ctx context.Context, p *models.Post) error {
	return translate(s.db.WithContext(ctx).Omit("Author").Save(p).Error)
}

func (s *PostStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// List returns posts newest first.
func (s *PostStore) List(ctx context.Context, f PostFilter, p Page) ([]models.Post, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Post{})
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.AuthorID != uuid.Nil {
		q = q.Where("author_id = ?", f.AuthorID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := p.apply(q.Preload("Author").Order("created_at DESC")).Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (s *PostStore) CountArticles(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("author_id = ? AND type = ?", authorID, models.PostTypeArticle).
		Count(&n).Error
	return n, err
}

func (s *PostStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Post{}).Count(&n).Error
	return n, err
}

// ToggleLike likes or unlikes postID for userID and returns the new state and
// like count. The like row and the counter change in one transaction.
func (s *PostStore) ToggleLike(ctx context.Context, postID, userID uuid.UUID) (bool, int, error) {
	var (
		liked bool
		count int
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id").First(&post, "id = ?", postID).Error; err != nil {
			return translate(err)
		}

		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.PostLike{})
		if res.Error != nil {
			return res.Error
		}

		delta := -1
		if res.RowsAffected == 0 {
			if err := tx.Create(&models.PostLike{PostID: postID, UserID: userID}).Error; err != nil {
				return translate(err)
			}
			delta = 1
			liked = true
		}

		err := tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("likes_count", gorm.Expr("GREATEST(likes_count + ?, 0)", delta)).Error
		if err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Select("likes_count").Where("id = ?", postID).Scan(&count).Error
	})
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

func (s *PostStore) LikedBy(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.PostLike{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&n).Error
	return n > 0, err
}
