package models

import (
	"time"

	"github.com/google/uuid"
)

const AnnouncementLifetime = 24 * time.Hour

type Announcement struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	IsActive  bool      `gorm:"default:true;index" json:"isActive"`
	CreatedBy uuid.UUID `gorm:"type:uuid" json:"createdBy"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	ExpiresAt time.Time `gorm:"index" json:"expiresAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// VisibleTo reports whether u should see a in the active list at now.
func (a *Announcement) VisibleTo(u *User, now time.Time) bool {
	if !a.IsActive {
		return false
	}
	if now.Sub(a.CreatedAt) >= AnnouncementLifetime {
		return false
	}
	return u == nil || !u.HasDismissed(a.ID)
}
