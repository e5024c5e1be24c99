package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PostType string

const (
	PostTypePost    PostType = "post"
	PostTypeArticle PostType = "article"
	PostTypeGallery PostType = "gallery"
)

func (t PostType) Valid() bool {
	switch t {
	case PostTypePost, PostTypeArticle, PostTypeGallery:
		return true
	}
	return false
}

type Post struct {
	ID         uuid.UUID                   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AuthorID   uuid.UUID                   `gorm:"type:uuid;index;not null" json:"authorId"`
	Type       PostType                    `gorm:"type:varchar(20);index;not null" json:"type"`
	Title      string                      `json:"title"`
	Content    string                      `gorm:"type:text;not null" json:"content"`
	Images     datatypes.JSONSlice[string] `json:"images"`
	Tags       datatypes.JSONSlice[string] `json:"tags"`
	LikesCount int                         `gorm:"default:0" json:"likesCount"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

type PostLike struct {
	PostID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"postId"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
