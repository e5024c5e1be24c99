package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("store: not found")
	ErrDuplicate = errors.New("store: duplicate")
)

// Store groups the gorm repositories over one pool.
type Store struct {
	DB            *gorm.DB
	Users         *UserStore
	Posts         *PostStore
	Jobs          *JobStore
	Applications  *ApplicationStore
	Announcements *AnnouncementStore
}

func New(gdb *gorm.DB) *Store {
	return &Store{
		DB:            gdb,
		Users:         &UserStore{db: gdb},
		Posts:         &PostStore{db: gdb},
		Jobs:          &JobStore{db: gdb},
		Applications:  &ApplicationStore{db: gdb},
		Announcements: &AnnouncementStore{db: gdb},
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type Page struct {
	Page  int
	Limit int
}

// NewPage clamps page to >= 1 and limit to [1, MaxLimit].
func NewPage(page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Page: page, Limit: limit}
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

func (p Page) apply(q *gorm.DB) *gorm.DB {
	if p.Limit == 0 {
		p = NewPage(p.Page, p.Limit)
	}
	return q.Offset(p.Offset()).Limit(p.Limit)
}

func likePattern(q string) string {
	q = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.TrimSpace(q))
	return "%" + strings.ToLower(q) + "%"
}
