package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Category string

const (
	CategoryArchitect            Category = "Architect"
	CategoryContractor           Category = "Contractor"
	CategoryBuilder              Category = "Builder"
	CategoryAgency               Category = "Agency"
	CategoryMaterialSupplier     Category = "Material Supplier"
	CategoryEducationalInstitute Category = "Educational Institute"
	CategoryStudent              Category = "Student"
	CategoryTradeProfessional    Category = "Trade Professional"
)

var Categories = []Category{
	CategoryArchitect,
	CategoryContractor,
	CategoryBuilder,
	CategoryAgency,
	CategoryMaterialSupplier,
	CategoryEducationalInstitute,
	CategoryStudent,
	CategoryTradeProfessional,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory matches case-insensitively and returns the canonical spelling.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, known := range Categories {
		if strings.EqualFold(s, string(known)) {
			return known, true
		}
	}
	return "", false
}

type Status string

const (
	StatusNone     Status = ""
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusRejected Status = "rejected"
	StatusBanned   Status = "banned"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNone, StatusPending, StatusActive, StatusRejected, StatusBanned:
		return true
	}
	return false
}

type Project struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Year        int    `json:"year"`
	ImageURL    string `json:"imageUrl"`
}

type User struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	Email         string    `gorm:"uniqueIndex;not null" json:"email"`
	Password      string    `json:"-"`
	GoogleID      *string   `gorm:"type:varchar(64);uniqueIndex" json:"googleId,omitempty"`
	Phone         *string   `gorm:"type:varchar(30);uniqueIndex" json:"phone,omitempty"`
	PhoneVerified bool      `gorm:"default:false" json:"phoneVerified"`

	Category          Category `gorm:"type:varchar(40);index" json:"category"`
	Status            Status   `gorm:"type:varchar(20);index" json:"status"`
	IsAdmin           bool     `gorm:"default:false" json:"isAdmin"`
	IsProfileComplete bool     `gorm:"default:false" json:"isProfileComplete"`

	Bio             string                       `json:"bio"`
	Location        string                       `json:"location"`
	Company         string                       `json:"company"`
	Website         string                       `json:"website"`
	AvatarURL       string                       `json:"avatarUrl"`
	LicenseNumber   string                       `json:"licenseNumber"`
	ExperienceYears int                          `json:"experienceYears"`
	Skills          datatypes.JSONSlice[string]  `json:"skills"`
	Projects        datatypes.JSONSlice[Project] `json:"projects"`
	Gallery         datatypes.JSONSlice[string]  `json:"gallery"`

	DismissedAnnouncements datatypes.JSONSlice[uuid.UUID] `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) PhoneNumber() string {
	if u.Phone == nil {
		return ""
	}
	return *u.Phone
}

func (u *User) GoogleIDValue() string {
	if u.GoogleID == nil {
		return ""
	}
	return *u.GoogleID
}

func (u *User) HasDismissed(id uuid.UUID) bool {
	for _, d := range u.DismissedAnnouncements {
		if d == id {
			return true
		}
	}
	return false
}

// ProfileComplete reports whether the mandatory profile fields are filled in.
func (u *User) ProfileComplete() bool {
	if strings.TrimSpace(u.Name) == "" || strings.TrimSpace(u.PhoneNumber()) == "" {
		return false
	}
	if strings.TrimSpace(u.Location) == "" || strings.TrimSpace(u.Bio) == "" {
		return false
	}
	for _, s := range u.Skills {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}
