package models

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	ApplicationApplied     ApplicationStatus = "applied"
	ApplicationReviewed    ApplicationStatus = "reviewed"
	ApplicationShortlisted ApplicationStatus = "shortlisted"
	ApplicationRejected    ApplicationStatus = "rejected"
	ApplicationHired       ApplicationStatus = "hired"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationApplied, ApplicationReviewed, ApplicationShortlisted, ApplicationRejected, ApplicationHired:
		return true
	}
	return false
}

// Application is unique per (job, applicant).
type Application struct {
	ID          uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	JobID       uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_application_job_applicant" json:"jobId"`
	ApplicantID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_application_job_applicant;index" json:"applicantId"`
	CoverLetter string            `gorm:"type:text" json:"coverLetter"`
	ResumeURL   string            `json:"resumeUrl"`
	Status      ApplicationStatus `gorm:"type:varchar(20);default:applied" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Job       *Job  `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Applicant *User `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
}
