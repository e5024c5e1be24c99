package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type JobType string

const (
	JobTypeFullTime   JobType = "full_time"
	JobTypePartTime   JobType = "part_time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
	JobTypeFreelance  JobType = "freelance"
)

func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship, JobTypeFreelance:
		return true
	}
	return false
}

type Job struct {
	ID          uuid.UUID                   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PosterID    uuid.UUID                   `gorm:"type:uuid;index;not null" json:"posterId"`
	Title       string                      `gorm:"not null" json:"title"`
	Description string                      `gorm:"type:text" json:"description"`
	Company     string                      `json:"company"`
	Location    string                      `gorm:"index" json:"location"`
	JobType     JobType                     `gorm:"type:varchar(20);index" json:"jobType"`
	Skills      datatypes.JSONSlice[string] `json:"skills"`
	SalaryMin   int64                       `json:"salaryMin"`
	SalaryMax   int64                       `json:"salaryMax"`
	Deadline    *time.Time                  `json:"deadline,omitempty"`
	IsOpen      bool                        `gorm:"default:true;index" json:"isOpen"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Poster *User `gorm:"foreignKey:PosterID" json:"poster,omitempty"`
}

// AcceptsApplications is false once the job is closed or its deadline has passed.
func (j *Job) AcceptsApplications(now time.Time) bool {
	if !j.IsOpen {
		return false
	}
	return j.Deadline == nil || now.Before(*j.Deadline)
}
