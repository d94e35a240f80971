package job

import (
	"time"

	"github.com/Mehdi-Zafar/job-portal-app/internal/common"
)

type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusActive    Status = "ACTIVE"
	StatusClosed    Status = "CLOSED"
	StatusCancelled Status = "CANCELLED"
)

type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "FULL_TIME"
	EmploymentPartTime   EmploymentType = "PART_TIME"
	EmploymentContract   EmploymentType = "CONTRACT"
	EmploymentInternship EmploymentType = "INTERNSHIP"
	EmploymentTemporary  EmploymentType = "TEMPORARY"
)

type WorkplaceType string

const (
	WorkplaceOnSite WorkplaceType = "ON_SITE"
	WorkplaceRemote WorkplaceType = "REMOTE"
	WorkplaceHybrid WorkplaceType = "HYBRID"
)

type Posting struct {
	ID                  common.UUID    `json:"id"`
	EmployerProfileID   common.UUID    `json:"employer_profile_id"`
	JobTitle            string         `json:"job_title"`
	EmploymentType      EmploymentType `json:"employment_type"`
	WorkplaceType       WorkplaceType  `json:"workplace_type"`
	Location            string         `json:"location,omitempty"`
	Department          string         `json:"department"`
	JobSummary          string         `json:"job_summary"`
	JobDescription      string         `json:"job_description"`
	Responsibilities    []string       `json:"responsibilities"`
	Requirements        []string       `json:"requirements"`
	ExperienceLevel     string         `json:"experience_level"`
	YearsOfExperience   int            `json:"years_of_experience"`
	ShowSalary          bool           `json:"show_salary"`
	SalaryMin           float64        `json:"salary_min,omitempty"`
	SalaryMax           float64        `json:"salary_max,omitempty"`
	Currency            string         `json:"currency"`
	Benefits            []string       `json:"benefits,omitempty"`
	ApplicationDeadline *time.Time     `json:"application_deadline,omitempty"`
	ScreeningQuestions  []string       `json:"screening_questions,omitempty"`
	Status              Status         `json:"status"`
	ViewCount           int            `json:"view_count"`
	ApplicationCount    int            `json:"application_count"`
	PostedDate          *time.Time     `json:"posted_date,omitempty"`
	ClosedDate          *time.Time     `json:"closed_date,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// SearchFilter narrows the public ACTIVE-jobs listing.
type SearchFilter struct {
	Query          string
	Location       string
	EmploymentType EmploymentType
	WorkplaceType  WorkplaceType
	Department     string
	Limit          int
	Offset         int
}
