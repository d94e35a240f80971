package profile

import (
	"time"

	"github.com/Mehdi-Zafar/job-portal-app/internal/common"
)

// ApplicantProfile gatekeeps the ability to submit applications:
// only complete profiles may apply.
type ApplicantProfile struct {
	ID                  common.UUID `json:"id"`
	UserID              common.UUID `json:"user_id"`
	FullName            string      `json:"full_name"`
	Phone               string      `json:"phone,omitempty"`
	ResumeURL           string      `json:"resume_url,omitempty"`
	CurrentTitle        string      `json:"current_title,omitempty"`
	ProfessionalSummary string      `json:"professional_summary,omitempty"`
	CurrentLocation     string      `json:"current_location,omitempty"`
	ExperienceYears     int         `json:"experience_years"`
	IsProfileComplete   bool        `json:"is_profile_complete"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// EmployerProfile gatekeeps the ability to post jobs.
type EmployerProfile struct {
	ID                 common.UUID `json:"id"`
	UserID             common.UUID `json:"user_id"`
	CompanyName        string      `json:"company_name"`
	CompanySize        string      `json:"company_size,omitempty"`
	Industry           string      `json:"industry,omitempty"`
	CompanyWebsite     string      `json:"company_website,omitempty"`
	CompanyDescription string      `json:"company_description,omitempty"`
	CompanyLogoURL     string      `json:"company_logo_url,omitempty"`
	IsVerified         bool        `json:"is_verified"`
	IsProfileComplete  bool        `json:"is_profile_complete"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}
