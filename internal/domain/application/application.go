package application

import (
	"time"

	"github.com/Mehdi-Zafar/job-portal-app/internal/common"
)

type Status string

const (
	StatusSubmitted          Status = "SUBMITTED"
	StatusReviewed           Status = "REVIEWED"
	StatusShortlisted        Status = "SHORTLISTED"
	StatusInterviewScheduled Status = "INTERVIEW_SCHEDULED"
	StatusInterviewed        Status = "INTERVIEWED"
	StatusOffered            Status = "OFFERED"
	StatusAccepted           Status = "ACCEPTED"
	StatusRejected           Status = "REJECTED"
	StatusWithdrawn          Status = "WITHDRAWN"
)

// Statuses is the closed enumeration, in lifecycle order.
var Statuses = []Status{
	StatusSubmitted,
	StatusReviewed,
	StatusShortlisted,
	StatusInterviewScheduled,
	StatusInterviewed,
	StatusOffered,
	StatusAccepted,
	StatusRejected,
	StatusWithdrawn,
}

// IsKnown reports whether s is one of the enumerated statuses.
func (s Status) IsKnown() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s has no outbound transitions.
func (s Status) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected || s == StatusWithdrawn
}

type Application struct {
	ID                 common.UUID `json:"id"`
	JobPostingID       common.UUID `json:"job_posting_id"`
	ApplicantProfileID common.UUID `json:"applicant_profile_id"`
	CoverLetter        string      `json:"cover_letter,omitempty"`
	ResumeURL          string      `json:"resume_url,omitempty"`
	ScreeningAnswers   []string    `json:"screening_answers"`
	Status             Status      `json:"status"`
	AppliedAt          time.Time   `json:"applied_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// Action tags carried by audit activities.
const (
	ActionSubmitted     = "application_submitted"
	ActionStatusChanged = "status_changed"
	ActionNoteAdded     = "note_added"
	ActionWithdrawn     = "application_withdrawn"
)

// Activity is one append-only audit record on an application.
// PerformedBy is nil for system-originated actions.
type Activity struct {
	ID            common.UUID  `json:"id"`
	ApplicationID common.UUID  `json:"application_id"`
	PerformedBy   *common.UUID `json:"performed_by_user_id,omitempty"`
	Action        string       `json:"action"`
	OldStatus     *Status      `json:"old_status,omitempty"`
	NewStatus     *Status      `json:"new_status,omitempty"`
	Notes         string       `json:"notes,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

// Filter narrows application listings. A zero Limit means the default of 20.
type Filter struct {
	Status       Status
	JobPostingID common.UUID
	Limit        int
	Offset       int
}

// Statistics is the per-status breakdown for one applicant, zero-filled.
type Statistics struct {
	TotalApplications  int `json:"totalApplications"`
	Submitted          int `json:"submitted"`
	Reviewed           int `json:"reviewed"`
	Shortlisted        int `json:"shortlisted"`
	InterviewScheduled int `json:"interviewScheduled"`
	Interviewed        int `json:"interviewed"`
	Offered            int `json:"offered"`
	Accepted           int `json:"accepted"`
	Rejected           int `json:"rejected"`
	Withdrawn          int `json:"withdrawn"`
}
