package application

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusApplied     Status = "APPLIED"
	StatusShortlisted Status = "SHORTLISTED"
	StatusRejected    Status = "REJECTED"
	StatusSelected    Status = "SELECTED"
)

// Application links one student to one job posting; (StudentID, JobID) is unique.
// MatchScore is nil until the first computation and is never recomputed once set.
type Application struct {
	ID         uuid.UUID
	StudentID  uuid.UUID
	JobID      uuid.UUID
	MatchScore *float64
	Status     Status
	AppliedAt  time.Time
}

func (a Application) HasScore() bool { return a.MatchScore != nil }

// Submission is an application as its student sees it, with the posting's
// title and the company's name.
type Submission struct {
	Application
	JobTitle    string
	CompanyName string
}
