package dto

import (
	"time"

	"github.com/google/uuid"
)

type CandidateStudentResponse struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	CGPA           *float64 `json:"cgpa"`
	Skills         []string `json:"skills"`
	Branch         *string  `json:"branch"`
	GraduationYear *int     `json:"graduation_year"`
}

type CandidateResponse struct {
	Rank          int                      `json:"rank"`
	ApplicationID uuid.UUID                `json:"application_id"`
	StudentID     uuid.UUID                `json:"student_id"`
	Student       CandidateStudentResponse `json:"student"`
	MatchScore    float64                  `json:"match_score"`
	Status        string                   `json:"status"`
	AppliedAt     time.Time                `json:"applied_at"`
	Performance   PerformanceResponse      `json:"performance"`
}

type JobSummaryResponse struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	RequiredSkills []string  `json:"required_skills"`
	MinCGPA        float64   `json:"min_cgpa"`
	Salary         *string   `json:"salary"`
	Location       *string   `json:"location"`
}

type CandidateListResponse struct {
	Job        JobSummaryResponse  `json:"job"`
	MinScore   int                 `json:"min_score"`
	Total      int                 `json:"total"`
	Candidates []CandidateResponse `json:"candidates"`
}
