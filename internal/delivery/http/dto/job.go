package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateJobRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	RequiredSkills []string `json:"required_skills"`
	MinCGPA        float64  `json:"min_cgpa"`
	Salary         *string  `json:"salary"`
	Location       *string  `json:"location"`
}

type JobResponse struct {
	ID               uuid.UUID `json:"id"`
	CompanyID        uuid.UUID `json:"company_id"`
	CompanyName      string    `json:"company_name"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	RequiredSkills   []string  `json:"required_skills"`
	MinCGPA          float64   `json:"min_cgpa"`
	Salary           *string   `json:"salary"`
	Location         *string   `json:"location"`
	CreatedAt        time.Time `json:"created_at"`
	ApplicationCount int       `json:"application_count"`
}
