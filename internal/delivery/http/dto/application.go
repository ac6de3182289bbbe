package dto

import (
	"time"

	"github.com/google/uuid"
)

type ApplyResponse struct {
	ApplicationID uuid.UUID `json:"application_id"`
	JobID         uuid.UUID `json:"job_id"`
	JobTitle      string    `json:"job_title"`
	MatchScore    *float64  `json:"match_score"`
	Status        string    `json:"status"`
	AppliedAt     time.Time `json:"applied_at"`
}

type MatchResponse struct {
	ApplicationID uuid.UUID `json:"application_id"`
	JobID         uuid.UUID `json:"job_id"`
	MatchScore    float64   `json:"match_score"`
}
