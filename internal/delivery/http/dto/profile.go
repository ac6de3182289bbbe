package dto

import "github.com/google/uuid"

type UpdateProfileRequest struct {
	CGPA           *float64 `json:"cgpa"`
	Skills         []string `json:"skills"`
	Branch         *string  `json:"branch"`
	GraduationYear *int     `json:"graduation_year"`
}

type PerformanceResponse struct {
	TotalAttempts   int `json:"total_attempts"`
	CorrectAttempts int `json:"correct_attempts"`
	Accuracy        int `json:"accuracy"`
}

type ProfileResponse struct {
	UserID         uuid.UUID           `json:"user_id"`
	Name           string              `json:"name"`
	Email          string              `json:"email"`
	CGPA           *float64            `json:"cgpa"`
	Skills         []string            `json:"skills"`
	Branch         *string             `json:"branch"`
	GraduationYear *int                `json:"graduation_year"`
	Performance    PerformanceResponse `json:"performance"`
}
