package job

import (
	"time"

	"github.com/google/uuid"
)

type Posting struct {
	ID             uuid.UUID
	CompanyID      uuid.UUID
	CompanyName    string
	Title          string
	Description    string
	RequiredSkills []string
	MinCGPA        float64
	Salary         *string
	Location       *string
	CreatedAt      time.Time

	// ApplicationCount is only populated by listing queries.
	ApplicationCount int
}
