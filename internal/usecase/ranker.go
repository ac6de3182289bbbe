package usecase

import (
	"sort"
	"time"

	"placeprep/internal/domain/application"

	"github.com/google/uuid"
)

type CandidateStudent struct {
	Name           string
	Email          string
	CGPA           *float64
	Skills         []string
	Branch         *string
	GraduationYear *int
}

type Candidate struct {
	Rank          int
	ApplicationID uuid.UUID
	StudentID     uuid.UUID
	Student       CandidateStudent
	MatchScore    float64
	Status        application.Status
	AppliedAt     time.Time
	Performance   PerformanceSummary
}

// RankCandidates orders candidates by match score, highest first, then drops
// those below minScore and numbers the survivors from 1. Candidates with equal
// scores keep the order they were given in; listings pass them in application
// order, so earlier applicants rank first on a tie. The input is not modified.
func RankCandidates(in []Candidate, minScore float64) []Candidate {
	sorted := make([]Candidate, len(in))
	copy(sorted, in)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MatchScore > sorted[j].MatchScore
	})

	out := make([]Candidate, 0, len(sorted))
	for _, c := range sorted {
		if c.MatchScore < minScore {
			continue
		}
		c.Rank = len(out) + 1
		out = append(out, c)
	}
	return out
}
