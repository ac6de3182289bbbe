package usecase

import (
	"math"

	"placeprep/internal/domain/job"
	"placeprep/internal/domain/matching"
	"placeprep/internal/domain/practice"
	"placeprep/internal/domain/user"
)

type PerformanceSummary struct {
	TotalAttempts   int
	CorrectAttempts int
	// Accuracy is a whole percentage, 0-100.
	Accuracy int
}

func studentSnapshot(p user.StudentProfile, attempts []practice.Attempt) matching.Student {
	hist := make([]matching.Attempt, 0, len(attempts))
	for _, a := range attempts {
		hist = append(hist, matching.Attempt{TopicName: a.TopicName, IsCorrect: a.IsCorrect})
	}
	return matching.Student{
		CGPA:     matching.CGPAFromPtr(p.CGPA),
		Skills:   p.Skills,
		Attempts: hist,
	}
}

func jobSnapshot(p job.Posting) matching.Job {
	return matching.Job{MinCGPA: p.MinCGPA, RequiredSkills: p.RequiredSkills}
}

func summarizeAttempts(attempts []practice.Attempt) PerformanceSummary {
	out := PerformanceSummary{TotalAttempts: len(attempts)}
	for _, a := range attempts {
		if a.IsCorrect {
			out.CorrectAttempts++
		}
	}
	if out.TotalAttempts > 0 {
		out.Accuracy = int(math.Round(float64(out.CorrectAttempts) / float64(out.TotalAttempts) * 100))
	}
	return out
}
