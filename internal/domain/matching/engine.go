package matching

import (
	"fmt"
	"math"
	"strings"
)

// Fixed factor weights; they sum to 1.
const (
	WeightCGPA        = 0.25
	WeightSkills      = 0.35
	WeightPerformance = 0.40
)

// Calculate validates both snapshots and returns the match score with its
// sub-score breakdown. It is a pure function of its inputs.
func Calculate(s Student, j Job) (Result, error) {
	if err := ValidateStudent(s); err != nil {
		return Result{}, err
	}
	if err := ValidateJob(j); err != nil {
		return Result{}, err
	}

	b := Breakdown{
		CGPA:        CGPAScore(s.CGPA, j.MinCGPA),
		Skills:      SkillsScore(s.Skills, j.RequiredSkills),
		Performance: PerformanceScore(s.Attempts, j.RequiredSkills),
	}
	return Result{Score: Aggregate(b), Breakdown: b}, nil
}

// Aggregate combines sub-scores under the fixed weights, clamps to [0,1] and
// rounds to two decimals.
func Aggregate(b Breakdown) float64 {
	total := WeightCGPA*b.CGPA + WeightSkills*b.Skills + WeightPerformance*b.Performance
	if total < 0 {
		total = 0
	}
	if total > 1 {
		total = 1
	}
	return Round2(total)
}

// Round2 rounds half up on the third decimal. The small epsilon absorbs
// binary representation error so 0.605 rounds to 0.61.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5+1e-9) / 100
}

func ValidateStudent(s Student) error {
	if v, ok := s.CGPA.Get(); ok {
		if math.IsNaN(v) || v < 0 || v > MaxCGPA {
			return fmt.Errorf("%w: cgpa %v outside [0, %v]", ErrInvalidInput, v, MaxCGPA)
		}
	}
	for i, sk := range s.Skills {
		if strings.TrimSpace(sk) == "" {
			return fmt.Errorf("%w: blank student skill at index %d", ErrInvalidInput, i)
		}
	}
	for i, a := range s.Attempts {
		if strings.TrimSpace(a.TopicName) == "" {
			return fmt.Errorf("%w: attempt %d has no topic", ErrInvalidInput, i)
		}
	}
	return nil
}

func ValidateJob(j Job) error {
	if math.IsNaN(j.MinCGPA) || j.MinCGPA < 0 || j.MinCGPA > MaxCGPA {
		return fmt.Errorf("%w: min cgpa %v outside [0, %v]", ErrInvalidInput, j.MinCGPA, MaxCGPA)
	}
	for i, sk := range j.RequiredSkills {
		if strings.TrimSpace(sk) == "" {
			return fmt.Errorf("%w: blank required skill at index %d", ErrInvalidInput, i)
		}
	}
	return nil
}
