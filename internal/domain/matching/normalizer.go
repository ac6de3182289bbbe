package matching

import (
	"math"
	"strings"
)

const (
	eligibleFloor     = 0.7
	eligibleSpan      = 0.3
	ineligibleCeiling = 0.5

	overallAccuracyWeight  = 0.6
	relevantAccuracyWeight = 0.4
	experienceBonusMax     = 0.1
	experienceAttemptsCap  = 50.0
)

// CGPAScore rewards meeting the job's bar with a 0.7 floor and scales the
// remaining 0.3 toward a perfect 10. Below the bar credit is proportional and
// capped under 0.5. A missing CGPA scores 0.
func CGPAScore(cgpa CGPA, minCGPA float64) float64 {
	v, ok := cgpa.Get()
	if !ok {
		return 0
	}

	if v >= minCGPA || minCGPA <= 0 {
		if minCGPA >= MaxCGPA {
			return 1
		}
		s := eligibleFloor + eligibleSpan*(v-minCGPA)/(MaxCGPA-minCGPA)
		return math.Min(s, 1)
	}

	return ineligibleCeiling * (v / minCGPA)
}

// SkillsScore is the fraction of required skills covered by at least one
// student skill, using fuzzyMatch.
func SkillsScore(studentSkills, requiredSkills []string) float64 {
	if len(studentSkills) == 0 || len(requiredSkills) == 0 {
		return 0
	}

	have := lowerAll(studentSkills)
	matched := 0
	for _, req := range lowerAll(requiredSkills) {
		for _, s := range have {
			if fuzzyMatch(s, req) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(requiredSkills))
}

// PerformanceScore blends overall accuracy with accuracy on topics relevant
// to the job, plus a small bonus for practice volume.
func PerformanceScore(attempts []Attempt, requiredSkills []string) float64 {
	total := len(attempts)
	if total == 0 {
		return 0
	}

	required := lowerAll(requiredSkills)

	correct := 0
	relevant, relevantCorrect := 0, 0
	for _, a := range attempts {
		if a.IsCorrect {
			correct++
		}
		if !matchesAny(strings.ToLower(a.TopicName), required) {
			continue
		}
		relevant++
		if a.IsCorrect {
			relevantCorrect++
		}
	}

	overall := float64(correct) / float64(total)
	focused := overall
	if relevant > 0 {
		focused = float64(relevantCorrect) / float64(relevant)
	}

	s := overallAccuracyWeight*overall + relevantAccuracyWeight*focused
	s += math.Min(float64(total)/experienceAttemptsCap, 1) * experienceBonusMax
	return math.Min(s, 1)
}

// fuzzyMatch reports substring containment in either direction on
// already-lowercased values, so "react" matches "react.js" and back.
func fuzzyMatch(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func matchesAny(v string, candidates []string) bool {
	for _, c := range candidates {
		if fuzzyMatch(v, c) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
