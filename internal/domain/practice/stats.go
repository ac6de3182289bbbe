package practice

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

// A topic needs WeakStrongMinAttempts attempts before it is classified.
const (
	WeakStrongMinAttempts = 3
	WeakAccuracyBelow     = 0.5
	StrongAccuracyFrom    = 0.7
)

const DayLayout = "2006-01-02"

type TopicStat struct {
	TopicID   uuid.UUID
	Topic     string
	Attempted int
	Correct   int
}

func (s TopicStat) Accuracy() float64 {
	if s.Attempted == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Attempted)
}

func (s TopicStat) Weak() bool {
	return s.Attempted >= WeakStrongMinAttempts && s.Accuracy() < WeakAccuracyBelow
}

func (s TopicStat) Strong() bool {
	return s.Attempted >= WeakStrongMinAttempts && s.Accuracy() >= StrongAccuracyFrom
}

// StatsByTopic groups attempts by topic name, most attempted first. Ties
// sort by name.
func StatsByTopic(attempts []Attempt) []TopicStat {
	idx := map[string]int{}
	var out []TopicStat
	for _, a := range attempts {
		i, ok := idx[a.TopicName]
		if !ok {
			i = len(out)
			idx[a.TopicName] = i
			out = append(out, TopicStat{TopicID: a.TopicID, Topic: a.TopicName})
		}
		out[i].Attempted++
		if a.IsCorrect {
			out[i].Correct++
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Attempted != out[j].Attempted {
			return out[i].Attempted > out[j].Attempted
		}
		return out[i].Topic < out[j].Topic
	})
	return out
}

// WeakTopics returns the weak subset of stats in name order.
func WeakTopics(stats []TopicStat) []TopicStat {
	return topicsWhere(stats, TopicStat.Weak)
}

func StrongTopics(stats []TopicStat) []TopicStat {
	return topicsWhere(stats, TopicStat.Strong)
}

func topicsWhere(stats []TopicStat, keep func(TopicStat) bool) []TopicStat {
	out := []TopicStat{}
	for _, s := range stats {
		if keep(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Topic < out[j].Topic })
	return out
}

type DayStat struct {
	Date      string
	Correct   int
	Incorrect int
}

func (d DayStat) Total() int { return d.Correct + d.Incorrect }

// StatsByDay buckets attempts by calendar day in loc, oldest first.
func StatsByDay(attempts []Attempt, loc *time.Location) []DayStat {
	if loc == nil {
		loc = time.UTC
	}
	idx := map[string]int{}
	var out []DayStat
	for _, a := range attempts {
		day := a.AttemptedAt.In(loc).Format(DayLayout)
		i, ok := idx[day]
		if !ok {
			i = len(out)
			idx[day] = i
			out = append(out, DayStat{Date: day})
		}
		if a.IsCorrect {
			out[i].Correct++
		} else {
			out[i].Incorrect++
		}
	}
	// DayLayout sorts lexically in date order.
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

type DifficultyStat struct {
	Difficulty Difficulty
	Attempted  int
	Correct    int
}

// StatsByDifficulty reports EASY, MEDIUM, HARD in that order, skipping levels
// with no attempts.
func StatsByDifficulty(attempts []Attempt) []DifficultyStat {
	order := []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
	counts := map[Difficulty]*DifficultyStat{}
	for _, d := range order {
		counts[d] = &DifficultyStat{Difficulty: d}
	}
	for _, a := range attempts {
		s, ok := counts[a.Difficulty]
		if !ok {
			continue
		}
		s.Attempted++
		if a.IsCorrect {
			s.Correct++
		}
	}
	out := []DifficultyStat{}
	for _, d := range order {
		if s := counts[d]; s.Attempted > 0 {
			out = append(out, *s)
		}
	}
	return out
}

// Percent renders correct/total as a whole percentage, 0 when total is 0.
func Percent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// AverageTime is the mean time taken in whole seconds.
func AverageTime(attempts []Attempt) int {
	if len(attempts) == 0 {
		return 0
	}
	sum := 0
	for _, a := range attempts {
		sum += a.TimeTaken
	}
	return int(math.Round(float64(sum) / float64(len(attempts))))
}
