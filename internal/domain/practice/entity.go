package practice

import (
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryAptitude  Category = "APTITUDE"
	CategoryTechnical Category = "TECHNICAL"
	CategoryCoding    Category = "CODING"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

func (c Category) Valid() bool {
	switch c {
	case CategoryAptitude, CategoryTechnical, CategoryCoding:
		return true
	}
	return false
}

type Topic struct {
	ID          uuid.UUID
	Name        string
	Category    Category
	Description *string
	// QuestionCount is filled by topic listings only.
	QuestionCount int
}

type Question struct {
	ID            uuid.UUID
	TopicID       uuid.UUID
	TopicName     string
	Content       string
	Options       []string
	CorrectAnswer string
	Explanation   *string
	Difficulty    Difficulty
	CreatedAt     time.Time
}

// QuestionFilter narrows a question listing. Zero fields match everything.
type QuestionFilter struct {
	TopicID    *uuid.UUID
	Difficulty Difficulty
	Category   Category
	Limit      int
}

// Attempt is created once per practice submission and never modified.
type Attempt struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	QuestionID  uuid.UUID
	TopicID     uuid.UUID
	TopicName   string
	Difficulty  Difficulty
	IsCorrect   bool
	TimeTaken   int
	AttemptedAt time.Time
	// QuestionContent is filled when attempts are read back with their question.
	QuestionContent string
}
