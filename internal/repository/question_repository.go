package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"placeprep/internal/database"
	dbpostgres "placeprep/internal/database/postgres"
	"placeprep/internal/domain/practice"

	"github.com/google/uuid"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrTopicNotFound    = errors.New("topic not found")
)

type QuestionRepository interface {
	GetQuestionByID(ctx context.Context, questionID uuid.UUID) (practice.Question, error)
	CreateAttempt(ctx context.Context, a practice.Attempt) (practice.Attempt, error)

	ListTopics(ctx context.Context) ([]practice.Topic, error)
	GetTopicByID(ctx context.Context, topicID uuid.UUID) (practice.Topic, error)
	ListQuestions(ctx context.Context, f practice.QuestionFilter) ([]practice.Question, error)
	// CountQuestions counts one topic's questions, or all of them for a nil topic.
	CountQuestions(ctx context.Context, topicID *uuid.UUID) (int, error)
	// ListOpenQuestions returns the topic's questions the user has not yet
	// answered correctly.
	ListOpenQuestions(ctx context.Context, userID, topicID uuid.UUID) ([]practice.Question, error)
	// ListUnattemptedQuestions returns questions the user never attempted,
	// newest first. An empty topicIDs matches every topic.
	ListUnattemptedQuestions(ctx context.Context, userID uuid.UUID, topicIDs, exclude []uuid.UUID, limit int) ([]practice.Question, error)
}

type PostgresQuestionRepository struct {
	db database.DB
}

func NewPostgresQuestionRepository(db database.DB) *PostgresQuestionRepository {
	return &PostgresQuestionRepository{db: db}
}

const questionQuery = `SELECT q.id, q.topic_id, t.name, q.content, q.options, q.correct_answer, q.explanation, q.difficulty, q.created_at
	 FROM questions q
	 JOIN topics t ON t.id = q.topic_id`

const newestFirst = ` ORDER BY q.created_at DESC, q.id ASC`

func (r *PostgresQuestionRepository) GetQuestionByID(ctx context.Context, questionID uuid.UUID) (practice.Question, error) {
	q, err := scanQuestion(r.db.QueryRow(ctx, questionQuery+` WHERE q.id = $1`, questionID))
	if err != nil {
		if dbpostgres.IsNoRows(err) {
			return practice.Question{}, ErrQuestionNotFound
		}
		return practice.Question{}, err
	}
	return q, nil
}

const topicQuery = `SELECT t.id, t.name, t.category, t.description, COUNT(q.id)
	 FROM topics t
	 LEFT JOIN questions q ON q.topic_id = t.id`

func (r *PostgresQuestionRepository) ListTopics(ctx context.Context) ([]practice.Topic, error) {
	rows, err := r.db.Query(ctx, topicQuery+` GROUP BY t.id ORDER BY t.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]practice.Topic, 0)
	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresQuestionRepository) GetTopicByID(ctx context.Context, topicID uuid.UUID) (practice.Topic, error) {
	t, err := scanTopic(r.db.QueryRow(ctx, topicQuery+` WHERE t.id = $1 GROUP BY t.id`, topicID))
	if err != nil {
		if dbpostgres.IsNoRows(err) {
			return practice.Topic{}, ErrTopicNotFound
		}
		return practice.Topic{}, err
	}
	return t, nil
}

func (r *PostgresQuestionRepository) ListQuestions(ctx context.Context, f practice.QuestionFilter) ([]practice.Question, error) {
	query := questionQuery + ` WHERE TRUE`
	var args []any
	if f.TopicID != nil {
		args = append(args, *f.TopicID)
		query += fmt.Sprintf(` AND q.topic_id = $%d`, len(args))
	}
	if f.Difficulty != "" {
		args = append(args, string(f.Difficulty))
		query += fmt.Sprintf(` AND q.difficulty = $%d`, len(args))
	}
	if f.Category != "" {
		args = append(args, string(f.Category))
		query += fmt.Sprintf(` AND t.category = $%d`, len(args))
	}
	query += newestFirst
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	return r.queryQuestions(ctx, query, args...)
}

func (r *PostgresQuestionRepository) CountQuestions(ctx context.Context, topicID *uuid.UUID) (int, error) {
	var n int
	var err error
	if topicID == nil {
		err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM questions`).Scan(&n)
	} else {
		err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM questions WHERE topic_id = $1`, *topicID).Scan(&n)
	}
	return n, err
}

func (r *PostgresQuestionRepository) ListOpenQuestions(ctx context.Context, userID, topicID uuid.UUID) ([]practice.Question, error) {
	return r.queryQuestions(ctx,
		questionQuery+` WHERE q.topic_id = $1
		 AND NOT EXISTS (
			SELECT 1 FROM question_attempts qa
			WHERE qa.question_id = q.id AND qa.user_id = $2 AND qa.is_correct
		 )`+newestFirst,
		topicID, userID,
	)
}

func (r *PostgresQuestionRepository) ListUnattemptedQuestions(ctx context.Context, userID uuid.UUID, topicIDs, exclude []uuid.UUID, limit int) ([]practice.Question, error) {
	if limit <= 0 {
		return []practice.Question{}, nil
	}
	query := questionQuery + ` WHERE NOT EXISTS (
			SELECT 1 FROM question_attempts qa
			WHERE qa.question_id = q.id AND qa.user_id = $1
		 )`
	args := []any{userID}
	if len(topicIDs) > 0 {
		args = append(args, uuidStrings(topicIDs))
		query += fmt.Sprintf(` AND q.topic_id = ANY($%d::uuid[])`, len(args))
	}
	if len(exclude) > 0 {
		args = append(args, uuidStrings(exclude))
		query += fmt.Sprintf(` AND NOT (q.id = ANY($%d::uuid[]))`, len(args))
	}
	args = append(args, limit)
	query += newestFirst + fmt.Sprintf(` LIMIT $%d`, len(args))
	return r.queryQuestions(ctx, query, args...)
}

func (r *PostgresQuestionRepository) queryQuestions(ctx context.Context, query string, args ...any) ([]practice.Question, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]practice.Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanQuestion(row database.Row) (practice.Question, error) {
	var q practice.Question
	var difficulty string
	if err := row.Scan(&q.ID, &q.TopicID, &q.TopicName, &q.Content, &q.Options, &q.CorrectAnswer, &q.Explanation,
		&difficulty, &q.CreatedAt); err != nil {
		return practice.Question{}, err
	}
	q.Difficulty = practice.Difficulty(difficulty)
	return q, nil
}

func scanTopic(row database.Row) (practice.Topic, error) {
	var t practice.Topic
	var category string
	if err := row.Scan(&t.ID, &t.Name, &category, &t.Description, &t.QuestionCount); err != nil {
		return practice.Topic{}, err
	}
	t.Category = practice.Category(category)
	return t, nil
}

func (r *PostgresQuestionRepository) CreateAttempt(ctx context.Context, a practice.Attempt) (practice.Attempt, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.AttemptedAt.IsZero() {
		a.AttemptedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO question_attempts (id, user_id, question_id, is_correct, time_taken, attempted_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.UserID, a.QuestionID, a.IsCorrect, a.TimeTaken, a.AttemptedAt,
	)
	if err != nil {
		return practice.Attempt{}, err
	}
	return a, nil
}
