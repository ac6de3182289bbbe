package seeder

import (
	"context"
	"fmt"

	"placeprep/internal/database"

	"github.com/google/uuid"
)

type questionSeed struct {
	Topic         string
	Content       string
	Options       []string
	CorrectAnswer string
	Explanation   string
	Difficulty    string
}

var defaultQuestions = []questionSeed{
	{Topic: "Logical Reasoning", Content: "Find the next: 2, 6, 12, 20, 30, ?", Options: []string{"40", "42", "44", "46"}, CorrectAnswer: "42", Explanation: "Differences: 4,6,8,10,12. Next=30+12=42", Difficulty: "EASY"},
	{Topic: "Logical Reasoning", Content: "Clock shows 3:15. Angle between hands?", Options: []string{"0°", "7.5°", "15°", "22.5°"}, CorrectAnswer: "7.5°", Explanation: "Hour hand moves 7.5° from 3", Difficulty: "MEDIUM"},
	{Topic: "Quantitative Aptitude", Content: "Train 150m crosses pole in 15s. Speed in km/h?", Options: []string{"36", "40", "42", "45"}, CorrectAnswer: "36", Explanation: "150/15=10m/s=36km/h", Difficulty: "EASY"},
	{Topic: "Quantitative Aptitude", Content: "40% markup, 20% discount. Profit?", Options: []string{"8%", "10%", "12%", "15%"}, CorrectAnswer: "12%", Explanation: "SP=140×0.8=112", Difficulty: "MEDIUM"},
	{Topic: "Verbal Ability", Content: "Ephemeral means:", Options: []string{"Eternal", "Transient", "Permanent", "Steady"}, CorrectAnswer: "Transient", Explanation: "Both mean short-lived", Difficulty: "EASY"},
	{Topic: "Data Structures & Algorithms", Content: "QuickSort worst case?", Options: []string{"O(n)", "O(n log n)", "O(n²)", "O(log n)"}, CorrectAnswer: "O(n²)", Explanation: "When pivot is always min/max", Difficulty: "EASY"},
	{Topic: "Data Structures & Algorithms", Content: "Shortest path with negative edges?", Options: []string{"Dijkstra", "Bellman-Ford", "BFS", "Floyd"}, CorrectAnswer: "Bellman-Ford", Explanation: "Handles negative weights", Difficulty: "HARD"},
	{Topic: "Database Management", Content: "Filter groups with?", Options: []string{"WHERE", "HAVING", "GROUP BY", "ORDER BY"}, CorrectAnswer: "HAVING", Explanation: "HAVING filters after GROUP BY", Difficulty: "MEDIUM"},
	{Topic: "Operating Systems", Content: "What is deadlock?", Options: []string{"CPU wait", "Circular wait", "Crash", "Memory error"}, CorrectAnswer: "Circular wait", Explanation: "Processes waiting for each other", Difficulty: "EASY"},
	{Topic: "Computer Networks", Content: "Which layer does TCP operate at?", Options: []string{"Network", "Transport", "Session", "Data link"}, CorrectAnswer: "Transport", Explanation: "TCP is a transport-layer protocol", Difficulty: "EASY"},
	{Topic: "Web Development", Content: "Which HTTP status means Not Found?", Options: []string{"200", "301", "404", "500"}, CorrectAnswer: "404", Explanation: "4xx are client errors; 404 is Not Found", Difficulty: "EASY"},
}

type QuestionsSeeder struct{}

func (QuestionsSeeder) Name() string { return "questions" }

func (QuestionsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := requireColumns(ctx, db, "questions", "id", "topic_id", "content", "options", "correct_answer", "explanation", "difficulty"); err != nil {
		return err
	}
	return database.WithTx(ctx, db, func(q database.Querier) error {
		topicIDs := map[string]uuid.UUID{}
		for _, it := range defaultQuestions {
			topicID, ok := topicIDs[it.Topic]
			if !ok {
				if err := q.QueryRow(ctx, `SELECT id FROM topics WHERE name = $1`, it.Topic).Scan(&topicID); err != nil {
					return fmt.Errorf("topic %q: %w", it.Topic, err)
				}
				topicIDs[it.Topic] = topicID
			}
			_, err := q.Exec(ctx,
				`INSERT INTO questions (id, topic_id, content, options, correct_answer, explanation, difficulty)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)
				 ON CONFLICT (content) DO NOTHING`,
				uuid.New(), topicID, it.Content, it.Options, it.CorrectAnswer, it.Explanation, it.Difficulty,
			)
			if err != nil {
				return fmt.Errorf("question %q: %w", it.Content, err)
			}
		}
		return nil
	})
}
