package seeder

import (
	"context"
	"fmt"

	"placeprep/internal/database"

	"github.com/google/uuid"
)

type topicSeed struct {
	Name        string
	Category    string
	Description string
}

var defaultTopics = []topicSeed{
	{Name: "Logical Reasoning", Category: "APTITUDE", Description: "Logical thinking questions"},
	{Name: "Quantitative Aptitude", Category: "APTITUDE", Description: "Math problems"},
	{Name: "Verbal Ability", Category: "APTITUDE", Description: "English skills"},
	{Name: "Data Structures & Algorithms", Category: "TECHNICAL", Description: "DSA concepts"},
	{Name: "Database Management", Category: "TECHNICAL", Description: "SQL and DBMS"},
	{Name: "Operating Systems", Category: "TECHNICAL", Description: "OS concepts"},
	{Name: "Computer Networks", Category: "TECHNICAL", Description: "Networking"},
	{Name: "Web Development", Category: "TECHNICAL", Description: "Web technologies"},
}

type TopicsSeeder struct{}

func (TopicsSeeder) Name() string { return "topics" }

func (TopicsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := requireColumns(ctx, db, "topics", "id", "name", "category", "description"); err != nil {
		return err
	}
	return database.WithTx(ctx, db, func(q database.Querier) error {
		for _, it := range defaultTopics {
			_, err := q.Exec(ctx,
				`INSERT INTO topics (id, name, category, description) VALUES ($1, $2, $3, $4) ON CONFLICT (name) DO NOTHING`,
				uuid.New(), it.Name, it.Category, it.Description,
			)
			if err != nil {
				return fmt.Errorf("topic %q: %w", it.Name, err)
			}
		}
		return nil
	})
}
