package seeder

import (
	"context"

	"placeprep/internal/database"
)

// Seeder loads one kind of practice reference data. Running a seeder twice
// must leave the same rows as running it once.
type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}

// Defaults lists the built-in seeders in dependency order: questions look
// up their topic by name.
func Defaults() []Seeder {
	return []Seeder{TopicsSeeder{}, QuestionsSeeder{}}
}
