package seeder

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"placeprep/internal/database"
)

// Runner executes seeders in order and stops at the first failure.
type Runner struct {
	Seeders []Seeder
	Logger  *log.Logger
}

// Select narrows the runner to the named seeders, keeping their registered
// order. An empty list keeps all of them.
func (r Runner) Select(names ...string) (Runner, error) {
	if len(names) == 0 {
		return r, nil
	}
	known := make([]string, 0, len(r.Seeders))
	out := Runner{Logger: r.Logger}
	for _, s := range r.Seeders {
		known = append(known, s.Name())
		if slices.Contains(names, s.Name()) {
			out.Seeders = append(out.Seeders, s)
		}
	}
	for _, n := range names {
		if !slices.Contains(known, n) {
			return Runner{}, fmt.Errorf("unknown seeder %q (have %s)", n, strings.Join(known, ", "))
		}
	}
	return out, nil
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return database.ErrNilDB
	}
	for _, s := range r.Seeders {
		start := time.Now()
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		if r.Logger != nil {
			r.Logger.Printf("[Seed] %s ok in %s", s.Name(), time.Since(start).Round(time.Millisecond))
		}
	}
	return nil
}
