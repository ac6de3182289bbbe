package seeder

import (
	"context"
	"fmt"
	"strings"

	"placeprep/internal/database"
)

const columnsQuery = `SELECT column_name FROM information_schema.columns
WHERE table_schema = current_schema() AND table_name = $1`

// requireColumns reports every column a seeder writes that the migrations
// have not created, so seeding an unmigrated database fails before any insert.
func requireColumns(ctx context.Context, q database.Querier, table string, want ...string) error {
	if q == nil {
		return database.ErrNilDB
	}
	have, err := tableColumns(ctx, q, table)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", table, err)
	}
	if missing := missingColumns(have, want); len(missing) > 0 {
		return fmt.Errorf("table %s is missing columns: %s", table, strings.Join(missing, ", "))
	}
	return nil
}

func tableColumns(ctx context.Context, q database.Querier, table string) (map[string]bool, error) {
	rows, err := q.Query(ctx, columnsQuery, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	have := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		have[name] = true
	}
	return have, rows.Err()
}

func missingColumns(have map[string]bool, want []string) []string {
	var out []string
	for _, c := range want {
		if !have[c] {
			out = append(out, c)
		}
	}
	return out
}
