package store

import (
	"context"
	"fmt"
)

// Violation is one integrity finding from the validation checks.
type Violation struct {
	Check  string
	Detail string
}

// Validate runs the post-load integrity checks the loader is expected never
// to violate: contiguous 1-based set numbers per day-exercise, contiguous
// 1-based day numbers per block, and day-exercises with no sets.
func (s *Store) Validate(ctx context.Context) ([]Violation, error) {
	var violations []Violation

	checks := []struct {
		name  string
		query string
	}{
		{
			name: "set_number contiguity",
			query: `
				SELECT day_exercise_id, COUNT(*), MIN(set_number), MAX(set_number), COUNT(DISTINCT set_number)
				FROM exercise_sets
				GROUP BY day_exercise_id
				HAVING MIN(set_number) <> 1
				    OR MAX(set_number) <> COUNT(*)
				    OR COUNT(DISTINCT set_number) <> COUNT(*)`,
		},
		{
			name: "day_number contiguity",
			query: `
				SELECT block_id, COUNT(*), MIN(day_number), MAX(day_number), COUNT(DISTINCT day_number)
				FROM training_days
				GROUP BY block_id
				HAVING MIN(day_number) <> 1
				    OR MAX(day_number) <> COUNT(*)
				    OR COUNT(DISTINCT day_number) <> COUNT(*)`,
		},
	}

	for _, check := range checks {
		rows, err := s.db.QueryContext(ctx, check.query)
		if err != nil {
			return nil, fmt.Errorf("%s check failed: %w", check.name, err)
		}
		for rows.Next() {
			var id, count, minN, maxN, distinct int64
			if err := rows.Scan(&id, &count, &minN, &maxN, &distinct); err != nil {
				_ = rows.Close()
				return nil, fmt.Errorf("%s check scan failed: %w", check.name, err)
			}
			violations = append(violations, Violation{
				Check: check.name,
				Detail: fmt.Sprintf("id=%d rows=%d min=%d max=%d distinct=%d",
					id, count, minN, maxN, distinct),
			})
		}
		if err := rows.Err(); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("%s check failed: %w", check.name, err)
		}
		_ = rows.Close()
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT de.day_exercise_id
		FROM day_exercises de
		LEFT JOIN exercise_sets es ON es.day_exercise_id = de.day_exercise_id
		WHERE es.set_id IS NULL`)
	if err != nil {
		return nil, fmt.Errorf("empty day_exercise check failed: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("empty day_exercise check scan failed: %w", err)
		}
		violations = append(violations, Violation{
			Check:  "day_exercise has sets",
			Detail: fmt.Sprintf("day_exercise_id=%d has no sets", id),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("empty day_exercise check failed: %w", err)
	}

	return violations, nil
}
