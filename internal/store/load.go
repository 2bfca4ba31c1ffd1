package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/openlift/blockload/internal/model"
)

// LoadStats summarizes what one block's transaction persisted.
type LoadStats struct {
	ExercisesCreated int
	ExercisesReused  int
	Days             int
	DayExercises     int
	Sets             int
	Bodyweights      int
	Conditions       int
}

// LoadBlock persists one block and its full hierarchy in a single
// transaction, in foreign-key dependency order: exercise catalog rows and
// muscle groups first, then the block, its days, day-exercises, sets, and
// finally session conditions and bodyweights. Generated ids are read back
// with RETURNING before dependents are inserted.
//
// Any failure rolls the whole block back and surfaces as a LoadError; the
// transaction is never retried.
func (s *Store) LoadBlock(ctx context.Context, block *model.Block, staged []model.CatalogEntry) (*LoadStats, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &model.LoadError{Block: block.Name, Err: fmt.Errorf("begin transaction: %w", err)}
	}

	stats, err := s.loadBlockTx(ctx, tx, block, staged)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.logger.Error("rollback failed", "block", block.Name, "error", rbErr)
		}
		return nil, &model.LoadError{Block: block.Name, Err: err}
	}
	if err := tx.Commit(); err != nil {
		return nil, &model.LoadError{Block: block.Name, Err: fmt.Errorf("commit: %w", err)}
	}
	return stats, nil
}

func (s *Store) loadBlockTx(ctx context.Context, tx *sql.Tx, block *model.Block, staged []model.CatalogEntry) (*LoadStats, error) {
	stats := &LoadStats{}

	exerciseIDs, err := s.resolveExercises(ctx, tx, staged, stats)
	if err != nil {
		return nil, err
	}

	var blockID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO training_blocks (name, start_date, end_date, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING block_id`,
		block.Name, block.StartDate, block.EndDate, nullString(block.Notes),
	).Scan(&blockID)
	if err != nil {
		return nil, fmt.Errorf("insert block: %w", err)
	}
	s.logger.Debug("inserted block", "name", block.Name, "block_id", blockID)

	for i := range block.Days {
		if err := s.loadDay(ctx, tx, blockID, &block.Days[i], exerciseIDs, stats); err != nil {
			return nil, err
		}
	}

	for _, bw := range block.Bodyweights {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO bodyweights (block_id, date_recorded, bodyweight, notes)
			VALUES ($1, $2, $3, $4)`,
			blockID, bw.Date, bw.Weight, nullString(bw.Notes))
		if err != nil {
			return nil, fmt.Errorf("insert bodyweight: %w", err)
		}
		stats.Bodyweights++
	}

	return stats, nil
}

// resolveExercises looks up or creates each staged catalog exercise inside
// the transaction and returns name -> id. Muscle-group rows are inserted
// only for exercises created here, so re-imports never duplicate attribute
// rows of an existing catalog entry.
func (s *Store) resolveExercises(ctx context.Context, tx *sql.Tx, staged []model.CatalogEntry, stats *LoadStats) (map[string]int64, error) {
	ids := make(map[string]int64, len(staged))
	for _, entry := range staged {
		var id int64
		err := tx.QueryRowContext(ctx,
			"SELECT exercise_id FROM exercises WHERE name = $1", entry.Name).Scan(&id)
		switch {
		case err == nil:
			stats.ExercisesReused++
		case errors.Is(err, sql.ErrNoRows):
			err = tx.QueryRowContext(ctx, `
				INSERT INTO exercises (name, exercise_type, notes)
				VALUES ($1, $2, $3)
				RETURNING exercise_id`,
				entry.Name, nullString(entry.Type), nullString(entry.Notes),
			).Scan(&id)
			if err != nil {
				return nil, fmt.Errorf("insert exercise %q: %w", entry.Name, err)
			}
			for _, mg := range entry.MuscleGroups {
				_, err := tx.ExecContext(ctx, `
					INSERT INTO exercise_muscle_groups (exercise_id, muscle_group, percentage_effort)
					VALUES ($1, $2, $3)`,
					id, mg.Name, mg.PercentEffort)
				if err != nil {
					return nil, fmt.Errorf("insert muscle group %q for %q: %w", mg.Name, entry.Name, err)
				}
			}
			stats.ExercisesCreated++
		default:
			return nil, fmt.Errorf("lookup exercise %q: %w", entry.Name, err)
		}
		ids[entry.Name] = id
	}
	return ids, nil
}

func (s *Store) loadDay(ctx context.Context, tx *sql.Tx, blockID int64, day *model.Day, exerciseIDs map[string]int64, stats *LoadStats) error {
	var dayID int64
	err := tx.QueryRowContext(ctx, `
		INSERT INTO training_days (block_id, day_number, fatigue_score, sleep_quality, notes, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING day_id`,
		blockID, day.Number, day.FatigueScore, day.SleepQuality,
		nullString(day.Notes), day.StartTime, day.EndTime,
	).Scan(&dayID)
	if err != nil {
		return fmt.Errorf("insert day %d: %w", day.Number, err)
	}
	stats.Days++

	for i := range day.Exercises {
		de := &day.Exercises[i]
		exerciseID, ok := exerciseIDs[de.ExerciseName]
		if !ok {
			return fmt.Errorf("day %d references unstaged exercise %q", day.Number, de.ExerciseName)
		}

		var dayExerciseID int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO day_exercises (day_id, exercise_id, exercise_order, coach_notes)
			VALUES ($1, $2, $3, $4)
			RETURNING day_exercise_id`,
			dayID, exerciseID, de.Order, nullString(de.CoachNotes),
		).Scan(&dayExerciseID)
		if err != nil {
			return fmt.Errorf("insert day %d exercise %q: %w", day.Number, de.ExerciseName, err)
		}
		stats.DayExercises++

		for _, set := range de.Sets {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO exercise_sets (day_exercise_id, set_number, prescribed_reps, prescribed_rpe, completed_weight, completed_reps, completed_rpe, notes)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				dayExerciseID, set.Number, set.PrescribedReps, set.PrescribedRPE,
				set.CompletedWeight, set.CompletedReps, set.CompletedRPE, nullString(set.Notes))
			if err != nil {
				return fmt.Errorf("insert day %d %q set %d: %w", day.Number, de.ExerciseName, set.Number, err)
			}
			stats.Sets++
		}
	}

	if day.Condition != nil {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO session_conditions (day_id, temperature, equipment, platform_condition)
			VALUES ($1, $2, $3, $4)`,
			dayID, day.Condition.Temperature,
			nullString(day.Condition.Equipment), nullString(day.Condition.Platform))
		if err != nil {
			return fmt.Errorf("insert day %d conditions: %w", day.Number, err)
		}
		stats.Conditions++
	}

	return nil
}

// nullString maps "" to NULL so optional text columns stay null instead of
// empty.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
