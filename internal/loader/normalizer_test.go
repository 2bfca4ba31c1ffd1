package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlift/blockload/internal/model"
)

func TestStageExercises(t *testing.T) {
	pct := 50.0
	catalog := IndexCatalog([]model.CatalogEntry{
		{Name: "Squat", Type: "competition", MuscleGroups: []model.MuscleGroup{{Name: "quads", PercentEffort: &pct}}},
		{Name: "Bench Press", Type: "competition"},
	})

	block := &model.Block{
		Name: "Block 1",
		Days: []model.Day{
			{Number: 1, Exercises: []model.DayExercise{
				{ExerciseName: "Squat", Order: 1},
				{ExerciseName: "Paused Squat", Order: 2},
			}},
			{Number: 3, Exercises: []model.DayExercise{
				{ExerciseName: "Bench Press", Order: 1},
				{ExerciseName: "Squat", Order: 2},
			}},
		},
	}

	staged := StageExercises(block, catalog)
	require.Len(t, staged, 3)

	// Encounter order, one entry per distinct name across days.
	assert.Equal(t, "Squat", staged[0].Name)
	assert.Equal(t, "Paused Squat", staged[1].Name)
	assert.Equal(t, "Bench Press", staged[2].Name)

	// Catalog metadata carried where an entry exists, bare name otherwise.
	assert.Equal(t, "competition", staged[0].Type)
	require.Len(t, staged[0].MuscleGroups, 1)
	assert.Empty(t, staged[1].Type)
	assert.Empty(t, staged[1].MuscleGroups)
}

func TestStageExercisesCaseSensitive(t *testing.T) {
	catalog := IndexCatalog([]model.CatalogEntry{{Name: "Squat", Type: "competition"}})
	block := &model.Block{Days: []model.Day{
		{Number: 1, Exercises: []model.DayExercise{{ExerciseName: "squat", Order: 1}}},
	}}

	staged := StageExercises(block, catalog)
	require.Len(t, staged, 1)
	assert.Equal(t, "squat", staged[0].Name)
	assert.Empty(t, staged[0].Type)
}
