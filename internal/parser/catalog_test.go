package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlift/blockload/internal/model"
)

func TestIsCatalogSheet(t *testing.T) {
	assert.True(t, IsCatalogSheet("Exercises"))
	assert.True(t, IsCatalogSheet(" exercises "))
	assert.False(t, IsCatalogSheet("Block 1"))
	assert.False(t, IsCatalogSheet("Exercise log"))
}

func TestParseCatalogSheet(t *testing.T) {
	grid := [][]string{
		{"Exercise catalog, edit freely"},
		{"Name", "Type", "Muscle Groups", "Notes"},
		{"Squat", "competition", "quads:50, glutes:30, back", "low bar"},
		{"Bench Press", "competition", "chest:60, triceps:25"},
		{"", "accessory", "ignored row without a name"},
		{"Face Pull", "", "rear delts:bad%", ""},
	}

	p := New(100)
	entries, warnings, err := p.ParseCatalogSheet("Exercises", grid)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	squat := entries[0]
	assert.Equal(t, "Squat", squat.Name)
	assert.Equal(t, "competition", squat.Type)
	assert.Equal(t, "low bar", squat.Notes)
	require.Len(t, squat.MuscleGroups, 3)
	assert.Equal(t, "quads", squat.MuscleGroups[0].Name)
	require.NotNil(t, squat.MuscleGroups[0].PercentEffort)
	assert.Equal(t, 50.0, *squat.MuscleGroups[0].PercentEffort)
	assert.Equal(t, "back", squat.MuscleGroups[2].Name)
	assert.Nil(t, squat.MuscleGroups[2].PercentEffort)

	assert.Equal(t, "Bench Press", entries[1].Name)
	require.Len(t, entries[1].MuscleGroups, 2)

	// Bad effort percentage warns but keeps the group.
	facePull := entries[2]
	assert.Equal(t, "Face Pull", facePull.Name)
	require.Len(t, facePull.MuscleGroups, 1)
	assert.Equal(t, "rear delts", facePull.MuscleGroups[0].Name)
	assert.Nil(t, facePull.MuscleGroups[0].PercentEffort)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Msg, "effort percentage")
}

func TestParseCatalogSheetMissingHeader(t *testing.T) {
	p := New(100)
	_, _, err := p.ParseCatalogSheet("Exercises", [][]string{{"just", "data"}})
	var perr *model.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "sheet", perr.Unit)
}
