// Package model defines the in-memory training-log hierarchy produced by the
// parser and consumed by the loader, plus the error types shared across the
// pipeline. The shape mirrors the persisted schema: a block owns days, a day
// owns ordered day-exercises, a day-exercise owns ordered sets. Exercises are
// catalog entities shared across blocks and referenced by name until load time.
package model

import "time"

// Block is the root aggregate: one named training cycle parsed from a single
// worksheet. It is also the unit of transactional atomicity during load.
type Block struct {
	// Name is the unique block identity, e.g. "Block 7".
	Name string
	// SourceSheet is the worksheet title the block was parsed from.
	SourceSheet string
	StartDate   *time.Time
	EndDate     *time.Time
	Notes       string
	Days        []Day
	Bodyweights []Bodyweight
}

// Day is one training session within a block.
type Day struct {
	// Number is the explicit day number from the sheet anchor, unique within
	// the block.
	Number       int
	FatigueScore *int
	SleepQuality *int
	Notes        string
	// StartTime and EndTime are wall-clock times in "15:04" form.
	StartTime *string
	EndTime   *string
	Exercises []DayExercise
	Condition *SessionCondition
}

// DayExercise assigns one catalog exercise to one day with an ordering
// position. The exercise is referenced by name; id resolution happens in the
// store during load.
type DayExercise struct {
	ExerciseName string
	// Order is the 1-based encounter order within the day.
	Order      int
	CoachNotes string
	Sets       []Set
}

// Set is one prescribed/performed unit of work. All metric fields are
// nullable: a set exists as long as at least one of them is populated.
type Set struct {
	// Number is 1-based and contiguous within its day-exercise.
	Number          int
	PrescribedReps  *float64
	PrescribedRPE   *float64
	CompletedWeight *float64
	CompletedReps   *float64
	CompletedRPE    *float64
	Notes           string
}

// CatalogEntry is the parsed form of one row of the exercise catalog sheet.
// Entries enrich exercises the normalizer stages for insertion; an exercise
// seen only in a block sheet gets a bare catalog entry with just its name.
type CatalogEntry struct {
	Name         string
	Type         string
	Notes        string
	MuscleGroups []MuscleGroup
}

// MuscleGroup is one muscle-group attribution row of a catalog exercise.
type MuscleGroup struct {
	Name string
	// PercentEffort is the share of effort attributed to the group, nil when
	// the sheet gives the group without a percentage.
	PercentEffort *float64
}

// Bodyweight is a dated bodyweight record, independent of the day hierarchy.
type Bodyweight struct {
	Date   *time.Time
	Weight float64
	Notes  string
}

// SessionCondition captures the environmental context of a day, at most one
// per day.
type SessionCondition struct {
	Temperature *float64
	Equipment   string
	Platform    string
}
