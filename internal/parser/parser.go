// Package parser converts raw worksheet grids into the hierarchical
// training-log model. It owns the sheet layout grammar:
//
//   - A worksheet is a block sheet when its title matches "B<n>" or
//     "Block <n>", optionally followed by "- comment" or "(comment)". The
//     block is named "Block <n>" and the comment becomes its notes.
//   - Block metadata lives in labeled cells anywhere on the sheet:
//     "Start Date: <v>" and "End Date: <v>" (first occurrence wins), and
//     "Bodyweight: <kg> [@ <date>]" rows with optional notes in the next cell.
//   - A day section starts at an anchor cell matching W<week>D<day>; the D
//     number is the day number. Other labeled cells on the anchor row carry
//     day metadata: Fatigue, Sleep, Start, End, Notes, Temp, Equipment,
//     Platform.
//   - The row under the anchor is the column header row and must contain
//     "Exercise". Recognized headers: Exercise, Prescribed Reps,
//     Prescribed RPE, Weight, Reps, RPE, Notes, Coach Notes.
//   - Set rows follow until a blank row, the next anchor, or the end of the
//     grid. An empty exercise cell continues the previous exercise group; a
//     row counts as a set only if at least one metric cell is non-empty.
//
// Parsing is pure: the same grid always yields the same model. Bad cells
// degrade to null with a warning; structural problems skip the smallest
// enclosing unit (exercise group, day, or sheet) and are reported so sibling
// units still load.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/openlift/blockload/internal/model"
)

// Layout patterns
var (
	// B7, Block 7, Block 7 - peak, Block 7 (peak)
	blockTitlePattern = regexp.MustCompile(`(?i)^(?:B|Block)\s*(\d+)(?:\s*[-–]\s*([^()]+?)|\s*\(([^)]+)\))?\s*$`)
	// W3D2 day anchors
	dayAnchorPattern = regexp.MustCompile(`(?i)^W\d+D(\d+)$`)
	// "Label: value" cells (metadata on anchor rows and block sheets)
	labelPattern = regexp.MustCompile(`^([A-Za-z][A-Za-z ]*):\s*(.*)$`)
	// "102.5 @ 2025-01-31" bodyweight values
	bodyweightPattern = regexp.MustCompile(`^(\S+)(?:\s*@\s*(.+))?$`)
)

var dateLayouts = []string{"2006-01-02", "01/02/2006"}

// Parser turns worksheet grids into model values. It carries no per-sheet
// state; one Parser can process every sheet of a run.
type Parser struct {
	// DefaultBodyweight substitutes the "BW" placeholder in weight cells.
	DefaultBodyweight float64
}

// New creates a parser with the given default bodyweight.
func New(defaultBodyweight float64) *Parser {
	return &Parser{DefaultBodyweight: defaultBodyweight}
}

// MatchBlockTitle reports whether a worksheet title names a training block.
// It returns the canonical block name and the title comment.
func MatchBlockTitle(title string) (name, comment string, ok bool) {
	m := blockTitlePattern.FindStringSubmatch(strings.TrimSpace(title))
	if m == nil {
		return "", "", false
	}
	number, err := strconv.Atoi(m[1])
	if err != nil {
		return "", "", false
	}
	comment = strings.TrimSpace(m[2])
	if comment == "" {
		comment = strings.TrimSpace(m[3])
	}
	return fmt.Sprintf("Block %d", number), comment, true
}

// Result is the outcome of parsing one block sheet. Skipped units and cell
// warnings are reported alongside the block so the caller can log them.
type Result struct {
	Block    *model.Block
	Warnings []model.ParseWarning
	Skipped  []*model.ParseError
}

// ParseBlockSheet parses one block worksheet. It returns a ParseError when
// the sheet as a whole is unusable (title not a block, no day sections);
// day- and exercise-scoped problems are collected in the result instead.
func (p *Parser) ParseBlockSheet(title string, grid [][]string) (*Result, error) {
	name, comment, ok := MatchBlockTitle(title)
	if !ok {
		return nil, &model.ParseError{Sheet: title, Unit: "sheet", Msg: "title does not name a training block"}
	}

	res := &Result{Block: &model.Block{
		Name:        name,
		SourceSheet: title,
		Notes:       comment,
	}}

	p.scanBlockMetadata(title, grid, res)

	seen := map[int]bool{}
	for r := 0; r < len(grid); r++ {
		c, dayNum, found := findAnchor(grid[r])
		if !found {
			continue
		}
		if seen[dayNum] {
			res.Skipped = append(res.Skipped, &model.ParseError{
				Sheet: title, Row: r + 1, Unit: fmt.Sprintf("day %d", dayNum),
				Msg: "duplicate day number, section skipped",
			})
			r = endOfSection(grid, r)
			continue
		}
		day, end, perr := p.parseDaySection(title, grid, r, c, dayNum, res)
		if perr != nil {
			res.Skipped = append(res.Skipped, perr)
			r = endOfSection(grid, r)
			continue
		}
		seen[dayNum] = true
		res.Block.Days = append(res.Block.Days, *day)
		r = end
	}

	if len(res.Block.Days) == 0 {
		return nil, &model.ParseError{Sheet: title, Unit: "sheet", Msg: "no day sections found"}
	}
	return res, nil
}

// scanBlockMetadata collects Start Date, End Date and Bodyweight rows from
// anywhere on the sheet.
func (p *Parser) scanBlockMetadata(title string, grid [][]string, res *Result) {
	for r, row := range grid {
		for c, raw := range row {
			label, value, ok := splitLabel(raw)
			if !ok {
				continue
			}
			switch strings.ToLower(label) {
			case "start date":
				if res.Block.StartDate == nil {
					res.Block.StartDate = p.parseDate(title, r, c, value, res)
				}
			case "end date":
				if res.Block.EndDate == nil {
					res.Block.EndDate = p.parseDate(title, r, c, value, res)
				}
			case "bodyweight":
				if bw := p.parseBodyweight(title, r, c, value, cellAt(row, c+1), res); bw != nil {
					res.Block.Bodyweights = append(res.Block.Bodyweights, *bw)
				}
			}
		}
	}
}

func (p *Parser) parseDate(sheet string, r, c int, value string, res *Result) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	res.Warnings = append(res.Warnings, model.ParseWarning{
		Sheet: sheet, Row: r + 1, Col: c + 1,
		Msg: fmt.Sprintf("unparseable date %q", value),
	})
	return nil
}

func (p *Parser) parseBodyweight(sheet string, r, c int, value, notes string, res *Result) *model.Bodyweight {
	m := bodyweightPattern.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return nil
	}
	var weight float64
	if strings.EqualFold(m[1], "BW") {
		weight = p.DefaultBodyweight
	} else {
		w, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			res.Warnings = append(res.Warnings, model.ParseWarning{
				Sheet: sheet, Row: r + 1, Col: c + 1,
				Msg: fmt.Sprintf("unparseable bodyweight %q", m[1]),
			})
			return nil
		}
		weight = w
	}
	bw := &model.Bodyweight{Weight: weight, Notes: strings.TrimSpace(notes)}
	if m[2] != "" {
		bw.Date = p.parseDate(sheet, r, c, m[2], res)
	}
	return bw
}

// findAnchor returns the column and day number of the first W#D# anchor in a
// row.
func findAnchor(row []string) (col, dayNum int, ok bool) {
	for c, raw := range row {
		m := dayAnchorPattern.FindStringSubmatch(strings.TrimSpace(raw))
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			continue
		}
		return c, n, true
	}
	return 0, 0, false
}

// endOfSection returns the last row index of the section starting at the
// anchor row r (the row before the next anchor, or the first blank row).
func endOfSection(grid [][]string, r int) int {
	for i := r + 1; i < len(grid); i++ {
		if _, _, found := findAnchor(grid[i]); found {
			return i - 1
		}
		if isBlankRow(grid[i]) {
			return i
		}
	}
	return len(grid) - 1
}

// headerColumns maps recognized header labels to their column indexes.
// Missing columns stay at -1 and read as empty.
type headerColumns struct {
	exercise       int
	prescribedReps int
	prescribedRPE  int
	weight         int
	reps           int
	rpe            int
	notes          int
	coachNotes     int
}

func locateHeaders(row []string) (*headerColumns, bool) {
	cols := &headerColumns{
		exercise: -1, prescribedReps: -1, prescribedRPE: -1,
		weight: -1, reps: -1, rpe: -1, notes: -1, coachNotes: -1,
	}
	for c, raw := range row {
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "exercise":
			cols.exercise = c
		case "prescribed reps":
			cols.prescribedReps = c
		case "prescribed rpe":
			cols.prescribedRPE = c
		case "weight":
			cols.weight = c
		case "reps":
			cols.reps = c
		case "rpe":
			cols.rpe = c
		case "notes":
			cols.notes = c
		case "coach notes":
			cols.coachNotes = c
		}
	}
	return cols, cols.exercise >= 0
}

// parseDaySection parses one day starting at the anchor row. It returns the
// day and the index of the section's last row.
func (p *Parser) parseDaySection(sheet string, grid [][]string, r, anchorCol, dayNum int, res *Result) (*model.Day, int, *model.ParseError) {
	day := &model.Day{Number: dayNum}
	unit := fmt.Sprintf("day %d", dayNum)

	p.parseDayMetadata(sheet, grid[r], r, anchorCol, day, res)

	if r+1 >= len(grid) {
		return nil, 0, &model.ParseError{Sheet: sheet, Row: r + 1, Unit: unit, Msg: "missing header row"}
	}
	cols, ok := locateHeaders(grid[r+1])
	if !ok {
		return nil, 0, &model.ParseError{Sheet: sheet, Row: r + 2, Unit: unit, Msg: "header row has no Exercise column"}
	}

	end := endOfSection(grid, r)
	var current *model.DayExercise
	var prevRPE *float64
	flush := func() {
		if current != nil && len(current.Sets) > 0 {
			day.Exercises = append(day.Exercises, *current)
		}
		current = nil
		prevRPE = nil
	}

	for i := r + 2; i <= end; i++ {
		row := grid[i]
		if isBlankRow(row) {
			continue
		}
		name := strings.TrimSpace(cellAt(row, cols.exercise))
		if name != "" && (current == nil || name != current.ExerciseName) {
			flush()
			current = &model.DayExercise{
				ExerciseName: name,
				Order:        len(day.Exercises) + 1,
				CoachNotes:   strings.TrimSpace(cellAt(row, cols.coachNotes)),
			}
		}
		if current == nil {
			res.Skipped = append(res.Skipped, &model.ParseError{
				Sheet: sheet, Row: i + 1, Unit: unit,
				Msg: "set row with no exercise name and no preceding exercise",
			})
			continue
		}

		set, present := p.parseSetRow(sheet, row, i, cols, len(current.Sets)+1, prevRPE, res)
		if !present {
			continue
		}
		if set.CompletedRPE != nil {
			prevRPE = set.CompletedRPE
		}
		current.Sets = append(current.Sets, *set)
	}
	flush()

	return day, end, nil
}

// parseDayMetadata reads labeled cells on the anchor row.
func (p *Parser) parseDayMetadata(sheet string, row []string, r, anchorCol int, day *model.Day, res *Result) {
	for c, raw := range row {
		if c == anchorCol {
			continue
		}
		label, value, ok := splitLabel(raw)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		value = strings.TrimSpace(value)
		warn := func(what string) {
			res.Warnings = append(res.Warnings, model.ParseWarning{
				Sheet: sheet, Row: r + 1, Col: c + 1,
				Msg: fmt.Sprintf("unparseable %s %q", what, value),
			})
		}
		switch strings.ToLower(label) {
		case "fatigue":
			if n, err := strconv.Atoi(value); err == nil {
				day.FatigueScore = &n
			} else {
				warn("fatigue score")
			}
		case "sleep":
			if n, err := strconv.Atoi(value); err == nil {
				day.SleepQuality = &n
			} else {
				warn("sleep quality")
			}
		case "start":
			if t := parseClock(value); t != nil {
				day.StartTime = t
			} else {
				warn("start time")
			}
		case "end":
			if t := parseClock(value); t != nil {
				day.EndTime = t
			} else {
				warn("end time")
			}
		case "notes":
			day.Notes = value
		case "temp":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				condition(day).Temperature = &f
			} else {
				warn("temperature")
			}
		case "equipment":
			condition(day).Equipment = value
		case "platform":
			condition(day).Platform = value
		}
	}
}

func condition(day *model.Day) *model.SessionCondition {
	if day.Condition == nil {
		day.Condition = &model.SessionCondition{}
	}
	return day.Condition
}

// parseSetRow builds one set from a data row. present is false when every
// metric cell is empty; such rows never become sets, which keeps set numbers
// contiguous and drops trailing empty slots.
func (p *Parser) parseSetRow(sheet string, row []string, r int, cols *headerColumns, number int, prevRPE *float64, res *Result) (*model.Set, bool) {
	type metric struct {
		col     int
		allowBW bool
		isRPE   bool
		dst     **float64
	}
	set := &model.Set{Number: number, Notes: strings.TrimSpace(cellAt(row, cols.notes))}
	metrics := []metric{
		{cols.prescribedReps, false, false, &set.PrescribedReps},
		{cols.prescribedRPE, false, true, &set.PrescribedRPE},
		{cols.weight, true, false, &set.CompletedWeight},
		{cols.reps, false, false, &set.CompletedReps},
		{cols.rpe, false, true, &set.CompletedRPE},
	}

	present := false
	for _, m := range metrics {
		raw := strings.TrimSpace(cellAt(row, m.col))
		if raw == "" {
			continue
		}
		present = true
		v, ok := p.parseNumeric(raw, prevRPE, m.allowBW, m.isRPE)
		if !ok {
			res.Warnings = append(res.Warnings, model.ParseWarning{
				Sheet: sheet, Row: r + 1, Col: m.col + 1,
				Msg: fmt.Sprintf("unparseable value %q, treated as empty", raw),
			})
			continue
		}
		*m.dst = v
	}
	return set, present
}

func splitLabel(raw string) (label, value string, ok bool) {
	m := labelPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(m[1]), m[2], true
}

func parseClock(value string) *string {
	if _, err := time.Parse("15:04", value); err != nil {
		return nil
	}
	v := value
	return &v
}

func cellAt(row []string, c int) string {
	if c < 0 || c >= len(row) {
		return ""
	}
	return row[c]
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
