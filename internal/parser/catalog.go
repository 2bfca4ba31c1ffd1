package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/openlift/blockload/internal/model"
)

// catalogSheetTitle names the optional exercise catalog worksheet.
const catalogSheetTitle = "Exercises"

// IsCatalogSheet reports whether a worksheet title names the exercise
// catalog sheet.
func IsCatalogSheet(title string) bool {
	return strings.EqualFold(strings.TrimSpace(title), catalogSheetTitle)
}

// ParseCatalogSheet parses the exercise catalog worksheet. The first row
// containing a "Name" cell is the header; recognized headers are Name, Type,
// Muscle Groups and Notes. The muscle-group cell holds comma-separated
// "group:percent" pairs, percent optional. Rows without a name are ignored.
func (p *Parser) ParseCatalogSheet(title string, grid [][]string) ([]model.CatalogEntry, []model.ParseWarning, error) {
	headerRow, nameCol := -1, -1
	typeCol, groupsCol, notesCol := -1, -1, -1
	for r, row := range grid {
		for c, raw := range row {
			switch strings.ToLower(strings.TrimSpace(raw)) {
			case "name":
				headerRow, nameCol = r, c
			case "type":
				typeCol = c
			case "muscle groups":
				groupsCol = c
			case "notes":
				notesCol = c
			}
		}
		if headerRow >= 0 {
			break
		}
	}
	if headerRow < 0 {
		return nil, nil, &model.ParseError{Sheet: title, Unit: "sheet", Msg: "catalog sheet has no Name header"}
	}

	var entries []model.CatalogEntry
	var warnings []model.ParseWarning
	for r := headerRow + 1; r < len(grid); r++ {
		row := grid[r]
		name := strings.TrimSpace(cellAt(row, nameCol))
		if name == "" {
			continue
		}
		entry := model.CatalogEntry{
			Name:  name,
			Type:  strings.TrimSpace(cellAt(row, typeCol)),
			Notes: strings.TrimSpace(cellAt(row, notesCol)),
		}
		groups, ws := parseMuscleGroups(title, r, groupsCol, cellAt(row, groupsCol))
		entry.MuscleGroups = groups
		warnings = append(warnings, ws...)
		entries = append(entries, entry)
	}
	return entries, warnings, nil
}

// parseMuscleGroups parses "quads:50, glutes:30, back" style cells.
func parseMuscleGroups(sheet string, r, c int, raw string) ([]model.MuscleGroup, []model.ParseWarning) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var groups []model.MuscleGroup
	var warnings []model.ParseWarning
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, pctRaw, hasPct := strings.Cut(part, ":")
		group := model.MuscleGroup{Name: strings.TrimSpace(name)}
		if hasPct {
			pct, err := strconv.ParseFloat(strings.TrimSpace(pctRaw), 64)
			if err != nil {
				warnings = append(warnings, model.ParseWarning{
					Sheet: sheet, Row: r + 1, Col: c + 1,
					Msg: fmt.Sprintf("unparseable effort percentage %q for muscle group %q", pctRaw, group.Name),
				})
			} else {
				group.PercentEffort = &pct
			}
		}
		if group.Name != "" {
			groups = append(groups, group)
		}
	}
	return groups, warnings
}
