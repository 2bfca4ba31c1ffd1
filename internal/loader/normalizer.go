package loader

import "github.com/openlift/blockload/internal/model"

// IndexCatalog keys catalog entries by exact name. Matching is
// case-sensitive with no whitespace normalization: a distinct-looking name
// is a distinct catalog entry.
func IndexCatalog(entries []model.CatalogEntry) map[string]model.CatalogEntry {
	idx := make(map[string]model.CatalogEntry, len(entries))
	for _, e := range entries {
		idx[e.Name] = e
	}
	return idx
}

// StageExercises returns the distinct exercises a block references, in
// encounter order, enriched with catalog metadata where the catalog sheet
// has an entry. An exercise appearing on several days stages exactly once;
// one seen only in the block sheet stages as a bare named entry.
func StageExercises(block *model.Block, catalog map[string]model.CatalogEntry) []model.CatalogEntry {
	seen := make(map[string]bool)
	var staged []model.CatalogEntry
	for _, day := range block.Days {
		for _, de := range day.Exercises {
			if seen[de.ExerciseName] {
				continue
			}
			seen[de.ExerciseName] = true
			if entry, ok := catalog[de.ExerciseName]; ok {
				staged = append(staged, entry)
			} else {
				staged = append(staged, model.CatalogEntry{Name: de.ExerciseName})
			}
		}
	}
	return staged
}
