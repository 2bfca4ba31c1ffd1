// Package loader drives one ETL run: fetch worksheets, parse the catalog
// and block sheets, normalize exercise references, and hand each block to
// the store for its transactional load. One block at a time, sequentially;
// a block-scoped failure never stops sibling blocks.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/openlift/blockload/internal/model"
	"github.com/openlift/blockload/internal/parser"
	"github.com/openlift/blockload/internal/store"
)

// Source is the read side: an ordered set of named worksheet grids.
type Source interface {
	WorksheetTitles(ctx context.Context) ([]string, error)
	Grid(ctx context.Context, title string) ([][]string, error)
}

// Storage is the write side consumed by the loader.
type Storage interface {
	BlockExists(ctx context.Context, name string) (bool, error)
	LoadBlock(ctx context.Context, block *model.Block, staged []model.CatalogEntry) (*store.LoadStats, error)
}

// Options control one run.
type Options struct {
	// DryRun parses and normalizes without touching the store.
	DryRun bool
	// Block restricts the run to one block name, e.g. "Block 7".
	Block string
}

// BlockReport is the per-block outcome of a run.
type BlockReport struct {
	Name     string
	Sheet    string
	Stats    *store.LoadStats
	Warnings int
	Skipped  int
	Err      error
}

// Summary is the outcome of a whole run.
type Summary struct {
	Blocks []BlockReport
}

// Failed returns the number of blocks that did not load.
func (s *Summary) Failed() int {
	n := 0
	for _, b := range s.Blocks {
		if b.Err != nil {
			n++
		}
	}
	return n
}

// Err joins the per-block failures; nil when every block loaded.
func (s *Summary) Err() error {
	var errs []error
	for _, b := range s.Blocks {
		if b.Err != nil {
			errs = append(errs, b.Err)
		}
	}
	return errors.Join(errs...)
}

// Loader wires the pipeline together.
type Loader struct {
	source Source
	store  Storage
	parser *parser.Parser
	logger *slog.Logger
}

// New creates a loader. A nil logger discards output.
func New(source Source, storage Storage, p *parser.Parser, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{source: source, store: storage, parser: p, logger: logger}
}

// Run executes one full load. Source failures abort the run; everything
// block-scoped (parse errors, duplicate blocks, failed transactions) is
// recorded in the summary and processing continues with the next block.
func (l *Loader) Run(ctx context.Context, opts Options) (*Summary, error) {
	titles, err := l.source.WorksheetTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list worksheets: %w", err)
	}

	catalog, err := l.loadCatalog(ctx, titles)
	if err != nil {
		return nil, err
	}

	blockSheets := selectBlockSheets(titles)
	l.logger.Info("worksheets scanned", "total", len(titles), "block_sheets", len(blockSheets))

	summary := &Summary{}
	for _, sheet := range blockSheets {
		name, _, _ := parser.MatchBlockTitle(sheet)
		if opts.Block != "" && name != opts.Block {
			continue
		}
		report := l.runBlock(ctx, sheet, name, catalog, opts.DryRun)
		summary.Blocks = append(summary.Blocks, *report)
	}

	if opts.Block != "" && len(summary.Blocks) == 0 {
		return nil, fmt.Errorf("no worksheet matches block %q", opts.Block)
	}
	return summary, nil
}

// loadCatalog parses the optional exercise catalog sheet.
func (l *Loader) loadCatalog(ctx context.Context, titles []string) (map[string]model.CatalogEntry, error) {
	for _, title := range titles {
		if !parser.IsCatalogSheet(title) {
			continue
		}
		grid, err := l.source.Grid(ctx, title)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch catalog sheet: %w", err)
		}
		entries, warnings, err := l.parser.ParseCatalogSheet(title, grid)
		if err != nil {
			l.logger.Warn("catalog sheet unusable, continuing without it", "error", err)
			return map[string]model.CatalogEntry{}, nil
		}
		l.logWarnings(warnings)
		l.logger.Info("catalog sheet parsed", "exercises", len(entries))
		return IndexCatalog(entries), nil
	}
	return map[string]model.CatalogEntry{}, nil
}

func (l *Loader) runBlock(ctx context.Context, sheet, name string, catalog map[string]model.CatalogEntry, dryRun bool) *BlockReport {
	report := &BlockReport{Name: name, Sheet: sheet}
	l.logger.Info("starting block import", "block", name, "sheet", sheet)

	grid, err := l.source.Grid(ctx, sheet)
	if err != nil {
		report.Err = err
		return report
	}

	res, err := l.parser.ParseBlockSheet(sheet, grid)
	if err != nil {
		l.logger.Error("block sheet unusable", "block", name, "error", err)
		report.Err = err
		return report
	}
	l.logWarnings(res.Warnings)
	for _, skipped := range res.Skipped {
		l.logger.Warn("unit skipped", "block", name, "error", skipped)
	}
	report.Warnings = len(res.Warnings)
	report.Skipped = len(res.Skipped)

	staged := StageExercises(res.Block, catalog)

	exists, err := l.store.BlockExists(ctx, name)
	if err != nil {
		report.Err = err
		return report
	}
	if exists {
		report.Err = &model.DuplicateBlockError{Name: name}
		l.logger.Error("duplicate block", "block", name)
		return report
	}

	if dryRun {
		l.logger.Info("dry run, block not loaded",
			"block", name, "days", len(res.Block.Days), "exercises", len(staged))
		return report
	}

	stats, err := l.store.LoadBlock(ctx, res.Block, staged)
	if err != nil {
		l.logger.Error("block load failed, transaction rolled back", "block", name, "error", err)
		report.Err = err
		return report
	}
	report.Stats = stats
	l.logger.Info("block committed",
		"block", name,
		"days", stats.Days,
		"day_exercises", stats.DayExercises,
		"sets", stats.Sets,
		"exercises_created", stats.ExercisesCreated,
		"exercises_reused", stats.ExercisesReused)
	return report
}

func (l *Loader) logWarnings(warnings []model.ParseWarning) {
	for _, w := range warnings {
		l.logger.Warn("cell ignored", "warning", w.String())
	}
}

// selectBlockSheets filters worksheet titles down to block sheets and
// orders them by block number.
func selectBlockSheets(titles []string) []string {
	type candidate struct {
		title string
		name  string
	}
	var sheets []candidate
	for _, t := range titles {
		if name, _, ok := parser.MatchBlockTitle(t); ok {
			sheets = append(sheets, candidate{title: t, name: name})
		}
	}
	sort.SliceStable(sheets, func(i, j int) bool {
		return blockNumber(sheets[i].name) < blockNumber(sheets[j].name)
	})
	out := make([]string, len(sheets))
	for i, s := range sheets {
		out[i] = s.title
	}
	return out
}

func blockNumber(name string) int {
	var n int
	_, _ = fmt.Sscanf(name, "Block %d", &n)
	return n
}
