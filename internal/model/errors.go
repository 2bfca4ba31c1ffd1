package model

import (
	"errors"
	"fmt"
)

// ErrSourceUnavailable marks spreadsheet fetch failures that survived the
// retry budget. Match with errors.Is.
var ErrSourceUnavailable = errors.New("source unavailable")

// SourceError wraps a spreadsheet fetch failure with the number of attempts
// made before giving up.
type SourceError struct {
	Attempts int
	Err      error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source unavailable after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Is reports ErrSourceUnavailable so callers can match without the type.
func (e *SourceError) Is(target error) bool { return target == ErrSourceUnavailable }

// DuplicateBlockError is returned when a block's name already exists in the
// store. Detected before any insert is attempted; the operator must delete
// the block to re-import it.
type DuplicateBlockError struct {
	Name string
}

func (e *DuplicateBlockError) Error() string {
	return fmt.Sprintf("block %q already exists in the store; delete it before re-importing", e.Name)
}

// LoadError reports a failed block transaction. The transaction has been
// rolled back; nothing from the block persists.
type LoadError struct {
	Block string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load failed for block %q: %v", e.Block, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ParseError is a structural parse failure scoped to the smallest enclosing
// unit (an exercise group, a day, or a whole sheet). The unit is skipped;
// siblings still parse.
type ParseError struct {
	Sheet string
	Row   int // 1-based, 0 when the error is not row-scoped
	Unit  string
	Msg   string
}

func (e *ParseError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%s row %d: %s: %s", e.Sheet, e.Row, e.Unit, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Sheet, e.Unit, e.Msg)
}

// ParseWarning flags a single unparseable cell. The cell is treated as null
// and the run continues; warnings are logged, never fatal.
type ParseWarning struct {
	Sheet string
	Row   int // 1-based
	Col   int // 1-based
	Msg   string
}

func (w ParseWarning) String() string {
	return fmt.Sprintf("%s r%dc%d: %s", w.Sheet, w.Row, w.Col, w.Msg)
}
