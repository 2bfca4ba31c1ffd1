// Package sheets is the read-only spreadsheet source client. It wraps the
// Google Sheets v4 API behind a thin grid-of-strings interface and absorbs
// transient API failures (rate limits, 5xx) with a bounded retry budget
// before surfacing a source-unavailable error.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Config holds the source connection parameters.
type Config struct {
	// CredentialsFile is the path to the mounted service-account key.
	CredentialsFile string
	// SpreadsheetID identifies the training-log spreadsheet.
	SpreadsheetID string
	// Retries is the number of additional attempts after a transient failure.
	Retries int
	// Backoff is the base delay between attempts; it doubles per attempt.
	Backoff time.Duration
}

// Client fetches worksheet grids from one spreadsheet.
type Client struct {
	svc    *sheets.Service
	id     string
	retry  retrier
	logger *slog.Logger
}

// NewClient builds a Sheets API client from a service-account credentials
// file. Credential problems surface here, at startup, not per-fetch.
func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &Client{
		svc:    svc,
		id:     cfg.SpreadsheetID,
		retry:  retrier{attempts: cfg.Retries + 1, backoff: cfg.Backoff, logger: logger},
		logger: logger,
	}, nil
}

// WorksheetTitles returns the titles of every worksheet in the spreadsheet,
// in sheet order.
func (c *Client) WorksheetTitles(ctx context.Context) ([]string, error) {
	var titles []string
	err := c.retry.do(ctx, "list worksheets", func() error {
		resp, err := c.svc.Spreadsheets.Get(c.id).
			Fields("sheets.properties.title").
			Context(ctx).Do()
		if err != nil {
			return err
		}
		titles = titles[:0]
		for _, s := range resp.Sheets {
			if s.Properties != nil {
				titles = append(titles, s.Properties.Title)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return titles, nil
}

// Grid returns the full cell grid of one worksheet as rows of strings.
// Cells are formatted values; the API omits trailing empty cells and rows,
// which the parser tolerates.
func (c *Client) Grid(ctx context.Context, title string) ([][]string, error) {
	var grid [][]string
	err := c.retry.do(ctx, "fetch worksheet "+title, func() error {
		resp, err := c.svc.Spreadsheets.Values.Get(c.id, fmt.Sprintf("'%s'", title)).
			ValueRenderOption("FORMATTED_VALUE").
			Context(ctx).Do()
		if err != nil {
			return err
		}
		grid = make([][]string, 0, len(resp.Values))
		for _, row := range resp.Values {
			cells := make([]string, 0, len(row))
			for _, v := range row {
				if v == nil {
					cells = append(cells, "")
					continue
				}
				cells = append(cells, fmt.Sprint(v))
			}
			grid = append(grid, cells)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return grid, nil
}
