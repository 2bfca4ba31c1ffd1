package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Validate checks the startup invariants. Missing or unreadable credential
// material is a fatal startup error, never a per-row error.
func (c *Config) Validate() error {
	var errs []error

	if c.CredentialsFile == "" {
		errs = append(errs, errors.New("credentials_file is required"))
	} else if _, err := os.Stat(c.CredentialsFile); err != nil {
		errs = append(errs, fmt.Errorf("credentials file %s: %w", c.CredentialsFile, err))
	}

	if c.SheetID == "" && c.SheetIDFile == "" {
		errs = append(errs, errors.New("one of sheet_id or sheet_id_file is required"))
	}

	if c.DB.Name == "" {
		errs = append(errs, errors.New("db.name is required"))
	}
	if c.DB.User == "" {
		errs = append(errs, errors.New("db.user is required"))
	}

	if c.DefaultBodyweight <= 0 {
		errs = append(errs, errors.New("default_bodyweight must be positive"))
	}
	if c.Source.Retries < 0 {
		errs = append(errs, errors.New("source.retries must not be negative"))
	}
	if _, err := c.Source.BackoffDuration(); err != nil {
		errs = append(errs, fmt.Errorf("source.backoff: %w", err))
	}

	return errors.Join(errs...)
}

// ResolveSheetID returns the spreadsheet id, reading the mounted id file
// when the id is not configured inline.
func (c *Config) ResolveSheetID() (string, error) {
	if c.SheetID != "" {
		return c.SheetID, nil
	}
	data, err := os.ReadFile(c.SheetIDFile)
	if err != nil {
		return "", fmt.Errorf("failed to read sheet id file: %w", err)
	}
	id := strings.TrimSpace(string(data))
	if id == "" {
		return "", fmt.Errorf("sheet id file %s is empty", c.SheetIDFile)
	}
	return id, nil
}
