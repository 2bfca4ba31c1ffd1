package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlift/blockload/internal/store"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	creds := filepath.Join(t.TempDir(), "creds.json")
	require.NoError(t, os.WriteFile(creds, []byte("{}"), 0o600))
	return &Config{
		CredentialsFile:   creds,
		SheetID:           "abc123",
		DefaultBodyweight: DefaultBodyweight,
		Source:            SourceConfig{Retries: DefaultRetries, Backoff: DefaultBackoff},
		DB:                store.Config{Name: "training", User: "lifter"},
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig(t).Validate())

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "missing credentials file",
			mutate:  func(c *Config) { c.CredentialsFile = "" },
			wantMsg: "credentials_file is required",
		},
		{
			name:    "unreadable credentials file",
			mutate:  func(c *Config) { c.CredentialsFile = "/nonexistent/creds.json" },
			wantMsg: "credentials file",
		},
		{
			name:    "missing sheet id",
			mutate:  func(c *Config) { c.SheetID, c.SheetIDFile = "", "" },
			wantMsg: "sheet_id or sheet_id_file is required",
		},
		{
			name:    "missing db name",
			mutate:  func(c *Config) { c.DB.Name = "" },
			wantMsg: "db.name is required",
		},
		{
			name:    "missing db user",
			mutate:  func(c *Config) { c.DB.User = "" },
			wantMsg: "db.user is required",
		},
		{
			name:    "non-positive bodyweight",
			mutate:  func(c *Config) { c.DefaultBodyweight = 0 },
			wantMsg: "default_bodyweight must be positive",
		},
		{
			name:    "negative retries",
			mutate:  func(c *Config) { c.Source.Retries = -1 },
			wantMsg: "source.retries must not be negative",
		},
		{
			name:    "unparseable backoff",
			mutate:  func(c *Config) { c.Source.Backoff = "soon" },
			wantMsg: "source.backoff",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestResolveSheetID(t *testing.T) {
	idFile := filepath.Join(t.TempDir(), "sheet_id")
	require.NoError(t, os.WriteFile(idFile, []byte("  file-sheet-id\n"), 0o600))

	cfg := &Config{SheetID: "inline-id", SheetIDFile: idFile}
	id, err := cfg.ResolveSheetID()
	require.NoError(t, err)
	assert.Equal(t, "inline-id", id)

	cfg.SheetID = ""
	id, err = cfg.ResolveSheetID()
	require.NoError(t, err)
	assert.Equal(t, "file-sheet-id", id)

	cfg.SheetIDFile = "/nonexistent/sheet_id"
	_, err = cfg.ResolveSheetID()
	require.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(empty, []byte("  \n"), 0o600))
	cfg.SheetIDFile = empty
	_, err = cfg.ResolveSheetID()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is empty")
}
