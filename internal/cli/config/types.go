package config

import (
	"time"

	"github.com/openlift/blockload/internal/store"
)

// Defaults
const (
	DefaultBodyweight = 100.0
	DefaultRetries    = 4
	DefaultBackoff    = "2s"
)

// Config is the process-wide configuration, loaded once at startup and
// passed explicitly to components.
type Config struct {
	// CredentialsFile is the mounted service-account key path.
	CredentialsFile string `koanf:"credentials_file"`
	// SheetID identifies the source spreadsheet; SheetIDFile points at a
	// mounted file holding the id when it is not given inline.
	SheetID     string `koanf:"sheet_id"`
	SheetIDFile string `koanf:"sheet_id_file"`
	// DefaultBodyweight substitutes "BW" placeholders in weight cells.
	DefaultBodyweight float64 `koanf:"default_bodyweight"`
	Verbose           bool    `koanf:"verbose"`

	Source SourceConfig `koanf:"source"`
	DB     store.Config `koanf:"db"`
}

// SourceConfig tunes the read-side retry behavior.
type SourceConfig struct {
	// Retries is the number of additional attempts after a transient
	// source failure.
	Retries int `koanf:"retries"`
	// Backoff is the base delay between attempts, as a duration string.
	Backoff string `koanf:"backoff"`
}

// BackoffDuration parses the configured backoff. Validate guarantees it
// parses, so callers after validation can ignore the error.
func (c SourceConfig) BackoffDuration() (time.Duration, error) {
	return time.ParseDuration(c.Backoff)
}
