// Package config loads the process configuration from file, environment,
// and flags, with precedence flags > env > config file > defaults.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// configFileUsed tracks the file the last load read, for verbose output.
var configFileUsed string

// findConfigFile picks the config file: explicit path, then blockload.yaml,
// then blockload.yml in the working directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"blockload.yaml", "blockload.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load builds the configuration. Precedence (highest to lowest):
// flags > BLOCKLOAD_* env vars > config file > defaults.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"default_bodyweight": DefaultBodyweight,
		"source.retries":     DefaultRetries,
		"source.backoff":     DefaultBackoff,
		"db.host":            "localhost",
		"db.port":            5432,
		"db.sslmode":         "disable",
		"verbose":            false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Environment variables (BLOCKLOAD_ prefix)
	// BLOCKLOAD_SHEET_ID -> sheet_id, BLOCKLOAD_DB_PASSWORD -> db.password
	if err := k.Load(env.Provider("BLOCKLOAD_", ".", func(s string) string {
		return envToKey(strings.ToLower(strings.TrimPrefix(s, "BLOCKLOAD_")))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags (highest priority, only when explicitly set)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return flagToKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}

// envToKey maps a lowercased env var suffix to its config key, nesting the
// db_* and source_* groups.
func envToKey(s string) string {
	switch {
	case strings.HasPrefix(s, "db_"):
		return "db." + strings.TrimPrefix(s, "db_")
	case strings.HasPrefix(s, "source_"):
		return "source." + strings.TrimPrefix(s, "source_")
	default:
		return s
	}
}

// flagToKey maps a kebab-case flag name to its config key.
func flagToKey(name string) string {
	key := strings.ReplaceAll(name, "-", "_")
	if key == "credentials" {
		return "credentials_file"
	}
	return envToKey(key)
}

// GetConfigFileUsed returns the config file path the last Load read, empty
// when none was found.
func GetConfigFileUsed() string {
	return configFileUsed
}
