package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config represents the demo driver configuration
type Config struct {
	// JournalSQLitePath enables journaling of raised events into a sqlite file
	JournalSQLitePath string `mapstructure:"journal_sqlite"`
	// JournalPostgresDSN enables journaling of raised events into postgres
	JournalPostgresDSN string `mapstructure:"journal_postgres"`
	// Verbose sends aggregator logs to stderr
	Verbose bool `mapstructure:"verbose"`
}

// JournalEnabled reports whether a journal backend is configured
func (c *Config) JournalEnabled() bool {
	return c.JournalSQLitePath != "" || c.JournalPostgresDSN != ""
}

// Load reads configuration from EVENTS_* environment variables.
// envFiles are loaded first with godotenv; missing files are skipped and
// variables already present in the environment win.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}

		if err := godotenv.Load(f); err != nil {
			return nil, errors.Wrapf(err, "failed to load env file %s", f)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("events")

	v.SetDefault("journal_sqlite", "")
	v.SetDefault("journal_postgres", "")
	v.SetDefault("verbose", false)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}

	if cfg.JournalSQLitePath != "" && cfg.JournalPostgresDSN != "" {
		return nil, errors.New("only one of EVENTS_JOURNAL_SQLITE or EVENTS_JOURNAL_POSTGRES can be set")
	}

	return &cfg, nil
}
