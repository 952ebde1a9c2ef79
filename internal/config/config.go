// Package config handles loading and parsing application configuration.
// It supports three sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//  3. Plain environment variables and the env-default tags below
//
// The parsed values are returned as a *Config pointer so the struct is
// shared by reference rather than copied everywhere.
package config

import (
	"flag"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
//
// Unlike a server, the CLI must run with no config file at all (the
// store lives in the working directory by default), so every field has
// an env-default instead of env-required.
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	// StoragePath is the filesystem path to the semicolon-delimited store.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"sistemaAcademico.csv"`

	// BackupDir receives one timestamped copy of the store per mutation.
	BackupDir string `yaml:"backup_dir" env:"BACKUP_DIR" env-default:"backups"`

	// ReportPath is the SQLite file the report command rebuilds.
	ReportPath string `yaml:"report_path" env:"REPORT_PATH" env-default:"relatorio.db"`
}

// MustLoad reads, validates, and returns the application config.
//
// The name "MustLoad" follows a Go convention: functions prefixed with
// "Must" are allowed to fatal on failure. Callers do not need to check a
// returned error — if this function returns, the config is usable.
//
// MustLoad parses the global flag set, so subcommand arguments are left
// in flag.Args() for the caller.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	flags := flag.String("config", "", "Path to the configuration YAML file")
	flag.Parse()
	if configPath == "" {
		configPath = *flags
	}

	// No file given: environment and defaults only.
	if configPath == "" {
		var cfg Config
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read config from environment: %s", err.Error())
		}
		return &cfg
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err.Error())
	}

	return cfg
}

// Load reads the YAML file at path, applies env overrides and defaults,
// and returns the result. It is the non-fatal half of MustLoad.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
