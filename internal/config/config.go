// Package config layers termtrack's settings from defaults, an
// optional YAML file, TERMTRACK_* environment variables, and flags,
// in that order of increasing precedence.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	flag "github.com/spf13/pflag"
)

// Config carries everything the entrypoint needs to wire the core.
type Config struct {
	DBPath   string
	Seed     bool
	LogLevel slog.Level
}

// Load parses flags and resolves the final configuration.
func Load(args []string) (Config, error) {
	f := flag.NewFlagSet("termtrack", flag.ContinueOnError)
	f.String("config", "", "Path to an optional YAML config file")
	f.String("db", "termtrack.db", "Path to the SQLite database file")
	f.Bool("seed", false, "Seed sample data when the store is empty")
	f.String("log-level", "info", "Log level: debug, info, warn or error")
	if err := f.Parse(args); err != nil {
		return Config{}, fmt.Errorf("failed to parse flags: %w", err)
	}

	k := koanf.New(".")

	if path, _ := f.GetString("config"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// TERMTRACK_LOG_LEVEL=debug maps to the log-level key.
	if err := k.Load(env.Provider("TERMTRACK_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "TERMTRACK_")), "_", "-")
	}), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment: %w", err)
	}

	if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load flags: %w", err)
	}

	level, err := parseLevel(k.String("log-level"))
	if err != nil {
		return Config{}, err
	}

	return Config{
		DBPath:   k.String("db"),
		Seed:     k.Bool("seed"),
		LogLevel: level,
	}, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}
