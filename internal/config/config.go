// Package config reads process configuration from flags, falling back to
// environment variables and then to defaults.
package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// Config holds the server configuration.
type Config struct {
	DBPath       string
	Addr         string
	LogPath      string
	BcryptCost   int
	Environment  string
	OTLPEndpoint string
}

// Usage is printed for -h and on flag errors.
const Usage = `Usage: zaloga [flags]

Flags:
  -d, -db <path>          SQLite database path (env ZALOGA_DB, default: zaloga.sqlite3)
  -a, -addr <host:port>   listen address (env ZALOGA_ADDR, default: :8080)
  -l, -log <path>         log file path (env ZALOGA_LOG, default: stdout/stderr only)
  -bcrypt-cost <n>        password hashing cost (env ZALOGA_BCRYPT_COST, default: 10)
  -env <name>             deployment environment (env ZALOGA_ENV, default: development)
  -h, -help               show this help and exit

Tracing is exported over OTLP/HTTP when OTEL_EXPORTER_OTLP_ENDPOINT is set.
`

// Load parses args (without the program name).
func Load(args []string, usage io.Writer) (*Config, error) {
	cfg := &Config{}

	cost, err := strconv.Atoi(getEnv("ZALOGA_BCRYPT_COST", strconv.Itoa(bcrypt.DefaultCost)))
	if err != nil {
		return nil, fmt.Errorf("invalid ZALOGA_BCRYPT_COST: %w", err)
	}

	fs := flag.NewFlagSet("zaloga", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { fmt.Fprint(usage, Usage) }

	dbPath := getEnv("ZALOGA_DB", "zaloga.sqlite3")
	fs.StringVar(&cfg.DBPath, "db", dbPath, "")
	fs.StringVar(&cfg.DBPath, "d", dbPath, "")

	addr := getEnv("ZALOGA_ADDR", ":8080")
	fs.StringVar(&cfg.Addr, "addr", addr, "")
	fs.StringVar(&cfg.Addr, "a", addr, "")

	logPath := getEnv("ZALOGA_LOG", "")
	fs.StringVar(&cfg.LogPath, "log", logPath, "")
	fs.StringVar(&cfg.LogPath, "l", logPath, "")

	fs.IntVar(&cfg.BcryptCost, "bcrypt-cost", cost, "")
	fs.StringVar(&cfg.Environment, "env", getEnv("ZALOGA_ENV", "development"), "")

	// Parse prints usage itself on failure.
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, cfg.BcryptCost)
	}

	cfg.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
