// Package cli holds the small amount of glue shared by the pipeline
// binaries: config loading with .env overrides, validation reporting, and a
// fatal-exit helper.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"insurancedw/internal/config"
)

// LoadConfig reads the config file, applies environment overrides (loading a
// local .env first when present), and reports validation issues to stderr.
// The returned bool is false when any issue is an error.
func LoadConfig(path string) (config.Config, bool) {
	// A missing .env is fine; explicit environment always wins over it.
	_ = godotenv.Load()

	cfg, err := config.Load(path)
	if err != nil {
		Fatalf("%v", err)
	}
	if dsn := os.Getenv("WAREHOUSE_DSN"); dsn != "" {
		cfg.Warehouse.DSN = dsn
	}
	if kind := os.Getenv("WAREHOUSE_KIND"); kind != "" {
		cfg.Warehouse.Kind = kind
	}

	issues := config.Validate(cfg)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	return cfg, !config.HasErrors(issues)
}

// Fatalf prints a single explanatory message and exits non-zero.
func Fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
