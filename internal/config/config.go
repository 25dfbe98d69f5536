// Package config defines the JSON-serializable configuration shared by the
// pipeline binaries. It is intentionally small and explicit so a single config
// file can drive every stage without additional glue code.
//
// All directory conventions are explicit parameters here; stages never reach
// for hard-coded relative paths. Artifact file names inside those directories
// are fixed, well-known constants so each stage can locate its predecessor's
// output.
//
// Example (trimmed):
//
//	{
//	  "job": "insurance_dw",
//	  "raw":       { "dir": "data/raw" },
//	  "staging":   { "dir": "data/staging" },
//	  "reports":   { "dir": "reports" },
//	  "country":   { "fix": false },
//	  "warehouse": { "kind": "sqlite", "dsn": "data/warehouse/insurance.db" }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Well-known artifact names. Each stage reads its predecessor's artifact from
// the configured directory under one of these names.
const (
	RawCombinedFile  = "raw_combined_all.csv"
	CleanedFile      = "cleaned_all.csv"
	StandardizedFile = "standardized_cleaned_all.csv"
	FixedFile        = "standardized_cleaned_all_fixed.csv"
	IssuesFile       = "cleaning_issues.csv"

	IngestSummaryFile      = "ingest_summary.json"
	CleaningSummaryFile    = "cleaning_summary.json"
	StandardizeSummaryFile = "standardize_summary.json"
	WarehouseSummaryFile   = "warehouse_summary.json"
)

// Config is the top-level object decoded from the pipeline config file.
type Config struct {
	// Job labels the run in summaries and logs.
	Job string `json:"job"`

	// Raw locates the source CSV tree consumed by the ingest stage.
	Raw PathConfig `json:"raw"`

	// Staging holds the intermediate artifacts each stage hands forward.
	Staging PathConfig `json:"staging"`

	// Reports holds run summaries and the issues table.
	Reports PathConfig `json:"reports"`

	// Country configures the optional country-normalization pass.
	Country CountryConfig `json:"country"`

	// Warehouse configures the relational sink for the star schema.
	Warehouse WarehouseConfig `json:"warehouse"`
}

// PathConfig is a directory parameter.
type PathConfig struct {
	Dir string `json:"dir"`
}

// CountryConfig controls the country-normalization pass between
// standardization and the warehouse build.
type CountryConfig struct {
	// Fix enables the pass. It reproduces the upstream mapping, which
	// collapses every non-null country to "United States"; the validator
	// warns when it is enabled.
	Fix bool `json:"fix"`
}

// WarehouseConfig configures the warehouse sink.
type WarehouseConfig struct {
	// Kind selects the storage backend: "sqlite" (default) or "postgres".
	Kind string `json:"kind"`

	// DSN is the backend connection string. For sqlite this is a database
	// file path such as "data/warehouse/insurance.db".
	DSN string `json:"dsn"`

	// BatchSize bounds rows per insert batch; 0 means the default (500).
	BatchSize int `json:"batch_size"`
}

// DefaultBatchSize is used when WarehouseConfig.BatchSize is unset.
const DefaultBatchSize = 500

// Load decodes a Config from the JSON file at path.
func Load(path string) (Config, error) {
	var c Config
	f, err := os.Open(path)
	if err != nil {
		return c, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&c); err != nil {
		return c, fmt.Errorf("decode config %s: %w", path, err)
	}
	return c, nil
}

// StagingPath returns the path of a staging artifact.
func (c Config) StagingPath(name string) string { return filepath.Join(c.Staging.Dir, name) }

// ReportPath returns the path of a report artifact.
func (c Config) ReportPath(name string) string { return filepath.Join(c.Reports.Dir, name) }

// WarehouseInput returns the standardized table path the warehouse build
// should read: the country-fixed file when it exists, otherwise the plain
// standardized file.
func (c Config) WarehouseInput() string {
	fixed := c.StagingPath(FixedFile)
	if _, err := os.Stat(fixed); err == nil {
		return fixed
	}
	return c.StagingPath(StandardizedFile)
}

// Batch returns the effective insert batch size.
func (c WarehouseConfig) Batch() int {
	if c.BatchSize > 0 {
		return c.BatchSize
	}
	return DefaultBatchSize
}
