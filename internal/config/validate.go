// Lightweight linter for Config values. It performs static checks over a
// decoded Config and returns a list of issues (errors and warnings) that the
// binaries surface before running a stage.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a finding surfaced to users without blocking.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path is a dotted path into the
// config (e.g. "warehouse.kind").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error where convenient.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// knownWarehouseKinds mirrors the backends registered with the storage
// factory.
var knownWarehouseKinds = map[string]bool{
	"sqlite":   true,
	"postgres": true,
}

// Validate performs static validation of a Config. It does not mutate the
// config; callers decide whether warnings block execution.
func Validate(c Config) []Issue {
	var issues []Issue

	if strings.TrimSpace(c.Job) == "" {
		issues = append(issues, Issue{SeverityError, "job",
			"job must not be empty; it labels summaries and log lines"})
	}
	if strings.TrimSpace(c.Raw.Dir) == "" {
		issues = append(issues, Issue{SeverityError, "raw.dir",
			"raw.dir must point at the source CSV tree"})
	}
	if strings.TrimSpace(c.Staging.Dir) == "" {
		issues = append(issues, Issue{SeverityError, "staging.dir",
			"staging.dir must not be empty"})
	}
	if strings.TrimSpace(c.Reports.Dir) == "" {
		issues = append(issues, Issue{SeverityError, "reports.dir",
			"reports.dir must not be empty"})
	}

	kind := strings.TrimSpace(c.Warehouse.Kind)
	switch {
	case kind == "":
		issues = append(issues, Issue{SeverityError, "warehouse.kind",
			`warehouse.kind must be set (e.g. "sqlite")`})
	case !knownWarehouseKinds[kind]:
		issues = append(issues, Issue{SeverityError, "warehouse.kind",
			fmt.Sprintf("unknown warehouse kind %q", kind)})
	}
	if strings.TrimSpace(c.Warehouse.DSN) == "" {
		issues = append(issues, Issue{SeverityError, "warehouse.dsn",
			"warehouse.dsn must not be empty"})
	}
	if c.Warehouse.BatchSize < 0 {
		issues = append(issues, Issue{SeverityError, "warehouse.batch_size",
			"batch_size must not be negative"})
	}

	if c.Country.Fix {
		issues = append(issues, Issue{SeverityWarning, "country.fix",
			"the country pass maps every non-null value to \"United States\"; " +
				"non-US country information is discarded"})
	}

	return issues
}

// HasErrors reports whether any issue carries SeverityError.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}
