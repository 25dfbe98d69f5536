// Package country implements the optional country-normalization pass between
// standardization and the warehouse build.
//
// The mapping reproduces the upstream behavior faithfully, including its
// defect: any recognized US spelling becomes "United States", and so does
// every other non-null value, by unconditional fallback. Non-US country
// information is discarded. The pass is therefore opt-in, and the config
// validator warns whenever it is enabled; do not treat the fallback as
// correct business logic.
package country

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"insurancedw/internal/config"
	"insurancedw/internal/tabular"
)

const unitedStates = "United States"

// usPatterns are compared against the value with dots and spaces removed.
var usPatterns = map[string]struct{}{
	"usa":                   {},
	"us":                    {},
	"unitedstates":          {},
	"unitedstatesofamerica": {},
}

var dotSpace = regexp.MustCompile(`[.\s]`)

// Summary is the machine-readable result of the country pass.
type Summary struct {
	Rows      int    `json:"rows"`
	FixedFile string `json:"fixed_file"`
}

// Normalize maps a country value onto its standardized form. Null stays
// null; everything else resolves to "United States" (see package comment).
func Normalize(v any) any {
	if v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return v
	}
	lower := strings.ToLower(strings.TrimSpace(s))
	compact := dotSpace.ReplaceAllString(lower, "")
	if _, ok := usPatterns[compact]; ok {
		return unitedStates
	}
	if strings.Contains(lower, "united") {
		return unitedStates
	}
	return unitedStates // upstream's unconditional fallback
}

// Run rewrites the country column of the standardized artifact into the
// "fixed" artifact the warehouse build prefers.
func Run(ctx context.Context, cfg config.Config) (Summary, error) {
	var sum Summary

	in := cfg.StagingPath(config.StandardizedFile)
	if err := tabular.RequireInput(in, "the standardize stage"); err != nil {
		return sum, fmt.Errorf("country: %w", err)
	}
	t, err := tabular.ReadCSV(in)
	if err != nil {
		return sum, fmt.Errorf("country: %w", err)
	}

	select {
	case <-ctx.Done():
		return sum, ctx.Err()
	default:
	}

	for _, row := range t.Rows {
		row["country"] = Normalize(row["country"])
	}

	out := cfg.StagingPath(config.FixedFile)
	if err := tabular.WriteCSV(out, t); err != nil {
		return sum, fmt.Errorf("country: %w", err)
	}
	sum.Rows = len(t.Rows)
	sum.FixedFile = out
	return sum, nil
}
