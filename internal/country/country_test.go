package country

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"insurancedw/internal/config"
	"insurancedw/internal/tabular"
)

/*
TestNormalize pins the upstream mapping: recognized US spellings, the
"united" substring match, the unconditional fallback for everything else, and
null passthrough.
*/
func TestNormalize(t *testing.T) {
	t.Parallel()

	toUS := []string{
		"USA", "usa", "US", "U.S.", "U.S.A.",
		"United States", "united states of america", "UNITED STATES",
		"United Kingdom", // matches the "united" substring
		"Canada",         // upstream fallback swallows non-US values too
		"Germany",
	}
	for _, in := range toUS {
		if got := Normalize(in); got != "United States" {
			t.Errorf("Normalize(%q) = %v, want United States", in, got)
		}
	}

	if got := Normalize(nil); got != nil {
		t.Errorf("Normalize(nil) = %v, want nil", got)
	}
	if got := Normalize(42); got != 42 {
		t.Errorf("Normalize(non-string) = %v, want passthrough", got)
	}
}

/*
TestRun_RewritesCountryColumn runs the pass over a small standardized
artifact and checks the fixed artifact contents.
*/
func TestRun_RewritesCountryColumn(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := config.Config{Staging: config.PathConfig{Dir: dir}}

	in := strings.Join([]string{
		"customer_id,country",
		"C1,usa",
		"C2,Canada",
		"C3,",
	}, "\n")
	if err := os.WriteFile(filepath.Join(dir, config.StandardizedFile), []byte(in), 0o644); err != nil {
		t.Fatal(err)
	}

	sum, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Rows != 3 {
		t.Fatalf("Rows = %d, want 3", sum.Rows)
	}

	fixed, err := tabular.ReadCSV(filepath.Join(dir, config.FixedFile))
	if err != nil {
		t.Fatalf("ReadCSV(fixed): %v", err)
	}
	if fixed.Rows[0]["country"] != "United States" || fixed.Rows[1]["country"] != "United States" {
		t.Errorf("countries = %v, %v; want United States for both",
			fixed.Rows[0]["country"], fixed.Rows[1]["country"])
	}
	if fixed.Rows[2]["country"] != nil {
		t.Errorf("null country rewritten: %v", fixed.Rows[2]["country"])
	}
}

/*
TestRun_MissingInput fails with a clear error when the standardized artifact
is absent.
*/
func TestRun_MissingInput(t *testing.T) {
	t.Parallel()

	cfg := config.Config{Staging: config.PathConfig{Dir: t.TempDir()}}
	if _, err := Run(context.Background(), cfg); err == nil {
		t.Fatal("Run without input = nil error")
	}
}
