package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"insurancedw/internal/config"
	"insurancedw/internal/tabular"
)

// writeFile creates path (and parents) with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

/*
TestDetectRegion prefers the Insurance_details_US_<Region>_day directory
pattern and falls back to the bare directory name.
*/
func TestDetectRegion(t *testing.T) {
	t.Parallel()

	cases := []struct {
		path, want string
	}{
		{"raw/Insurance_details_US_Northeast_day1/file.csv", "Northeast"},
		{"raw/insurance_details_us_south_day2/file.csv", "south"},
		{"raw/misc_folder/file.csv", "misc_folder"},
	}
	for _, tc := range cases {
		if got := detectRegion(tc.path); got != tc.want {
			t.Errorf("detectRegion(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

/*
TestDetectDay checks the file-name-first day detection with its separator
variants, the directory fallback, and the unknown sentinel.
*/
func TestDetectDay(t *testing.T) {
	t.Parallel()

	cases := []struct {
		path, want string
	}{
		{"raw/region/data_day3.csv", "3"},
		{"raw/region/Day 12 export.csv", "12"},
		{"raw/region/data-day-7.csv", "7"},
		{"raw/Insurance_details_US_West_day4/data.csv", "4"},
		{"raw/region/plain.csv", "unknown"},
	}
	for _, tc := range cases {
		if got := detectDay(tc.path); got != tc.want {
			t.Errorf("detectDay(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

/*
TestDetectBatchDate extracts YYYY-MM-DD-like tokens (underscore separators
normalized) and returns nil when absent.
*/
func TestDetectBatchDate(t *testing.T) {
	t.Parallel()

	if got := detectBatchDate("export_2023-04-01_day1.csv"); got != "2023-04-01" {
		t.Errorf("got %v, want 2023-04-01", got)
	}
	if got := detectBatchDate("export_2023_04_01.csv"); got != "2023-04-01" {
		t.Errorf("underscore form: got %v, want 2023-04-01", got)
	}
	if got := detectBatchDate("export.csv"); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

/*
TestRun_CombinesTree builds a small raw tree with two regions, differing
column sets, and one unreadable file, then checks the combined artifact,
provenance columns, day splits, and summary bookkeeping.
*/
func TestRun_CombinesTree(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	raw := filepath.Join(root, "raw")
	cfg := config.Config{
		Job:     "test",
		Raw:     config.PathConfig{Dir: raw},
		Staging: config.PathConfig{Dir: filepath.Join(root, "staging")},
		Reports: config.PathConfig{Dir: filepath.Join(root, "reports")},
	}

	writeFile(t, filepath.Join(raw, "Insurance_details_US_Northeast_day1", "data_day1.csv"),
		"customer_id,premium_amt\nC1,100\nC2,200\n")
	writeFile(t, filepath.Join(raw, "Insurance_details_US_South_day2", "data_day2.csv"),
		"customer_id,city\nC3,Austin\n")
	// header-only quoting error makes this one unreadable
	writeFile(t, filepath.Join(raw, "Insurance_details_US_South_day2", "broken.csv"),
		"customer_id,city\n\"unterminated\n")

	sum, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if sum.FilesScanned != 3 || sum.FilesRead != 2 {
		t.Fatalf("scanned/read = %d/%d, want 3/2", sum.FilesScanned, sum.FilesRead)
	}
	if len(sum.FailedFiles) != 1 {
		t.Fatalf("failed files = %+v, want one entry", sum.FailedFiles)
	}
	if sum.Rows != 3 {
		t.Fatalf("rows = %d, want 3", sum.Rows)
	}

	combined, err := tabular.ReadCSV(cfg.StagingPath(config.RawCombinedFile))
	if err != nil {
		t.Fatalf("ReadCSV(combined): %v", err)
	}
	for _, c := range []string{"customer_id", "premium_amt", "city", ColSourceFile, ColRegion, ColDay, ColBatchDate} {
		if !combined.HasColumn(c) {
			t.Errorf("combined missing column %s (have %v)", c, combined.Columns)
		}
	}

	// lexical walk order: Northeast rows first
	first := combined.Rows[0]
	if first[ColRegion] != "Northeast" || first[ColDay] != "1" {
		t.Errorf("row 0 provenance = region %v day %v", first[ColRegion], first[ColDay])
	}
	if first["city"] != nil {
		t.Errorf("column absent from source file should be nil; got %v", first["city"])
	}
	last := combined.Rows[2]
	if last[ColRegion] != "South" || last[ColDay] != "2" || last["city"] != "Austin" {
		t.Errorf("row 2 = %v", last)
	}

	for _, name := range []string{"raw_combined_day1.csv", "raw_combined_day2.csv"} {
		if _, err := os.Stat(cfg.StagingPath(name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}
	if _, err := os.Stat(cfg.StagingPath(config.IngestSummaryFile)); err != nil {
		t.Errorf("summary missing: %v", err)
	}
}

/*
TestRun_NoFiles fails when the tree holds no CSV files, and when none are
readable.
*/
func TestRun_NoFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	cfg := config.Config{
		Raw:     config.PathConfig{Dir: filepath.Join(root, "raw")},
		Staging: config.PathConfig{Dir: filepath.Join(root, "staging")},
	}

	if err := os.MkdirAll(cfg.Raw.Dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := Run(context.Background(), cfg); err == nil {
		t.Fatal("Run over empty tree = nil error")
	}

	writeFile(t, filepath.Join(cfg.Raw.Dir, "broken.csv"), "a,b\n\"unterminated\n")
	if _, err := Run(context.Background(), cfg); err == nil {
		t.Fatal("Run with only unreadable files = nil error")
	}
}
