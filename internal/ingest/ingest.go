// Package ingest implements the first pipeline stage: it scans the raw CSV
// tree, tags every row with provenance metadata, and concatenates everything
// into one combined staging artifact.
//
// Provenance per file:
//   - region: taken from the parent directory name, preferring the
//     Insurance_details_US_<Region>_day pattern, falling back to the
//     directory name itself
//   - detected_day: first day index found in the file name, then in the
//     directory path; "unknown" when neither matches
//   - batch_date: a YYYY-MM-DD-like token in the file name, if any
//
// Files that fail to parse are skipped and recorded in the summary; the run
// only fails when no file could be read at all.
package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"insurancedw/internal/config"
	"insurancedw/internal/tabular"
)

// Provenance column names added to every ingested row.
const (
	ColSourceFile = "source_file"
	ColRegion     = "region"
	ColDay        = "detected_day"
	ColBatchDate  = "batch_date"
)

var (
	regionPattern   = regexp.MustCompile(`(?i)Insurance_details_US_([A-Za-z]+)_day`)
	dayPattern      = regexp.MustCompile(`(?i)day[ _-]?(\d+)`)
	dateLikePattern = regexp.MustCompile(`(\d{4}[-_]\d{2}[-_]\d{2})`)
)

// FailedFile records a source file that could not be parsed.
type FailedFile struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Summary is the machine-readable result of an ingest run.
type Summary struct {
	RunID        string       `json:"run_id"`
	Job          string       `json:"job"`
	FilesScanned int          `json:"total_raw_files_scanned"`
	FilesRead    int          `json:"total_raw_files_read"`
	Rows         int          `json:"total_rows"`
	Columns      []string     `json:"columns"`
	FailedFiles  []FailedFile `json:"failed_files"`
	CombinedFile string       `json:"combined_file"`
}

// Run scans cfg.Raw.Dir, writes the combined artifact plus per-day splits to
// staging, and persists the summary to reports.
func Run(ctx context.Context, cfg config.Config) (Summary, error) {
	sum := Summary{RunID: uuid.NewString(), Job: cfg.Job}

	paths, err := listCSVFiles(cfg.Raw.Dir)
	if err != nil {
		return sum, err
	}
	if len(paths) == 0 {
		return sum, fmt.Errorf("ingest: no CSV files found under %s", cfg.Raw.Dir)
	}
	sum.FilesScanned = len(paths)

	combined := &tabular.Table{}
	for _, p := range paths {
		select {
		case <-ctx.Done():
			return sum, ctx.Err()
		default:
		}

		t, err := tabular.ReadCSV(p)
		if err != nil {
			sum.FailedFiles = append(sum.FailedFiles, FailedFile{Path: p, Error: err.Error()})
			log.Printf("ingest: skipping unreadable file %s: %v", p, err)
			continue
		}
		sum.FilesRead++

		rel := relOrSelf(cfg.Raw.Dir, p)
		region := detectRegion(p)
		day := detectDay(p)
		batchDate := detectBatchDate(filepath.Base(p))

		for _, c := range t.Columns {
			combined.AddColumn(c)
		}
		for _, row := range t.Rows {
			row[ColSourceFile] = rel
			row[ColRegion] = region
			row[ColDay] = day
			row[ColBatchDate] = batchDate
			combined.Rows = append(combined.Rows, row)
		}
	}
	combined.AddColumn(ColSourceFile)
	combined.AddColumn(ColRegion)
	combined.AddColumn(ColDay)
	combined.AddColumn(ColBatchDate)

	if sum.FilesRead == 0 {
		return sum, fmt.Errorf("ingest: no readable CSV files under %s", cfg.Raw.Dir)
	}

	outAll := cfg.StagingPath(config.RawCombinedFile)
	if err := tabular.WriteCSV(outAll, combined); err != nil {
		return sum, fmt.Errorf("ingest: %w", err)
	}
	sum.Rows = len(combined.Rows)
	sum.Columns = combined.Columns
	sum.CombinedFile = outAll

	if err := writeDaySplits(cfg, combined); err != nil {
		return sum, fmt.Errorf("ingest: %w", err)
	}

	if err := tabular.WriteJSON(cfg.StagingPath(config.IngestSummaryFile), sum); err != nil {
		return sum, fmt.Errorf("ingest: %w", err)
	}
	return sum, nil
}

// listCSVFiles returns every *.csv under dir in lexical walk order, which
// keeps downstream first-seen surrogate key assignment stable for a given
// tree.
func listCSVFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ingest: scan %s: %w", dir, err)
	}
	return paths, nil
}

func relOrSelf(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil {
		return rel
	}
	return path
}

func detectRegion(path string) string {
	parent := filepath.Base(filepath.Dir(path))
	if m := regionPattern.FindStringSubmatch(parent); m != nil {
		return m[1]
	}
	return parent
}

// detectDay returns the day index as a string, or "unknown". The file name is
// checked before the directory path.
func detectDay(path string) string {
	if m := dayPattern.FindStringSubmatch(filepath.Base(path)); m != nil {
		return m[1]
	}
	if m := dayPattern.FindStringSubmatch(filepath.Dir(path)); m != nil {
		return m[1]
	}
	return "unknown"
}

func detectBatchDate(name string) any {
	if m := dateLikePattern.FindStringSubmatch(name); m != nil {
		return strings.ReplaceAll(m[1], "_", "-")
	}
	return nil
}

// writeDaySplits writes raw_combined_day<N>.csv for every distinct numeric
// detected day.
func writeDaySplits(cfg config.Config, combined *tabular.Table) error {
	byDay := map[int]*tabular.Table{}
	for _, row := range combined.Rows {
		s, _ := row.String(ColDay)
		day, err := strconv.Atoi(s)
		if err != nil {
			continue
		}
		t, ok := byDay[day]
		if !ok {
			t = &tabular.Table{Columns: combined.Columns}
			byDay[day] = t
		}
		t.Rows = append(t.Rows, row)
	}

	days := make([]int, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Ints(days)
	for _, d := range days {
		out := cfg.StagingPath(fmt.Sprintf("raw_combined_day%d.csv", d))
		if err := tabular.WriteCSV(out, byDay[d]); err != nil {
			return err
		}
	}
	return nil
}
