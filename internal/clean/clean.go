// Package clean implements the second pipeline stage. It takes the combined
// raw artifact and produces a cleaned table: normalized column names,
// duplicate-named columns coalesced, dates and numerics parsed, text fields
// tidied, derived fields computed, and exact duplicates removed by content
// hash.
package clean

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"insurancedw/internal/config"
	"insurancedw/internal/parse"
	"insurancedw/internal/tabular"
	"insurancedw/pkg/records"
)

// HashColumn is the name of the derived content-fingerprint column.
const HashColumn = "row_hash"

// Derived column names.
const (
	ColAgeAtPolicyStart = "age_at_policy_start"
	ColDaysDelay        = "days_delay"
)

// dateColumns are parsed permissively into calendar dates when present.
var dateColumns = []string{
	"policy_start_dt", "policy_end_dt", "payment_date", "next_premium_dt",
	"actual_premium_paid_dt", "dob", "effective_start_dt", "effective_end_dt",
}

// numericColumns are parsed into float64 when present.
var numericColumns = []string{
	"premium_amt", "total_policy_amt", "premium_amt_paid_tilldate", "days_delay",
}

// textColumns are trimmed, null-likes dropped, and title-cased when present.
var textColumns = []string{
	"country", "region", "state", "city", "policy_type",
	"marital_status", "customer_name", "customer_first_name",
	"customer_last_name", "postal_code",
}

// hashPriorityColumns feed the row hash when present; the hash falls back to
// every column when none of these exist in the input.
var hashPriorityColumns = []string{
	"customer_id", "policy_id", "policy_type", "payment_date",
	"premium_amt", "region", "next_premium_dt", "actual_premium_paid_dt",
}

// Summary is the machine-readable result of a cleaning run.
type Summary struct {
	RunID             string   `json:"run_id"`
	Job               string   `json:"job"`
	InputRows         int      `json:"input_rows"`
	CleanedRows       int      `json:"cleaned_rows"`
	DuplicatesDropped int      `json:"duplicates_dropped"`
	ParsedDateColumns []string `json:"parsed_date_columns"`
	HashColumns       []string `json:"hash_columns"`
	CleanedFile       string   `json:"cleaned_file"`
}

// Run executes the cleaning stage against the combined raw artifact.
func Run(ctx context.Context, cfg config.Config) (Summary, error) {
	sum := Summary{RunID: uuid.NewString(), Job: cfg.Job}

	in := cfg.StagingPath(config.RawCombinedFile)
	if err := tabular.RequireInput(in, "the ingest stage"); err != nil {
		return sum, fmt.Errorf("clean: %w", err)
	}
	raw, err := tabular.ReadCSV(in)
	if err != nil {
		return sum, fmt.Errorf("clean: %w", err)
	}
	sum.InputRows = len(raw.Rows)

	select {
	case <-ctx.Done():
		return sum, ctx.Err()
	default:
	}

	t := CoalesceColumns(raw)
	sum.ParsedDateColumns = parseDates(t)
	parseNumbers(t)
	cleanText(t)
	deriveAge(t)
	deriveDaysDelay(t)
	sum.HashColumns = hashRows(t)

	deduped, dropped := Dedup(t)
	sum.DuplicatesDropped = dropped
	sum.CleanedRows = len(deduped.Rows)

	out := cfg.StagingPath(config.CleanedFile)
	if err := tabular.WriteCSV(out, deduped); err != nil {
		return sum, fmt.Errorf("clean: %w", err)
	}
	sum.CleanedFile = out

	if err := writeDaySplits(cfg, deduped); err != nil {
		return sum, fmt.Errorf("clean: %w", err)
	}
	if err := tabular.WriteJSON(cfg.ReportPath(config.CleaningSummaryFile), sum); err != nil {
		return sum, fmt.Errorf("clean: %w", err)
	}
	return sum, nil
}

// CoalesceColumns normalizes every column name and folds columns whose names
// normalize to the same thing into one. For each row the first non-null-like
// value wins, in original column order. Group order follows first appearance
// of the normalized name.
func CoalesceColumns(raw *tabular.Table) *tabular.Table {
	var order []string
	groups := map[string][]string{}
	for _, c := range raw.Columns {
		n := parse.NormalizeColumn(c)
		if _, seen := groups[n]; !seen {
			order = append(order, n)
		}
		groups[n] = append(groups[n], c)
	}

	out := &tabular.Table{Columns: order, Rows: make([]records.Record, 0, len(raw.Rows))}
	for _, row := range raw.Rows {
		folded := make(records.Record, len(order))
		for _, n := range order {
			folded[n] = firstUsable(row, groups[n])
		}
		out.Rows = append(out.Rows, folded)
	}
	return out
}

func firstUsable(row records.Record, sources []string) any {
	for _, src := range sources {
		s, ok := row.String(src)
		if !ok {
			continue
		}
		if !parse.IsNullLike(s) {
			return strings.TrimSpace(s)
		}
	}
	return nil
}

// parseDates converts the known date columns in place and returns the ones
// found in the table. Unparseable cells become nil.
func parseDates(t *tabular.Table) []string {
	var found []string
	for _, c := range dateColumns {
		if !t.HasColumn(c) {
			continue
		}
		found = append(found, c)
		for _, row := range t.Rows {
			s, ok := row.String(c)
			if !ok {
				continue
			}
			if d, ok := parse.Date(s); ok {
				row[c] = d
			} else {
				row[c] = nil
			}
		}
	}
	return found
}

func parseNumbers(t *tabular.Table) {
	for _, c := range numericColumns {
		if !t.HasColumn(c) {
			continue
		}
		for _, row := range t.Rows {
			s, ok := row.String(c)
			if !ok {
				continue
			}
			if f, ok := parse.Number(s); ok {
				row[c] = f
			} else {
				row[c] = nil
			}
		}
	}
}

// cleanText trims the known text columns, drops null-like values, and
// title-cases the rest.
func cleanText(t *tabular.Table) {
	titler := cases.Title(language.English)
	for _, c := range textColumns {
		if !t.HasColumn(c) {
			continue
		}
		for _, row := range t.Rows {
			s, ok := row.String(c)
			if !ok {
				continue
			}
			if parse.IsNullLike(s) {
				row[c] = nil
				continue
			}
			row[c] = titler.String(strings.ToLower(strings.TrimSpace(s)))
		}
	}
}

// deriveAge computes age_at_policy_start in whole years from dob and
// policy_start_dt. The column is always present; rows missing either date get
// nil.
func deriveAge(t *tabular.Table) {
	t.AddColumn(ColAgeAtPolicyStart)
	for _, row := range t.Rows {
		dob, okDOB := row.Date("dob")
		start, okStart := row.Date("policy_start_dt")
		if !okDOB || !okStart {
			row[ColAgeAtPolicyStart] = nil
			continue
		}
		days := start.Sub(dob).Hours() / 24
		row[ColAgeAtPolicyStart] = math.Floor(days / 365)
	}
}

// deriveDaysDelay computes days_delay as actual_premium_paid_dt minus
// next_premium_dt in days, falling back to payment_date when the actual paid
// date is absent. Rows where the pair cannot be formed keep any upstream
// days_delay value, or nil.
func deriveDaysDelay(t *tabular.Table) {
	t.AddColumn(ColDaysDelay)
	for _, row := range t.Rows {
		next, okNext := row.Date("next_premium_dt")
		if !okNext {
			if _, has := row[ColDaysDelay]; !has {
				row[ColDaysDelay] = nil
			}
			continue
		}
		paid, okPaid := row.Date("actual_premium_paid_dt")
		if !okPaid {
			paid, okPaid = row.Date("payment_date")
		}
		if !okPaid {
			if _, has := row[ColDaysDelay]; !has {
				row[ColDaysDelay] = nil
			}
			continue
		}
		row[ColDaysDelay] = paid.Sub(next).Hours() / 24
	}
}

// hashRows computes the row_hash column and returns the columns that fed it.
func hashRows(t *tabular.Table) []string {
	var hashCols []string
	for _, c := range hashPriorityColumns {
		if t.HasColumn(c) {
			hashCols = append(hashCols, c)
		}
	}
	if len(hashCols) == 0 {
		hashCols = append(hashCols, t.Columns...)
	}
	t.AddColumn(HashColumn)
	for _, row := range t.Rows {
		row[HashColumn] = RowHash(row, hashCols)
	}
	return hashCols
}

// RowHash fingerprints a record over the given columns: values are rendered
// to their artifact text form (nil as empty), joined with "||", and hashed
// with xxh3. The result is a fixed-width hex string.
func RowHash(row records.Record, columns []string) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = tabular.RenderCell(row[c])
	}
	h := xxh3.Hash([]byte(strings.Join(parts, "||")))
	return fmt.Sprintf("%016x", h)
}

// Dedup drops rows whose row_hash was already seen, keeping the first
// occurrence. It returns the deduplicated table and the number of rows
// dropped.
func Dedup(t *tabular.Table) (*tabular.Table, int) {
	seen := make(map[string]struct{}, len(t.Rows))
	out := &tabular.Table{Columns: t.Columns, Rows: make([]records.Record, 0, len(t.Rows))}
	for _, row := range t.Rows {
		h, _ := row.String(HashColumn)
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		out.Rows = append(out.Rows, row)
	}
	return out, len(t.Rows) - len(out.Rows)
}

func writeDaySplits(cfg config.Config, t *tabular.Table) error {
	if !t.HasColumn("detected_day") {
		return nil
	}
	days := map[string]*tabular.Table{}
	var order []string
	for _, row := range t.Rows {
		d, ok := row.String("detected_day")
		if !ok || d == "unknown" {
			continue
		}
		sub, seen := days[d]
		if !seen {
			sub = &tabular.Table{Columns: t.Columns}
			days[d] = sub
			order = append(order, d)
		}
		sub.Rows = append(sub.Rows, row)
	}
	for _, d := range order {
		out := cfg.StagingPath(fmt.Sprintf("cleaned_day%s.csv", d))
		if err := tabular.WriteCSV(out, days[d]); err != nil {
			return err
		}
	}
	return nil
}
