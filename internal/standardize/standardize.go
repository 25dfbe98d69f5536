// Package standardize implements the third pipeline stage: mapping the
// cleaned table's arbitrarily-named columns onto the fixed 26-field canonical
// schema.
//
// Resolution is per-field candidate-list coalescing: each canonical field has
// an ordered list of acceptable source names (schema.go), and the first
// variant whose value is non-null and non-empty wins. No merging happens; a
// field with no usable variant is null. A single post-pass composes
// customer_name from first/last name parts when — and only when — the primary
// resolution produced nothing.
//
// Standardization never drops a row. Records missing their key fields are
// flagged through the issues side-channel and still flow downstream.
package standardize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"insurancedw/internal/config"
	"insurancedw/internal/parse"
	"insurancedw/internal/tabular"
	"insurancedw/pkg/records"
)

// Issue kinds for records violating key invariants.
const (
	IssueMissingCustomerID = "missing_customer_id"
	IssueMissingPolicyID   = "missing_policy_id"
)

// IssueColumn is the extra column in the issues artifact.
const IssueColumn = "issue"

// Issue ties a standardized record to one detected defect. A record missing
// both keys yields two issues.
type Issue struct {
	Record records.Record
	Kind   string
}

// Summary is the machine-readable result of a standardization run.
type Summary struct {
	RunID             string  `json:"run_id"`
	Job               string  `json:"job"`
	RowsIn            int     `json:"rows_in"`
	RowsOut           int     `json:"rows_out"`
	MissingCustomerID int     `json:"missing_customer_id"`
	MissingPolicyID   int     `json:"missing_policy_id"`
	StandardizedFile  string  `json:"standardized_file"`
	IssuesFile        *string `json:"issues_file"`
}

// Run executes the standardization stage against the cleaned artifact.
func Run(ctx context.Context, cfg config.Config) (Summary, error) {
	sum := Summary{RunID: uuid.NewString(), Job: cfg.Job}

	in := cfg.StagingPath(config.CleanedFile)
	if err := tabular.RequireInput(in, "the cleaning stage"); err != nil {
		return sum, fmt.Errorf("standardize: %w", err)
	}
	cleaned, err := tabular.ReadCSV(in)
	if err != nil {
		return sum, fmt.Errorf("standardize: %w", err)
	}

	select {
	case <-ctx.Done():
		return sum, ctx.Err()
	default:
	}

	std, issues := Standardize(cleaned)
	sum.RowsIn = len(cleaned.Rows)
	sum.RowsOut = len(std.Rows)
	for _, iss := range issues {
		switch iss.Kind {
		case IssueMissingCustomerID:
			sum.MissingCustomerID++
		case IssueMissingPolicyID:
			sum.MissingPolicyID++
		}
	}

	outStd := cfg.StagingPath(config.StandardizedFile)
	if err := tabular.WriteCSV(outStd, std); err != nil {
		return sum, fmt.Errorf("standardize: %w", err)
	}
	sum.StandardizedFile = outStd

	if err := writeDaySplits(cfg, cleaned, std); err != nil {
		return sum, fmt.Errorf("standardize: %w", err)
	}

	issuesPath := cfg.ReportPath(config.IssuesFile)
	if len(issues) == 0 {
		// The issues artifact is absent when there is nothing to report;
		// remove any stale file from a previous run.
		if err := os.Remove(issuesPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return sum, fmt.Errorf("standardize: remove stale issues: %w", err)
		}
	} else {
		if err := tabular.WriteCSV(issuesPath, issuesTable(issues)); err != nil {
			return sum, fmt.Errorf("standardize: %w", err)
		}
		sum.IssuesFile = &issuesPath
	}

	if err := tabular.WriteJSON(cfg.ReportPath(config.StandardizeSummaryFile), sum); err != nil {
		return sum, fmt.Errorf("standardize: %w", err)
	}
	return sum, nil
}

// Standardize maps every cleaned record onto the canonical schema and
// collects key-integrity issues. The output has exactly one row per input
// row.
func Standardize(cleaned *tabular.Table) (*tabular.Table, []Issue) {
	src := normalizeHeaders(cleaned)

	out := &tabular.Table{
		Columns: Columns(),
		Rows:    make([]records.Record, 0, len(src.Rows)),
	}
	for _, row := range src.Rows {
		out.Rows = append(out.Rows, standardizeRecord(row))
	}

	var issues []Issue
	for _, rec := range out.Rows {
		if rec["customer_id"] == nil {
			issues = append(issues, Issue{Record: rec, Kind: IssueMissingCustomerID})
		}
		if rec["policy_id"] == nil {
			issues = append(issues, Issue{Record: rec, Kind: IssueMissingPolicyID})
		}
	}
	return out, issues
}

func standardizeRecord(row records.Record) records.Record {
	rec := make(records.Record, len(Canonical))
	for _, f := range Canonical {
		rec[f.Name] = resolve(row, normalizedCandidates[f.Name])
	}
	composeName(rec, row)
	for _, f := range Canonical {
		rec[f.Name] = normalizeValue(rec[f.Name], f.Kind)
	}
	return rec
}

// resolve walks the candidate list in priority order and returns the first
// usable value: first match wins, empty/null-like values fall through.
// Already-typed values (dates, numerics from an earlier pass) are usable
// as-is, which keeps standardization idempotent.
func resolve(row records.Record, cands []string) any {
	for _, c := range cands {
		v, ok := row[c]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr {
			if parse.IsNullLike(s) {
				continue
			}
			return s
		}
		return v
	}
	return nil
}

// composeName synthesizes customer_name from first/last name parts. It only
// fills a null — a resolved name is never overwritten.
func composeName(rec, row records.Record) {
	if rec["customer_name"] != nil {
		return
	}
	first, _ := row.String("customer_first_name")
	last, _ := row.String("customer_last_name")
	if parse.IsNullLike(first) {
		first = ""
	}
	if parse.IsNullLike(last) {
		last = ""
	}
	composed := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
	if composed != "" {
		rec["customer_name"] = composed
	}
}

// normalizeValue applies the per-kind type normalization. It accepts both raw
// strings and already-typed values so the pass is idempotent.
func normalizeValue(v any, kind Kind) any {
	if v == nil {
		return nil
	}
	switch kind {
	case KindDate:
		s, isStr := v.(string)
		if !isStr {
			return v
		}
		if d, ok := parse.Date(s); ok {
			return d
		}
		return nil
	case KindNumeric:
		s, isStr := v.(string)
		if !isStr {
			return v
		}
		if f, ok := parse.Number(s); ok {
			return f
		}
		return nil
	default:
		s, isStr := v.(string)
		if !isStr {
			return v
		}
		s = strings.TrimSpace(s)
		if parse.IsNullLike(s) {
			return nil
		}
		return s
	}
}

// normalizeHeaders renames every column through the shared normalization so
// candidate matching sees the same form the candidate lists were normalized
// to. The cleaned artifact arrives pre-coalesced, so collisions keep the
// first column.
func normalizeHeaders(t *tabular.Table) *tabular.Table {
	renames := make(map[string]string, len(t.Columns))
	var cols []string
	seen := map[string]struct{}{}
	for _, c := range t.Columns {
		n := parse.NormalizeColumn(c)
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		renames[c] = n
		cols = append(cols, n)
	}

	out := &tabular.Table{Columns: cols, Rows: make([]records.Record, 0, len(t.Rows))}
	for _, row := range t.Rows {
		nr := make(records.Record, len(row))
		for c, n := range renames {
			nr[n] = row[c]
		}
		out.Rows = append(out.Rows, nr)
	}
	return out
}

func issuesTable(issues []Issue) *tabular.Table {
	cols := append(Columns(), IssueColumn)
	t := &tabular.Table{Columns: cols, Rows: make([]records.Record, 0, len(issues))}
	for _, iss := range issues {
		row := iss.Record.Clone()
		row[IssueColumn] = iss.Kind
		t.Rows = append(t.Rows, row)
	}
	return t
}

// writeDaySplits writes standardized_cleaned_day<N>.csv per detected day,
// aligning standardized rows to their source rows by index.
func writeDaySplits(cfg config.Config, cleaned, std *tabular.Table) error {
	if !cleaned.HasColumn("detected_day") || len(cleaned.Rows) != len(std.Rows) {
		return nil
	}
	days := map[string]*tabular.Table{}
	var order []string
	for i, srcRow := range cleaned.Rows {
		d, ok := srcRow.String("detected_day")
		if !ok || d == "unknown" {
			continue
		}
		sub, seen := days[d]
		if !seen {
			sub = &tabular.Table{Columns: std.Columns}
			days[d] = sub
			order = append(order, d)
		}
		sub.Rows = append(sub.Rows, std.Rows[i])
	}
	for _, d := range order {
		out := cfg.StagingPath(fmt.Sprintf("standardized_cleaned_day%s.csv", d))
		if err := tabular.WriteCSV(out, days[d]); err != nil {
			return err
		}
	}
	return nil
}
