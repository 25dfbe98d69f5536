// Package tabular reads and writes the delimited artifacts that pipeline
// stages hand to each other. Every stage materializes its input fully in
// memory, transforms it, and persists the result as a new artifact; this
// package is the only place that knows how cell values are rendered to and
// recovered from text.
//
// Writes are atomic: content goes to a temporary file in the destination
// directory which is renamed into place on success, so a failed stage never
// leaves a partial artifact behind.
package tabular

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"insurancedw/pkg/records"
)

const utf8BOM = "\uFEFF"

// DateLayout is the rendering used for date cells in artifacts (ISO calendar
// date, no time component).
const DateLayout = "2006-01-02"

// Table is an ordered set of columns plus one record per row. Column order is
// preserved through read/write so surrogate-key assignment downstream stays
// deterministic for a given input.
type Table struct {
	Columns []string
	Rows    []records.Record
}

// AddColumn appends name to the column list if not already present.
func (t *Table) AddColumn(name string) {
	for _, c := range t.Columns {
		if c == name {
			return
		}
	}
	t.Columns = append(t.Columns, name)
}

// HasColumn reports whether name is in the column list.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// RequireInput checks that a stage's upstream artifact exists. The returned
// error names both the missing file and the stage that produces it, and wraps
// os.ErrNotExist so callers can test with errors.Is.
func RequireInput(path, producedBy string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("missing input artifact %s (run %s first): %w", path, producedBy, os.ErrNotExist)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	return nil
}

// ReadCSV loads a delimited artifact into a Table. Cells are kept as strings;
// empty cells become nil. The first header cell is stripped of a UTF-8 BOM,
// and rows with fewer cells than the header are padded with nil (tolerant of
// ragged extracts, like the upstream readers).
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readCSV(f, path)
}

func readCSV(r io.Reader, name string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	hdr, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header %s: %w", name, err)
	}
	cols := make([]string, len(hdr))
	for i, h := range hdr {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		cols[i] = strings.TrimSpace(h)
	}

	t := &Table{Columns: cols}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		row := make(records.Record, len(cols))
		for i, c := range cols {
			if i >= len(rec) {
				row[c] = nil
				continue
			}
			v := strings.TrimSpace(rec[i])
			if v == "" {
				row[c] = nil
			} else {
				row[c] = v
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// WriteCSV persists a Table atomically. Cell rendering: nil -> empty, dates
// as ISO calendar dates, floats as plain decimals (no exponent), everything
// else via its default formatting.
func WriteCSV(path string, t *Table) error {
	return atomicWrite(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(t.Columns); err != nil {
			return err
		}
		cells := make([]string, len(t.Columns))
		for _, row := range t.Rows {
			for i, c := range t.Columns {
				cells[i] = RenderCell(row[c])
			}
			if err := cw.Write(cells); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// RenderCell converts a typed cell value to its artifact text form.
func RenderCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.Format(DateLayout)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprint(x)
	}
}

// WriteJSON persists v as indented JSON, atomically. Used for the per-stage
// run summaries.
func WriteJSON(path string, v any) error {
	return atomicWrite(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	})
}

func atomicWrite(path string, fill func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := fill(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}
