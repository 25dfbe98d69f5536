package warehouse

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"insurancedw/internal/config"
	"insurancedw/internal/storage"
	"insurancedw/internal/tabular"
)

// Summary is the machine-readable result of a warehouse build.
type Summary struct {
	RunID  string `json:"run_id"`
	Job    string `json:"job"`
	Input  string `json:"input_file"`
	Tables Counts `json:"tables"`
}

// Run reads the standardized table (preferring the country-fixed variant),
// builds the star schema, and replaces the warehouse contents.
func Run(ctx context.Context, cfg config.Config) (Summary, error) {
	sum := Summary{RunID: uuid.NewString(), Job: cfg.Job}

	in := cfg.WarehouseInput()
	if err := tabular.RequireInput(in, "the standardize stage"); err != nil {
		return sum, fmt.Errorf("warehouse: %w", err)
	}
	t, err := tabular.ReadCSV(in)
	if err != nil {
		return sum, fmt.Errorf("warehouse: %w", err)
	}
	sum.Input = in

	wh := Build(TypedRecords(t))

	if err := ensureSQLiteDir(cfg.Warehouse); err != nil {
		return sum, fmt.Errorf("warehouse: %w", err)
	}
	repo, err := storage.Open(ctx, storage.Config{
		Kind: cfg.Warehouse.Kind,
		DSN:  cfg.Warehouse.DSN,
	})
	if err != nil {
		return sum, fmt.Errorf("warehouse: %w", err)
	}
	defer repo.Close()

	counts, err := Persist(ctx, repo, wh, cfg.Warehouse.Batch())
	if err != nil {
		return sum, err
	}
	sum.Tables = counts

	if err := tabular.WriteJSON(cfg.ReportPath(config.WarehouseSummaryFile), sum); err != nil {
		return sum, fmt.Errorf("warehouse: %w", err)
	}
	return sum, nil
}

// ensureSQLiteDir creates the parent directory of a plain sqlite file DSN so
// a fresh checkout can run end to end.
func ensureSQLiteDir(cfg config.WarehouseConfig) error {
	if cfg.Kind != "sqlite" {
		return nil
	}
	dsn := cfg.DSN
	if strings.HasPrefix(dsn, "file:") || strings.Contains(dsn, ":memory:") {
		return nil
	}
	dir := filepath.Dir(dsn)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}
