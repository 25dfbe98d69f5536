package warehouse

import (
	"context"
	"fmt"
	"log"

	"insurancedw/internal/ddl"
	"insurancedw/internal/storage"
	"insurancedw/internal/tabular"
)

// Counts holds per-table row counts after persistence.
type Counts struct {
	DimDate     int64 `json:"dim_date"`
	DimAddress  int64 `json:"dim_address"`
	DimCustomer int64 `json:"dim_customer"`
	DimPolicy   int64 `json:"dim_policy"`
	Fact        int64 `json:"fact_policy_payments"`
}

// Table definitions. Dates are stored as ISO text; uniqueness constraints are
// declared through unique indexes so the shape matches across backends.
var (
	dimDateDef = ddl.TableDef{Name: "dim_date", Columns: []ddl.ColumnDef{
		{Name: "date_id", SQLType: "INTEGER"},
		{Name: "full_date", SQLType: "TEXT"},
		{Name: "year", SQLType: "INTEGER"},
		{Name: "quarter", SQLType: "INTEGER"},
		{Name: "month", SQLType: "INTEGER"},
		{Name: "day", SQLType: "INTEGER"},
		{Name: "day_name", SQLType: "TEXT"},
		{Name: "weekofyear", SQLType: "INTEGER"},
	}}
	dimAddressDef = ddl.TableDef{Name: "dim_address", Columns: []ddl.ColumnDef{
		{Name: "address_id", SQLType: "INTEGER"},
		{Name: "country", SQLType: "TEXT"},
		{Name: "region", SQLType: "TEXT"},
		{Name: "state_or_province", SQLType: "TEXT"},
		{Name: "city", SQLType: "TEXT"},
		{Name: "postal_code", SQLType: "TEXT"},
	}}
	dimCustomerDef = ddl.TableDef{Name: "dim_customer", Columns: []ddl.ColumnDef{
		{Name: "customer_key", SQLType: "TEXT"},
		{Name: "customer_name", SQLType: "TEXT", Nullable: true},
		{Name: "customer_segment", SQLType: "TEXT", Nullable: true},
		{Name: "marital_status", SQLType: "TEXT", Nullable: true},
		{Name: "gender", SQLType: "TEXT", Nullable: true},
		{Name: "dob_id", SQLType: "INTEGER", Nullable: true},
		{Name: "address_id", SQLType: "INTEGER", Nullable: true},
	}}
	dimPolicyDef = ddl.TableDef{Name: "dim_policy", Columns: []ddl.ColumnDef{
		{Name: "policy_id", SQLType: "TEXT"},
		{Name: "policy_name", SQLType: "TEXT", Nullable: true},
		{Name: "policy_type_id", SQLType: "TEXT", Nullable: true},
		{Name: "policy_type", SQLType: "TEXT", Nullable: true},
		{Name: "policy_type_desc", SQLType: "TEXT", Nullable: true},
		{Name: "policy_term", SQLType: "TEXT", Nullable: true},
	}}
	factDef = ddl.TableDef{Name: "fact_policy_payments", Columns: []ddl.ColumnDef{
		{Name: "customer_key", SQLType: "TEXT", Nullable: true},
		{Name: "policy_id", SQLType: "TEXT", Nullable: true},
		{Name: "effective_start_date_id", SQLType: "INTEGER", Nullable: true},
		{Name: "effective_end_date_id", SQLType: "INTEGER", Nullable: true},
		{Name: "policy_start_date_id", SQLType: "INTEGER", Nullable: true},
		{Name: "policy_end_date_id", SQLType: "INTEGER", Nullable: true},
		{Name: "next_premium_date_id", SQLType: "INTEGER", Nullable: true},
		{Name: "actual_premium_paid_date_id", SQLType: "INTEGER", Nullable: true},
		{Name: "premium_amt", SQLType: "REAL", Nullable: true},
		{Name: "total_policy_amt", SQLType: "REAL", Nullable: true},
		{Name: "premium_amt_paid_tilldate", SQLType: "REAL", Nullable: true},
		{Name: "days_delay", SQLType: "INTEGER", Nullable: true},
		{Name: "late_fee_est", SQLType: "REAL", Nullable: true},
		{Name: "address_id", SQLType: "INTEGER", Nullable: true},
	}}

	indexes = []ddl.IndexDef{
		{Name: "idx_dim_date_id", Table: "dim_date", Columns: []string{"date_id"}, Unique: true},
		{Name: "idx_dim_address", Table: "dim_address",
			Columns: []string{"country", "region", "state_or_province", "city", "postal_code"}, Unique: true},
		{Name: "idx_dim_customer_key", Table: "dim_customer", Columns: []string{"customer_key"}, Unique: true},
		{Name: "idx_dim_customer_addr", Table: "dim_customer", Columns: []string{"address_id"}},
		{Name: "idx_dim_policy_id", Table: "dim_policy", Columns: []string{"policy_id"}, Unique: true},
		{Name: "idx_fact_customer", Table: "fact_policy_payments", Columns: []string{"customer_key"}},
		{Name: "idx_fact_policy", Table: "fact_policy_payments", Columns: []string{"policy_id"}},
		{Name: "idx_fact_dates", Table: "fact_policy_payments",
			Columns: []string{"next_premium_date_id", "actual_premium_paid_date_id"}},
	}
)

// Persist drops and recreates every warehouse table, loads the built rows in
// batches, and declares the uniqueness/lookup indexes.
func Persist(ctx context.Context, repo storage.Repository, wh *Warehouse, batchSize int) (Counts, error) {
	var counts Counts

	loads := []struct {
		def  ddl.TableDef
		rows [][]any
		out  *int64
	}{
		{dimDateDef, dateRows(wh.Dates), &counts.DimDate},
		{dimAddressDef, addressRows(wh.Addresses), &counts.DimAddress},
		{dimCustomerDef, customerRows(wh.Customers), &counts.DimCustomer},
		{dimPolicyDef, policyRows(wh.Policies), &counts.DimPolicy},
		{factDef, factRows(wh.Facts), &counts.Fact},
	}

	for _, l := range loads {
		n, err := replaceTable(ctx, repo, l.def, l.rows, batchSize)
		if err != nil {
			return counts, err
		}
		*l.out = n
	}

	for _, ix := range indexes {
		stmt, err := ddl.BuildCreateIndexSQL(ix)
		if err != nil {
			return counts, fmt.Errorf("warehouse: %w", err)
		}
		if err := repo.Exec(ctx, stmt); err != nil {
			return counts, fmt.Errorf("warehouse: create index %s: %w", ix.Name, err)
		}
	}
	return counts, nil
}

func replaceTable(ctx context.Context, repo storage.Repository, def ddl.TableDef, rows [][]any, batchSize int) (int64, error) {
	if err := repo.Exec(ctx, ddl.BuildDropTableSQL(def.Name)); err != nil {
		return 0, fmt.Errorf("warehouse: drop %s: %w", def.Name, err)
	}
	create, err := ddl.BuildCreateTableSQL(def)
	if err != nil {
		return 0, fmt.Errorf("warehouse: %w", err)
	}
	if err := repo.Exec(ctx, create); err != nil {
		return 0, fmt.Errorf("warehouse: create %s: %w", def.Name, err)
	}

	cols := make([]string, len(def.Columns))
	for i, c := range def.Columns {
		cols[i] = c.Name
	}

	if batchSize <= 0 {
		batchSize = len(rows)
	}
	var total int64
	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		n, err := repo.CopyFrom(ctx, def.Name, cols, rows[start:end])
		total += n
		if err != nil {
			return total, fmt.Errorf("warehouse: load %s: %w", def.Name, err)
		}
	}
	log.Printf("warehouse: %s rows=%d", def.Name, total)
	return total, nil
}

func dateRows(rows []DateRow) [][]any {
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = []any{
			r.DateID, r.FullDate.Format(tabular.DateLayout),
			r.Year, r.Quarter, r.Month, r.Day, r.DayName, r.WeekOfYear,
		}
	}
	return out
}

func addressRows(rows []AddressRow) [][]any {
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = []any{r.AddressID, r.Country, r.Region, r.StateOrProvince, r.City, r.PostalCode}
	}
	return out
}

func customerRows(rows []CustomerRow) [][]any {
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = []any{
			r.CustomerKey, nullableStr(r.Name), nullableStr(r.Segment),
			nullableStr(r.MaritalStatus), nullableStr(r.Gender),
			nullableInt(r.DOBID), nullableInt(r.AddressID),
		}
	}
	return out
}

func policyRows(rows []PolicyRow) [][]any {
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = []any{
			r.PolicyID, nullableStr(r.Name), nullableStr(r.TypeID),
			nullableStr(r.Type), nullableStr(r.TypeDesc), nullableStr(r.Term),
		}
	}
	return out
}

func factRows(rows []FactRow) [][]any {
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = []any{
			nullableStr(r.CustomerKey), nullableStr(r.PolicyID),
			nullableInt(r.EffectiveStartDateID), nullableInt(r.EffectiveEndDateID),
			nullableInt(r.PolicyStartDateID), nullableInt(r.PolicyEndDateID),
			nullableInt(r.NextPremiumDateID), nullableInt(r.ActualPremiumPaidDateID),
			nullableFloat(r.PremiumAmt), nullableFloat(r.TotalPolicyAmt),
			nullableFloat(r.PremiumPaidTillDate), nullableInt(r.DaysDelay),
			nullableFloat(r.LateFeeEst), nullableInt(r.AddressID),
		}
	}
	return out
}

func nullableStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullableInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullableFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
