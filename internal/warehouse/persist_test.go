package warehouse

import (
	"context"
	"path/filepath"
	"testing"

	"insurancedw/internal/storage/sqlite"
	"insurancedw/pkg/records"
)

func openTestRepo(t *testing.T) *sqlite.Repository {
	t.Helper()
	repo, err := sqlite.NewRepository(context.Background(), filepath.Join(t.TempDir(), "wh.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(repo.Close)
	return repo
}

func count(t *testing.T, repo *sqlite.Repository, table string) int {
	t.Helper()
	var n int
	if err := repo.DB().QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func sampleWarehouse() *Warehouse {
	recs := []records.Record{
		rec(records.Record{
			"customer_id":            "C1",
			"customer_name":          "Ada Lovelace",
			"policy_id":              "P1",
			"premium_amt":            float64(1000),
			"next_premium_dt":        day(2023, 3, 1),
			"actual_premium_paid_dt": day(2023, 3, 20),
			"country":                "United States",
			"city":                   "Boston",
		}),
		rec(records.Record{
			"customer_id": "C2",
			"policy_id":   "P2",
			"dob":         day(1990, 7, 4),
			"country":     "United States",
			"city":        "Salem",
		}),
	}
	return Build(recs)
}

/*
TestPersist_LoadsAllTables persists a small warehouse and verifies row counts
via direct queries plus the reported Counts.
*/
func TestPersist_LoadsAllTables(t *testing.T) {
	repo := openTestRepo(t)
	wh := sampleWarehouse()

	counts, err := Persist(context.Background(), repo, wh, 500)
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}

	checks := []struct {
		table string
		got   int64
		want  int
	}{
		{"dim_date", counts.DimDate, 3},
		{"dim_address", counts.DimAddress, 2},
		{"dim_customer", counts.DimCustomer, 2},
		{"dim_policy", counts.DimPolicy, 2},
		{"fact_policy_payments", counts.Fact, 2},
	}
	for _, c := range checks {
		if int(c.got) != c.want {
			t.Errorf("Counts.%s = %d, want %d", c.table, c.got, c.want)
		}
		if n := count(t, repo, c.table); n != c.want {
			t.Errorf("%s rows = %d, want %d", c.table, n, c.want)
		}
	}

	var fee float64
	err = repo.DB().QueryRow(
		`SELECT late_fee_est FROM fact_policy_payments WHERE customer_key = 'C1'`).Scan(&fee)
	if err != nil {
		t.Fatalf("query fact: %v", err)
	}
	want := 1000 * 0.025 * 19.0 / 30
	if diff := fee - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("late_fee_est = %v, want %v", fee, want)
	}
}

/*
TestPersist_RebuildReplaces runs Persist twice and checks the second load
fully replaces the first instead of appending.
*/
func TestPersist_RebuildReplaces(t *testing.T) {
	repo := openTestRepo(t)

	if _, err := Persist(context.Background(), repo, sampleWarehouse(), 500); err != nil {
		t.Fatalf("first Persist: %v", err)
	}
	if _, err := Persist(context.Background(), repo, sampleWarehouse(), 500); err != nil {
		t.Fatalf("second Persist: %v", err)
	}

	if n := count(t, repo, "fact_policy_payments"); n != 2 {
		t.Fatalf("fact rows after rebuild = %d, want 2", n)
	}
	if n := count(t, repo, "dim_customer"); n != 2 {
		t.Fatalf("dim_customer rows after rebuild = %d, want 2", n)
	}
}

/*
TestPersist_UniqueIndexesEnforced verifies that every dimension's unique
index rejects duplicates once declared: dim_date(date_id),
dim_address(country, region, state_or_province, city, postal_code),
dim_customer(customer_key), and dim_policy(policy_id).
*/
func TestPersist_UniqueIndexesEnforced(t *testing.T) {
	repo := openTestRepo(t)

	if _, err := Persist(context.Background(), repo, sampleWarehouse(), 500); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	dups := []struct {
		name string
		stmt string
	}{
		{"dim_date", `INSERT INTO dim_date
			(date_id, full_date, year, quarter, month, day, day_name, weekofyear)
			VALUES (20230301, '2023-03-01', 2023, 1, 3, 1, 'Wednesday', 9)`},
		{"dim_address", `INSERT INTO dim_address
			(address_id, country, region, state_or_province, city, postal_code)
			VALUES (99, 'United States', '', '', 'Boston', '')`},
		{"dim_customer", `INSERT INTO dim_customer (customer_key) VALUES ('C1')`},
		{"dim_policy", `INSERT INTO dim_policy (policy_id) VALUES ('P1')`},
	}
	for _, d := range dups {
		if _, err := repo.DB().Exec(d.stmt); err == nil {
			t.Errorf("duplicate row accepted in %s; unique index missing", d.name)
		}
	}
}

/*
TestPersist_SmallBatches loads with batch size 1 to exercise the batching
loop boundaries.
*/
func TestPersist_SmallBatches(t *testing.T) {
	repo := openTestRepo(t)

	counts, err := Persist(context.Background(), repo, sampleWarehouse(), 1)
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if counts.Fact != 2 {
		t.Fatalf("Counts.Fact = %d, want 2", counts.Fact)
	}
	if n := count(t, repo, "fact_policy_payments"); n != 2 {
		t.Fatalf("fact rows = %d, want 2", n)
	}
}
