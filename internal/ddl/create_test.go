package ddl

import (
	"strings"
	"testing"
)

/*
TestBuildCreateTableSQL_Full renders a table with nullable and non-nullable
columns plus a primary key and checks the exact statement.
*/
func TestBuildCreateTableSQL_Full(t *testing.T) {
	t.Parallel()

	def := TableDef{
		Name: "dim_customer",
		Columns: []ColumnDef{
			{Name: "customer_key", SQLType: "INTEGER", PrimaryKey: true},
			{Name: "customer_id", SQLType: "TEXT"},
			{Name: "customer_name", SQLType: "TEXT", Nullable: true},
		},
	}

	got, err := BuildCreateTableSQL(def)
	if err != nil {
		t.Fatalf("BuildCreateTableSQL: %v", err)
	}
	want := `CREATE TABLE "dim_customer" (
  "customer_key" INTEGER NOT NULL,
  "customer_id" TEXT NOT NULL,
  "customer_name" TEXT,
  PRIMARY KEY ("customer_key")
);`
	if got != want {
		t.Fatalf("statement mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

/*
TestBuildCreateTableSQL_Errors covers the validation failures: empty table
name, no columns, empty column name, missing SQL type.
*/
func TestBuildCreateTableSQL_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		def  TableDef
	}{
		{"empty_table_name", TableDef{Columns: []ColumnDef{{Name: "a", SQLType: "TEXT"}}}},
		{"no_columns", TableDef{Name: "t"}},
		{"empty_column_name", TableDef{Name: "t", Columns: []ColumnDef{{SQLType: "TEXT"}}}},
		{"missing_sql_type", TableDef{Name: "t", Columns: []ColumnDef{{Name: "a"}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := BuildCreateTableSQL(tc.def); err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
		})
	}
}

/*
TestBuildDropTableSQL checks the IF EXISTS drop statement and identifier
quoting.
*/
func TestBuildDropTableSQL(t *testing.T) {
	t.Parallel()

	if got, want := BuildDropTableSQL("fact_policy_payments"), `DROP TABLE IF EXISTS "fact_policy_payments";`; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

/*
TestBuildCreateIndexSQL covers unique and plain indexes plus the validation
errors.
*/
func TestBuildCreateIndexSQL(t *testing.T) {
	t.Parallel()

	t.Run("unique", func(t *testing.T) {
		got, err := BuildCreateIndexSQL(IndexDef{
			Name: "idx_dim_date_id", Table: "dim_date", Columns: []string{"date_id"}, Unique: true,
		})
		if err != nil {
			t.Fatalf("BuildCreateIndexSQL: %v", err)
		}
		want := `CREATE UNIQUE INDEX IF NOT EXISTS "idx_dim_date_id" ON "dim_date" ("date_id");`
		if got != want {
			t.Fatalf("got %q, want %q", got, want)
		}
	})

	t.Run("plain_multi_column", func(t *testing.T) {
		got, err := BuildCreateIndexSQL(IndexDef{
			Name: "idx_fact_dates", Table: "fact_policy_payments",
			Columns: []string{"policy_start_date_id", "payment_date_id"},
		})
		if err != nil {
			t.Fatalf("BuildCreateIndexSQL: %v", err)
		}
		if strings.Contains(got, "UNIQUE") {
			t.Fatalf("plain index rendered as unique: %q", got)
		}
		if !strings.Contains(got, `("policy_start_date_id", "payment_date_id")`) {
			t.Fatalf("column list wrong: %q", got)
		}
	})

	t.Run("errors", func(t *testing.T) {
		if _, err := BuildCreateIndexSQL(IndexDef{Table: "t", Columns: []string{"a"}}); err == nil {
			t.Error("expected error for empty index name")
		}
		if _, err := BuildCreateIndexSQL(IndexDef{Name: "i", Columns: []string{"a"}}); err == nil {
			t.Error("expected error for empty table")
		}
		if _, err := BuildCreateIndexSQL(IndexDef{Name: "i", Table: "t"}); err == nil {
			t.Error("expected error for no columns")
		}
	})
}

/*
TestQuoteIdent checks quote escaping.
*/
func TestQuoteIdent(t *testing.T) {
	t.Parallel()

	if got := QuoteIdent(`weird"name`); got != `"weird""name"` {
		t.Fatalf("QuoteIdent = %q", got)
	}
}
