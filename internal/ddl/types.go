package ddl

// ColumnDef describes a single column in a warehouse table definition.
// SQLType uses the small common subset (TEXT, INTEGER, REAL) accepted by both
// supported backends; quoting/escaping happens at render time.
type ColumnDef struct {
	Name       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
}

// TableDef holds a table name and an ordered list of columns.
type TableDef struct {
	Name    string
	Columns []ColumnDef
}

// IndexDef describes a secondary index on a table.
type IndexDef struct {
	Name    string
	Table   string
	Columns []string
	Unique  bool
}
