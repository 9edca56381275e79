package nodelens

import (
	"context"
	"fmt"
	"strings"

	"github.com/mickamy/nodelens/internal/ident"
)

const listTablesQuery = `SELECT TABLE_SCHEMA, TABLE_NAME FROM INFORMATION_SCHEMA.TABLES`

// SchemaTable is a table present in the database.
type SchemaTable struct {
	Schema string
	Name   string
}

// ListTables returns every table the connection can see, system schemas excluded.
func (n *Node) ListTables(ctx context.Context) ([]SchemaTable, error) {
	t, err := n.Query(ctx, listTablesQuery)
	if err != nil {
		return nil, err
	}
	schemaCol, ok := t.ColumnName("TABLE_SCHEMA")
	if !ok {
		return nil, fmt.Errorf("nodelens: %w %q in table listing", ErrUnknownColumn, "TABLE_SCHEMA")
	}
	nameCol, ok := t.ColumnName("TABLE_NAME")
	if !ok {
		return nil, fmt.Errorf("nodelens: %w %q in table listing", ErrUnknownColumn, "TABLE_NAME")
	}
	var out []SchemaTable
	for _, r := range t.Rows {
		st := SchemaTable{Schema: FormatValue(r[schemaCol]), Name: FormatValue(r[nameCol])}
		if isSystemSchema(st.Schema) {
			continue
		}
		out = append(out, st)
	}
	return out, nil
}

func isSystemSchema(s string) bool {
	switch strings.ToLower(s) {
	case "information_schema", "pg_catalog", "mysql", "performance_schema", "sys":
		return true
	}
	return false
}

// MissingTables returns the catalog entries whose table is not in the database. Names
// are compared case-insensitively since unquoted identifiers fold differently per database.
func (n *Node) MissingTables(ctx context.Context) ([]CatalogEntry, error) {
	tables, err := n.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(tables)*2)
	for _, t := range tables {
		present[strings.ToUpper(t.Name)] = true
		present[strings.ToUpper(t.Schema+"."+t.Name)] = true
	}
	var missing []CatalogEntry
	for _, e := range n.catalog.Entries() {
		parts := ident.SplitQualified(e.Table)
		key := strings.ToUpper(strings.Join(parts, "."))
		if !present[key] {
			missing = append(missing, e)
		}
	}
	return missing, nil
}
