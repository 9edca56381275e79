package query

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mickamy/nodelens/internal/ident"
)

// ErrNotReadOnly is returned for statements that could change the database.
var ErrNotReadOnly = errors.New("statement is not read-only")

// DML describes a recognized data-changing statement.
type DML struct {
	Op    string // INSERT, UPDATE, DELETE, MERGE
	Table string // possibly schema-qualified
}

var (
	reInsert = regexp.MustCompile(`(?is)^\s*(?:with\b.*?\)\s*)?insert\s+into\s+([^\s(]+)`)
	reUpdate = regexp.MustCompile(`(?is)^\s*(?:with\b.*?\)\s*)?update\s+([^\s]+(?:\s+(?:as\s+)?[^\s]+)?)\s+set\b`)
	reDelete = regexp.MustCompile(`(?is)^\s*(?:with\b.*?\)\s*)?delete\s+from\s+([^\s]+(?:\s+(?:as\s+)?[^\s]+)?)`)
	reMerge  = regexp.MustCompile(`(?is)^\s*(?:with\b.*?\)\s*)?merge\s+into\s+([^\s(]+)`)

	// statements that never return rows worth inspecting and may change state
	reDDL = regexp.MustCompile(`(?is)^\s*(create|drop|alter|truncate|grant|revoke|rename|comment|call|lock|vacuum|copy)\b`)
)

// ParseDML attempts to recognize a single top-level DML and return its metadata.
func ParseDML(q string) (DML, bool) {
	qs := strings.TrimSpace(q)
	if m := reInsert.FindStringSubmatch(qs); len(m) == 2 {
		return DML{Op: "INSERT", Table: ident.StripAlias(m[1])}, true
	}
	if m := reUpdate.FindStringSubmatch(qs); len(m) == 2 {
		return DML{Op: "UPDATE", Table: ident.StripAlias(m[1])}, true
	}
	if m := reDelete.FindStringSubmatch(qs); len(m) == 2 {
		return DML{Op: "DELETE", Table: ident.StripAlias(m[1])}, true
	}
	if m := reMerge.FindStringSubmatch(qs); len(m) == 2 {
		return DML{Op: "MERGE", Table: ident.StripAlias(m[1])}, true
	}
	return DML{}, false
}

// CheckReadOnly rejects empty statements, DML and DDL.
func CheckReadOnly(q string) error {
	if strings.TrimSpace(q) == "" {
		return fmt.Errorf("%w: empty statement", ErrNotReadOnly)
	}
	if dml, ok := ParseDML(q); ok {
		return fmt.Errorf("%w: %s on %s", ErrNotReadOnly, dml.Op, dml.Table)
	}
	if m := reDDL.FindStringSubmatch(q); len(m) == 2 {
		return fmt.Errorf("%w: %s", ErrNotReadOnly, strings.ToUpper(m[1]))
	}
	return nil
}

// SelectAll builds the full-table read for a possibly schema-qualified table.
func SelectAll(table string) (string, error) {
	parts := ident.SplitQualified(table)
	for _, p := range parts {
		if p == "" {
			return "", fmt.Errorf("invalid table identifier %q", table)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("invalid table identifier %q", table)
	}
	return "SELECT * FROM " + ident.Render(parts), nil
}
