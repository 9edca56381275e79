package nodelens

import (
	"encoding/hex"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Row maps column names to values. SQL NULL is nil.
type Row map[string]any

// Table is a fully materialised result set. Columns keep the order reported by the
// database and rows keep the order the database returned them in.
type Table struct {
	Columns []string
	Rows    []Row
}

func newTable(cols []string, values [][]any) *Table {
	t := &Table{Columns: cols, Rows: make([]Row, 0, len(values))}
	for _, vals := range values {
		r := make(Row, len(cols))
		for i, c := range cols {
			if i < len(vals) {
				r[c] = normalizeValue(vals[i])
			} else {
				r[c] = nil
			}
		}
		t.Rows = append(t.Rows, r)
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnName returns the column matching name, preferring an exact match and falling back
// to a case-insensitive one.
func (t *Table) ColumnName(name string) (string, bool) {
	for _, c := range t.Columns {
		if c == name {
			return c, true
		}
	}
	for _, c := range t.Columns {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return "", false
}

// Value returns the value of column name in row i.
func (t *Table) Value(i int, name string) (any, bool) {
	if i < 0 || i >= len(t.Rows) {
		return nil, false
	}
	c, ok := t.ColumnName(name)
	if !ok {
		return nil, false
	}
	return t.Rows[i][c], true
}

// Filter returns a new table with the rows satisfying every predicate.
func (t *Table) Filter(preds ...Predicate) (*Table, error) {
	resolved := make([]Predicate, len(preds))
	for i, p := range preds {
		c, ok := t.ColumnName(p.Column)
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownColumn, p.Column)
		}
		p.Column = c
		resolved[i] = p
	}
	out := &Table{Columns: t.Columns, Rows: []Row{}}
	for _, r := range t.Rows {
		if matchAll(r, resolved) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out, nil
}

func matchAll(r Row, preds []Predicate) bool {
	for _, p := range preds {
		if !p.Match(r) {
			return false
		}
	}
	return true
}

// Op is a predicate operator.
type Op int

const (
	OpEq Op = iota
	OpIsNull
)

func (o Op) String() string {
	switch o {
	case OpEq:
		return "="
	case OpIsNull:
		return "IS NULL"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// Predicate is a single column test evaluated in memory.
type Predicate struct {
	Column string
	Op     Op
	Value  any
}

// Eq matches rows whose column equals v.
func Eq(column string, v any) Predicate {
	return Predicate{Column: column, Op: OpEq, Value: v}
}

// IsNull matches rows whose column is NULL.
func IsNull(column string) Predicate {
	return Predicate{Column: column, Op: OpIsNull}
}

func (p Predicate) String() string {
	if p.Op == OpIsNull {
		return p.Column + " IS NULL"
	}
	return fmt.Sprintf("%s = %v", p.Column, p.Value)
}

// Match evaluates p against r. The column name must already match a key of r.
func (p Predicate) Match(r Row) bool {
	v := r[p.Column]
	switch p.Op {
	case OpIsNull:
		return v == nil
	case OpEq:
		return valuesEqual(v, p.Value)
	default:
		return false
	}
}

func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	a, b = normalizeValue(a), normalizeValue(b)
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Equal(tb)
		}
	}
	ra, rb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ra == rb && ra.Comparable() {
		return a == b
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// normalizeValue converts driver representations into comparable, printable values.
func normalizeValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case []byte:
		if utf8.Valid(x) {
			return string(x)
		}
		return "0x" + hex.EncodeToString(x)
	case uuid.UUID:
		return x.String()
	case [16]byte:
		return uuid.UUID(x).String()
	default:
		return v
	}
}
