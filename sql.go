package nodelens

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mickamy/nodelens/internal/query"
)

// sqlConn adapts a *sql.DB to Conn.
type sqlConn struct {
	db *sql.DB
}

// WrapDB exposes a *sql.DB as a Conn. Only read-only statements are let through.
func WrapDB(db *sql.DB) Conn {
	return &sqlConn{db: db}
}

func (c *sqlConn) Execute(ctx context.Context, q string) ([]string, [][]any, error) {
	if err := query.CheckReadOnly(q); err != nil {
		return nil, nil, err
	}
	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	return scanAll(rows)
}

func (c *sqlConn) Close() error {
	return c.db.Close()
}

// scanAll consumes every row from *sql.Rows.
func scanAll(rows *sql.Rows) ([]string, [][]any, error) {
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		out = append(out, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return cols, out, nil
}
