package nodelens

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/mickamy/nodelens/internal/query"
)

type pgxConn struct {
	conn *pgx.Conn
}

// ConnectPgx opens a single native pgx connection.
func ConnectPgx(ctx context.Context, dsn string) (Conn, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &pgxConn{conn: conn}, nil
}

func (c *pgxConn) Execute(ctx context.Context, q string) ([]string, [][]any, error) {
	if err := query.CheckReadOnly(q); err != nil {
		return nil, nil, err
	}
	rows, err := c.conn.Query(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	fd := rows.FieldDescriptions()
	columns := make([]string, len(fd))
	for i, col := range fd {
		columns[i] = col.Name
	}

	var out [][]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, nil, err
		}
		out = append(out, values)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return columns, out, nil
}

func (c *pgxConn) Close() error {
	return c.conn.Close(context.Background())
}
