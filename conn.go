package nodelens

import "context"

// Conn is the database link a Node reads through. Execute returns the column names in
// database order and the raw row values. Implementations are not required to be safe for
// concurrent use.
type Conn interface {
	Execute(ctx context.Context, query string) (columns []string, rows [][]any, err error)
	Close() error
}
