package nodelens

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type fixture struct {
	cols []string
	rows [][]any
}

// fakeConn serves fixtures keyed by physical table name and records every statement.
type fakeConn struct {
	tables  map[string]fixture
	queries []string
	closes  int
}

func (c *fakeConn) Execute(_ context.Context, q string) ([]string, [][]any, error) {
	c.queries = append(c.queries, q)
	name, ok := strings.CutPrefix(q, "SELECT * FROM ")
	if !ok {
		return nil, nil, fmt.Errorf("unexpected statement %q", q)
	}
	f, ok := c.tables[name]
	if !ok {
		return nil, nil, fmt.Errorf("table %q not found", name)
	}
	rows := make([][]any, len(f.rows))
	for i, r := range f.rows {
		rows[i] = append([]any(nil), r...)
	}
	return append([]string(nil), f.cols...), rows, nil
}

func (c *fakeConn) Close() error {
	c.closes++
	return nil
}

var (
	consumedAt = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	vaultStatesFixture = fixture{
		cols: []string{"TRANSACTION_ID", "OUTPUT_INDEX", "CONTRACT_STATE_CLASS_NAME", "CONSUMED_TIMESTAMP", "NOTARY_NAME"},
		rows: [][]any{
			{"TX1", int64(0), "com.example.IOUState", consumedAt, "O=Notary,L=London,C=GB"},
			{"TX2", int64(0), "com.example.IOUState", nil, "O=Notary,L=London,C=GB"},
			{"TX3", int64(1), "com.example.IOUState", consumedAt, "O=Notary,L=London,C=GB"},
			{"TX3", int64(0), "com.example.CashState", nil, "O=Notary,L=London,C=GB"},
		},
	}

	linearStatesFixture = fixture{
		cols: []string{"TRANSACTION_ID", "OUTPUT_INDEX", "EXTERNAL_ID", "UUID", "LINEAR_ID"},
		rows: [][]any{
			{"TX1", int64(0), nil, "2d3e5b6c-0d4e-4f1a-9b7c-1e2f3a4b5c6d", "2d3e5b6c-0d4e-4f1a-9b7c-1e2f3a4b5c6d"},
			{"TX2", int64(0), "ref-9", "8f14e45f-ceea-467f-a0e6-1b2c3d4e5f60", "8f14e45f-ceea-467f-a0e6-1b2c3d4e5f60"},
		},
	}

	fungibleStatesFixture = fixture{
		cols: []string{"TRANSACTION_ID", "OUTPUT_INDEX", "ISSUER_NAME", "QUANTITY"},
		rows: [][]any{
			{"TX4", int64(0), "O=Bank A,L=London,C=GB", int64(100)},
			{"TX4", int64(1), "O=Bank B,L=Paris,C=FR", int64(40)},
			{"TX5", int64(0), "O=Bank A,L=London,C=GB", int64(7)},
		},
	}
)

func newFakeConn() *fakeConn {
	return &fakeConn{tables: map[string]fixture{
		"VAULT_STATES":          vaultStatesFixture,
		"VAULT_LINEAR_STATES":   linearStatesFixture,
		"VAULT_FUNGIBLE_STATES": fungibleStatesFixture,
	}}
}
