package nodelens

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func column(t *testing.T, tbl *Table, name string) []any {
	t.Helper()
	out := make([]any, 0, tbl.Len())
	for i := range tbl.Rows {
		v, ok := tbl.Value(i, name)
		if !ok {
			t.Fatalf("column %q missing", name)
		}
		out = append(out, v)
	}
	return out
}

func TestLookups(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tcs := []struct {
		name   string
		run    func(n *Node) (*Table, error)
		column string
		want   []any
	}{
		{
			name:   "transactions by linear id",
			run:    func(n *Node) (*Table, error) { return n.TransactionsByLinearID(ctx, "8f14e45f-ceea-467f-a0e6-1b2c3d4e5f60") },
			column: "TRANSACTION_ID",
			want:   []any{"TX2"},
		},
		{
			name:   "vault states by transaction id",
			run:    func(n *Node) (*Table, error) { return n.VaultStatesByTransactionID(ctx, "TX3") },
			column: "CONTRACT_STATE_CLASS_NAME",
			want:   []any{"com.example.IOUState", "com.example.CashState"},
		},
		{
			name:   "fungible states by transaction id",
			run:    func(n *Node) (*Table, error) { return n.FungibleStatesByTransactionID(ctx, "TX4") },
			column: "QUANTITY",
			want:   []any{int64(100), int64(40)},
		},
		{
			name:   "fungible states by issuer",
			run:    func(n *Node) (*Table, error) { return n.FungibleStatesByIssuer(ctx, "O=Bank A,L=London,C=GB") },
			column: "TRANSACTION_ID",
			want:   []any{"TX4", "TX5"},
		},
		{
			name:   "unconsumed states by contract class",
			run:    func(n *Node) (*Table, error) { return n.UnconsumedStatesByContractClass(ctx, "com.example.IOUState") },
			column: "TRANSACTION_ID",
			want:   []any{"TX2"},
		},
		{
			name:   "no match",
			run:    func(n *Node) (*Table, error) { return n.VaultStatesByTransactionID(ctx, "TX404") },
			column: "TRANSACTION_ID",
			want:   []any{},
		},
	}
	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			n := NewNode(newFakeConn())
			got, err := tc.run(n)
			if err != nil {
				t.Fatalf("lookup error = %v", err)
			}
			if vals := column(t, got, tc.column); !reflect.DeepEqual(vals, tc.want) {
				t.Fatalf("%s = %#v, want %#v", tc.column, vals, tc.want)
			}

			again, err := tc.run(n)
			if err != nil {
				t.Fatalf("second lookup error = %v", err)
			}
			if !reflect.DeepEqual(got, again) {
				t.Fatalf("lookup not repeatable: %#v vs %#v", got, again)
			}
		})
	}
}

func TestLinearIDForTransaction(t *testing.T) {
	t.Parallel()

	n := NewNode(newFakeConn())
	got, err := n.LinearIDForTransaction(context.Background(), "TX2")
	if err != nil {
		t.Fatalf("LinearIDForTransaction error = %v", err)
	}
	if got != "8f14e45f-ceea-467f-a0e6-1b2c3d4e5f60" {
		t.Fatalf("LinearIDForTransaction = %v, want 8f14e45f-ceea-467f-a0e6-1b2c3d4e5f60", got)
	}

	_, err = n.LinearIDForTransaction(context.Background(), "TX404")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("LinearIDForTransaction(TX404) error = %v, want NotFoundError", err)
	}
	if notFound.Value != "TX404" {
		t.Fatalf("NotFoundError.Value = %v, want TX404", notFound.Value)
	}
}

func TestLinearIDForTransactionFirstRowWins(t *testing.T) {
	t.Parallel()

	conn := newFakeConn()
	conn.tables["VAULT_LINEAR_STATES"] = fixture{
		cols: []string{"TRANSACTION_ID", "LINEAR_ID"},
		rows: [][]any{{"TX7", "first"}, {"TX7", "second"}},
	}
	got, err := NewNode(conn).LinearIDForTransaction(context.Background(), "TX7")
	if err != nil {
		t.Fatalf("LinearIDForTransaction error = %v", err)
	}
	if got != "first" {
		t.Fatalf("LinearIDForTransaction = %v, want first", got)
	}
}

func TestLookupPostgresColumns(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("2d3e5b6c-0d4e-4f1a-9b7c-1e2f3a4b5c6d")
	conn := newFakeConn()
	conn.tables["VAULT_LINEAR_STATES"] = fixture{
		cols: []string{"transaction_id", "uuid", "linear_id"},
		rows: [][]any{
			{[]byte("TX1"), [16]byte(id), [16]byte(id)},
			{[]byte("TX2"), [16]byte(uuid.Nil), [16]byte(uuid.Nil)},
		},
	}
	n := NewNode(conn)

	got, err := n.TransactionsByLinearID(context.Background(), id.String())
	if err != nil {
		t.Fatalf("TransactionsByLinearID error = %v", err)
	}
	if got.Len() != 1 || got.Rows[0]["transaction_id"] != "TX1" {
		t.Fatalf("TransactionsByLinearID rows = %#v, want TX1 only", got.Rows)
	}

	lid, err := n.LinearIDForTransaction(context.Background(), "TX1")
	if err != nil {
		t.Fatalf("LinearIDForTransaction error = %v", err)
	}
	if lid != id.String() {
		t.Fatalf("LinearIDForTransaction = %v, want %s", lid, id)
	}
}

func TestLookupUnknownColumn(t *testing.T) {
	t.Parallel()

	n := NewNode(newFakeConn())
	_, err := n.Lookup(context.Background(), VaultStates, Eq("NO_SUCH_COLUMN", 1))
	if !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("Lookup error = %v, want ErrUnknownColumn", err)
	}
}
