package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mickamy/nodelens"
)

func TestGlobalFlagsConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "node.yaml")
	data := []byte("driver: mysql\nhost: db.internal\nuser: corda\npassword: from-file\nname: PartyA\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}

	tcs := []struct {
		name string
		args []string
		want nodelens.Config
	}{
		{
			name: "file only",
			args: []string{"-config", path},
			want: nodelens.Config{Driver: nodelens.DriverMySQL, Host: "db.internal", User: "corda", Password: "from-file", Name: "PartyA"},
		},
		{
			name: "flags override file",
			args: []string{"-config", path, "-driver", "postgres", "-password", "from-flag", "-node-root", "/opt/node"},
			want: nodelens.Config{
				Driver: nodelens.DriverPostgres, Host: "db.internal", User: "corda", Password: "from-flag",
				Name: "PartyA", NodeRoot: "/opt/node",
			},
		},
		{
			name: "flags only",
			args: []string{"-url", "jdbc:postgresql://localhost:5432/partya", "-web-server", "http://localhost:10007"},
			want: nodelens.Config{URL: "jdbc:postgresql://localhost:5432/partya", WebServerURL: "http://localhost:10007"},
		},
	}
	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := newGlobalFlags()
			if err := f.flagset.Parse(tc.args); err != nil {
				t.Fatalf("Parse error = %v", err)
			}
			got, err := f.config()
			if err != nil {
				t.Fatalf("config error = %v", err)
			}
			if got != tc.want {
				t.Fatalf("config = %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestRunTables(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := runTables(&buf); err != nil {
		t.Fatalf("runTables error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"NODE_ATTACHMENT_CONTRACTS", "VAULT_STATES", "NODE_MESSAGE_RETRY"} {
		if !strings.Contains(out, want) {
			t.Fatalf("tables output lacks %q:\n%s", want, out)
		}
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "NODE_TRANSACTION_MAPPINGS") && !strings.HasSuffix(strings.TrimSpace(line), "false") {
			t.Fatalf("NODE_TRANSACTION_MAPPINGS marked as exported: %q", line)
		}
	}
}

func TestStyledTable(t *testing.T) {
	t.Parallel()

	tbl := &nodelens.Table{
		Columns: []string{"ALIAS", "PRIVATE_KEY"},
		Rows: []nodelens.Row{
			{"ALIAS": "identity-private-key", "PRIVATE_KEY": strings.Repeat("A", 100)},
		},
	}
	out := styledTable(tbl)
	if !strings.Contains(out, "identity-private-key") {
		t.Fatalf("styledTable lacks alias:\n%s", out)
	}
	if strings.Contains(out, strings.Repeat("A", maxCellWidth)) {
		t.Fatalf("styledTable did not truncate long cell:\n%s", out)
	}
}

func TestTruncateCell(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		in   string
		w    int
		want string
	}{
		{in: "short", w: 10, want: "short"},
		{in: "exactly10!", w: 10, want: "exactly10!"},
		{in: "O=PartyA,L=London,C=GB", w: 8, want: "O=Party…"},
	}
	for _, tc := range tcs {
		if got := truncateCell(tc.in, tc.w); got != tc.want {
			t.Fatalf("truncateCell(%q, %d) = %q, want %q", tc.in, tc.w, got, tc.want)
		}
	}
}

func TestRowCount(t *testing.T) {
	t.Parallel()

	if got := rowCount(1); got != "1 row" {
		t.Fatalf("rowCount(1) = %q", got)
	}
	if got := rowCount(3); got != "3 rows" {
		t.Fatalf("rowCount(3) = %q", got)
	}
}

func TestWithSuggestion(t *testing.T) {
	t.Parallel()

	c := nodelens.DefaultCatalog()
	other := errors.New("boom")

	tcs := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "singular name",
			err:  &nodelens.UnknownTableError{Name: "vault_state"},
			want: `nodelens: unknown table "vault_state" (did you mean VAULT_STATES?)`,
		},
		{
			name: "no suggestion",
			err:  &nodelens.UnknownTableError{Name: "VAULT_SECRETS"},
			want: `nodelens: unknown table "VAULT_SECRETS"`,
		},
		{name: "other error", err: other, want: "boom"},
	}
	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := withSuggestion(c, tc.err)
			if got.Error() != tc.want {
				t.Fatalf("withSuggestion(%v) = %q, want %q", tc.err, got.Error(), tc.want)
			}
			if !errors.Is(got, tc.err) {
				t.Fatalf("withSuggestion(%v) does not wrap the original error", tc.err)
			}
		})
	}
}

func TestCanonicalLinearID(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "lower case", in: "0f8fad5b-d9cb-469f-a165-70867728950e", want: "0f8fad5b-d9cb-469f-a165-70867728950e"},
		{name: "upper case", in: "0F8FAD5B-D9CB-469F-A165-70867728950E", want: "0f8fad5b-d9cb-469f-a165-70867728950e"},
		{name: "braces", in: "{0F8FAD5B-D9CB-469F-A165-70867728950E}", want: "0f8fad5b-d9cb-469f-a165-70867728950e"},
		{name: "invalid", in: "not-a-uuid", wantErr: true},
	}
	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := canonicalLinearID(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("canonicalLinearID(%q) error = nil, want error", tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("canonicalLinearID(%q) error = %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("canonicalLinearID(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
