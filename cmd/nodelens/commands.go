package main

import (
	"context"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/google/uuid"

	"github.com/mickamy/nodelens"
	"github.com/mickamy/nodelens/provision"
)

func connect(ctx context.Context, f *globalFlags) (*nodelens.Node, error) {
	cfg, err := f.config()
	if err != nil {
		return nil, err
	}
	n, err := nodelens.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	slog.Debug("connected", "driver", cfg.ResolvedDriver(), "node", cfg.Name)
	return n, nil
}

func closeNode(n *nodelens.Node) {
	if err := n.Close(); err != nil {
		slog.Warn("failed to close session", "error", err)
	}
}

// catalogTable describes the catalog as a table of its own.
func catalogTable(c *nodelens.Catalog) *nodelens.Table {
	t := &nodelens.Table{Columns: []string{"NAME", "TABLE", "LABEL", "IN_SNAPSHOT"}}
	for _, e := range c.Entries() {
		t.Rows = append(t.Rows, nodelens.Row{
			"NAME":        e.Name,
			"TABLE":       e.Table,
			"LABEL":       e.Label,
			"IN_SNAPSHOT": slices.Contains(nodelens.SnapshotOrder, e.Name),
		})
	}
	return t
}

func runTables(w io.Writer) error {
	return printTable(w, catalogTable(nodelens.DefaultCatalog()))
}

func runCheck(ctx context.Context, f *globalFlags) error {
	n, err := connect(ctx, f)
	if err != nil {
		return err
	}
	defer closeNode(n)

	missing, err := n.MissingTables(ctx)
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		slog.Info("all known tables present")
		return nil
	}
	for _, e := range missing {
		slog.Warn("table missing", "name", e.Name, "table", e.Table)
	}
	return fmt.Errorf("%d of %d known tables missing", len(missing), len(n.Catalog().Names()))
}

func runDump(ctx context.Context, f *globalFlags, args []string) error {
	if len(args) != 1 {
		return errors.New("dump needs exactly one table name")
	}
	n, err := connect(ctx, f)
	if err != nil {
		return err
	}
	defer closeNode(n)

	t, err := n.Fetch(ctx, args[0])
	if err != nil {
		return withSuggestion(n.Catalog(), err)
	}
	slog.Debug("fetched table", "table", args[0], "rows", t.Len())
	return printTable(os.Stdout, t)
}

// withSuggestion adds the likely registered name to an unknown table error.
func withSuggestion(c *nodelens.Catalog, err error) error {
	var unknown *nodelens.UnknownTableError
	if !errors.As(err, &unknown) {
		return err
	}
	if s, ok := c.Suggest(unknown.Name); ok {
		return fmt.Errorf("%w (did you mean %s?)", err, s)
	}
	return err
}

// canonicalLinearID returns id in the lower-case hyphenated form stored values render to.
func canonicalLinearID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("invalid linear id %q: %w", id, err)
	}
	return u.String(), nil
}

func runFind(ctx context.Context, f *globalFlags, args []string) error {
	if len(args) != 2 {
		return errors.New("find needs a lookup and a value")
	}
	kind, value := args[0], args[1]
	if kind == "linear-id" {
		id, err := canonicalLinearID(value)
		if err != nil {
			return err
		}
		value = id
	}

	n, err := connect(ctx, f)
	if err != nil {
		return err
	}
	defer closeNode(n)

	var t *nodelens.Table
	switch kind {
	case "linear-id":
		t, err = n.TransactionsByLinearID(ctx, value)
	case "tx":
		t, err = n.VaultStatesByTransactionID(ctx, value)
	case "tx-fungible":
		t, err = n.FungibleStatesByTransactionID(ctx, value)
	case "issuer":
		t, err = n.FungibleStatesByIssuer(ctx, value)
	case "unconsumed":
		t, err = n.UnconsumedStatesByContractClass(ctx, value)
	case "linear-of":
		id, err := n.LinearIDForTransaction(ctx, value)
		if err != nil {
			return err
		}
		fmt.Println(nodelens.FormatValue(id))
		return nil
	default:
		return fmt.Errorf("unknown lookup %q", kind)
	}
	if err != nil {
		return err
	}
	return printTable(os.Stdout, t)
}

func runQuery(ctx context.Context, f *globalFlags, args []string) error {
	if len(args) != 1 {
		return errors.New("query needs exactly one statement")
	}
	n, err := connect(ctx, f)
	if err != nil {
		return err
	}
	defer closeNode(n)

	t, err := n.Query(ctx, args[0])
	if err != nil {
		return err
	}
	return printTable(os.Stdout, t)
}

type snapshotFlags struct {
	flagset *flag.FlagSet
	output  string
}

func newSnapshotFlags() *snapshotFlags {
	f := &snapshotFlags{
		flagset: flag.NewFlagSet("snapshot", flag.ExitOnError),
	}
	f.flagset.StringVar(
		&f.output,
		"o",
		"",
		"output file (default <name>-pycorda-snapshot-<timestamp>.log)",
	)
	return f
}

func runSnapshot(ctx context.Context, f *globalFlags, args []string) error {
	sf := newSnapshotFlags()
	if err := sf.flagset.Parse(args); err != nil {
		return err
	}
	n, err := connect(ctx, f)
	if err != nil {
		return err
	}
	defer closeNode(n)

	path, err := n.GenerateSnapshot(ctx, sf.output)
	if err != nil {
		return err
	}
	slog.Info("snapshot written", "path", path)
	return nil
}

type keysFlags struct {
	flagset  *flag.FlagSet
	keystore string
	password string
	ask      bool
	pem      bool
}

func newKeysFlags() *keysFlags {
	f := &keysFlags{
		flagset: flag.NewFlagSet("keys", flag.ExitOnError),
	}
	f.flagset.StringVar(&f.keystore, "keystore", "", "key-store file (default <node-root>/certificates/nodekeystore.jks)")
	f.flagset.StringVar(&f.password, "password", nodelens.DefaultKeyStorePassword, "key-store password")
	f.flagset.BoolVar(&f.ask, "ask", false, "prompt for the key-store password")
	f.flagset.BoolVar(&f.pem, "pem", false, "print keys as PEM blocks")
	return f
}

func runKeys(f *globalFlags, args []string) error {
	kf := newKeysFlags()
	if err := kf.flagset.Parse(args); err != nil {
		return err
	}
	path := kf.keystore
	if path == "" {
		cfg, err := f.config()
		if err != nil {
			return err
		}
		if cfg.NodeRoot == "" {
			return errors.New("keys needs -keystore or -node-root")
		}
		path = nodelens.KeyStorePath(cfg.NodeRoot)
	}
	password := kf.password
	if kf.ask {
		pw, err := promptPassword("key-store password: ")
		if err != nil {
			return err
		}
		password = pw
	}

	t, err := nodelens.ListPrivateKeys(path, password)
	if err != nil {
		return err
	}
	if !kf.pem {
		return printTable(os.Stdout, t)
	}
	for _, r := range t.Rows {
		der, err := base64.StdEncoding.DecodeString(r[nodelens.ColumnPrivateKey].(string))
		if err != nil {
			return err
		}
		fmt.Printf("# %s\n", r[nodelens.ColumnAlias])
		if err := nodelens.WritePEM(os.Stdout, der, "PRIVATE KEY"); err != nil {
			return err
		}
	}
	return nil
}

func runAPI(ctx context.Context, f *globalFlags, args []string) error {
	if len(args) != 1 {
		return errors.New("api needs exactly one path")
	}
	n, err := connect(ctx, f)
	if err != nil {
		return err
	}
	defer closeNode(n)

	body, err := n.APIGet(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Println(body)
	return nil
}

type fetchDriverFlags struct {
	flagset *flag.FlagSet
	kind    string
	output  string
	version string
}

func newFetchDriverFlags() *fetchDriverFlags {
	f := &fetchDriverFlags{
		flagset: flag.NewFlagSet("fetch-driver", flag.ExitOnError),
	}
	f.flagset.StringVar(&f.kind, "kind", string(provision.H2), "driver kind: h2 or pg")
	f.flagset.StringVar(&f.output, "o", provision.DefaultJarPath, "output jar path")
	f.flagset.StringVar(&f.version, "version", "", "driver version (default latest)")
	return f
}

func runFetchDriver(ctx context.Context, args []string) error {
	ff := newFetchDriverFlags()
	if err := ff.flagset.Parse(args); err != nil {
		return err
	}
	p, err := provision.New(provision.Kind(ff.kind))
	if err != nil {
		return err
	}
	version, err := p.Download(ctx, ff.output, ff.version)
	if err != nil {
		return err
	}
	slog.Info("driver downloaded", "kind", ff.kind, "version", version, "path", ff.output)
	return nil
}
