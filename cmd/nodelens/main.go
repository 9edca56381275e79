// Command nodelens inspects the database and key-store of a ledger node.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
)

const usage = `usage: nodelens [flags] <command> [args]

commands:
  tables                        list the known tables
  check                         report known tables missing from the database
  dump <table>                  print a table
  find <lookup> <value>         run a lookup: linear-id, tx, tx-fungible, issuer, unconsumed, linear-of
  query <sql>                   run a read-only statement
  snapshot [-o path]            write every table to one file
  keys [-keystore path]         list private keys of the node key-store
  api <path>                    GET a path on the node web server
  fetch-driver [-kind h2|pg]    download a JDBC driver jar

flags:
`

func main() {
	f := newGlobalFlags()
	f.flagset.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		f.flagset.PrintDefaults()
	}
	if err := f.flagset.Parse(os.Args[1:]); err != nil {
		fmt.Printf("failed to parse command args: %s\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if f.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if len(f.flagset.Args()) == 0 {
		f.flagset.Usage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	args := f.flagset.Args()[1:]
	var err error
	switch f.flagset.Arg(0) {
	case "tables":
		err = runTables(os.Stdout)
	case "check":
		err = runCheck(ctx, f)
	case "dump":
		err = runDump(ctx, f, args)
	case "find":
		err = runFind(ctx, f, args)
	case "query":
		err = runQuery(ctx, f, args)
	case "snapshot":
		err = runSnapshot(ctx, f, args)
	case "keys":
		err = runKeys(f, args)
	case "api":
		err = runAPI(ctx, f, args)
	case "fetch-driver":
		err = runFetchDriver(ctx, args)
	default:
		err = fmt.Errorf("unknown subcommand: %s", f.flagset.Arg(0))
	}
	if err != nil {
		logger.Error(err.Error(), "command", f.flagset.Arg(0))
		stop()
		os.Exit(1)
	}
}
