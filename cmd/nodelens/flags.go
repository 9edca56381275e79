package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/mickamy/nodelens"
)

type globalFlags struct {
	flagset      *flag.FlagSet
	configPath   string
	driver       string
	url          string
	host         string
	port         string
	user         string
	password     string
	askPassword  bool
	dbName       string
	name         string
	nodeRoot     string
	webServerURL string
	debug        bool
}

func newGlobalFlags() *globalFlags {
	f := &globalFlags{
		flagset: flag.NewFlagSet(os.Args[0], flag.ExitOnError),
	}
	f.flagset.StringVar(&f.configPath, "config", "", "YAML file with connection settings")
	f.flagset.StringVar(
		&f.driver,
		"driver",
		"",
		"database client: postgres (native pgx), pgx (database/sql) or mysql",
	)
	f.flagset.StringVar(
		&f.url,
		"url",
		"",
		"DSN or JDBC URL, e.g. jdbc:postgresql://localhost:5432/partya. overrides host/port/dbname",
	)
	f.flagset.StringVar(&f.host, "host", "", "database host")
	f.flagset.StringVar(&f.port, "port", "", "database port")
	f.flagset.StringVar(&f.user, "user", "", "database user")
	f.flagset.StringVar(&f.password, "password", "", "database password")
	f.flagset.BoolVar(&f.askPassword, "ask-password", false, "prompt for the database password")
	f.flagset.StringVar(&f.dbName, "dbname", "", "database name")
	f.flagset.StringVar(&f.name, "name", "", "node name, used to prefix snapshot files")
	f.flagset.StringVar(&f.nodeRoot, "node-root", "", "node base directory holding certificates/")
	f.flagset.StringVar(
		&f.webServerURL,
		"web-server",
		"",
		"node web server base URL, e.g. http://localhost:10007",
	)
	f.flagset.BoolVar(&f.debug, "debug", false, "enable debug logging")
	return f
}

// config merges the config file, if any, with the flags. Flags win.
func (f *globalFlags) config() (nodelens.Config, error) {
	var cfg nodelens.Config
	if f.configPath != "" {
		c, err := nodelens.LoadConfig(f.configPath)
		if err != nil {
			return nodelens.Config{}, err
		}
		cfg = c
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	if f.driver != "" {
		cfg.Driver = nodelens.Driver(f.driver)
	}
	set(&cfg.URL, f.url)
	set(&cfg.Host, f.host)
	set(&cfg.Port, f.port)
	set(&cfg.User, f.user)
	set(&cfg.Password, f.password)
	set(&cfg.DBName, f.dbName)
	set(&cfg.Name, f.name)
	set(&cfg.NodeRoot, f.nodeRoot)
	set(&cfg.WebServerURL, f.webServerURL)

	if f.askPassword {
		pw, err := promptPassword("database password: ")
		if err != nil {
			return nodelens.Config{}, err
		}
		cfg.Password = pw
	}
	return cfg, nil
}

func promptPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("cannot prompt for a password: stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}
