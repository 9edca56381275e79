package nodelens

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mickamy/nodelens/internal/query"
)

// Node is a read-only session over one node database. It owns its Conn exclusively and
// must not be used from more than one goroutine at a time.
type Node struct {
	conn    Conn
	catalog *Catalog
	closed  bool

	name         string
	nodeRoot     string
	webServerURL string
	httpClient   *http.Client
	now          func() time.Time
}

// Option configures a Node.
type Option func(*Node)

// WithName sets the node name used to prefix default snapshot file names.
func WithName(name string) Option {
	return func(n *Node) { n.name = name }
}

// WithNodeRoot sets the node's base directory, used to locate its key-store.
func WithNodeRoot(dir string) Option {
	return func(n *Node) { n.nodeRoot = dir }
}

// WithWebServerURL sets the node web server base URL, e.g. http://localhost:10007.
func WithWebServerURL(u string) Option {
	return func(n *Node) { n.webServerURL = u }
}

// WithCatalog replaces the default table catalog.
func WithCatalog(c *Catalog) Option {
	return func(n *Node) { n.catalog = c }
}

// WithClock overrides the time source used for snapshot file names.
func WithClock(now func() time.Time) Option {
	return func(n *Node) { n.now = now }
}

// WithHTTPClient overrides the client used for web server calls.
func WithHTTPClient(c *http.Client) Option {
	return func(n *Node) { n.httpClient = c }
}

// NewNode builds a session on an already established connection.
func NewNode(conn Conn, opts ...Option) *Node {
	n := &Node{
		conn:       conn,
		catalog:    DefaultCatalog(),
		httpClient: http.DefaultClient,
		now:        time.Now,
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Open connects to the database described by cfg. Config fields for the node name, root
// and web server are applied before opts.
func Open(ctx context.Context, cfg Config, opts ...Option) (*Node, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}

	var conn Conn
	switch d := cfg.ResolvedDriver(); d {
	case DriverPostgres:
		conn, err = ConnectPgx(ctx, dsn)
	case DriverPgx, DriverMySQL:
		conn, err = openSQL(ctx, string(d), dsn)
	default:
		err = fmt.Errorf("%w %q", ErrUnsupportedDriver, d)
	}
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}

	base := []Option{WithName(cfg.Name), WithNodeRoot(cfg.NodeRoot), WithWebServerURL(cfg.WebServerURL)}
	return NewNode(conn, append(base, opts...)...), nil
}

func openSQL(ctx context.Context, driverName, dsn string) (Conn, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	// one connection: statements run in order on the same session
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return WrapDB(db), nil
}

// Name returns the node name.
func (n *Node) Name() string { return n.name }

// Catalog returns the table catalog in use.
func (n *Node) Catalog() *Catalog { return n.catalog }

// Close closes the connection. Only the first call reaches the driver.
func (n *Node) Close() error {
	if n.closed {
		return nil
	}
	n.closed = true
	if err := n.conn.Close(); err != nil {
		return &ConnectionError{Err: err}
	}
	return nil
}

// FetchTable reads a physical table in full with a single SELECT *.
func (n *Node) FetchTable(ctx context.Context, table string) (*Table, error) {
	if n.closed {
		return nil, &ConnectionError{Err: ErrSessionClosed}
	}
	q, err := query.SelectAll(table)
	if err != nil {
		return nil, &TableAccessError{Table: table, Err: err}
	}
	cols, rows, err := n.conn.Execute(ctx, q)
	if err != nil {
		return nil, &TableAccessError{Table: table, Err: err}
	}
	return newTable(cols, rows), nil
}

// Fetch reads the table registered under a logical name.
func (n *Node) Fetch(ctx context.Context, name string) (*Table, error) {
	table, err := n.catalog.Resolve(name)
	if err != nil {
		return nil, err
	}
	return n.FetchTable(ctx, table)
}

// Query runs an ad-hoc read-only statement.
func (n *Node) Query(ctx context.Context, q string) (*Table, error) {
	if n.closed {
		return nil, &ConnectionError{Err: ErrSessionClosed}
	}
	if err := query.CheckReadOnly(q); err != nil {
		return nil, err
	}
	cols, rows, err := n.conn.Execute(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("nodelens: query failed: %w", err)
	}
	return newTable(cols, rows), nil
}

// APIGet issues a GET against the node web server and returns the response body.
func (n *Node) APIGet(ctx context.Context, path string) (string, error) {
	if n.webServerURL == "" {
		return "", ErrNoWebServer
	}
	u := strings.TrimRight(n.webServerURL, "/") + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("nodelens: invalid request %s: %w", u, err)
	}
	resp, err := n.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("nodelens: GET %s: %w", u, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("nodelens: GET %s: failed to read body: %w", u, err)
	}
	return string(body), nil
}
