package nodelens

import (
	"errors"
	"fmt"

	"github.com/mickamy/nodelens/internal/query"
)

var (
	// ErrSessionClosed is wrapped by ConnectionError once Close has been called.
	ErrSessionClosed = errors.New("nodelens: session closed")

	// ErrNoWebServer is returned by APIGet when no web server URL is configured.
	ErrNoWebServer = errors.New("nodelens: no web server set, e.g. http://localhost:10007")

	// ErrUnsupportedDriver is returned for drivers or JDBC sub-protocols with no Go client.
	ErrUnsupportedDriver = errors.New("nodelens: unsupported driver")

	// ErrNotReadOnly is returned for statements that could modify the database.
	ErrNotReadOnly = query.ErrNotReadOnly
)

// ConnectionError reports that the database link could not be established or is gone.
// It is fatal to the session.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("nodelens: connection: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// TableAccessError reports a failed read of a single table. The session stays usable.
type TableAccessError struct {
	Table string
	Err   error
}

func (e *TableAccessError) Error() string {
	return fmt.Sprintf("nodelens: failed to read table %s: %v", e.Table, e.Err)
}

func (e *TableAccessError) Unwrap() error { return e.Err }

// UnknownTableError reports a logical table name missing from the catalog.
type UnknownTableError struct {
	Name string
}

func (e *UnknownTableError) Error() string {
	return fmt.Sprintf("nodelens: unknown table %q", e.Name)
}

// NotFoundError reports a lookup whose filter matched no rows.
type NotFoundError struct {
	Table  string
	Column string
	Value  any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("nodelens: no row in %s with %s = %v", e.Table, e.Column, e.Value)
}

// KeyStoreError reports a key-store that could not be read or decrypted.
type KeyStoreError struct {
	Path string
	Err  error
}

func (e *KeyStoreError) Error() string {
	return fmt.Sprintf("nodelens: key-store %s: %v", e.Path, e.Err)
}

func (e *KeyStoreError) Unwrap() error { return e.Err }

// ExportError reports a snapshot file that could not be created, written or closed.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("nodelens: snapshot %s: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// ErrUnknownColumn is returned when a predicate names a column the result does not have.
var ErrUnknownColumn = errors.New("nodelens: unknown column")
