package nodelens

import (
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pavlo-v-chernykh/keystore-go/v4"
)

// DefaultKeyStorePassword is the development password of a node key-store.
const DefaultKeyStorePassword = "cordacadevpass"

// Key-store table columns.
const (
	ColumnAlias      = "ALIAS"
	ColumnPrivateKey = "PRIVATE_KEY"
)

// ListPrivateKeys reads a JKS key-store and returns one row per private key entry, the
// PKCS#8 key bytes encoded as base64. The same password unlocks the store and its keys.
func ListPrivateKeys(path, password string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &KeyStoreError{Path: path, Err: err}
	}
	defer func() {
		_ = f.Close()
	}()

	ks := keystore.New(keystore.WithOrderedAliases())
	// keystore-go may zero the password slice it is given; each call gets its own copy
	if err := ks.Load(f, []byte(password)); err != nil {
		return nil, &KeyStoreError{Path: path, Err: err}
	}

	t := &Table{Columns: []string{ColumnAlias, ColumnPrivateKey}, Rows: []Row{}}
	for _, alias := range ks.Aliases() {
		if !ks.IsPrivateKeyEntry(alias) {
			continue
		}
		entry, err := ks.GetPrivateKeyEntry(alias, []byte(password))
		if err != nil {
			return nil, &KeyStoreError{Path: path, Err: fmt.Errorf("entry %q: %w", alias, err)}
		}
		t.Rows = append(t.Rows, Row{
			ColumnAlias:      alias,
			ColumnPrivateKey: base64.StdEncoding.EncodeToString(entry.PrivateKey),
		})
	}
	return t, nil
}

// KeyStorePath returns the node key-store location under a node base directory.
func KeyStorePath(nodeRoot string) string {
	return filepath.Join(nodeRoot, "certificates", "nodekeystore.jks")
}

// NodePrivateKeys lists the private keys of the node key-store. An empty password means
// DefaultKeyStorePassword.
func (n *Node) NodePrivateKeys(password string) (*Table, error) {
	if n.nodeRoot == "" {
		return nil, &KeyStoreError{Path: "", Err: fmt.Errorf("node root not set")}
	}
	if password == "" {
		password = DefaultKeyStorePassword
	}
	return ListPrivateKeys(KeyStorePath(n.nodeRoot), password)
}

// WritePEM writes der as a PEM block of the given type, e.g. "PRIVATE KEY".
func WritePEM(w io.Writer, der []byte, blockType string) error {
	return pem.Encode(w, &pem.Block{Type: blockType, Bytes: der})
}
