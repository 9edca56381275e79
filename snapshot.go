package nodelens

import (
	"context"
	"fmt"
	"io"
	"os"
)

// SnapshotOrder is the reading order of snapshot sections. NODE_MESSAGE_RETRY and
// NODE_TRANSACTION_MAPPINGS are left out on purpose.
var SnapshotOrder = []string{
	StateParty,
	NodeAttachments,
	NodeAttachmentsContracts,
	NodeCheckpoints,
	NodeContractUpgrades,
	NodeIdentities,
	NodeInfos,
	NodeInfoHosts,
	NodeInfoPartyCert,
	NodeLinkNodeInfoParty,
	NodeMessageIDs,
	NodeNamedIdentities,
	NodeOurKeyPairs,
	NodeProperties,
	NodeScheduledStates,
	NodeTransactions,
	VaultFungibleStates,
	VaultFungibleStatesParts,
	VaultLinearStates,
	VaultLinearStatesParts,
	VaultStates,
	VaultTransactionNotes,
}

const snapshotTimeLayout = "20060102-150405"

// SectionHeader returns the line that opens a snapshot section.
func SectionHeader(label string) string {
	return "\r\n\r\n -----------------  " + label + " \r\n"
}

// SnapshotFileName returns the default snapshot file name for the node at the current time.
func (n *Node) SnapshotFileName() string {
	return fmt.Sprintf("%s-pycorda-snapshot-%s.log", n.name, n.now().Format(snapshotTimeLayout))
}

// WriteSnapshot writes every table of SnapshotOrder known to the catalog to w, each under
// its section header. The first failure stops the export.
func (n *Node) WriteSnapshot(ctx context.Context, w io.Writer) error {
	for _, name := range SnapshotOrder {
		entry, err := n.catalog.Entry(name)
		if err != nil {
			continue
		}
		t, err := n.FetchTable(ctx, entry.Table)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, SectionHeader(entry.Label)); err != nil {
			return fmt.Errorf("nodelens: failed to write %s header: %w", entry.Label, err)
		}
		if err := RenderTable(w, t); err != nil {
			return fmt.Errorf("nodelens: failed to write %s: %w", entry.Label, err)
		}
	}
	return nil
}

// GenerateSnapshot writes a snapshot to path, or to SnapshotFileName when path is empty,
// and returns the path written. The file is truncated first and closed on every path out.
// A failed export leaves a partial file behind.
func (n *Node) GenerateSnapshot(ctx context.Context, path string) (_ string, err error) {
	if path == "" {
		path = n.SnapshotFileName()
	}
	f, err := os.Create(path)
	if err != nil {
		return "", &ExportError{Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &ExportError{Path: path, Err: cerr}
		}
	}()

	w := &trackingWriter{w: f}
	if err := n.WriteSnapshot(ctx, w); err != nil {
		if w.err != nil {
			return path, &ExportError{Path: path, Err: err}
		}
		return path, err
	}
	return path, nil
}

// trackingWriter remembers the first write error so it can be told apart from read errors.
type trackingWriter struct {
	w   io.Writer
	err error
}

func (t *trackingWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if err != nil && t.err == nil {
		t.err = err
	}
	return n, err
}
