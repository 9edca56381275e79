package nodelens

import (
	"fmt"
	"strings"

	"github.com/jinzhu/inflection"
)

// Logical names of the node and vault tables.
const (
	NodeAttachments          = "NODE_ATTACHMENTS"
	NodeAttachmentsContracts = "NODE_ATTACHMENTS_CONTRACTS"
	NodeCheckpoints          = "NODE_CHECKPOINTS"
	NodeContractUpgrades     = "NODE_CONTRACT_UPGRADES"
	NodeIdentities           = "NODE_IDENTITIES"
	NodeInfos                = "NODE_INFOS"
	NodeInfoHosts            = "NODE_INFO_HOSTS"
	NodeInfoPartyCert        = "NODE_INFO_PARTY_CERT"
	NodeLinkNodeInfoParty    = "NODE_LINK_NODEINFO_PARTY"
	NodeMessageIDs           = "NODE_MESSAGE_IDS"
	NodeMessageRetry         = "NODE_MESSAGE_RETRY"
	NodeNamedIdentities      = "NODE_NAMED_IDENTITIES"
	NodeOurKeyPairs          = "NODE_OUR_KEY_PAIRS"
	NodeProperties           = "NODE_PROPERTIES"
	NodeScheduledStates      = "NODE_SCHEDULED_STATES"
	NodeTransactions         = "NODE_TRANSACTIONS"
	NodeTransactionMappings  = "NODE_TRANSACTION_MAPPINGS"
	VaultFungibleStates      = "VAULT_FUNGIBLE_STATES"
	VaultFungibleStatesParts = "VAULT_FUNGIBLE_STATES_PARTS"
	VaultLinearStates        = "VAULT_LINEAR_STATES"
	VaultLinearStatesParts   = "VAULT_LINEAR_STATES_PARTS"
	VaultStates              = "VAULT_STATES"
	VaultTransactionNotes    = "VAULT_TRANSACTION_NOTES"
	StateParty               = "STATE_PARTY"
)

// CatalogEntry binds a logical table name to its physical table and its snapshot label.
type CatalogEntry struct {
	Name  string
	Table string
	Label string // defaults to Name
}

var defaultEntries = []CatalogEntry{
	{Name: NodeAttachments, Table: "NODE_ATTACHMENTS", Label: "NODE_ATTACHMENT"},
	{Name: NodeAttachmentsContracts, Table: "NODE_ATTACHMENTS_CONTRACTS", Label: "NODE_ATTACHMENT_CONTRACTS"},
	{Name: NodeCheckpoints, Table: "NODE_CHECKPOINTS"},
	{Name: NodeContractUpgrades, Table: "NODE_CONTRACT_UPGRADES"},
	{Name: NodeIdentities, Table: "NODE_IDENTITIES"},
	{Name: NodeInfos, Table: "NODE_INFOS"},
	{Name: NodeInfoHosts, Table: "NODE_INFO_HOSTS"},
	{Name: NodeInfoPartyCert, Table: "NODE_INFO_PARTY_CERT"},
	{Name: NodeLinkNodeInfoParty, Table: "NODE_LINK_NODEINFO_PARTY"},
	{Name: NodeMessageIDs, Table: "NODE_MESSAGE_IDS"},
	{Name: NodeMessageRetry, Table: "NODE_MESSAGE_RETRY"},
	{Name: NodeNamedIdentities, Table: "NODE_NAMED_IDENTITIES"},
	{Name: NodeOurKeyPairs, Table: "NODE_OUR_KEY_PAIRS"},
	{Name: NodeProperties, Table: "NODE_PROPERTIES"},
	{Name: NodeScheduledStates, Table: "NODE_SCHEDULED_STATES"},
	{Name: NodeTransactions, Table: "NODE_TRANSACTIONS"},
	{Name: NodeTransactionMappings, Table: "NODE_TRANSACTION_MAPPINGS"},
	{Name: VaultFungibleStates, Table: "VAULT_FUNGIBLE_STATES"},
	{Name: VaultFungibleStatesParts, Table: "VAULT_FUNGIBLE_STATES_PARTS"},
	{Name: VaultLinearStates, Table: "VAULT_LINEAR_STATES"},
	{Name: VaultLinearStatesParts, Table: "VAULT_LINEAR_STATES_PARTS"},
	{Name: VaultStates, Table: "VAULT_STATES"},
	{Name: VaultTransactionNotes, Table: "VAULT_TRANSACTION_NOTES"},
	{Name: StateParty, Table: "STATE_PARTY"},
}

// Catalog is an immutable registry of known tables.
type Catalog struct {
	entries []CatalogEntry
	byName  map[string]int
}

// DefaultCatalog returns the registry of node and vault tables.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultEntries...)
	if err != nil {
		panic(err)
	}
	return c
}

// NewCatalog builds a catalog. Names are matched case-insensitively and must be unique.
func NewCatalog(entries ...CatalogEntry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]CatalogEntry, 0, len(entries)),
		byName:  make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		e.Name = strings.TrimSpace(e.Name)
		e.Table = strings.TrimSpace(e.Table)
		if e.Name == "" || e.Table == "" {
			return nil, fmt.Errorf("nodelens: catalog entry %+v needs a name and a table", e)
		}
		key := strings.ToUpper(e.Name)
		if _, dup := c.byName[key]; dup {
			return nil, fmt.Errorf("nodelens: duplicate catalog entry %q", e.Name)
		}
		if e.Label == "" {
			e.Label = e.Name
		}
		c.byName[key] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c, nil
}

// Entry returns the entry for a logical name, matched case-insensitively.
func (c *Catalog) Entry(name string) (CatalogEntry, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if i, ok := c.byName[key]; ok {
		return c.entries[i], nil
	}
	return CatalogEntry{}, &UnknownTableError{Name: name}
}

// Suggest proposes a registered name for an unknown one, e.g. "VAULT_STATES" for
// "vault_state". It never resolves anything on its own.
func (c *Catalog) Suggest(name string) (string, bool) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if key == "" {
		return "", false
	}
	if _, ok := c.byName[key]; ok {
		return "", false
	}
	plural := strings.ToUpper(inflection.Plural(strings.ToLower(key)))
	if i, ok := c.byName[plural]; ok {
		return c.entries[i].Name, true
	}
	return "", false
}

// Resolve returns the physical table of a logical name.
func (c *Catalog) Resolve(name string) (string, error) {
	e, err := c.Entry(name)
	if err != nil {
		return "", err
	}
	return e.Table, nil
}

// Has reports whether name resolves.
func (c *Catalog) Has(name string) bool {
	_, err := c.Entry(name)
	return err == nil
}

// Entries returns a copy of the entries in declaration order.
func (c *Catalog) Entries() []CatalogEntry {
	out := make([]CatalogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Names returns the logical names in declaration order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Name
	}
	return out
}
