package nodelens

import (
	"context"
	"fmt"
)

// Lookup fetches the named table and keeps the rows matching every predicate.
func (n *Node) Lookup(ctx context.Context, name string, preds ...Predicate) (*Table, error) {
	t, err := n.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	out, err := t.Filter(preds...)
	if err != nil {
		return nil, fmt.Errorf("nodelens: %s: %w", name, err)
	}
	return out, nil
}

// TransactionsByLinearID returns the linear states whose UUID equals id.
func (n *Node) TransactionsByLinearID(ctx context.Context, id string) (*Table, error) {
	return n.Lookup(ctx, VaultLinearStates, Eq("UUID", id))
}

// VaultStatesByTransactionID returns the vault states created by txID.
func (n *Node) VaultStatesByTransactionID(ctx context.Context, txID string) (*Table, error) {
	return n.Lookup(ctx, VaultStates, Eq("TRANSACTION_ID", txID))
}

// FungibleStatesByTransactionID returns the fungible states created by txID.
func (n *Node) FungibleStatesByTransactionID(ctx context.Context, txID string) (*Table, error) {
	return n.Lookup(ctx, VaultFungibleStates, Eq("TRANSACTION_ID", txID))
}

// FungibleStatesByIssuer returns the fungible states issued by issuer.
func (n *Node) FungibleStatesByIssuer(ctx context.Context, issuer string) (*Table, error) {
	return n.Lookup(ctx, VaultFungibleStates, Eq("ISSUER_NAME", issuer))
}

// UnconsumedStatesByContractClass returns vault states of the given contract state class
// that have not been consumed.
func (n *Node) UnconsumedStatesByContractClass(ctx context.Context, className string) (*Table, error) {
	return n.Lookup(ctx, VaultStates,
		IsNull("CONSUMED_TIMESTAMP"),
		Eq("CONTRACT_STATE_CLASS_NAME", className),
	)
}

// LinearIDForTransaction returns the LINEAR_ID of the first linear state, in result
// order, recorded for txID. When several rows match no tie-break is applied.
func (n *Node) LinearIDForTransaction(ctx context.Context, txID string) (any, error) {
	t, err := n.Lookup(ctx, VaultLinearStates, Eq("TRANSACTION_ID", txID))
	if err != nil {
		return nil, err
	}
	if t.Len() == 0 {
		return nil, &NotFoundError{Table: VaultLinearStates, Column: "TRANSACTION_ID", Value: txID}
	}
	v, ok := t.Value(0, "LINEAR_ID")
	if !ok {
		return nil, fmt.Errorf("nodelens: %s: %w %q", VaultLinearStates, ErrUnknownColumn, "LINEAR_ID")
	}
	return v, nil
}
