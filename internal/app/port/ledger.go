package port

import (
	"context"

	"neo_wallet/internal/domain/entity"
)

// LedgerClient reads chain state from a NEO node.
type LedgerClient interface {
	// GetAccountState returns the native asset balances of an address.
	GetAccountState(ctx context.Context, address string) (entity.AccountState, error)

	// GetBlockCount returns the current chain height.
	GetBlockCount(ctx context.Context) (int64, error)

	// GetRawTransaction returns a verbose transaction. Inputs are not resolved.
	GetRawTransaction(ctx context.Context, hash string) (entity.LedgerTransactionDetail, error)

	// ResolveInputs fills address, asset and value of every input of detail
	// from the outputs it spends.
	ResolveInputs(ctx context.Context, detail *entity.LedgerTransactionDetail) error
}

// TokenBalanceReader reads NEP-5 token state of an address.
type TokenBalanceReader interface {
	// GetTokenBalance classifies the lookup in the returned result. A non-nil
	// error is reserved for failures that must abort the caller.
	GetTokenBalance(ctx context.Context, network, assetID, address string) (entity.TokenBalanceResult, error)
}

// NetworkDefinitionProvider provides the known NEO networks.
type NetworkDefinitionProvider interface {
	GetAllNetworkDefinitions() []entity.NetworkDefinition
	// GetNetworkDefinitionByName returns the definition and true if it exists.
	GetNetworkDefinitionByName(name string) (entity.NetworkDefinition, bool)
}

// LedgerClientProvider returns a ledger client per network.
type LedgerClientProvider interface {
	GetClient(def entity.NetworkDefinition) (LedgerClient, error)
}
