package port

import (
	"context"

	"neo_wallet/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// ExplorerClient covers the indexing services and token lookups.
type ExplorerClient interface {
	TokenBalanceReader

	// GetTokenTransfers returns NEP-5 transfers involving address within q.
	GetTokenTransfers(ctx context.Context, address string, q entity.TransferQuery) ([]entity.TokenTransferRecord, error)

	// GetKnownTokenList returns the tokens the indexer knows on network.
	GetKnownTokenList(ctx context.Context, network string) ([]entity.TokenInfo, error)

	// GetClaimableAmount returns the unclaimed GAS of address.
	GetClaimableAmount(ctx context.Context, address string) (decimal.Decimal, error)

	// GetTransactionHistory returns native-asset transactions of address.
	// It returns entity.ErrEmptyHistory when the address has none.
	GetTransactionHistory(ctx context.Context, address string) ([]entity.SystemTransaction, error)
}
