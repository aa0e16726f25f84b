package port

import (
	"context"

	"neo_wallet/internal/domain/entity"
)

// HoldingsAggregator assembles the valued holdings of an address.
type HoldingsAggregator interface {
	// GetHoldings fails only when the account state cannot be read or a
	// token lookup reports a hard error. symbolFilter may be empty.
	GetHoldings(ctx context.Context, address, symbolFilter string) (*entity.Holdings, error)
}

// TransferOrchestrator sends native assets and NEP-5 tokens.
type TransferOrchestrator interface {
	// Broadcast validates and relays the transfer. It does not wait for confirmation.
	Broadcast(ctx context.Context, intent entity.TransferIntent) (*entity.BroadcastTx, error)
	// Send broadcasts and then waits until the transaction is confirmed.
	Send(ctx context.Context, intent entity.TransferIntent) (*entity.BroadcastTx, error)
}

// GasClaimWorkflow runs the GAS claim state machine.
type GasClaimWorkflow interface {
	// Claim runs the workflow to completion.
	Claim(ctx context.Context) error
	// Start runs the workflow in the background and returns
	// entity.ErrClaimRateLimited when a claim was initiated too recently.
	Start(ctx context.Context) error
	Current() entity.GasClaim
}

// HistoryReconciler reconstructs per-asset movements of an address.
type HistoryReconciler interface {
	GetRecentTransactions(ctx context.Context, q entity.HistoryQuery) ([]entity.MovementRecord, error)
	// Refresh reloads the active wallet's recent transactions into the state store.
	Refresh(ctx context.Context) error
}

// ConfirmationMonitor waits for a broadcast transaction to appear in history.
type ConfirmationMonitor interface {
	AwaitConfirmation(ctx context.Context, hash string) (entity.MovementRecord, error)
}

// NotificationLog exposes the most recent notifications.
type NotificationLog interface {
	Recent() []entity.Notification
}
