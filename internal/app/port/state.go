package port

import "neo_wallet/internal/domain/entity"

// StateStore is the process-wide wallet state shared by services.
type StateStore interface {
	CurrentWallet() entity.Wallet
	CurrentNetwork() entity.NetworkDefinition
	CurrentCurrency() string

	GasClaimFeed

	// PublishGasClaim stores a copy of the claim record and hands it to subscribers.
	PublishGasClaim(claim entity.GasClaim)
	GasClaim() entity.GasClaim

	SetSendInProgress(inProgress bool)
	SendInProgress() bool

	SetHoldings(holdings *entity.Holdings)
	Holdings() *entity.Holdings

	SetRecentTransactions(txs []entity.MovementRecord)
	RecentTransactions() []entity.MovementRecord
}

// GasClaimFeed streams GAS claim snapshots.
type GasClaimFeed interface {
	// SubscribeGasClaim returns a channel of claim snapshots and a cancel func.
	SubscribeGasClaim() (<-chan entity.GasClaim, func())
}
