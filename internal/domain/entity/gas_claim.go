package entity

import "github.com/shopspring/decimal"

// GasClaimStep is the progress marker of a GAS claim workflow.
type GasClaimStep int

const (
	GasClaimInitialized GasClaimStep = iota
	GasClaimHoldingsRead
	GasClaimSelfTransferSent
	GasClaimAmountComputed
	GasClaimBroadcast
	GasClaimConfirmed
)

// GasClaim is the observable record of the current claim attempt.
type GasClaim struct {
	Step              GasClaimStep    `json:"step"`
	NEOTransferAmount decimal.Decimal `json:"neoTransferAmount"`
	GASClaimAmount    decimal.Decimal `json:"gasClaimAmount"`
	Err               error           `json:"-"`
}

// Done reports whether the workflow reached a terminal state.
func (c GasClaim) Done() bool {
	return c.Step == GasClaimConfirmed || c.Err != nil
}

// ErrorMessage returns the failure text or "".
func (c GasClaim) ErrorMessage() string {
	if c.Err == nil {
		return ""
	}
	return c.Err.Error()
}
