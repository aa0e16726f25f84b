package entity

import "github.com/shopspring/decimal"

// TokenInfo is a NEP-5 token registered in the catalog for one network.
type TokenInfo struct {
	AssetID  string `json:"assetId" yaml:"assetId"`
	Symbol   string `json:"symbol" yaml:"symbol"`
	Network  string `json:"network" yaml:"network"`
	IsCustom bool   `json:"isCustom" yaml:"isCustom"` // always displayed, even at zero balance
}

// TokenBalance is the on-chain state of a token for one address.
type TokenBalance struct {
	Balance     decimal.Decimal `json:"balance"`
	Decimals    int32           `json:"decimals"`
	Name        string          `json:"name"`
	Symbol      string          `json:"symbol"`
	TotalSupply decimal.Decimal `json:"totalSupply"`
}

// TokenBalanceStatus classifies the outcome of a token balance lookup.
type TokenBalanceStatus int

const (
	// TokenBalanceOK means Balance holds the resolved token state.
	TokenBalanceOK TokenBalanceStatus = iota
	// TokenBalanceNotFound means the contract no longer resolves on the network.
	TokenBalanceNotFound
	// TokenBalanceTransient means the lookup failed and may succeed later.
	TokenBalanceTransient
)

func (s TokenBalanceStatus) String() string {
	switch s {
	case TokenBalanceOK:
		return "ok"
	case TokenBalanceNotFound:
		return "not_found"
	case TokenBalanceTransient:
		return "transient_failure"
	default:
		return "unknown"
	}
}

// TokenBalanceResult is returned by explorers for a single token lookup.
// Err is set for TokenBalanceTransient and may be set for TokenBalanceNotFound.
type TokenBalanceResult struct {
	Status  TokenBalanceStatus
	Balance TokenBalance
	Err     error
}

// TokenBalanceFound wraps a resolved balance.
func TokenBalanceFound(b TokenBalance) TokenBalanceResult {
	return TokenBalanceResult{Status: TokenBalanceOK, Balance: b}
}

// TokenBalanceMissing reports a token that no longer exists.
func TokenBalanceMissing(err error) TokenBalanceResult {
	return TokenBalanceResult{Status: TokenBalanceNotFound, Err: err}
}

// TokenBalanceFailed reports a lookup failure that is not a missing token.
func TokenBalanceFailed(err error) TokenBalanceResult {
	return TokenBalanceResult{Status: TokenBalanceTransient, Err: err}
}
