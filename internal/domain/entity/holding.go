package entity

import "github.com/shopspring/decimal"

// Holding is one asset position of the active wallet.
// Valuation fields are unset (Valid == false) when no price is available.
type Holding struct {
	AssetID       string          `json:"assetId"`
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Balance       decimal.Decimal `json:"balance"`
	IsToken       bool            `json:"isNep5"`
	IsCustomToken bool            `json:"isCustom"`

	UnitValue        decimal.NullDecimal `json:"unitValue"`
	UnitValue24hAgo  decimal.NullDecimal `json:"unitValue24hrAgo"`
	Change24hPercent decimal.NullDecimal `json:"change24hrPercent"`
	Change24hValue   decimal.NullDecimal `json:"change24hrValue"`
	TotalValue       decimal.NullDecimal `json:"totalValue"`
	MarketCap        decimal.NullDecimal `json:"marketCap"`
	TotalSupply      decimal.NullDecimal `json:"totalSupply"`

	// AvailableToClaim is only set on the NEO holding.
	AvailableToClaim decimal.NullDecimal `json:"availableToClaim"`
}

// Holdings is the aggregated view returned by a holdings request.
type Holdings struct {
	Holdings         []Holding       `json:"holdings"`
	TotalBalance     decimal.Decimal `json:"totalBalance"`
	Change24hValue   decimal.Decimal `json:"change24hrValue"`
	Change24hPercent decimal.Decimal `json:"change24hrPercent"`
}

// Find returns the holding for the given symbol.
func (h *Holdings) Find(symbol string) (Holding, bool) {
	if h == nil {
		return Holding{}, false
	}
	for _, holding := range h.Holdings {
		if holding.Symbol == symbol {
			return holding, true
		}
	}
	return Holding{}, false
}

// Valuation is the market data for one symbol in the display currency.
type Valuation struct {
	Symbol           string              `json:"symbol"`
	Currency         string              `json:"currency"`
	Price            decimal.NullDecimal `json:"price"`
	MarketCap        decimal.NullDecimal `json:"marketCap"`
	PercentChange24h decimal.NullDecimal `json:"percentChange24h"`
	TotalSupply      decimal.NullDecimal `json:"totalSupply"`
}

// AccountState lists the native asset balances of an address as reported by the node.
type AccountState struct {
	Address  string         `json:"address"`
	Balances []AssetBalance `json:"balances"`
}

// AssetBalance is a single native asset balance.
type AssetBalance struct {
	AssetID string          `json:"asset"`
	Value   decimal.Decimal `json:"value"`
}
