package client

import (
	"neo_wallet/internal/domain/entity"

	"github.com/shopspring/decimal"
)

type rawInput struct {
	TxID string `json:"txid"`
	Vout int    `json:"vout"`
}

type rawOutput struct {
	N       int             `json:"n"`
	Asset   string          `json:"asset"`
	Value   decimal.Decimal `json:"value"`
	Address string          `json:"address"`
}

// rawTransaction is the verbose getrawtransaction answer.
type rawTransaction struct {
	TxID          string      `json:"txid"`
	Type          string      `json:"type"`
	Vin           []rawInput  `json:"vin"`
	Vout          []rawOutput `json:"vout"`
	BlockHash     string      `json:"blockhash"`
	Confirmations int64       `json:"confirmations"`
	BlockTime     int64       `json:"blocktime"`
}

func (t *rawTransaction) toDetail() entity.LedgerTransactionDetail {
	d := entity.LedgerTransactionDetail{
		Hash:          entity.NormalizeHash(t.TxID),
		Type:          t.Type,
		Confirmations: t.Confirmations,
		BlockTime:     t.BlockTime,
		Confirmed:     t.Confirmations > 0,
		Inputs:        make([]entity.TransactionInput, 0, len(t.Vin)),
		Outputs:       make([]entity.TransactionOutput, 0, len(t.Vout)),
	}
	for _, in := range t.Vin {
		d.Inputs = append(d.Inputs, entity.TransactionInput{TxID: entity.NormalizeHash(in.TxID), Vout: in.Vout})
	}
	for _, out := range t.Vout {
		d.Outputs = append(d.Outputs, out.toOutput())
	}
	return d
}

func (o rawOutput) toOutput() entity.TransactionOutput {
	return entity.TransactionOutput{
		N:       o.N,
		Address: o.Address,
		AssetID: o.Asset,
		Symbol:  entity.NativeSymbolForAsset(o.Asset),
		Value:   o.Value,
	}
}

// output returns the output with index n.
func (t *rawTransaction) output(n int) (entity.TransactionOutput, bool) {
	if t == nil {
		return entity.TransactionOutput{}, false
	}
	for _, out := range t.Vout {
		if out.N == n {
			return out.toOutput(), true
		}
	}
	return entity.TransactionOutput{}, false
}
