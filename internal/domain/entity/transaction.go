package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Ledger transaction types relevant to history reconstruction.
const (
	ContractTransaction   = "ContractTransaction"
	InvocationTransaction = "InvocationTransaction"
	ClaimTransaction      = "ClaimTransaction"
	MinerTransaction      = "MinerTransaction"
)

// TransactionInput spends a prior output. Address, AssetID, Symbol and Value
// are filled in by resolving the referenced output.
type TransactionInput struct {
	TxID    string          `json:"txid"`
	Vout    int             `json:"vout"`
	Address string          `json:"address"`
	AssetID string          `json:"asset,omitempty"`
	Symbol  string          `json:"symbol"`
	Value   decimal.Decimal `json:"value"`
}

// TransactionOutput is a single output of a ledger transaction.
type TransactionOutput struct {
	N       int             `json:"n"`
	Address string          `json:"address"`
	AssetID string          `json:"asset,omitempty"`
	Symbol  string          `json:"symbol"`
	Value   decimal.Decimal `json:"value"`
}

// LedgerTransactionDetail is a raw transaction read from the node.
type LedgerTransactionDetail struct {
	Hash               string              `json:"txid"`
	Type               string              `json:"type"`
	Inputs             []TransactionInput  `json:"vin"`
	Outputs            []TransactionOutput `json:"vout"`
	Confirmations      int64               `json:"confirmations"`
	CurrentBlockHeight int64               `json:"currentBlockHeight"`
	BlockHeight        int64               `json:"block"`
	BlockTime          int64               `json:"blocktime"`
	Confirmed          bool                `json:"confirmed"`
}

// ApplyBlockCount derives the confirmation flag and block height from the chain height.
func (d *LedgerTransactionDetail) ApplyBlockCount(blockCount int64) {
	d.CurrentBlockHeight = blockCount
	d.Confirmed = d.Confirmations > 0
	if d.Confirmed {
		d.BlockHeight = blockCount - d.Confirmations
	}
}

// MovementRecord is a single-asset, directional summary of a transaction
// from the wallet's point of view. Value is signed: positive means received.
type MovementRecord struct {
	Hash        string                   `json:"hash"`
	BlockHeight int64                    `json:"block_index"`
	BlockTime   int64                    `json:"block_time"`
	From        string                   `json:"from"`
	To          string                   `json:"to"`
	Symbol      string                   `json:"symbol"`
	Value       decimal.Decimal          `json:"value"`
	IsToken     bool                     `json:"isNep5"`
	Details     *LedgerTransactionDetail `json:"details,omitempty"`
}

// SystemTransaction is an entry of an address's native-asset history.
type SystemTransaction struct {
	TxID        string `json:"txid"`
	BlockHeight int64  `json:"block_height"`
}

// TokenTransferRecord is a NEP-5 transfer as reported by the indexing service.
type TokenTransferRecord struct {
	TransactionHash string          `json:"transactionHash"`
	BlockIndex      int64           `json:"blockIndex"`
	BlockTime       int64           `json:"blockTime"`
	FromAddress     string          `json:"fromAddress"`
	ToAddress       string          `json:"toAddress"`
	Symbol          string          `json:"symbol"`
	Received        decimal.Decimal `json:"received"`
	Sent            decimal.Decimal `json:"sent"`
}

// NetValue is received minus sent.
func (t TokenTransferRecord) NetValue() decimal.Decimal {
	return t.Received.Sub(t.Sent)
}

// HistoryQuery bounds a history request. Zero values mean unbounded.
type HistoryQuery struct {
	Address   string
	FromDate  time.Time
	ToDate    time.Time
	FromBlock int64
	ToBlock   int64
}

// TransferQuery is the range passed to the indexing service.
type TransferQuery struct {
	FromTimestamp int64
	ToTimestamp   int64
	FromBlock     int64
	ToBlock       int64
}

// TransferQuery returns the indexer range for the history query.
func (q HistoryQuery) TransferQuery() TransferQuery {
	tq := TransferQuery{FromBlock: q.FromBlock, ToBlock: q.ToBlock}
	if !q.FromDate.IsZero() {
		tq.FromTimestamp = q.FromDate.Unix()
	}
	if !q.ToDate.IsZero() {
		tq.ToTimestamp = q.ToDate.Unix()
	}
	return tq
}

// NormalizeHash lower-cases a transaction hash and strips the "0x" prefix.
func NormalizeHash(h string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(h)), "0x")
}

// SameHash compares two transaction hashes ignoring case and prefix.
func SameHash(a, b string) bool {
	return NormalizeHash(a) == NormalizeHash(b)
}
