package entity

import (
	"context"

	"github.com/shopspring/decimal"
)

// MinimumInvocationGAS is attached to token transfers so the invocation
// carries a GAS input.
var MinimumInvocationGAS = decimal.New(1, -8)

// TransferIntent is the input of a send operation.
type TransferIntent struct {
	ToAddress string
	Asset     AssetKind
	Amount    decimal.Decimal
	// Callback, if set, runs once after the broadcast has propagated.
	Callback func()
}

// IntentKind selects how the signing backend builds the transaction.
type IntentKind string

const (
	IntentContract   IntentKind = "contract"
	IntentInvocation IntentKind = "invocation"
	IntentClaim      IntentKind = "claim"
)

// InvocationScript is a contract call carried by an invocation transaction.
type InvocationScript struct {
	ScriptHash string   `json:"scriptHash"`
	Operation  string   `json:"operation"`
	Args       []string `json:"args"`
}

// BroadcastIntent describes the transaction the signing backend must build.
type BroadcastIntent struct {
	Kind IntentKind `json:"kind"`
	// From is the address whose key signs the transaction.
	From string `json:"from"`
	// To receives Amounts for contract transactions and AttachedGAS for invocations.
	To          string                     `json:"to,omitempty"`
	Amounts     map[string]decimal.Decimal `json:"amounts,omitempty"`
	Script      *InvocationScript          `json:"script,omitempty"`
	AttachedGAS decimal.Decimal            `json:"attachedGas"`
	Network     string                     `json:"network"`
}

// KeySourceKind tells the backend where the signature comes from.
type KeySourceKind string

const (
	KeyLocal    KeySourceKind = "local"
	KeyHardware KeySourceKind = "hardware"
)

// SigningFunc signs a serialized unsigned transaction with a hardware key.
type SigningFunc func(ctx context.Context, unsignedTx []byte, publicKey string) ([]byte, error)

// KeySource is the key material handed to the signing backend.
type KeySource struct {
	Kind       KeySourceKind
	Address    string
	PrivateKey string
	PublicKey  string
	Sign       SigningFunc
}

// BroadcastTx is the transaction accepted by the network.
type BroadcastTx struct {
	Hash string `json:"hash"`
}

// BroadcastResult is the signing backend response. Tx is nil when nothing was relayed.
type BroadcastResult struct {
	Tx *BroadcastTx `json:"tx"`
}
