package entity

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/encoding/base58"
)

var (
	ErrInvalidAddress     = errors.New("invalid address")
	ErrInvalidSystemAsset = errors.New("invalid system asset id")
	ErrInsufficientGAS    = errors.New("insufficient GAS")

	// ErrTokenNotFound reports a token contract that no longer resolves on the network.
	ErrTokenNotFound = errors.New("token not found")
	// ErrClaimRateLimited is returned when a claim is attempted before the interval elapsed.
	ErrClaimRateLimited = errors.New("May only claim GAS once every 5 minutes.")
	// ErrBroadcastFailed is returned when the signing backend relayed nothing.
	ErrBroadcastFailed = errors.New("Failed to create transaction.")
	// ErrEmptyHistory is the "no transactions" answer of the history service.
	ErrEmptyHistory = errors.New("no transaction history")
)

// ValidationError is a rejected input. It unwraps to one of the Err* sentinels.
type ValidationError struct {
	Kind    error
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Kind }

// NewValidationError builds a ValidationError for the given sentinel.
func NewValidationError(kind error, message string) *ValidationError {
	return &ValidationError{Kind: kind, Message: message}
}

// NetworkError wraps a failed call to a remote collaborator.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("NEO RPC Network Error: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// NewNetworkError wraps err; a nil err yields nil.
func NewNetworkError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &NetworkError{Op: op, Err: err}
}

// IsNetworkError reports whether err carries a NetworkError.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// ReconciliationGapError means an input of a transaction could not be
// resolved to the output it spends.
type ReconciliationGapError struct {
	Hash string
	TxID string
	Vout int
	Err  error
}

func (e *ReconciliationGapError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transaction %s: unresolved input %s:%d: %v", e.Hash, e.TxID, e.Vout, e.Err)
	}
	return fmt.Sprintf("transaction %s: unresolved input %s:%d", e.Hash, e.TxID, e.Vout)
}

func (e *ReconciliationGapError) Unwrap() error { return e.Err }

// ValidateAddress checks that addr is a base58check NEO address with the given version byte.
func ValidateAddress(addr string, version byte) error {
	invalid := NewValidationError(ErrInvalidAddress, "Invalid to address. "+addr)
	if addr == "" {
		return invalid
	}
	raw, err := base58.CheckDecode(addr)
	if err != nil || len(raw) != 21 || raw[0] != version {
		return invalid
	}
	return nil
}
