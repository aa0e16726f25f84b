package httpclient

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"neo_wallet/internal/domain/entity"

	"go.uber.org/zap"
)

// RemoteSigner implements port.SigningBackend against a signing service
// that builds, signs and relays transactions. Hardware keys sign locally:
// the service returns the unsigned transaction, the key's SigningFunc signs
// it, and the signature is sent back for relay.
type RemoteSigner struct {
	rest    *restClient
	baseURL string
}

// NewRemoteSigner creates a new RemoteSigner.
func NewRemoteSigner(baseURL string, timeout time.Duration, logger *zap.Logger) *RemoteSigner {
	return &RemoteSigner{
		rest:    newRestClient("signer", timeout, nil, logger.Named("RemoteSigner")),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type signerKey struct {
	Kind       entity.KeySourceKind `json:"kind"`
	Address    string               `json:"address"`
	PrivateKey string               `json:"privateKey,omitempty"`
	PublicKey  string               `json:"publicKey,omitempty"`
}

type broadcastRequest struct {
	Intent entity.BroadcastIntent `json:"intent"`
	Key    signerKey              `json:"key"`
}

type unsignedResponse struct {
	ID       string `json:"id"`
	Unsigned string `json:"unsigned"`
}

type relayRequest struct {
	ID        string `json:"id"`
	PublicKey string `json:"publicKey"`
	Signature string `json:"signature"`
}

// BuildAndBroadcast implements port.SigningBackend.
func (s *RemoteSigner) BuildAndBroadcast(ctx context.Context, intent entity.BroadcastIntent, key entity.KeySource) (*entity.BroadcastResult, error) {
	req := broadcastRequest{
		Intent: intent,
		Key:    signerKey{Kind: key.Kind, Address: key.Address, PrivateKey: key.PrivateKey, PublicKey: key.PublicKey},
	}

	if key.Kind != entity.KeyHardware {
		var res entity.BroadcastResult
		if err := s.rest.postJSON(ctx, "broadcast", s.baseURL+"/transactions", req, &res); err != nil {
			return nil, entity.NewNetworkError("signer broadcast", err)
		}
		return &res, nil
	}

	if key.Sign == nil {
		return nil, errors.New("hardware key without signing function")
	}

	var unsigned unsignedResponse
	if err := s.rest.postJSON(ctx, "build", s.baseURL+"/transactions/unsigned", req, &unsigned); err != nil {
		return nil, entity.NewNetworkError("signer build", err)
	}
	raw, err := hex.DecodeString(unsigned.Unsigned)
	if err != nil {
		return nil, fmt.Errorf("decode unsigned transaction: %w", err)
	}
	sig, err := key.Sign(ctx, raw, key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("hardware signing failed: %w", err)
	}

	var res entity.BroadcastResult
	relay := relayRequest{ID: unsigned.ID, PublicKey: key.PublicKey, Signature: hex.EncodeToString(sig)}
	if err := s.rest.postJSON(ctx, "relay", s.baseURL+"/transactions/relay", relay, &res); err != nil {
		return nil, entity.NewNetworkError("signer relay", err)
	}
	return &res, nil
}
