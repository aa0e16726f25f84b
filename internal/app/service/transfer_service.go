package service

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"neo_wallet/internal/app/port"
	"neo_wallet/internal/domain/entity"
	"neo_wallet/internal/infrastructure/network/client"
	"neo_wallet/internal/pkg/metrics"

	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/shopspring/decimal"
)

const insufficientGASMessage = "At least one drop of GAS is required to send NEP5 transfers."

// TransferService implements port.TransferOrchestrator.
type TransferService struct {
	signer   port.SigningBackend
	holdings port.HoldingsAggregator
	monitor  port.ConfirmationMonitor
	state    port.StateStore
	notifier port.Notifier
	logger   port.Logger
	// hardwareSign signs for wallets whose key lives on a device. May be nil.
	hardwareSign  entity.SigningFunc
	callbackDelay time.Duration
}

// NewTransferService creates a new instance of TransferService.
func NewTransferService(
	signer port.SigningBackend,
	holdings port.HoldingsAggregator,
	monitor port.ConfirmationMonitor,
	state port.StateStore,
	notifier port.Notifier,
	l port.Logger,
	hardwareSign entity.SigningFunc,
	callbackDelay time.Duration,
) *TransferService {
	return &TransferService{
		signer:        signer,
		holdings:      holdings,
		monitor:       monitor,
		state:         state,
		notifier:      notifier,
		logger:        l.With("component", "TransferService"),
		hardwareSign:  hardwareSign,
		callbackDelay: callbackDelay,
	}
}

// Send implements port.TransferOrchestrator.
func (s *TransferService) Send(ctx context.Context, intent entity.TransferIntent) (*entity.BroadcastTx, error) {
	tx, err := s.Broadcast(ctx, intent)
	if err != nil {
		return nil, err
	}
	if _, err := s.monitor.AwaitConfirmation(ctx, tx.Hash); err != nil {
		s.logger.Warn("Confirmation monitoring failed", "hash", tx.Hash, "error", err)
		s.notifier.Notify(entity.NotifyError, err.Error())
	}
	return tx, nil
}

// Broadcast implements port.TransferOrchestrator.
func (s *TransferService) Broadcast(ctx context.Context, intent entity.TransferIntent) (*entity.BroadcastTx, error) {
	wallet := s.state.CurrentWallet()
	network := s.state.CurrentNetwork()
	intent.ToAddress = strings.TrimSpace(intent.ToAddress)

	if err := entity.ValidateAddress(intent.ToAddress, network.Version()); err != nil {
		return nil, err
	}

	var (
		broadcast entity.BroadcastIntent
		err       error
	)
	if intent.Asset.IsToken() {
		if err := s.requireGAS(ctx, wallet.Address); err != nil {
			return nil, err
		}
		broadcast, err = tokenIntent(wallet.Address, intent, network)
	} else {
		broadcast, err = nativeIntent(wallet.Address, intent, network)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("Broadcasting transfer",
		"kind", string(broadcast.Kind),
		"to", intent.ToAddress,
		"asset", intent.Asset.ID,
		"amount", intent.Amount.String(),
		"network", network.Name)

	s.state.SetSendInProgress(true)
	res, err := s.signer.BuildAndBroadcast(ctx, broadcast, wallet.KeySource(s.hardwareSign))
	s.state.SetSendInProgress(false)
	if err != nil {
		s.logger.Error("Broadcast failed", "to", intent.ToAddress, "error", err)
		s.notifier.Notify(entity.NotifyError, err.Error())
		return nil, err
	}
	if res == nil || res.Tx == nil || res.Tx.Hash == "" {
		s.notifier.Notify(entity.NotifyError, entity.ErrBroadcastFailed.Error())
		return nil, entity.ErrBroadcastFailed
	}

	metrics.IncTransfer(intent.Asset.Kind.String())
	s.notifier.Notify(entity.NotifySuccess, fmt.Sprintf("Transaction Hash: %s Sent, waiting for confirmation.", res.Tx.Hash))

	if intent.Callback != nil {
		callback := intent.Callback
		time.AfterFunc(s.callbackDelay, callback)
	}
	return res.Tx, nil
}

// requireGAS rejects token transfers when the wallet holds no GAS. The last
// stored holdings are used when present.
func (s *TransferService) requireGAS(ctx context.Context, address string) error {
	holdings := s.state.Holdings()
	if holdings == nil {
		var err error
		if holdings, err = s.holdings.GetHoldings(ctx, address, ""); err != nil {
			return err
		}
	}
	gas, _ := holdings.Find(entity.GASSymbol)
	if gas.Balance.LessThan(entity.MinimumInvocationGAS) {
		s.notifier.Notify(entity.NotifyError, insufficientGASMessage)
		return entity.NewValidationError(entity.ErrInsufficientGAS, insufficientGASMessage)
	}
	return nil
}

func nativeIntent(from string, intent entity.TransferIntent, network entity.NetworkDefinition) (entity.BroadcastIntent, error) {
	symbol := entity.NativeSymbolForAsset(intent.Asset.ID)
	if symbol == "" {
		return entity.BroadcastIntent{}, entity.NewValidationError(entity.ErrInvalidSystemAsset, "Invalid system asset id")
	}
	return entity.BroadcastIntent{
		Kind:    entity.IntentContract,
		From:    from,
		To:      intent.ToAddress,
		Amounts: map[string]decimal.Decimal{symbol: intent.Amount},
		Network: network.Name,
	}, nil
}

func tokenIntent(from string, intent entity.TransferIntent, network entity.NetworkDefinition) (entity.BroadcastIntent, error) {
	fromHash, err := client.AddressToScriptHash(from, network.Version())
	if err != nil {
		return entity.BroadcastIntent{}, fmt.Errorf("wallet address: %w", err)
	}
	toHash, err := client.AddressToScriptHash(intent.ToAddress, network.Version())
	if err != nil {
		return entity.BroadcastIntent{}, fmt.Errorf("destination address: %w", err)
	}
	amount, err := fixed8ReverseHex(intent.Amount)
	if err != nil {
		return entity.BroadcastIntent{}, err
	}
	return entity.BroadcastIntent{
		Kind: entity.IntentInvocation,
		From: from,
		To:   from,
		Script: &entity.InvocationScript{
			ScriptHash: entity.NormalizeHash(intent.Asset.ID),
			Operation:  "transfer",
			Args:       []string{fromHash, toHash, amount},
		},
		AttachedGAS: entity.MinimumInvocationGAS,
		Network:     network.Name,
	}, nil
}

// fixed8ReverseHex encodes amount as a little-endian Fixed8 integer.
func fixed8ReverseHex(amount decimal.Decimal) (string, error) {
	f, err := fixedn.Fixed8FromString(amount.String())
	if err != nil {
		return "", fmt.Errorf("amount %s: %w", amount, err)
	}
	if f < 0 {
		return "", errors.New("amount must not be negative")
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(f))
	return hex.EncodeToString(buf[:]), nil
}

var _ port.TransferOrchestrator = (*TransferService)(nil)
