package service

import (
	"context"
	"fmt"
	"time"

	"neo_wallet/internal/app/port"
	"neo_wallet/internal/domain/entity"
	"neo_wallet/internal/pkg/metrics"
)

// ConfirmationMonitor implements port.ConfirmationMonitor by polling the
// recent transactions kept in the state store.
type ConfirmationMonitor struct {
	state        port.StateStore
	notifier     port.Notifier
	logger       port.Logger
	initialDelay time.Duration
	pollInterval time.Duration
}

// NewConfirmationMonitor creates a new ConfirmationMonitor.
func NewConfirmationMonitor(state port.StateStore, notifier port.Notifier, l port.Logger, initialDelay, pollInterval time.Duration) *ConfirmationMonitor {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &ConfirmationMonitor{
		state:        state,
		notifier:     notifier,
		logger:       l.With("component", "ConfirmationMonitor"),
		initialDelay: initialDelay,
		pollInterval: pollInterval,
	}
}

// AwaitConfirmation implements port.ConfirmationMonitor. It waits until ctx is
// done if the transaction never shows up.
func (m *ConfirmationMonitor) AwaitConfirmation(ctx context.Context, hash string) (entity.MovementRecord, error) {
	started := time.Now()
	m.logger.Debug("Waiting for confirmation", "hash", hash)

	// ждём хотя бы один блок
	if err := sleep(ctx, m.initialDelay); err != nil {
		return entity.MovementRecord{}, err
	}

	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()
	for {
		if record, ok := m.find(hash); ok {
			metrics.ObserveConfirmation(time.Since(started))
			m.logger.Info("Transaction confirmed", "hash", hash, "block", record.BlockHeight)
			m.notifier.Notify(entity.NotifySuccess, fmt.Sprintf("TX: %s CONFIRMED", hash))
			return record, nil
		}
		select {
		case <-ctx.Done():
			return entity.MovementRecord{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (m *ConfirmationMonitor) find(hash string) (entity.MovementRecord, bool) {
	for _, record := range m.state.RecentTransactions() {
		if entity.SameHash(record.Hash, hash) {
			return record, true
		}
	}
	return entity.MovementRecord{}, false
}

var _ port.ConfirmationMonitor = (*ConfirmationMonitor)(nil)
