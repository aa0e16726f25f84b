package service

import (
	"context"
	"testing"
	"time"

	"neo_wallet/internal/domain/entity"
	"neo_wallet/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwaitConfirmationFindsRecord(t *testing.T) {
	store := newTestStore("AWallet")
	notifier := &fakeNotifier{}
	m := NewConfirmationMonitor(store, notifier, logger.NewNop(), time.Millisecond, 2*time.Millisecond)

	go func() {
		time.Sleep(10 * time.Millisecond)
		store.SetRecentTransactions([]entity.MovementRecord{{Hash: "other"}, {Hash: "abcd", BlockHeight: 12}})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	record, err := m.AwaitConfirmation(ctx, "0xABCD")
	require.NoError(t, err)
	assert.Equal(t, int64(12), record.BlockHeight)
	assert.Equal(t, []string{"TX: 0xABCD CONFIRMED"}, notifier.messages(entity.NotifySuccess))
}

func TestAwaitConfirmationCancelled(t *testing.T) {
	store := newTestStore("AWallet")
	notifier := &fakeNotifier{}
	m := NewConfirmationMonitor(store, notifier, logger.NewNop(), 0, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := m.AwaitConfirmation(ctx, "never")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, notifier.sent)
}

func TestAwaitConfirmationInitialDelayIsCancellable(t *testing.T) {
	m := NewConfirmationMonitor(newTestStore("AWallet"), &fakeNotifier{}, logger.NewNop(), time.Hour, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := m.AwaitConfirmation(ctx, "abcd")
	assert.ErrorIs(t, err, context.Canceled)
}
