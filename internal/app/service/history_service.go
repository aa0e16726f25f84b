package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"neo_wallet/internal/app/port"
	"neo_wallet/internal/domain/entity"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// HistoryService implements port.HistoryReconciler.
type HistoryService struct {
	clients               port.LedgerClientProvider
	explorer              port.ExplorerClient
	state                 port.StateStore
	notifier              port.Notifier
	logger                port.Logger
	maxConcurrentRoutines int
}

// NewHistoryService creates a new instance of HistoryService.
func NewHistoryService(
	clients port.LedgerClientProvider,
	explorer port.ExplorerClient,
	state port.StateStore,
	notifier port.Notifier,
	l port.Logger,
	maxRoutines int,
) *HistoryService {
	if maxRoutines <= 0 {
		maxRoutines = 1
	}
	return &HistoryService{
		clients:               clients,
		explorer:              explorer,
		state:                 state,
		notifier:              notifier,
		logger:                l.With("component", "HistoryService"),
		maxConcurrentRoutines: maxRoutines,
	}
}

// candidate is a transaction whose detail must be fetched. token is set for
// entries that came from the indexer.
type candidate struct {
	hash        string
	blockHeight int64
	token       *entity.TokenTransferRecord
}

// GetRecentTransactions implements port.HistoryReconciler. Records are
// ordered by block time, newest first.
func (s *HistoryService) GetRecentTransactions(ctx context.Context, q entity.HistoryQuery) ([]entity.MovementRecord, error) {
	network := s.state.CurrentNetwork()
	client, err := s.clients.GetClient(network)
	if err != nil {
		return nil, fmt.Errorf("get ledger client for %s: %w", network.Name, err)
	}

	candidates := s.candidates(ctx, q)
	if len(candidates) == 0 {
		return []entity.MovementRecord{}, nil
	}

	blockCount, err := client.GetBlockCount(ctx)
	if err != nil {
		s.logger.Error("Failed to read block count", "error", err)
		s.notifier.Notify(entity.NotifyNetworkError, err.Error())
		return []entity.MovementRecord{}, nil
	}

	var (
		mu      sync.Mutex
		records []entity.MovementRecord
	)
	g := new(errgroup.Group)
	g.SetLimit(s.maxConcurrentRoutines)
	for _, c := range candidates {
		g.Go(func() error {
			out, err := s.reconcile(ctx, client, c, q, blockCount)
			if err != nil {
				s.logger.Warn("Dropping transaction from history", "hash", c.hash, "error", err)
				return nil
			}
			mu.Lock()
			records = append(records, out...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].BlockTime > records[j].BlockTime
	})
	s.logger.Debug("History reconciled", "address", q.Address, "candidates", len(candidates), "records", len(records))
	return records, nil
}

// candidates merges system history and token transfers within the block range.
func (s *HistoryService) candidates(ctx context.Context, q entity.HistoryQuery) []candidate {
	system, err := s.explorer.GetTransactionHistory(ctx, q.Address)
	if err != nil && !errors.Is(err, entity.ErrEmptyHistory) {
		s.logger.Warn("Failed to fetch transaction history", "address", q.Address, "error", err)
		s.notifier.Notify(entity.NotifyError, err.Error())
	}

	transfers, err := s.explorer.GetTokenTransfers(ctx, q.Address, q.TransferQuery())
	if err != nil {
		s.logger.Warn("Failed to fetch token transfers", "address", q.Address, "error", err)
		transfers = nil
	}

	out := make([]candidate, 0, len(system)+len(transfers))
	for _, tx := range system {
		out = append(out, candidate{hash: entity.NormalizeHash(tx.TxID), blockHeight: tx.BlockHeight})
	}
	for i := range transfers {
		t := transfers[i]
		out = append(out, candidate{hash: entity.NormalizeHash(t.TransactionHash), blockHeight: t.BlockIndex, token: &t})
	}

	filtered := out[:0]
	for _, c := range out {
		if q.FromBlock > 0 && c.blockHeight < q.FromBlock {
			continue
		}
		if q.ToBlock > 0 && c.blockHeight > q.ToBlock {
			continue
		}
		filtered = append(filtered, c)
	}
	return filtered
}

// reconcile fetches the detail of c and turns it into movement records.
// A transaction outside the date range yields no records and no error.
func (s *HistoryService) reconcile(ctx context.Context, client port.LedgerClient, c candidate, q entity.HistoryQuery, blockCount int64) ([]entity.MovementRecord, error) {
	detail, err := client.GetRawTransaction(ctx, c.hash)
	if err != nil {
		return nil, err
	}
	detail.ApplyBlockCount(blockCount)

	if !q.FromDate.IsZero() && detail.BlockTime < q.FromDate.Unix() {
		return nil, nil
	}
	if !q.ToDate.IsZero() && detail.BlockTime > q.ToDate.Unix() {
		return nil, nil
	}

	if c.token != nil {
		return []entity.MovementRecord{tokenMovement(c.hash, *c.token, detail)}, nil
	}

	if err := client.ResolveInputs(ctx, &detail); err != nil {
		return nil, err
	}
	return nativeMovements(c.hash, detail, q.Address), nil
}

// tokenMovement passes an indexer transfer through with its own from, to and value.
func tokenMovement(hash string, t entity.TokenTransferRecord, detail entity.LedgerTransactionDetail) entity.MovementRecord {
	value := t.NetValue()
	detail.Inputs = []entity.TransactionInput{{Address: t.FromAddress, Symbol: t.Symbol, Value: value.Abs()}}
	detail.Outputs = []entity.TransactionOutput{{Address: t.ToAddress, Symbol: t.Symbol, Value: value.Abs()}}
	return entity.MovementRecord{
		Hash:        hash,
		BlockHeight: detail.BlockHeight,
		BlockTime:   detail.BlockTime,
		From:        t.FromAddress,
		To:          t.ToAddress,
		Symbol:      t.Symbol,
		Value:       value,
		IsToken:     true,
		Details:     &detail,
	}
}

// nativeMovements emits one record per system asset the transaction moved
// for address.
func nativeMovements(hash string, detail entity.LedgerTransactionDetail, address string) []entity.MovementRecord {
	var records []entity.MovementRecord
	for _, asset := range entity.NativeAssets {
		moved := false
		sent := decimal.Zero
		for _, in := range detail.Inputs {
			if in.Address == address && in.Symbol == asset.Symbol {
				sent = sent.Add(in.Value)
				moved = true
			}
		}
		received := decimal.Zero
		for _, out := range detail.Outputs {
			if out.Address == address && out.Symbol == asset.Symbol {
				received = received.Add(out.Value)
				moved = true
			}
		}

		change := received.Sub(sent)
		// invocations touch system assets as a side effect
		if detail.Type == entity.InvocationTransaction && change.IsZero() {
			moved = false
		}
		if !moved {
			continue
		}

		from, to := counterparties(detail, asset.Symbol, address, change)
		records = append(records, entity.MovementRecord{
			Hash:        hash,
			BlockHeight: detail.BlockHeight,
			BlockTime:   detail.BlockTime,
			From:        from,
			To:          to,
			Symbol:      asset.Symbol,
			Value:       change,
			Details:     &detail,
		})
	}
	return records
}

// counterparties picks the sending and receiving address of symbol. For an
// incoming change the sender is a foreign input and the receiver is address;
// otherwise the reverse.
func counterparties(detail entity.LedgerTransactionDetail, symbol, address string, change decimal.Decimal) (string, string) {
	incoming := change.IsPositive()
	var from, to string
	for _, in := range detail.Inputs {
		if in.Symbol != symbol {
			continue
		}
		if incoming == (in.Address != address) {
			from = in.Address
		}
	}
	for _, out := range detail.Outputs {
		if out.Symbol != symbol {
			continue
		}
		if incoming == (out.Address == address) {
			to = out.Address
		}
	}
	return from, to
}

// Refresh implements port.HistoryReconciler.
func (s *HistoryService) Refresh(ctx context.Context) error {
	wallet := s.state.CurrentWallet()
	if wallet.Address == "" {
		return nil
	}
	records, err := s.GetRecentTransactions(ctx, entity.HistoryQuery{Address: wallet.Address})
	if err != nil {
		return err
	}
	s.state.SetRecentTransactions(records)
	return nil
}

// RunSync refreshes the recent transactions every interval until ctx is done.
func (s *HistoryService) RunSync(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	s.logger.Info("Starting history sync", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := s.Refresh(ctx); err != nil {
			s.logger.Error("History sync failed", "error", err)
		}
		select {
		case <-ctx.Done():
			s.logger.Info("History sync stopped")
			return
		case <-ticker.C:
		}
	}
}

var _ port.HistoryReconciler = (*HistoryService)(nil)
