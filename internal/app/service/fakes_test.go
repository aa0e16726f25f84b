package service

import (
	"context"
	"errors"
	"sync"

	"neo_wallet/internal/app/port"
	"neo_wallet/internal/domain/entity"
	"neo_wallet/internal/infrastructure/state"

	"github.com/nspcc-dev/neo-go/pkg/encoding/base58"
	"github.com/shopspring/decimal"
)

var errNode = entity.NewNetworkError("getaccountstate", errors.New("connection refused"))

func testAddress(fill byte) string {
	raw := make([]byte, 21)
	raw[0] = entity.DefaultAddressVersion
	for i := 1; i < len(raw); i++ {
		raw[i] = fill
	}
	return base58.CheckEncode(raw)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestStore(address string) *state.MemoryStore {
	return state.NewMemoryStore(
		entity.Wallet{Address: address, PrivateKey: "wif"},
		entity.NetworkDefinition{Name: entity.TestNet},
		"USD",
	)
}

type fakeLedger struct {
	mu         sync.Mutex
	account    entity.AccountState
	accountErr error
	blockCount int64
	txs        map[string]entity.LedgerTransactionDetail
	resolveErr map[string]error
	calls      int
}

func (f *fakeLedger) count() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *fakeLedger) GetAccountState(context.Context, string) (entity.AccountState, error) {
	f.count()
	return f.account, f.accountErr
}

func (f *fakeLedger) GetBlockCount(context.Context) (int64, error) {
	f.count()
	return f.blockCount, nil
}

func (f *fakeLedger) GetRawTransaction(_ context.Context, hash string) (entity.LedgerTransactionDetail, error) {
	f.count()
	tx, ok := f.txs[hash]
	if !ok {
		return entity.LedgerTransactionDetail{}, entity.NewNetworkError("getrawtransaction", errors.New("unknown transaction"))
	}
	tx.Inputs = append([]entity.TransactionInput(nil), tx.Inputs...)
	tx.Outputs = append([]entity.TransactionOutput(nil), tx.Outputs...)
	return tx, nil
}

func (f *fakeLedger) ResolveInputs(_ context.Context, detail *entity.LedgerTransactionDetail) error {
	f.count()
	if err := f.resolveErr[detail.Hash]; err != nil {
		return &entity.ReconciliationGapError{Hash: detail.Hash, Err: err}
	}
	return nil
}

type fakeClients struct {
	ledger *fakeLedger
}

func (f fakeClients) GetClient(entity.NetworkDefinition) (port.LedgerClient, error) {
	return f.ledger, nil
}

type tokenAnswer struct {
	result entity.TokenBalanceResult
	err    error
}

type fakeExplorer struct {
	mu           sync.Mutex
	tokens       map[string]tokenAnswer
	tokenCalls   []string
	claimable    decimal.Decimal
	claimErr     error
	transfers    []entity.TokenTransferRecord
	transfersErr error
	history      []entity.SystemTransaction
	historyErr   error
	calls        int
}

func (f *fakeExplorer) GetTokenBalance(_ context.Context, _, assetID, _ string) (entity.TokenBalanceResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.tokenCalls = append(f.tokenCalls, assetID)
	a := f.tokens[assetID]
	return a.result, a.err
}

func (f *fakeExplorer) GetTokenTransfers(context.Context, string, entity.TransferQuery) ([]entity.TokenTransferRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.transfers, f.transfersErr
}

func (f *fakeExplorer) GetKnownTokenList(context.Context, string) ([]entity.TokenInfo, error) {
	return nil, nil
}

func (f *fakeExplorer) GetClaimableAmount(context.Context, string) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.claimable, f.claimErr
}

func (f *fakeExplorer) GetTransactionHistory(context.Context, string) ([]entity.SystemTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.history, f.historyErr
}

type fakeCatalog struct {
	mu      sync.Mutex
	tokens  []entity.TokenInfo
	removed []string
}

func (f *fakeCatalog) TokensForNetwork(string) []entity.TokenInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.TokenInfo(nil), f.tokens...)
}

func (f *fakeCatalog) AddToken(t entity.TokenInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, t)
}

func (f *fakeCatalog) RemoveToken(assetID, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, assetID)
}

type fakePricing struct {
	mu     sync.Mutex
	values map[string]entity.Valuation
	calls  int
}

func (f *fakePricing) GetValuation(_ context.Context, symbol, currency string) (entity.Valuation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	v, ok := f.values[symbol]
	if !ok {
		return entity.Valuation{}, entity.NewNetworkError("valuation "+symbol, errors.New("no ticker"))
	}
	v.Currency = currency
	return v, nil
}

func valuation(price, pct string) entity.Valuation {
	v := entity.Valuation{}
	if price != "" {
		v.Price = decimal.NewNullDecimal(dec(price))
	}
	if pct != "" {
		v.PercentChange24h = decimal.NewNullDecimal(dec(pct))
	}
	return v
}

type fakeSigner struct {
	mu      sync.Mutex
	intents []entity.BroadcastIntent
	keys    []entity.KeySource
	result  *entity.BroadcastResult
	err     error
}

func (f *fakeSigner) BuildAndBroadcast(_ context.Context, intent entity.BroadcastIntent, key entity.KeySource) (*entity.BroadcastResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.intents = append(f.intents, intent)
	f.keys = append(f.keys, key)
	return f.result, f.err
}

func (f *fakeSigner) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.intents)
}

func broadcastOK(hash string) *entity.BroadcastResult {
	return &entity.BroadcastResult{Tx: &entity.BroadcastTx{Hash: hash}}
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []entity.Notification
}

func (f *fakeNotifier) Notify(kind entity.NotificationKind, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, entity.Notification{Kind: kind, Message: message})
}

func (f *fakeNotifier) messages(kind entity.NotificationKind) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, n := range f.sent {
		if n.Kind == kind {
			out = append(out, n.Message)
		}
	}
	return out
}

type fakeMonitor struct {
	mu     sync.Mutex
	hashes []string
	err    error
}

func (f *fakeMonitor) AwaitConfirmation(_ context.Context, hash string) (entity.MovementRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hashes = append(f.hashes, hash)
	return entity.MovementRecord{Hash: hash}, f.err
}

type fakeHoldings struct {
	holdings *entity.Holdings
	err      error
	calls    int
}

func (f *fakeHoldings) GetHoldings(context.Context, string, string) (*entity.Holdings, error) {
	f.calls++
	return f.holdings, f.err
}

type fakeTransfers struct {
	intents []entity.TransferIntent
	err     error
}

func (f *fakeTransfers) Broadcast(_ context.Context, intent entity.TransferIntent) (*entity.BroadcastTx, error) {
	f.intents = append(f.intents, intent)
	if f.err != nil {
		return nil, f.err
	}
	if intent.Callback != nil {
		intent.Callback()
	}
	return &entity.BroadcastTx{Hash: "self"}, nil
}

func (f *fakeTransfers) Send(ctx context.Context, intent entity.TransferIntent) (*entity.BroadcastTx, error) {
	return f.Broadcast(ctx, intent)
}

type fakeHistory struct {
	refreshes int
}

func (f *fakeHistory) GetRecentTransactions(context.Context, entity.HistoryQuery) ([]entity.MovementRecord, error) {
	return nil, nil
}

func (f *fakeHistory) Refresh(context.Context) error {
	f.refreshes++
	return nil
}
