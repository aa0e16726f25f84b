package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"neo_wallet/internal/domain/entity"
	"neo_wallet/internal/infrastructure/state"
	"neo_wallet/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type historyFixture struct {
	ledger   *fakeLedger
	explorer *fakeExplorer
	notifier *fakeNotifier
	store    *state.MemoryStore
	svc      *HistoryService
	wallet   string
}

func newHistoryFixture() *historyFixture {
	wallet := testAddress(1)
	f := &historyFixture{
		ledger:   &fakeLedger{blockCount: 1000, txs: map[string]entity.LedgerTransactionDetail{}, resolveErr: map[string]error{}},
		explorer: &fakeExplorer{},
		notifier: &fakeNotifier{},
		store:    newTestStore(wallet),
		wallet:   wallet,
	}
	f.svc = NewHistoryService(fakeClients{f.ledger}, f.explorer, f.store, f.notifier, logger.NewNop(), 4)
	return f
}

func (f *historyFixture) addTx(hash, typ string, height, blockTime int64, ins []entity.TransactionInput, outs []entity.TransactionOutput) {
	f.ledger.txs[hash] = entity.LedgerTransactionDetail{
		Hash: hash, Type: typ, Confirmations: 1000 - height, BlockTime: blockTime, Inputs: ins, Outputs: outs,
	}
	f.explorer.history = append(f.explorer.history, entity.SystemTransaction{TxID: hash, BlockHeight: height})
}

func query(f *historyFixture) entity.HistoryQuery {
	return entity.HistoryQuery{Address: f.wallet}
}

func TestInvocationWithZeroNetProducesNoRecord(t *testing.T) {
	other := testAddress(2)

	for _, tc := range []struct {
		name   string
		typ    string
		outs   string
		expect int
	}{
		{name: "invocation zero net", typ: entity.InvocationTransaction, outs: "10", expect: 0},
		{name: "contract non-zero net", typ: entity.ContractTransaction, outs: "7", expect: 1},
		{name: "invocation non-zero net", typ: entity.InvocationTransaction, outs: "7", expect: 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newHistoryFixture()
			f.addTx("aa", tc.typ, 900, 1500,
				[]entity.TransactionInput{{Address: f.wallet, Symbol: "NEO", Value: dec("10")}},
				[]entity.TransactionOutput{
					{Address: f.wallet, Symbol: "NEO", Value: dec(tc.outs)},
					{Address: other, Symbol: "NEO", Value: dec("10").Sub(dec(tc.outs))},
				})

			records, err := f.svc.GetRecentTransactions(context.Background(), query(f))
			require.NoError(t, err)
			require.Len(t, records, tc.expect)
			if tc.expect == 1 {
				assert.Equal(t, "-3", records[0].Value.String())
				assert.Equal(t, f.wallet, records[0].From)
				assert.Equal(t, other, records[0].To)
				assert.Equal(t, int64(900), records[0].BlockHeight)
			}
		})
	}
}

func TestTransactionMovingBothAssetsSplits(t *testing.T) {
	f := newHistoryFixture()
	sender := testAddress(3)
	f.addTx("bb", entity.ContractTransaction, 950, 2000,
		[]entity.TransactionInput{
			{Address: sender, Symbol: "NEO", Value: dec("5")},
			{Address: sender, Symbol: "GAS", Value: dec("2")},
			{Address: f.wallet, Symbol: "GAS", Value: dec("1")},
		},
		[]entity.TransactionOutput{
			{Address: f.wallet, Symbol: "NEO", Value: dec("5")},
			{Address: sender, Symbol: "GAS", Value: dec("2.5")},
			{Address: f.wallet, Symbol: "GAS", Value: dec("0.5")},
		})

	records, err := f.svc.GetRecentTransactions(context.Background(), query(f))
	require.NoError(t, err)
	require.Len(t, records, 2)

	bySymbol := map[string]entity.MovementRecord{}
	for _, r := range records {
		bySymbol[r.Symbol] = r
	}
	neo := bySymbol["NEO"]
	assert.Equal(t, "5", neo.Value.String())
	assert.Equal(t, sender, neo.From)
	assert.Equal(t, f.wallet, neo.To)

	gas := bySymbol["GAS"]
	assert.Equal(t, "-0.5", gas.Value.String())
	assert.Equal(t, f.wallet, gas.From)
	assert.Equal(t, sender, gas.To)
	assert.Equal(t, "bb", gas.Hash)
	require.NotNil(t, gas.Details)
	assert.True(t, gas.Details.Confirmed)
}

func TestTokenTransferRecord(t *testing.T) {
	f := newHistoryFixture()
	from := testAddress(4)
	f.ledger.txs["cc"] = entity.LedgerTransactionDetail{Hash: "cc", Type: entity.InvocationTransaction, Confirmations: 10, BlockTime: 3000}
	f.explorer.transfers = []entity.TokenTransferRecord{{
		TransactionHash: "0xCC", BlockIndex: 990, BlockTime: 3000,
		FromAddress: from, ToAddress: f.wallet, Symbol: "APH",
		Received: dec("5"), Sent: dec("2"),
	}}
	f.explorer.historyErr = entity.ErrEmptyHistory

	records, err := f.svc.GetRecentTransactions(context.Background(), query(f))
	require.NoError(t, err)
	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, "3", r.Value.String())
	assert.Equal(t, from, r.From)
	assert.Equal(t, f.wallet, r.To)
	assert.True(t, r.IsToken)
	require.Len(t, r.Details.Inputs, 1)
	assert.Equal(t, "3", r.Details.Inputs[0].Value.String())
	assert.Equal(t, f.wallet, r.Details.Outputs[0].Address)
	assert.Empty(t, f.notifier.sent)
}

func TestHistoryFiltersSortingAndDrops(t *testing.T) {
	f := newHistoryFixture()
	other := testAddress(2)
	in := func(v string) []entity.TransactionOutput {
		return []entity.TransactionOutput{{Address: f.wallet, Symbol: "GAS", Value: dec(v)}}
	}
	f.addTx("t1", entity.ClaimTransaction, 100, 1000, nil, in("1"))
	f.addTx("t2", entity.ClaimTransaction, 200, 2000, nil, in("2"))
	f.addTx("t3", entity.ClaimTransaction, 300, 3000, nil, in("3"))
	f.addTx("gap", entity.ContractTransaction, 250, 2500,
		[]entity.TransactionInput{{TxID: "zz", Vout: 0}}, []entity.TransactionOutput{{Address: other, Symbol: "GAS", Value: dec("1")}})
	f.ledger.resolveErr["gap"] = errors.New("missing vout")
	f.explorer.history = append(f.explorer.history, entity.SystemTransaction{TxID: "missing", BlockHeight: 260})

	records, err := f.svc.GetRecentTransactions(context.Background(), query(f))
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"t3", "t2", "t1"}, []string{records[0].Hash, records[1].Hash, records[2].Hash})

	q := query(f)
	q.FromBlock = 150
	records, err = f.svc.GetRecentTransactions(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	q = query(f)
	q.ToDate = time.Unix(2500, 0)
	q.FromDate = time.Unix(1500, 0)
	records, err = f.svc.GetRecentTransactions(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "t2", records[0].Hash)
}

func TestHistoryAbsorbsSourceErrors(t *testing.T) {
	f := newHistoryFixture()
	f.explorer.historyErr = entity.NewNetworkError("neoscan", errors.New("502"))
	f.explorer.transfersErr = errors.New("APH API Error")

	records, err := f.svc.GetRecentTransactions(context.Background(), query(f))
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Len(t, f.notifier.messages(entity.NotifyError), 1)
}

func TestRefreshStoresRecentTransactions(t *testing.T) {
	f := newHistoryFixture()
	f.addTx("t1", entity.ClaimTransaction, 100, 1000, nil,
		[]entity.TransactionOutput{{Address: f.wallet, Symbol: "GAS", Value: dec("1")}})

	require.NoError(t, f.svc.Refresh(context.Background()))
	recent := f.store.RecentTransactions()
	require.Len(t, recent, 1)
	assert.Equal(t, "t1", recent[0].Hash)
}

func TestRunSyncStopsWithContext(t *testing.T) {
	f := newHistoryFixture()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.svc.RunSync(ctx, 5*time.Millisecond)
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunSync did not stop")
	}
}
