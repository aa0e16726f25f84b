package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/encoding/base58"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addressWithVersion(version byte, fill byte) string {
	raw := make([]byte, 21)
	raw[0] = version
	for i := 1; i < len(raw); i++ {
		raw[i] = fill
	}
	return base58.CheckEncode(raw)
}

func TestLookupNativeAsset(t *testing.T) {
	a, ok := LookupNativeAsset(NEOAssetID)
	require.True(t, ok)
	assert.Equal(t, NEOSymbol, a.Symbol)

	a, ok = LookupNativeAsset("602C79718B16E442DE58778E148D0B1084E3B2DFFD5DE6B7B16CEE7969282DE7")
	require.True(t, ok)
	assert.Equal(t, GASSymbol, a.Symbol)

	_, ok = LookupNativeAsset("0xdeadbeef")
	assert.False(t, ok)
	assert.Equal(t, "", NativeSymbolForAsset("0xdeadbeef"))
}

func TestValidateAddress(t *testing.T) {
	good := addressWithVersion(DefaultAddressVersion, 0x42)
	require.NoError(t, ValidateAddress(good, DefaultAddressVersion))

	testCases := []struct {
		name string
		addr string
	}{
		{"empty", ""},
		{"garbage", "not-an-address"},
		{"wrong version", addressWithVersion(0x35, 0x42)},
		{"truncated", good[:len(good)-3]},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAddress(tc.addr, DefaultAddressVersion)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidAddress))
			assert.Equal(t, "Invalid to address. "+tc.addr, err.Error())
		})
	}
}

func TestNetworkErrorIsDetectable(t *testing.T) {
	assert.Nil(t, NewNetworkError("getaccountstate", nil))

	cause := errors.New("connection refused")
	err := NewNetworkError("getaccountstate", cause)
	wrapped := errors.Join(errors.New("outer"), err)
	assert.True(t, IsNetworkError(wrapped))
	assert.ErrorIs(t, wrapped, cause)
	assert.Contains(t, err.Error(), "NEO RPC Network Error")
}

func TestApplyBlockCount(t *testing.T) {
	d := LedgerTransactionDetail{Confirmations: 4}
	d.ApplyBlockCount(100)
	assert.True(t, d.Confirmed)
	assert.Equal(t, int64(96), d.BlockHeight)
	assert.Equal(t, int64(100), d.CurrentBlockHeight)

	pending := LedgerTransactionDetail{}
	pending.ApplyBlockCount(100)
	assert.False(t, pending.Confirmed)
	assert.Zero(t, pending.BlockHeight)
}

func TestHistoryQueryTransferQuery(t *testing.T) {
	from := time.Unix(1_500_000_000, 0)
	q := HistoryQuery{FromDate: from, FromBlock: 10, ToBlock: 20}
	tq := q.TransferQuery()
	assert.Equal(t, from.Unix(), tq.FromTimestamp)
	assert.Zero(t, tq.ToTimestamp)
	assert.Equal(t, int64(10), tq.FromBlock)
	assert.Equal(t, int64(20), tq.ToBlock)
}

func TestTokenTransferNetValue(t *testing.T) {
	rec := TokenTransferRecord{Received: decimal.NewFromInt(5), Sent: decimal.NewFromInt(7)}
	assert.True(t, rec.NetValue().Equal(decimal.NewFromInt(-2)))
}

func TestWalletKeySource(t *testing.T) {
	local := Wallet{Address: "A", PrivateKey: "wif"}.KeySource(nil)
	assert.Equal(t, KeyLocal, local.Kind)
	assert.Equal(t, "wif", local.PrivateKey)

	hw := Wallet{Address: "A", IsHardware: true, PublicKey: "02ab"}.KeySource(nil)
	assert.Equal(t, KeyHardware, hw.Kind)
	assert.Empty(t, hw.PrivateKey)
	assert.Equal(t, "02ab", hw.PublicKey)
}

func TestGasClaimDone(t *testing.T) {
	assert.False(t, GasClaim{Step: GasClaimBroadcast}.Done())
	assert.True(t, GasClaim{Step: GasClaimConfirmed}.Done())
	c := GasClaim{Step: GasClaimHoldingsRead, Err: errors.New("boom")}
	assert.True(t, c.Done())
	assert.Equal(t, "boom", c.ErrorMessage())
}

func TestSameHash(t *testing.T) {
	assert.True(t, SameHash("0xABCD", "abcd"))
	assert.False(t, SameHash("abcd", "abce"))
	assert.Equal(t, "ff", NormalizeHash(" 0xFF "))
}
