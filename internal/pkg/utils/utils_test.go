package utils

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, "1.24", Round2(decimal.RequireFromString("1.235")).String())
	assert.Equal(t, "-1.24", Round2(decimal.RequireFromString("-1.235")).String())
	assert.Equal(t, "3", Round2(decimal.NewFromInt(3)).String())
}

func TestPercentChange(t *testing.T) {
	p, ok := PercentChange(decimal.NewFromInt(110), decimal.NewFromInt(100))
	require.True(t, ok)
	assert.True(t, p.Equal(decimal.NewFromInt(10)))

	_, ok = PercentChange(decimal.NewFromInt(1), decimal.Zero)
	assert.False(t, ok)
}

func TestPriceBefore(t *testing.T) {
	before, ok := PriceBefore(decimal.NewFromInt(110), decimal.NewFromInt(10))
	require.True(t, ok)
	assert.True(t, before.Equal(decimal.NewFromInt(100)))

	_, ok = PriceBefore(decimal.NewFromInt(1), decimal.NewFromInt(-100))
	assert.False(t, ok)
}

func TestFromIntegerAmount(t *testing.T) {
	assert.Equal(t, "1.5", FromIntegerAmount(big.NewInt(150000000), 8).String())
	assert.True(t, FromIntegerAmount(nil, 8).IsZero())
}

func TestParseDecimal(t *testing.T) {
	d, err := ParseDecimal(" ")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = ParseDecimal("abc")
	assert.Error(t, err)
}

func TestBatch(t *testing.T) {
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, Batch([]int{1, 2, 3, 4, 5}, 2))
	assert.Equal(t, [][]int{{1, 2, 3}}, Batch([]int{1, 2, 3}, 0))
	assert.Empty(t, Batch([]string{}, 3))
}

func TestLoadTokensFromJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "MainNet.json")
	body := `[{"assetId":"a0777c3ce2b169d4a23bcba4565e3225a0122d95","symbol":"APH","network":"MainNet","isCustom":true}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	tokens, err := LoadTokensFromJSON(path)
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, "APH", tokens[0].Symbol)
	assert.True(t, tokens[0].IsCustom)
}
