package tokencatalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"neo_wallet/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nopLog(string, ...any) {}

type knownTokens struct {
	tokens []entity.TokenInfo
	err    error
}

func (k knownTokens) GetKnownTokenList(context.Context, string) ([]entity.TokenInfo, error) {
	return k.tokens, k.err
}

func TestDefaultsArePresent(t *testing.T) {
	c := NewCatalog(nopLog, nopLog)

	main := c.TokensForNetwork(entity.MainNet)
	require.Len(t, main, 1)
	assert.Equal(t, "a0777c3ce2b169d4a23bcba4565e3225a0122d95", main[0].AssetID)
	assert.True(t, main[0].IsCustom)

	test := c.TokensForNetwork(entity.TestNet)
	require.Len(t, test, 1)
	assert.Equal(t, "591eedcd379a8981edeefe04ef26207e1391904a", test[0].AssetID)
}

func TestAddAndRemove(t *testing.T) {
	c := NewCatalog(nopLog, nopLog)
	c.AddToken(entity.TokenInfo{AssetID: "0xABCD", Symbol: "TKN", Network: entity.MainNet})
	assert.Len(t, c.TokensForNetwork(entity.MainNet), 2)

	c.RemoveToken("abcd", entity.MainNet)
	assert.Len(t, c.TokensForNetwork(entity.MainNet), 1)

	c.RemoveToken("abcd", "Unknown")
	c.AddToken(entity.TokenInfo{Symbol: "EMPTY", Network: entity.MainNet})
	assert.Len(t, c.TokensForNetwork(entity.MainNet), 1)
}

func TestSyncKnownTokensKeepsDefaultsCustom(t *testing.T) {
	c := NewCatalog(nopLog, nopLog)
	source := knownTokens{tokens: []entity.TokenInfo{
		{AssetID: "a0777c3ce2b169d4a23bcba4565e3225a0122d95", Symbol: "APH", Network: entity.MainNet},
		{AssetID: "ecc6b20d3ccac1ee9ef109af5a7cdb85706b1df9", Symbol: "RPX", Network: entity.MainNet},
	}}
	require.NoError(t, c.SyncKnownTokens(context.Background(), source, entity.MainNet))

	tokens := c.TokensForNetwork(entity.MainNet)
	require.Len(t, tokens, 2)
	assert.Equal(t, "APH", tokens[0].Symbol)
	assert.True(t, tokens[0].IsCustom)
	assert.Equal(t, "RPX", tokens[1].Symbol)
	assert.False(t, tokens[1].IsCustom)

	err := c.SyncKnownTokens(context.Background(), knownTokens{err: errors.New("down")}, entity.MainNet)
	assert.ErrorContains(t, err, "APH API Error")
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	body := `[{"assetId":"1111","symbol":"ONE"},{"assetId":"2222","symbol":"TWO","network":"TestNet"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "MainNet.json"), []byte(body), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o600))

	c := NewCatalog(nopLog, nopLog)
	require.NoError(t, c.LoadDirectory(dir))

	symbols := []string{}
	for _, tok := range c.TokensForNetwork(entity.MainNet) {
		symbols = append(symbols, tok.Symbol)
	}
	assert.Equal(t, []string{"APH", "ONE"}, symbols)

	require.NoError(t, c.LoadDirectory(filepath.Join(dir, "missing")))
}
