package networkdefinition

import (
	"testing"

	"neo_wallet/internal/domain/entity"
	"neo_wallet/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltInNetworks(t *testing.T) {
	p := NewNetworkDefinitionProvider(logger.NewNop(), nil)

	defs := p.GetAllNetworkDefinitions()
	require.Len(t, defs, 2)
	assert.Equal(t, entity.MainNet, defs[0].Name)
	assert.Equal(t, entity.TestNet, defs[1].Name)

	def, ok := p.GetNetworkDefinitionByName("mainnet")
	require.True(t, ok)
	assert.Equal(t, entity.DefaultAddressVersion, def.Version())
	assert.NotEmpty(t, def.RPCURLs())
}

func TestOverridesMergeIntoBuiltIns(t *testing.T) {
	p := NewNetworkDefinitionProvider(logger.NewNop(), []entity.NetworkDefinition{
		{Name: "TestNet", RPCURL: "http://localhost:20332"},
		{Name: "PrivNet", RPCURL: "http://localhost:30333", AddressVersion: 0x17},
	})

	test, ok := p.GetNetworkDefinitionByName("TestNet")
	require.True(t, ok)
	assert.Equal(t, "http://localhost:20332", test.RPCURL)
	assert.Equal(t, TestNet.NeoscanURL, test.NeoscanURL)
	assert.Equal(t, TestNet.FallbackRPCURLs, test.FallbackRPCURLs)

	priv, ok := p.GetNetworkDefinitionByName("privnet")
	require.True(t, ok)
	assert.Equal(t, []string{"http://localhost:30333"}, priv.RPCURLs())

	_, ok = p.GetNetworkDefinitionByName("unknown")
	assert.False(t, ok)
}
