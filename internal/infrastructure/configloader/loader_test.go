package configloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("wallet:\n  address: AKxyz\n"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "MainNet", cfg.Network.Active)
	assert.Equal(t, "USD", cfg.Display.Currency)
	assert.Equal(t, 10, cfg.Performance.MaxConcurrentRoutines)
	assert.Equal(t, 15*time.Second, Duration(cfg.Timeouts.ConfirmationInitialDelayMs))
	assert.Equal(t, time.Second, Duration(cfg.Timeouts.ConfirmationPollIntervalMs))
	assert.Equal(t, 30*time.Second, Duration(cfg.Timeouts.ClaimSettleDelayMs))
	assert.Equal(t, 5*time.Minute, Duration(cfg.Timeouts.ClaimIntervalMs))
	assert.Equal(t, "AKxyz", cfg.CurrentWallet().Address)
}

func TestParseKeepsExplicitValues(t *testing.T) {
	data := `
server:
  port: "9000"
display:
  currency: eur
network:
  active: TestNet
networks:
  - name: TestNet
    rpcUrl: http://localhost:20332
    neoscanUrl: http://localhost:4000/api/test_net
    addressVersion: 23
timeouts:
  claimIntervalMs: 1000
`
	cfg, err := Parse([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "EUR", cfg.Display.Currency)
	assert.Equal(t, "TestNet", cfg.Network.Active)
	require.Len(t, cfg.Networks, 1)
	assert.Equal(t, byte(23), cfg.Networks[0].AddressVersion)
	assert.Equal(t, int64(1000), cfg.Timeouts.ClaimIntervalMs)
}

func TestParseRejectsUnnamedNetwork(t *testing.T) {
	_, err := Parse([]byte("networks:\n  - rpcUrl: http://x\n"))
	assert.Error(t, err)
}

func TestLoadAndResolvePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o600))

	t.Setenv(EnvConfigPath, path)
	assert.Equal(t, path, ResolvePath())

	cfg, err := Load(ResolvePath())
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
