package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"neo_wallet/internal/app/port"
	"neo_wallet/internal/domain/entity"
	"neo_wallet/internal/infrastructure/configloader"

	"go.uber.org/zap"
)

const (
	defaultProviderConnectionTimeout = 10 * time.Second
)

// NeoClientProvider creates and caches one NeoRPCClient per network.
type NeoClientProvider struct {
	clients     map[string]*NeoRPCClient
	networks    port.NetworkDefinitionProvider
	mu          sync.Mutex
	opts        Options
	zapLogger   *zap.Logger
	loggerInfo  func(msg string, args ...any)
	loggerError func(msg string, args ...any)
}

// NewNeoClientProvider creates a new NeoClientProvider.
func NewNeoClientProvider(
	cfg *configloader.Config,
	networks port.NetworkDefinitionProvider,
	zapLogger *zap.Logger,
	loggerInfo func(msg string, args ...any),
	loggerError func(msg string, args ...any),
) *NeoClientProvider {
	return &NeoClientProvider{
		clients:  make(map[string]*NeoRPCClient),
		networks: networks,
		opts: Options{
			ConnectionTimeout: defaultProviderConnectionTimeout,
			RPCCallTimeout:    configloader.Duration(cfg.RpcClient.DefaultTimeoutMs),
			RateLimit:         cfg.RpcClient.RateLimit,
			BurstLimit:        cfg.RpcClient.BurstLimit,
		},
		zapLogger:   zapLogger,
		loggerInfo:  loggerInfo,
		loggerError: loggerError,
	}
}

// GetClient implements port.LedgerClientProvider.
func (p *NeoClientProvider) GetClient(netDef entity.NetworkDefinition) (port.LedgerClient, error) {
	return p.client(netDef)
}

func (p *NeoClientProvider) client(netDef entity.NetworkDefinition) (*NeoRPCClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, exists := p.clients[netDef.Name]; exists {
		return c, nil
	}

	p.loggerInfo("Creating new NEO RPC client", "network", netDef.Name, "rpc_primary", netDef.RPCURL)
	c, err := NewNeoRPCClient(netDef, p.opts, p.zapLogger)
	if err != nil {
		p.loggerError("Failed to create NEO RPC client", "network", netDef.Name, "error", err)
		return nil, fmt.Errorf("failed to create NEO RPC client for %s: %w", netDef.Name, err)
	}
	p.clients[netDef.Name] = c
	return c, nil
}

// GetTokenBalance implements port.TokenBalanceReader by routing to the client of network.
func (p *NeoClientProvider) GetTokenBalance(ctx context.Context, network, assetID, address string) (entity.TokenBalanceResult, error) {
	def, ok := p.networks.GetNetworkDefinitionByName(network)
	if !ok {
		return entity.TokenBalanceResult{}, fmt.Errorf("unknown network %s", network)
	}
	c, err := p.client(def)
	if err != nil {
		return entity.TokenBalanceFailed(entity.NewNetworkError("connect", err)), nil
	}
	return c.GetTokenBalance(ctx, def.Name, assetID, address)
}

// Close closes every cached client.
func (p *NeoClientProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for name, c := range p.clients {
		c.Close()
		delete(p.clients, name)
	}
}
