package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"neo_wallet/internal/domain/entity"
	"neo_wallet/internal/pkg/metrics"
	"neo_wallet/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const metricsTarget = "neo_rpc"

// maxBatchSize caps the number of calls sent in one JSON-RPC batch.
const maxBatchSize = 50

// NeoRPCClient talks JSON-RPC 2.0 to NEO nodes. Calls go to the primary node
// and fail over to the fallback nodes on transport errors.
type NeoRPCClient struct {
	nodes          []*rpc.Client
	urls           []string
	netDef         entity.NetworkDefinition
	limiter        *rate.Limiter
	rpcCallTimeout time.Duration
	logger         *zap.Logger
}

// Options tunes a NeoRPCClient.
type Options struct {
	ConnectionTimeout time.Duration
	RPCCallTimeout    time.Duration
	RateLimit         float64
	BurstLimit        int
}

// NewNeoRPCClient creates a client for every RPC URL of the network definition.
func NewNeoRPCClient(netDef entity.NetworkDefinition, opts Options, logger *zap.Logger) (*NeoRPCClient, error) {
	rpcURLs := netDef.RPCURLs()
	if len(rpcURLs) == 0 {
		return nil, fmt.Errorf("network %s has no RPC URLs", netDef.Name)
	}

	c := &NeoRPCClient{
		netDef:         netDef,
		rpcCallTimeout: opts.RPCCallTimeout,
		logger:         logger.Named("NeoRPCClient").With(zap.String("network", netDef.Name)),
	}
	if opts.RateLimit > 0 {
		burst := opts.BurstLimit
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	var lastErr error
	for _, rpcURL := range rpcURLs {
		ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectionTimeout)
		node, err := rpc.DialContext(ctx, rpcURL)
		cancel()
		if err != nil {
			lastErr = fmt.Errorf("failed to connect to RPC %s: %w", rpcURL, err)
			c.logger.Warn("Skipping unreachable RPC node", zap.String("url", rpcURL), zap.Error(err))
			continue
		}
		c.nodes = append(c.nodes, node)
		c.urls = append(c.urls, rpcURL)
	}
	if len(c.nodes) == 0 {
		return nil, fmt.Errorf("all RPC connection attempts failed for network %s: %w", netDef.Name, lastErr)
	}
	return c, nil
}

// Definition returns the network definition for this client.
func (c *NeoRPCClient) Definition() entity.NetworkDefinition {
	return c.netDef
}

// Close releases the underlying connections.
func (c *NeoRPCClient) Close() {
	for _, n := range c.nodes {
		n.Close()
	}
}

func (c *NeoRPCClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

func (c *NeoRPCClient) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.rpcCallTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.rpcCallTimeout)
}

// isNodeAnswer reports whether err came from the node itself rather than the transport.
func isNodeAnswer(err error) bool {
	var rpcErr rpc.Error
	return errors.As(err, &rpcErr)
}

// call runs method against the nodes in order until one answers.
func (c *NeoRPCClient) call(ctx context.Context, result any, method string, args ...any) error {
	started := time.Now()
	var lastErr error
	for i, node := range c.nodes {
		if err := c.wait(ctx); err != nil {
			return err
		}
		callCtx, cancel := c.callCtx(ctx)
		err := node.CallContext(callCtx, result, method, args...)
		cancel()
		if err == nil || isNodeAnswer(err) {
			metrics.ObserveRemoteCall(metricsTarget, method, started, err)
			return err
		}
		lastErr = err
		c.logger.Warn("RPC call failed, trying next node",
			zap.String("method", method), zap.String("url", c.urls[i]), zap.Error(err))
		if ctx.Err() != nil {
			break
		}
	}
	metrics.ObserveRemoteCall(metricsTarget, method, started, lastErr)
	return lastErr
}

// batch runs elems against the nodes in order until one accepts the batch.
func (c *NeoRPCClient) batch(ctx context.Context, label string, elems []rpc.BatchElem) error {
	started := time.Now()
	var lastErr error
	for i, node := range c.nodes {
		if err := c.wait(ctx); err != nil {
			return err
		}
		callCtx, cancel := c.callCtx(ctx)
		err := node.BatchCallContext(callCtx, elems)
		cancel()
		if err == nil {
			metrics.ObserveRemoteCall(metricsTarget, label, started, nil)
			return nil
		}
		lastErr = err
		c.logger.Warn("RPC batch failed, trying next node",
			zap.String("batch", label), zap.String("url", c.urls[i]), zap.Error(err))
		if ctx.Err() != nil {
			break
		}
	}
	metrics.ObserveRemoteCall(metricsTarget, label, started, lastErr)
	return lastErr
}

type accountStateResult struct {
	ScriptHash string                `json:"script_hash"`
	Balances   []entity.AssetBalance `json:"balances"`
}

// GetAccountState implements port.LedgerClient.
func (c *NeoRPCClient) GetAccountState(ctx context.Context, address string) (entity.AccountState, error) {
	var res accountStateResult
	if err := c.call(ctx, &res, "getaccountstate", address); err != nil {
		return entity.AccountState{}, entity.NewNetworkError("getaccountstate", err)
	}
	return entity.AccountState{Address: address, Balances: res.Balances}, nil
}

// GetBlockCount implements port.LedgerClient.
func (c *NeoRPCClient) GetBlockCount(ctx context.Context) (int64, error) {
	var count int64
	if err := c.call(ctx, &count, "getblockcount"); err != nil {
		return 0, entity.NewNetworkError("getblockcount", err)
	}
	return count, nil
}

// GetRawTransaction implements port.LedgerClient.
func (c *NeoRPCClient) GetRawTransaction(ctx context.Context, hash string) (entity.LedgerTransactionDetail, error) {
	var tx rawTransaction
	if err := c.call(ctx, &tx, "getrawtransaction", prefixed(hash), 1); err != nil {
		return entity.LedgerTransactionDetail{}, entity.NewNetworkError("getrawtransaction", err)
	}
	return tx.toDetail(), nil
}

// ResolveInputs implements port.LedgerClient. Source transactions are
// fetched in batches of at most maxBatchSize.
func (c *NeoRPCClient) ResolveInputs(ctx context.Context, detail *entity.LedgerTransactionDetail) error {
	if len(detail.Inputs) == 0 {
		return nil
	}

	order := make([]string, 0, len(detail.Inputs))
	sources := make(map[string]*rawTransaction, len(detail.Inputs))
	for _, in := range detail.Inputs {
		key := entity.NormalizeHash(in.TxID)
		if _, seen := sources[key]; seen {
			continue
		}
		sources[key] = new(rawTransaction)
		order = append(order, key)
	}

	elems := make([]rpc.BatchElem, len(order))
	for i, key := range order {
		elems[i] = rpc.BatchElem{
			Method: "getrawtransaction",
			Args:   []any{prefixed(key), 1},
			Result: sources[key],
		}
	}
	for _, chunk := range utils.Batch(elems, maxBatchSize) {
		if err := c.batch(ctx, "getrawtransaction_batch", chunk); err != nil {
			return entity.NewNetworkError("getrawtransaction", err)
		}
	}

	failed := make(map[string]error)
	for i, elem := range elems {
		if elem.Error != nil {
			failed[order[i]] = elem.Error
		}
	}

	for i := range detail.Inputs {
		in := &detail.Inputs[i]
		key := entity.NormalizeHash(in.TxID)
		if err, bad := failed[key]; bad {
			return &entity.ReconciliationGapError{Hash: detail.Hash, TxID: in.TxID, Vout: in.Vout, Err: err}
		}
		out, ok := sources[key].output(in.Vout)
		if !ok {
			return &entity.ReconciliationGapError{Hash: detail.Hash, TxID: in.TxID, Vout: in.Vout}
		}
		in.Address = out.Address
		in.AssetID = out.AssetID
		in.Symbol = out.Symbol
		in.Value = out.Value
	}
	return nil
}

func prefixed(hash string) string {
	return "0x" + entity.NormalizeHash(hash)
}

func trimHex(s string) string {
	return strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
}
