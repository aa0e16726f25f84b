package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"neo_wallet/internal/app/port"
	"neo_wallet/internal/domain/entity"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// NetworkSource returns the network requests are made against.
type NetworkSource interface {
	CurrentNetwork() entity.NetworkDefinition
}

// ExplorerClient implements port.ExplorerClient on top of the APH indexer
// (tokens, NEP-5 transfers) and neoscan (claimable GAS, address history).
// Token balances are read from the node through tokens.
type ExplorerClient struct {
	rest     *restClient
	network  NetworkSource
	networks port.NetworkDefinitionProvider
	tokens   port.TokenBalanceReader
}

// NewExplorerClient creates a new ExplorerClient.
func NewExplorerClient(
	network NetworkSource,
	networks port.NetworkDefinitionProvider,
	tokens port.TokenBalanceReader,
	timeout time.Duration,
	limiter *rate.Limiter,
	logger *zap.Logger,
) *ExplorerClient {
	return &ExplorerClient{
		rest:     newRestClient("explorer", timeout, limiter, logger.Named("ExplorerClient")),
		network:  network,
		networks: networks,
		tokens:   tokens,
	}
}

// GetTokenBalance implements port.TokenBalanceReader.
func (c *ExplorerClient) GetTokenBalance(ctx context.Context, network, assetID, address string) (entity.TokenBalanceResult, error) {
	return c.tokens.GetTokenBalance(ctx, network, assetID, address)
}

type transferDTO struct {
	TransactionHash string          `json:"transactionHash"`
	BlockIndex      int64           `json:"blockIndex"`
	BlockTime       int64           `json:"blockTime"`
	FromAddress     string          `json:"fromAddress"`
	ToAddress       string          `json:"toAddress"`
	Symbol          string          `json:"symbol"`
	Received        decimal.Decimal `json:"received"`
	Sent            decimal.Decimal `json:"sent"`
}

type transfersResponse struct {
	Transfers []transferDTO `json:"transfers"`
}

// GetTokenTransfers implements port.ExplorerClient.
func (c *ExplorerClient) GetTokenTransfers(ctx context.Context, address string, q entity.TransferQuery) ([]entity.TokenTransferRecord, error) {
	net := c.network.CurrentNetwork()
	if net.IndexerURL == "" {
		return nil, fmt.Errorf("network %s has no indexer configured", net.Name)
	}

	params := url.Values{}
	if q.FromTimestamp > 0 {
		params.Set("fromTimestamp", strconv.FormatInt(q.FromTimestamp, 10))
	}
	if q.ToTimestamp > 0 {
		params.Set("toTimestamp", strconv.FormatInt(q.ToTimestamp, 10))
	}
	if q.FromBlock > 0 {
		params.Set("fromBlock", strconv.FormatInt(q.FromBlock, 10))
	}
	if q.ToBlock > 0 {
		params.Set("toBlock", strconv.FormatInt(q.ToBlock, 10))
	}
	requestURL := fmt.Sprintf("%s/transfers/%s", strings.TrimRight(net.IndexerURL, "/"), url.PathEscape(address))
	if encoded := params.Encode(); encoded != "" {
		requestURL += "?" + encoded
	}

	var res transfersResponse
	if err := c.rest.getJSON(ctx, "transfers", requestURL, &res); err != nil {
		return nil, entity.NewNetworkError("APH API transfers", err)
	}

	records := make([]entity.TokenTransferRecord, 0, len(res.Transfers))
	for _, t := range res.Transfers {
		records = append(records, entity.TokenTransferRecord{
			TransactionHash: entity.NormalizeHash(t.TransactionHash),
			BlockIndex:      t.BlockIndex,
			BlockTime:       t.BlockTime,
			FromAddress:     t.FromAddress,
			ToAddress:       t.ToAddress,
			Symbol:          t.Symbol,
			Received:        t.Received,
			Sent:            t.Sent,
		})
	}
	return records, nil
}

type tokensResponse struct {
	Tokens []struct {
		ScriptHash string `json:"scriptHash"`
		Symbol     string `json:"symbol"`
	} `json:"tokens"`
}

// GetKnownTokenList implements port.ExplorerClient.
func (c *ExplorerClient) GetKnownTokenList(ctx context.Context, network string) ([]entity.TokenInfo, error) {
	def, ok := c.networks.GetNetworkDefinitionByName(network)
	if !ok {
		return nil, fmt.Errorf("unknown network %s", network)
	}
	if def.IndexerURL == "" {
		return nil, fmt.Errorf("network %s has no indexer configured", def.Name)
	}

	var res tokensResponse
	if err := c.rest.getJSON(ctx, "tokens", strings.TrimRight(def.IndexerURL, "/")+"/tokens", &res); err != nil {
		return nil, entity.NewNetworkError("APH API tokens", err)
	}

	tokens := make([]entity.TokenInfo, 0, len(res.Tokens))
	for _, t := range res.Tokens {
		tokens = append(tokens, entity.TokenInfo{
			AssetID:  strings.TrimPrefix(t.ScriptHash, "0x"),
			Symbol:   t.Symbol,
			Network:  def.Name,
			IsCustom: false,
		})
	}
	return tokens, nil
}

type unclaimedResponse struct {
	Unclaimed decimal.Decimal `json:"unclaimed"`
	Address   string          `json:"address"`
}

// GetClaimableAmount implements port.ExplorerClient.
func (c *ExplorerClient) GetClaimableAmount(ctx context.Context, address string) (decimal.Decimal, error) {
	net := c.network.CurrentNetwork()
	requestURL := fmt.Sprintf("%s/v1/get_unclaimed/%s", strings.TrimRight(net.NeoscanURL, "/"), url.PathEscape(address))

	var res unclaimedResponse
	if err := c.rest.getJSON(ctx, "get_unclaimed", requestURL, &res); err != nil {
		return decimal.Zero, entity.NewNetworkError("neoscan get_unclaimed", err)
	}
	return res.Unclaimed, nil
}

type historyEntry struct {
	TxID        string `json:"txid"`
	BlockHeight int64  `json:"block_height"`
}

// GetTransactionHistory implements port.ExplorerClient.
func (c *ExplorerClient) GetTransactionHistory(ctx context.Context, address string) ([]entity.SystemTransaction, error) {
	net := c.network.CurrentNetwork()
	requestURL := fmt.Sprintf("%s/v1/get_last_transactions_by_address/%s", strings.TrimRight(net.NeoscanURL, "/"), url.PathEscape(address))

	var entries []historyEntry
	if err := c.rest.getJSON(ctx, "get_last_transactions_by_address", requestURL, &entries); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == 404 {
			return nil, entity.ErrEmptyHistory
		}
		return nil, entity.NewNetworkError("neoscan get_last_transactions_by_address", err)
	}
	if len(entries) == 0 {
		return nil, entity.ErrEmptyHistory
	}

	txs := make([]entity.SystemTransaction, 0, len(entries))
	for _, e := range entries {
		txs = append(txs, entity.SystemTransaction{TxID: entity.NormalizeHash(e.TxID), BlockHeight: e.BlockHeight})
	}
	return txs, nil
}
