package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"neo_wallet/internal/app/port"
	"neo_wallet/internal/domain/entity"
	"neo_wallet/internal/pkg/metrics"
	"neo_wallet/internal/pkg/utils"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// HoldingsService implements port.HoldingsAggregator.
type HoldingsService struct {
	clients               port.LedgerClientProvider
	explorer              port.ExplorerClient
	catalog               port.AssetCatalog
	pricing               port.PricingService
	state                 port.StateStore
	notifier              port.Notifier
	logger                port.Logger
	maxConcurrentRoutines int
}

// NewHoldingsService creates a new instance of HoldingsService.
func NewHoldingsService(
	clients port.LedgerClientProvider,
	explorer port.ExplorerClient,
	catalog port.AssetCatalog,
	pricing port.PricingService,
	state port.StateStore,
	notifier port.Notifier,
	l port.Logger,
	maxRoutines int,
) *HoldingsService {
	if maxRoutines <= 0 {
		maxRoutines = 1
	}
	return &HoldingsService{
		clients:               clients,
		explorer:              explorer,
		catalog:               catalog,
		pricing:               pricing,
		state:                 state,
		notifier:              notifier,
		logger:                l.With("component", "HoldingsService"),
		maxConcurrentRoutines: maxRoutines,
	}
}

// GetHoldings implements port.HoldingsAggregator.
func (s *HoldingsService) GetHoldings(ctx context.Context, address, symbolFilter string) (*entity.Holdings, error) {
	address = strings.TrimSpace(address)
	network := s.state.CurrentNetwork()
	s.logger.Debug("Fetching holdings", "address", address, "network", network.Name, "symbol_filter", symbolFilter)

	client, err := s.clients.GetClient(network)
	if err != nil {
		return nil, fmt.Errorf("get ledger client for %s: %w", network.Name, err)
	}
	account, err := client.GetAccountState(ctx, address)
	if err != nil {
		s.logger.Error("Failed to read account state", "address", address, "error", err)
		return nil, err
	}

	holdings := nativeHoldings(account)

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(s.maxConcurrentRoutines)

	g.Go(func() error {
		claimable, err := s.explorer.GetClaimableAmount(ctx, address)
		if err != nil {
			s.logger.Warn("Failed to fetch claimable GAS", "address", address, "error", err)
			s.notifier.Notify(entity.NotifyNetworkError, err.Error())
			return nil
		}
		mu.Lock()
		defer mu.Unlock()
		for i := range holdings {
			if holdings[i].Symbol == entity.NEOSymbol && !holdings[i].IsToken {
				holdings[i].AvailableToClaim = decimal.NewNullDecimal(claimable)
			}
		}
		return nil
	})

	for _, token := range s.catalog.TokensForNetwork(network.Name) {
		g.Go(func() error {
			h, ok, err := s.tokenHolding(ctx, network.Name, token, address)
			if err != nil {
				return err
			}
			if ok {
				mu.Lock()
				holdings = append(holdings, h)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("Holdings aggregation failed", "address", address, "error", err)
		return nil, err
	}

	if symbolFilter != "" {
		filtered := holdings[:0]
		for _, h := range holdings {
			if strings.EqualFold(h.Symbol, symbolFilter) {
				filtered = append(filtered, h)
			}
		}
		holdings = filtered
	}

	s.enrich(ctx, holdings)

	sort.SliceStable(holdings, func(i, j int) bool {
		return strings.ToLower(holdings[i].Symbol) < strings.ToLower(holdings[j].Symbol)
	})

	result := aggregate(holdings)
	// only the active wallet's unfiltered holdings back the GAS precheck
	if symbolFilter == "" && address == s.state.CurrentWallet().Address {
		s.state.SetHoldings(result)
	}
	s.logger.Info("Holdings fetched", "address", address, "count", len(result.Holdings), "total_balance", result.TotalBalance.String())
	return result, nil
}

// nativeHoldings converts the node balances and injects zero entries for
// missing system assets.
func nativeHoldings(account entity.AccountState) []entity.Holding {
	balances := make(map[string]decimal.Decimal, len(entity.NativeAssets))
	for _, b := range account.Balances {
		if asset, ok := entity.LookupNativeAsset(b.AssetID); ok {
			balances[asset.ID] = balances[asset.ID].Add(b.Value)
		}
	}

	holdings := make([]entity.Holding, 0, len(entity.NativeAssets))
	for _, asset := range entity.NativeAssets {
		holdings = append(holdings, entity.Holding{
			AssetID: asset.ID,
			Symbol:  asset.Symbol,
			Name:    asset.Name,
			Balance: balances[asset.ID],
		})
	}
	return holdings
}

// tokenHolding looks up one catalog token. The bool is false when the token
// must not appear in the result.
func (s *HoldingsService) tokenHolding(ctx context.Context, network string, token entity.TokenInfo, address string) (entity.Holding, bool, error) {
	res, err := s.explorer.GetTokenBalance(ctx, network, token.AssetID, address)
	if err != nil {
		metrics.IncTokenLookup("error")
		return entity.Holding{}, false, fmt.Errorf("token %s (%s): %w", token.Symbol, token.AssetID, err)
	}
	metrics.IncTokenLookup(res.Status.String())

	switch res.Status {
	case entity.TokenBalanceNotFound:
		s.logger.Warn("Token no longer resolves, removing from catalog", "asset_id", token.AssetID, "symbol", token.Symbol, "network", network)
		s.catalog.RemoveToken(token.AssetID, network)
		return entity.Holding{}, false, nil
	case entity.TokenBalanceTransient:
		s.logger.Warn("Token balance lookup failed", "asset_id", token.AssetID, "symbol", token.Symbol, "error", res.Err)
		if res.Err != nil {
			s.notifier.Notify(entity.NotifyNetworkError, res.Err.Error())
		}
		if !token.IsCustom {
			return entity.Holding{}, false, nil
		}
		return entity.Holding{
			AssetID:       token.AssetID,
			Symbol:        token.Symbol,
			Name:          token.Symbol,
			Balance:       decimal.Zero,
			IsToken:       true,
			IsCustomToken: true,
		}, true, nil
	}

	if !res.Balance.Balance.IsPositive() && !token.IsCustom {
		return entity.Holding{}, false, nil
	}
	return entity.Holding{
		AssetID:       token.AssetID,
		Symbol:        res.Balance.Symbol,
		Name:          res.Balance.Name,
		Balance:       res.Balance.Balance,
		IsToken:       true,
		IsCustomToken: token.IsCustom,
	}, true, nil
}

// enrich fetches valuations for every holding. Failures leave the fields unset.
func (s *HoldingsService) enrich(ctx context.Context, holdings []entity.Holding) {
	currency := s.state.CurrentCurrency()

	g := new(errgroup.Group)
	g.SetLimit(s.maxConcurrentRoutines)
	for i := range holdings {
		g.Go(func() error {
			v, err := s.pricing.GetValuation(ctx, holdings[i].Symbol, currency)
			if err != nil {
				s.notifier.Notify(entity.NotifyNetworkError, err.Error())
				return nil
			}
			applyValuation(&holdings[i], v)
			return nil
		})
	}
	_ = g.Wait()
}

func applyValuation(h *entity.Holding, v entity.Valuation) {
	h.TotalSupply = v.TotalSupply
	h.MarketCap = v.MarketCap
	h.UnitValue = v.Price
	h.Change24hPercent = v.PercentChange24h

	if !v.Price.Valid {
		h.TotalValue = decimal.NullDecimal{}
		h.Change24hPercent = decimal.NullDecimal{}
		h.Change24hValue = decimal.NullDecimal{}
		return
	}

	price := v.Price.Decimal
	h.TotalValue = decimal.NewNullDecimal(price.Mul(h.Balance))
	if !v.PercentChange24h.Valid {
		return
	}
	before, ok := utils.PriceBefore(price, v.PercentChange24h.Decimal)
	if !ok {
		return
	}
	h.UnitValue24hAgo = decimal.NewNullDecimal(before)
	h.Change24hValue = decimal.NewNullDecimal(price.Mul(h.Balance).Sub(before.Mul(h.Balance)))
}

func aggregate(holdings []entity.Holding) *entity.Holdings {
	res := &entity.Holdings{Holdings: holdings}
	for _, h := range holdings {
		if h.TotalValue.Valid {
			res.TotalBalance = res.TotalBalance.Add(h.TotalValue.Decimal)
		}
		if h.Change24hValue.Valid {
			res.Change24hValue = res.Change24hValue.Add(h.Change24hValue.Decimal)
		}
	}
	if pct, ok := utils.PercentChange(res.TotalBalance, res.TotalBalance.Sub(res.Change24hValue)); ok {
		res.Change24hPercent = utils.Round2(pct)
	}
	return res
}

var _ port.HoldingsAggregator = (*HoldingsService)(nil)
