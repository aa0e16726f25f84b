package httpclient

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"neo_wallet/internal/domain/entity"
	"neo_wallet/internal/pkg/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// tickerIDs maps symbols to ticker ids of the price API. Unknown symbols
// are looked up by their lower-cased symbol.
var tickerIDs = map[string]string{
	"NEO": "neo",
	"GAS": "gas",
	"APH": "aphelion",
}

// ValuationClient implements port.PricingService against a ticker API.
type ValuationClient struct {
	rest    *restClient
	baseURL string
}

// NewValuationClient creates a new ValuationClient.
func NewValuationClient(baseURL string, timeout time.Duration, limiter *rate.Limiter, logger *zap.Logger) *ValuationClient {
	return &ValuationClient{
		rest:    newRestClient("valuation", timeout, limiter, logger.Named("ValuationClient")),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func tickerID(symbol string) string {
	if id, ok := tickerIDs[strings.ToUpper(symbol)]; ok {
		return id
	}
	return strings.ToLower(symbol)
}

// GetValuation implements port.PricingService.
func (c *ValuationClient) GetValuation(ctx context.Context, symbol, currency string) (entity.Valuation, error) {
	cur := strings.ToLower(currency)
	requestURL := fmt.Sprintf("%s/ticker/%s/?convert=%s", c.baseURL, url.PathEscape(tickerID(symbol)), url.QueryEscape(strings.ToUpper(currency)))

	var tickers []map[string]any
	if err := c.rest.getJSON(ctx, "ticker", requestURL, &tickers); err != nil {
		return entity.Valuation{}, entity.NewNetworkError("valuation "+symbol, err)
	}
	if len(tickers) == 0 {
		return entity.Valuation{}, fmt.Errorf("no ticker for %s", symbol)
	}
	t := tickers[0]

	v := entity.Valuation{Symbol: symbol, Currency: strings.ToUpper(currency)}
	var err error
	if v.Price, err = nullDecimal(t["price_"+cur]); err != nil {
		return entity.Valuation{}, fmt.Errorf("ticker %s price: %w", symbol, err)
	}
	if v.MarketCap, err = nullDecimal(t["market_cap_"+cur]); err != nil {
		return entity.Valuation{}, fmt.Errorf("ticker %s market cap: %w", symbol, err)
	}
	if v.PercentChange24h, err = nullDecimal(t["percent_change_24h"]); err != nil {
		return entity.Valuation{}, fmt.Errorf("ticker %s change: %w", symbol, err)
	}
	if v.TotalSupply, err = nullDecimal(t["total_supply"]); err != nil {
		return entity.Valuation{}, fmt.Errorf("ticker %s supply: %w", symbol, err)
	}
	return v, nil
}

// nullDecimal converts a ticker field that may be a string, a number or null.
func nullDecimal(raw any) (decimal.NullDecimal, error) {
	switch v := raw.(type) {
	case nil:
		return decimal.NullDecimal{}, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return decimal.NullDecimal{}, nil
		}
		d, err := utils.ParseDecimal(v)
		if err != nil {
			return decimal.NullDecimal{}, err
		}
		return decimal.NewNullDecimal(d), nil
	case float64:
		return decimal.NewNullDecimal(decimal.NewFromFloat(v)), nil
	default:
		return decimal.NullDecimal{}, fmt.Errorf("unexpected value type %T", raw)
	}
}
