package service

import (
	"context"
	"strings"
	"time"

	"neo_wallet/internal/app/port"
	"neo_wallet/internal/domain/entity"

	"github.com/patrickmn/go-cache"
)

// ValuationService caches valuations of the pricing backend per symbol and currency.
type ValuationService struct {
	pricing port.PricingService
	cache   *cache.Cache
	logger  port.Logger
}

// NewValuationService creates a new ValuationService.
func NewValuationService(pricing port.PricingService, ttl, cleanup time.Duration, l port.Logger) *ValuationService {
	s := &ValuationService{
		pricing: pricing,
		cache:   cache.New(ttl, cleanup),
		logger:  l.With("component", "ValuationService"),
	}
	s.logger.Info("ValuationService успешно инициализирован.", "ttl", ttl.String())
	return s
}

func valuationKey(symbol, currency string) string {
	return strings.ToUpper(symbol) + "|" + strings.ToUpper(currency)
}

// GetValuation implements port.PricingService. Failures are not cached.
func (s *ValuationService) GetValuation(ctx context.Context, symbol, currency string) (entity.Valuation, error) {
	key := valuationKey(symbol, currency)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(entity.Valuation), nil
	}

	v, err := s.pricing.GetValuation(ctx, symbol, currency)
	if err != nil {
		s.logger.Warn("Failed to fetch valuation", "symbol", symbol, "currency", currency, "error", err)
		return entity.Valuation{}, err
	}
	s.cache.SetDefault(key, v)
	s.logger.Debug("Cached valuation", "symbol", symbol, "currency", currency)
	return v, nil
}

var _ port.PricingService = (*ValuationService)(nil)
