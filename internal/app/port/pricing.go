package port

import (
	"context"

	"neo_wallet/internal/domain/entity"
)

// PricingService returns market data for a symbol in a display currency.
type PricingService interface {
	GetValuation(ctx context.Context, symbol, currency string) (entity.Valuation, error)
}
