package service

import (
	"context"
	"testing"
	"time"

	"neo_wallet/internal/domain/entity"
	"neo_wallet/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValuationServiceCachesPerCurrency(t *testing.T) {
	backend := &fakePricing{values: map[string]entity.Valuation{"NEO": valuation("40", "1")}}
	svc := NewValuationService(backend, time.Minute, time.Minute, logger.NewNop())
	ctx := context.Background()

	v, err := svc.GetValuation(ctx, "NEO", "USD")
	require.NoError(t, err)
	assert.Equal(t, "40", v.Price.Decimal.String())
	_, err = svc.GetValuation(ctx, "neo", "usd")
	require.NoError(t, err)
	assert.Equal(t, 1, backend.calls)

	v, err = svc.GetValuation(ctx, "NEO", "EUR")
	require.NoError(t, err)
	assert.Equal(t, "EUR", v.Currency)
	assert.Equal(t, 2, backend.calls)

	_, err = svc.GetValuation(ctx, "XYZ", "USD")
	require.Error(t, err)
	_, err = svc.GetValuation(ctx, "XYZ", "USD")
	require.Error(t, err)
	assert.Equal(t, 4, backend.calls)
}
