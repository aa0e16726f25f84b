package service

import (
	"context"
	"time"

	"neo_wallet/internal/infrastructure/configloader"
)

// Timings are the fixed waits of the write paths.
type Timings struct {
	ConfirmationInitialDelay time.Duration
	ConfirmationPollInterval time.Duration
	CallbackDelay            time.Duration
	ClaimSettleDelay         time.Duration
	ClaimInterval            time.Duration
	HistorySyncInterval      time.Duration
}

// TimingsFromConfig converts the configured millisecond values.
func TimingsFromConfig(cfg *configloader.Config) Timings {
	t := cfg.Timeouts
	return Timings{
		ConfirmationInitialDelay: configloader.Duration(t.ConfirmationInitialDelayMs),
		ConfirmationPollInterval: configloader.Duration(t.ConfirmationPollIntervalMs),
		CallbackDelay:            configloader.Duration(t.CallbackDelayMs),
		ClaimSettleDelay:         configloader.Duration(t.ClaimSettleDelayMs),
		ClaimInterval:            configloader.Duration(t.ClaimIntervalMs),
		HistorySyncInterval:      configloader.Duration(t.HistorySyncIntervalMs),
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
