package port

import (
	"context"

	"neo_wallet/internal/domain/entity"
)

// SigningBackend builds, signs and relays transactions.
type SigningBackend interface {
	BuildAndBroadcast(ctx context.Context, intent entity.BroadcastIntent, key entity.KeySource) (*entity.BroadcastResult, error)
}
