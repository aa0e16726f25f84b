package port

import "neo_wallet/internal/domain/entity"

// Notifier delivers user-facing messages.
type Notifier interface {
	Notify(kind entity.NotificationKind, message string)
}
