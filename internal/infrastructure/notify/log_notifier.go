package notify

import (
	"sync"
	"time"

	"neo_wallet/internal/app/port"
	"neo_wallet/internal/domain/entity"
)

const defaultCapacity = 100

// LogNotifier implements port.Notifier by logging every message and keeping
// the most recent ones for the API.
type LogNotifier struct {
	logger port.Logger
	now    func() time.Time

	mu    sync.Mutex
	ring  []entity.Notification
	next  int
	count int
}

// NewLogNotifier creates a notifier that remembers up to capacity messages.
func NewLogNotifier(logger port.Logger, capacity int) *LogNotifier {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &LogNotifier{
		logger: logger.With("component", "notifier"),
		now:    time.Now,
		ring:   make([]entity.Notification, capacity),
	}
}

// Notify implements port.Notifier.
func (n *LogNotifier) Notify(kind entity.NotificationKind, message string) {
	switch kind {
	case entity.NotifyError, entity.NotifyNetworkError:
		n.logger.Error(message, "kind", string(kind))
	default:
		n.logger.Info(message, "kind", string(kind))
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.ring[n.next] = entity.Notification{Kind: kind, Message: message, At: n.now()}
	n.next = (n.next + 1) % len(n.ring)
	if n.count < len(n.ring) {
		n.count++
	}
}

// Recent returns the remembered notifications, oldest first.
func (n *LogNotifier) Recent() []entity.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]entity.Notification, 0, n.count)
	start := (n.next - n.count + len(n.ring)) % len(n.ring)
	for i := 0; i < n.count; i++ {
		out = append(out, n.ring[(start+i)%len(n.ring)])
	}
	return out
}

var (
	_ port.Notifier        = (*LogNotifier)(nil)
	_ port.NotificationLog = (*LogNotifier)(nil)
)
