package state

import (
	"sync"

	"neo_wallet/internal/app/port"
	"neo_wallet/internal/domain/entity"
)

const subscriberBuffer = 8

// MemoryStore implements port.StateStore in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	wallet   entity.Wallet
	network  entity.NetworkDefinition
	currency string

	gasClaim    entity.GasClaim
	subscribers map[int]chan entity.GasClaim
	nextSubID   int

	sendInProgress bool
	holdings       *entity.Holdings
	recent         []entity.MovementRecord
}

// NewMemoryStore creates a store for the given wallet, network and display currency.
func NewMemoryStore(wallet entity.Wallet, network entity.NetworkDefinition, currency string) *MemoryStore {
	return &MemoryStore{
		wallet:      wallet,
		network:     network,
		currency:    currency,
		subscribers: make(map[int]chan entity.GasClaim),
	}
}

func (s *MemoryStore) CurrentWallet() entity.Wallet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wallet
}

func (s *MemoryStore) CurrentNetwork() entity.NetworkDefinition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.network
}

func (s *MemoryStore) CurrentCurrency() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currency
}

// PublishGasClaim implements port.StateStore. Slow subscribers lose the
// oldest pending snapshot, never the newest.
func (s *MemoryStore) PublishGasClaim(claim entity.GasClaim) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gasClaim = claim
	for _, ch := range s.subscribers {
		select {
		case ch <- claim:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- claim
		}
	}
}

func (s *MemoryStore) GasClaim() entity.GasClaim {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gasClaim
}

// SubscribeGasClaim implements port.StateStore.
func (s *MemoryStore) SubscribeGasClaim() (<-chan entity.GasClaim, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	ch := make(chan entity.GasClaim, subscriberBuffer)
	s.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subscribers, id)
			close(ch)
		})
	}
}

func (s *MemoryStore) SetSendInProgress(inProgress bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendInProgress = inProgress
}

func (s *MemoryStore) SendInProgress() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sendInProgress
}

func (s *MemoryStore) SetHoldings(h *entity.Holdings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holdings = copyHoldings(h)
}

func (s *MemoryStore) Holdings() *entity.Holdings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyHoldings(s.holdings)
}

func copyHoldings(h *entity.Holdings) *entity.Holdings {
	if h == nil {
		return nil
	}
	cp := *h
	cp.Holdings = append([]entity.Holding(nil), h.Holdings...)
	return &cp
}

func (s *MemoryStore) SetRecentTransactions(txs []entity.MovementRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent = append([]entity.MovementRecord(nil), txs...)
}

func (s *MemoryStore) RecentTransactions() []entity.MovementRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.MovementRecord(nil), s.recent...)
}

var _ port.StateStore = (*MemoryStore)(nil)
