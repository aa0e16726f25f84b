package service

import (
	"context"
	"sync"
	"time"

	"neo_wallet/internal/app/port"
	"neo_wallet/internal/domain/entity"
	"neo_wallet/internal/pkg/metrics"

	"github.com/shopspring/decimal"
)

// GasClaimService implements port.GasClaimWorkflow.
//
// A claim moves the whole NEO balance to the wallet itself so that pending
// GAS becomes claimable, then claims it. Each transition is published to the
// state store.
type GasClaimService struct {
	holdings  port.HoldingsAggregator
	transfers port.TransferOrchestrator
	explorer  port.ExplorerClient
	signer    port.SigningBackend
	monitor   port.ConfirmationMonitor
	history   port.HistoryReconciler
	state     port.StateStore
	notifier  port.Notifier
	logger    port.Logger

	hardwareSign entity.SigningFunc
	interval     time.Duration
	settleDelay  time.Duration
	now          func() time.Time

	mu        sync.Mutex
	claim     entity.GasClaim
	attempt   int
	lastClaim time.Time
}

// GasClaimDeps groups the collaborators of GasClaimService.
type GasClaimDeps struct {
	Holdings  port.HoldingsAggregator
	Transfers port.TransferOrchestrator
	Explorer  port.ExplorerClient
	Signer    port.SigningBackend
	Monitor   port.ConfirmationMonitor
	History   port.HistoryReconciler
	State     port.StateStore
	Notifier  port.Notifier
}

// NewGasClaimService creates a new GasClaimService.
func NewGasClaimService(deps GasClaimDeps, l port.Logger, hardwareSign entity.SigningFunc, interval, settleDelay time.Duration) *GasClaimService {
	return &GasClaimService{
		holdings:     deps.Holdings,
		transfers:    deps.Transfers,
		explorer:     deps.Explorer,
		signer:       deps.Signer,
		monitor:      deps.Monitor,
		history:      deps.History,
		state:        deps.State,
		notifier:     deps.Notifier,
		logger:       l.With("component", "GasClaimService"),
		hardwareSign: hardwareSign,
		interval:     interval,
		settleDelay:  settleDelay,
		now:          time.Now,
	}
}

// Current implements port.GasClaimWorkflow.
func (s *GasClaimService) Current() entity.GasClaim {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.claim
}

// Claim implements port.GasClaimWorkflow. It blocks until the claim is
// confirmed or failed.
func (s *GasClaimService) Claim(ctx context.Context) error {
	attempt, err := s.begin()
	if err != nil {
		return err
	}
	return s.finish(ctx, attempt)
}

// Start implements port.GasClaimWorkflow. The workflow runs in the
// background; only a rate-limit rejection is returned.
func (s *GasClaimService) Start(ctx context.Context) error {
	attempt, err := s.begin()
	if err != nil {
		return err
	}
	go func() {
		_ = s.finish(ctx, attempt)
	}()
	return nil
}

func (s *GasClaimService) begin() (int, error) {
	attempt, err := s.start()
	if err != nil {
		s.logger.Warn("Claim rejected", "error", err)
		s.notifier.Notify(entity.NotifyError, err.Error())
		metrics.IncGasClaim("rate_limited")
		return 0, err
	}
	return attempt, nil
}

func (s *GasClaimService) finish(ctx context.Context, attempt int) error {
	if err := s.run(ctx, attempt); err != nil {
		s.fail(attempt, err)
		metrics.IncGasClaim("failed")
		return err
	}
	metrics.IncGasClaim("confirmed")
	return nil
}

// start checks the rate limit and resets the claim record.
func (s *GasClaimService) start() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if !s.lastClaim.IsZero() && now.Sub(s.lastClaim) < s.interval {
		return 0, entity.ErrClaimRateLimited
	}
	s.lastClaim = now
	s.attempt++
	s.claim = entity.GasClaim{Step: entity.GasClaimInitialized}
	s.state.PublishGasClaim(s.claim)
	return s.attempt, nil
}

// update applies fn to the claim of the given attempt and publishes the result.
func (s *GasClaimService) update(attempt int, fn func(c *entity.GasClaim)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if attempt != s.attempt {
		return
	}
	fn(&s.claim)
	s.state.PublishGasClaim(s.claim)
}

func (s *GasClaimService) fail(attempt int, err error) {
	s.mu.Lock()
	if attempt == s.attempt {
		s.lastClaim = time.Time{}
	}
	s.mu.Unlock()

	s.update(attempt, func(c *entity.GasClaim) { c.Err = err })
	s.logger.Error("GAS claim failed", "error", err)

	kind := entity.NotifyError
	if entity.IsNetworkError(err) {
		kind = entity.NotifyNetworkError
	}
	s.notifier.Notify(kind, err.Error())
}

func (s *GasClaimService) run(ctx context.Context, attempt int) error {
	wallet := s.state.CurrentWallet()

	holdings, err := s.holdings.GetHoldings(ctx, wallet.Address, entity.NEOSymbol)
	if err != nil {
		return err
	}
	neo, _ := holdings.Find(entity.NEOSymbol)
	s.update(attempt, func(c *entity.GasClaim) {
		c.NEOTransferAmount = neo.Balance
		c.Step = entity.GasClaimHoldingsRead
	})
	s.logger.Info("Starting GAS claim", "address", wallet.Address, "neo_balance", neo.Balance.String())

	if neo.Balance.IsPositive() {
		selfTransferred := func() {
			s.update(attempt, func(c *entity.GasClaim) {
				if c.Step == entity.GasClaimHoldingsRead {
					c.Step = entity.GasClaimSelfTransferSent
				}
			})
		}
		_, err := s.transfers.Send(ctx, entity.TransferIntent{
			ToAddress: wallet.Address,
			Asset:     entity.Native(entity.NEOAssetID),
			Amount:    neo.Balance,
			Callback:  selfTransferred,
		})
		if err != nil {
			return err
		}
		if s.Current().Step == entity.GasClaimHoldingsRead {
			selfTransferred()
		}

		if err := sleep(ctx, s.settleDelay); err != nil {
			return err
		}
	}

	return s.claimGAS(ctx, attempt, wallet)
}

func (s *GasClaimService) claimGAS(ctx context.Context, attempt int, wallet entity.Wallet) error {
	claimable, err := s.explorer.GetClaimableAmount(ctx, wallet.Address)
	if err != nil {
		return err
	}
	s.update(attempt, func(c *entity.GasClaim) {
		c.GASClaimAmount = claimable
		c.Step = entity.GasClaimAmountComputed
	})

	network := s.state.CurrentNetwork()
	res, err := s.signer.BuildAndBroadcast(ctx, entity.BroadcastIntent{
		Kind:    entity.IntentClaim,
		From:    wallet.Address,
		To:      wallet.Address,
		Amounts: map[string]decimal.Decimal{entity.GASSymbol: claimable},
		Network: network.Name,
	}, wallet.KeySource(s.hardwareSign))
	if err != nil {
		return err
	}
	if res == nil || res.Tx == nil || res.Tx.Hash == "" {
		return entity.ErrBroadcastFailed
	}
	s.update(attempt, func(c *entity.GasClaim) { c.Step = entity.GasClaimBroadcast })
	s.logger.Info("Claim transaction sent", "hash", res.Tx.Hash, "amount", claimable.String())

	if _, err := s.monitor.AwaitConfirmation(ctx, res.Tx.Hash); err != nil {
		return err
	}
	if err := s.history.Refresh(ctx); err != nil {
		s.logger.Warn("History refresh after claim failed", "error", err)
	}
	s.update(attempt, func(c *entity.GasClaim) { c.Step = entity.GasClaimConfirmed })
	return nil
}

var _ port.GasClaimWorkflow = (*GasClaimService)(nil)
