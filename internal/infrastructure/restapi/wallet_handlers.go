package restapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"neo_wallet/internal/app/port"
	"neo_wallet/internal/domain/entity"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// WalletHandler обрабатывает HTTP запросы кошелька.
type WalletHandler struct {
	holdings      port.HoldingsAggregator
	history       port.HistoryReconciler
	transfers     port.TransferOrchestrator
	monitor       port.ConfirmationMonitor
	claims        port.GasClaimWorkflow
	claimFeed     port.GasClaimFeed
	notifications port.NotificationLog
	logger        port.Logger
	// baseCtx outlives requests; background confirmation and claim work uses it.
	baseCtx context.Context
}

// WalletServices groups the services served over HTTP.
type WalletServices struct {
	Holdings      port.HoldingsAggregator
	History       port.HistoryReconciler
	Transfers     port.TransferOrchestrator
	Monitor       port.ConfirmationMonitor
	Claims        port.GasClaimWorkflow
	ClaimFeed     port.GasClaimFeed
	Notifications port.NotificationLog
}

// NewWalletHandler создает новый экземпляр WalletHandler.
func NewWalletHandler(baseCtx context.Context, services WalletServices, l port.Logger) *WalletHandler {
	return &WalletHandler{
		holdings:      services.Holdings,
		history:       services.History,
		transfers:     services.Transfers,
		monitor:       services.Monitor,
		claims:        services.Claims,
		claimFeed:     services.ClaimFeed,
		notifications: services.Notifications,
		logger:        l.With("component", "WalletHandler"),
		baseCtx:       baseCtx,
	}
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var validation *entity.ValidationError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrClaimRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, entity.ErrBroadcastFailed), entity.IsNetworkError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *WalletHandler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, errorResponse{Error: err.Error()})
}

// GetHoldingsHandler отдает оцененные активы адреса.
// GET /api/v1/holdings/:address?symbol=NEO
func (h *WalletHandler) GetHoldingsHandler(c *gin.Context) {
	holdings, err := h.holdings.GetHoldings(c.Request.Context(), c.Param("address"), c.Query("symbol"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, holdings)
}

// parseTime accepts RFC 3339 or unix seconds.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0), nil
	}
	return time.Parse(time.RFC3339, s)
}

func parseBlock(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

// GetTransactionsHandler отдает историю движений адреса.
// GET /api/v1/transactions/:address?fromDate=&toDate=&fromBlock=&toBlock=
func (h *WalletHandler) GetTransactionsHandler(c *gin.Context) {
	q := entity.HistoryQuery{Address: c.Param("address")}

	var err error
	if q.FromDate, err = parseTime(c.Query("fromDate")); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid fromDate: " + err.Error()})
		return
	}
	if q.ToDate, err = parseTime(c.Query("toDate")); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid toDate: " + err.Error()})
		return
	}
	if q.FromBlock, err = parseBlock(c.Query("fromBlock")); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid fromBlock: " + err.Error()})
		return
	}
	if q.ToBlock, err = parseBlock(c.Query("toBlock")); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid toBlock: " + err.Error()})
		return
	}

	records, err := h.history.GetRecentTransactions(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": records})
}

// TransferRequest is the body of POST /transfers.
type TransferRequest struct {
	ToAddress string          `json:"toAddress" binding:"required"`
	AssetID   string          `json:"assetId" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
	IsToken   bool            `json:"isNep5"`
}

// PostTransferHandler отправляет перевод и следит за подтверждением в фоне.
// POST /api/v1/transfers
func (h *WalletHandler) PostTransferHandler(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "amount must be positive"})
		return
	}

	asset := entity.Native(strings.TrimSpace(req.AssetID))
	if req.IsToken {
		asset = entity.Token(strings.TrimSpace(req.AssetID))
	}
	tx, err := h.transfers.Broadcast(c.Request.Context(), entity.TransferIntent{
		ToAddress: req.ToAddress,
		Asset:     asset,
		Amount:    req.Amount,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	go func(hash string) {
		if _, err := h.monitor.AwaitConfirmation(h.baseCtx, hash); err != nil {
			h.logger.Warn("Stopped waiting for confirmation", "hash", hash, "error", err)
		}
	}(tx.Hash)

	c.JSON(http.StatusAccepted, tx)
}

// claimResponse is the JSON view of the current GAS claim.
type claimResponse struct {
	Step              entity.GasClaimStep `json:"step"`
	NEOTransferAmount decimal.Decimal     `json:"neoTransferAmount"`
	GASClaimAmount    decimal.Decimal     `json:"gasClaimAmount"`
	Error             string              `json:"error,omitempty"`
	Done              bool                `json:"done"`
}

func newClaimResponse(c entity.GasClaim) claimResponse {
	return claimResponse{
		Step:              c.Step,
		NEOTransferAmount: c.NEOTransferAmount,
		GASClaimAmount:    c.GASClaimAmount,
		Error:             c.ErrorMessage(),
		Done:              c.Done(),
	}
}

// PostClaimHandler запускает получение GAS.
// POST /api/v1/claims
func (h *WalletHandler) PostClaimHandler(c *gin.Context) {
	if err := h.claims.Start(h.baseCtx); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, newClaimResponse(h.claims.Current()))
}

// GetCurrentClaimHandler отдает состояние последнего получения GAS.
// GET /api/v1/claims/current
func (h *WalletHandler) GetCurrentClaimHandler(c *gin.Context) {
	c.JSON(http.StatusOK, newClaimResponse(h.claims.Current()))
}

// StreamClaimHandler отдает прогресс получения GAS как server-sent events.
// The stream ends once the claim is confirmed or failed.
// GET /api/v1/claims/stream
func (h *WalletHandler) StreamClaimHandler(c *gin.Context) {
	updates, cancel := h.claimFeed.SubscribeGasClaim()
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	send := func(claim entity.GasClaim) bool {
		c.SSEvent("claim", newClaimResponse(claim))
		c.Writer.Flush()
		return !claim.Done()
	}

	if !send(h.claims.Current()) {
		return
	}
	for {
		select {
		case <-c.Request.Context().Done():
			return
		case claim, ok := <-updates:
			if !ok || !send(claim) {
				return
			}
		}
	}
}

// GetNotificationsHandler отдает последние уведомления.
// GET /api/v1/notifications
func (h *WalletHandler) GetNotificationsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notifications": h.notifications.Recent()})
}
