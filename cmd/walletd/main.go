package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"neo_wallet/internal/app/service"
	"neo_wallet/internal/domain/entity"
	"neo_wallet/internal/infrastructure/configloader"
	"neo_wallet/internal/infrastructure/httpclient"
	clientprovider "neo_wallet/internal/infrastructure/network/client"
	networkdefinition "neo_wallet/internal/infrastructure/network/definition"
	"neo_wallet/internal/infrastructure/notify"
	"neo_wallet/internal/infrastructure/restapi"
	"neo_wallet/internal/infrastructure/state"
	"neo_wallet/internal/infrastructure/tokencatalog"
	"neo_wallet/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := configloader.Load(configloader.ResolvePath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: не удалось загрузить конфигурацию: %v\n", err)
		os.Exit(1)
	}

	zapLogger, err := logger.InitLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to initialize zap logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Сервис кошелька NEO запускается...")
	appLogger := logger.NewSlogAdapter()

	netDefProvider := networkdefinition.NewNetworkDefinitionProvider(appLogger, cfg.Networks)
	activeNetwork, ok := netDefProvider.GetNetworkDefinitionByName(cfg.Network.Active)
	if !ok {
		logger.Fatal("Неизвестная сеть", "network", cfg.Network.Active)
	}
	logger.Info("Активная сеть", "network", activeNetwork.Name)

	store := state.NewMemoryStore(cfg.CurrentWallet(), activeNetwork, cfg.Display.Currency)
	notifier := notify.NewLogNotifier(appLogger, 0)

	clientProvider := clientprovider.NewNeoClientProvider(cfg, netDefProvider, zapLogger, appLogger.Info, appLogger.Error)
	defer clientProvider.Close()

	limiter := httpclient.NewLimiter(cfg.RpcClient.RateLimit, cfg.RpcClient.BurstLimit)
	explorer := httpclient.NewExplorerClient(
		store,
		netDefProvider,
		clientProvider,
		configloader.Duration(cfg.Indexer.RequestTimeoutMillis),
		limiter,
		zapLogger,
	)
	valuationClient := httpclient.NewValuationClient(
		cfg.Valuation.BaseURL,
		configloader.Duration(cfg.Valuation.RequestTimeoutMillis),
		limiter,
		zapLogger,
	)
	pricing := service.NewValuationService(
		valuationClient,
		time.Duration(cfg.Cache.DefaultExpirationMinutes)*time.Minute,
		time.Duration(cfg.Cache.CleanupIntervalMinutes)*time.Minute,
		appLogger,
	)
	signer := httpclient.NewRemoteSigner(cfg.Signer.BaseURL, configloader.Duration(cfg.Signer.RequestTimeoutMillis), zapLogger)

	catalog := tokencatalog.NewCatalog(appLogger.Info, appLogger.Warn)
	if err := catalog.LoadDirectory(cfg.Tokens.Directory); err != nil {
		logger.Warn("Не удалось загрузить список токенов", "error", err)
	}
	if err := catalog.SyncKnownTokens(ctx, explorer, activeNetwork.Name); err != nil {
		notifier.Notify(entity.NotifyNetworkError, err.Error())
	}

	timings := service.TimingsFromConfig(cfg)
	maxRoutines := cfg.Performance.MaxConcurrentRoutines
	logger.Info("Установлен лимит параллельных горутин", "количество", maxRoutines)

	// Hardware-wallet device transport is not wired; hardware keys are rejected by the signer.
	holdings := service.NewHoldingsService(clientProvider, explorer, catalog, pricing, store, notifier, appLogger, maxRoutines)
	history := service.NewHistoryService(clientProvider, explorer, store, notifier, appLogger, maxRoutines)
	monitor := service.NewConfirmationMonitor(store, notifier, appLogger, timings.ConfirmationInitialDelay, timings.ConfirmationPollInterval)
	transfers := service.NewTransferService(signer, holdings, monitor, store, notifier, appLogger, nil, timings.CallbackDelay)
	claims := service.NewGasClaimService(service.GasClaimDeps{
		Holdings:  holdings,
		Transfers: transfers,
		Explorer:  explorer,
		Signer:    signer,
		Monitor:   monitor,
		History:   history,
		State:     store,
		Notifier:  notifier,
	}, appLogger, nil, timings.ClaimInterval, timings.ClaimSettleDelay)

	go history.RunSync(ctx, timings.HistorySyncInterval)

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := restapi.NewWalletHandler(ctx, restapi.WalletServices{
		Holdings:      holdings,
		History:       history,
		Transfers:     transfers,
		Monitor:       monitor,
		Claims:        claims,
		ClaimFeed:     store,
		Notifications: notifier,
	}, appLogger)
	router := restapi.SetupRouter(handler, cfg.Server.AllowedOrigins, zapLogger)

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:     router,
		ReadTimeout: time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
	}

	go func() {
		logger.Info("Запуск HTTP сервера", "адрес", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Не удалось запустить HTTP сервер", "ошибка", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	<-signalChan

	logger.Info("Получен сигнал завершения. Завершение работы HTTP сервера...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка при Graceful Shutdown HTTP сервера", "ошибка", err)
	} else {
		logger.Info("HTTP сервер успешно остановлен.")
	}

	logger.Info("Сервис кошелька NEO остановлен.")
}
