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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portfolio_dashboard/internal/app/provider"
	"portfolio_dashboard/internal/app/service"
	"portfolio_dashboard/internal/infrastructure/configloader"
	"portfolio_dashboard/internal/infrastructure/httpclient"
	clientprovider "portfolio_dashboard/internal/infrastructure/network/client"
	networkdefinition "portfolio_dashboard/internal/infrastructure/network/definition"
	"portfolio_dashboard/internal/infrastructure/restapi"
	"portfolio_dashboard/internal/infrastructure/tokenloader"
	"portfolio_dashboard/internal/pkg/clock"
	"portfolio_dashboard/internal/pkg/logger"
	"portfolio_dashboard/internal/pkg/metrics"
	"portfolio_dashboard/internal/pkg/utils"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfgPath := utils.GetEnv("CONFIG_PATH", configloader.DefaultConfigPath)
	cfg, err := configloader.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	zapLogger, err := logger.NewZapLogger(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to initialize zap logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zapLogger.Sync() }()
	logger.Init(zapLogger, cfg.Logging.Level)

	logger.Info("Portfolio dashboard starting", "config", cfgPath)
	metrics.MustRegisterMetrics()

	appLogger := logger.NewSlogAdapter()

	netDefProvider := networkdefinition.NewNetworkDefinitionProvider(
		logger.Named("NetworkDefinitionProvider"),
		networkdefinition.Override{
			Identifier:      cfg.Network.Cluster,
			RPCURL:          cfg.Network.RPCURL,
			FallbackRPCURLs: cfg.Network.FallbackRPCURLs,
			Commitment:      cfg.Network.Commitment,
		},
	)
	network := netDefProvider.Default()
	logger.Info("Network selected", "network", network.Identifier, "rpc", network.PrimaryRPCURL)

	tokenProvider := tokenloader.NewTokenLoader(cfg.Tokens.RegistryFile, appLogger.Info, appLogger.Warn)
	registry, err := provider.NewTokenRegistry(tokenProvider, logger.Named("TokenRegistry"))
	if err != nil {
		logger.Fatal("Failed to build token registry", "error", err)
	}

	rpcCallTimeout := time.Duration(cfg.Performance.RPCCallTimeoutSeconds) * time.Second
	clientProvider := clientprovider.NewSolanaClientProvider(rpcCallTimeout, nil, appLogger.Info, appLogger.Error)

	coinGeckoClient := httpclient.NewCoinGeckoClient(httpclient.CoinGeckoOptions{
		BaseURL:          cfg.CoinGecko.BaseURL,
		APIKey:           cfg.CoinGecko.APIKey,
		Timeout:          time.Duration(cfg.CoinGecko.RequestTimeoutMillis) * time.Millisecond,
		MaxIDsPerRequest: cfg.TokenPriceSvc.MaxTokensPerBatchRequest,
		RateLimit:        cfg.CoinGecko.RateLimitPerSecond,
		Burst:            cfg.CoinGecko.RateLimitBurst,
	}, zapLogger)

	priceResolver := service.NewPriceResolver(coinGeckoClient, registry, clock.Real(), logger.Named("PriceResolver"), service.PriceResolverOptions{
		TTL:            time.Duration(cfg.TokenPriceSvc.CacheTTLMinutes) * time.Minute,
		VSCurrency:     cfg.CoinGecko.VsCurrency,
		SymbolMapping:  cfg.CoinGecko.SymbolMapping,
		FallbackPrices: cfg.TokenPriceSvc.FallbackPrices,
	})

	aggregator := service.NewAccountAggregator(clientProvider, network, registry, logger.Named("AccountAggregator"))
	valuator := service.NewPortfolioValuator(priceResolver, network, logger.Named("PortfolioValuator"))
	portfolioService := service.NewPortfolioService(aggregator, valuator, network, clock.Real(), logger.Named("PortfolioService"))
	session := service.NewDashboardSession(ctx, portfolioService, logger.Named("DashboardSession"))

	wallet, err := provider.NewWalletProvider(cfg.Wallet.Address, cfg.Wallet.File, appLogger).GetWallet()
	if err != nil {
		logger.Warn("Start-up wallet ignored", "error", err)
	} else if wallet != nil {
		go func() {
			if err := session.Connect(ctx, wallet.Address); err != nil {
				logger.Warn("Initial portfolio fetch failed", "wallet_address", wallet.Address, "error", err)
			}
		}()
	}

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := restapi.SetupRouter(restapi.Handlers{
		Portfolio: restapi.NewPortfolioHandler(portfolioService, network, logger.Named("PortfolioHandler")),
		Session:   restapi.NewSessionHandler(session, cfg.Server.AllowedOrigins, logger.Named("SessionHandler")),
		Price:     restapi.NewPriceHandler(priceResolver, logger.Named("PriceHandler")),
	}, zapLogger.Named("http"), restapi.RouterOptions{
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		SwaggerEnabled:  cfg.Swagger.Enabled,
		SwaggerPath:     cfg.Swagger.Path,
		SwaggerSpecFile: cfg.Swagger.SpecFile,
		PprofEnabled:    cfg.Debug.PprofEnabled,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
	}

	go func() {
		zapLogger.Info("HTTP server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Graceful shutdown failed", zap.Error(err))
	} else {
		zapLogger.Info("HTTP server stopped")
	}
}
