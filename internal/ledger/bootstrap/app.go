package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joneireis/cidacake-program/internal/ledger/application"
	httpwrap "github.com/joneireis/cidacake-program/internal/ledger/http"
	"github.com/joneireis/cidacake-program/internal/ledger/infrastructure/postgres"
	"github.com/joneireis/cidacake-program/internal/ledger/infrastructure/redisstore"
	"github.com/joneireis/cidacake-program/internal/pkg/logging"
	"github.com/joneireis/cidacake-program/internal/pkg/metrics"
	"github.com/joneireis/cidacake-program/internal/pkg/token"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

const (
	shutdownTimeout = 5 * time.Second
)

type LedgerApp struct {
	cfg    LedgerConfig
	logger logging.Logger

	server *http.Server
}

func NewLedgerApp(cfg LedgerConfig, logger logging.Logger) *LedgerApp {
	return &LedgerApp{
		cfg:    cfg,
		logger: logger,
	}
}

func (a *LedgerApp) Run(ctx context.Context) error {
	logger := a.logger
	cfg := a.cfg

	dbpool, err := pgxpool.New(ctx, cfg.DbSettings.GetUrl())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	operationMetrics := metrics.NewOperationMetrics(prometheus.DefaultRegisterer)

	dispatcher := application.NewDispatcher(
		dbpool,
		postgres.NewRecordStore(),
		postgres.NewSettler(logger),
		postgres.NewAccountRepository(dbpool),
		redisstore.NewRecordLocker(redisClient, logger),
		logger,
		operationMetrics,
	)

	router := gin.Default()
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	ledgerHandler := httpwrap.NewLedgerHandler(dispatcher)

	api := router.Group("/api", httpwrap.NewAuthMiddleware([]byte(cfg.JwtSecret), token.NewJWTTokenParser()))
	{
		api.POST("/records", ledgerHandler.Initialize)
		api.GET("/records/:"+httpwrap.AddressParamKey, ledgerHandler.GetRecord)
		api.POST("/records/:"+httpwrap.AddressParamKey+"/stock", ledgerHandler.AddStock)
		api.PUT("/records/:"+httpwrap.AddressParamKey+"/price", ledgerHandler.UpdatePrice)
		api.POST("/records/:"+httpwrap.AddressParamKey+"/sell", ledgerHandler.Sell)

		api.POST("/accounts/deposit", ledgerHandler.Deposit)
		api.GET("/accounts/balance", ledgerHandler.GetBalance)
	}

	a.server = &http.Server{
		Addr:    cfg.HttpPort,
		Handler: router,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", cfg.HttpPort)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("error while starting http server: %w", err)
			return
		}

		errChan <- nil
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		a.Shutdown()
		return nil
	}
}

func (a *LedgerApp) Shutdown() {
	if a.server == nil {
		return
	}

	a.logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("server shutdown failed", "error", err.Error())
	}
}
