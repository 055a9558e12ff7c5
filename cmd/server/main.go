package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appbilling "github.com/insurance/backend/internal/application/billing"
	appcontract "github.com/insurance/backend/internal/application/contract"
	appmember "github.com/insurance/backend/internal/application/member"
	appproduct "github.com/insurance/backend/internal/application/product"
	"github.com/insurance/backend/internal/domain/shared"
	"github.com/insurance/backend/internal/infrastructure/cache"
	"github.com/insurance/backend/internal/infrastructure/config"
	"github.com/insurance/backend/internal/infrastructure/event"
	"github.com/insurance/backend/internal/infrastructure/logger"
	"github.com/insurance/backend/internal/infrastructure/persistence"
	"github.com/insurance/backend/internal/interfaces/http/handler"
	"github.com/insurance/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Insurance Billing Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Idempotency store: Redis when reachable, in-memory otherwise
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log))
	idempotencyStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	idempotencyCfg := shared.IdempotencyConfig{
		TTL:     cfg.Idempotency.TTL,
		Enabled: true,
	}

	clock := shared.SystemClock{}

	// Initialize repositories
	masterContractRepo := persistence.NewGormMasterContractRepository(db.DB)
	contractRepo := persistence.NewGormContractRepository(db.DB)
	endorsementRepo := persistence.NewGormEndorsementRepository(db.DB)
	memberRepo := persistence.NewGormMemberRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)

	// Billing repositories are reached through the transaction scope so
	// multi-aggregate writes commit atomically
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Initialize application services
	accountService := appbilling.NewAccountService(txScope, eventBus, clock, log)
	invoiceService := appbilling.NewInvoiceService(txScope, eventBus, clock, log)
	paymentService := appbilling.NewPaymentService(txScope, idempotencyStore, idempotencyCfg, eventBus, clock, log)
	contractService := appcontract.NewContractService(masterContractRepo, contractRepo, eventBus, clock, log)
	endorsementService := appcontract.NewEndorsementService(endorsementRepo, contractRepo, eventBus, clock, log)
	memberService := appmember.NewMemberService(memberRepo, contractRepo, clock, log)
	productService := appproduct.NewProductService(productRepo, clock, log)

	// Processed endorsements flow into the billing ledger as adjustment
	// installments; the idempotent wrapper keeps redelivery safe
	endorsementProcessedHandler := appbilling.NewEndorsementProcessedHandler(txScope, contractRepo, clock, log)
	eventBus.Subscribe(event.NewIdempotentHandler(
		endorsementProcessedHandler,
		idempotencyStore,
		log,
		event.WithIdempotencyConfig(idempotencyCfg),
	))
	log.Info("Event handlers registered",
		zap.Strings("endorsement_processed_events", endorsementProcessedHandler.EventTypes()),
	)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		System:      handler.NewSystemHandler(db.DB),
		Account:     handler.NewAccountHandler(accountService),
		Invoice:     handler.NewInvoiceHandler(invoiceService),
		Payment:     handler.NewPaymentHandler(paymentService),
		Contract:    handler.NewContractHandler(contractService),
		Endorsement: handler.NewEndorsementHandler(endorsementService),
		Member:      handler.NewMemberHandler(memberService),
		Product:     handler.NewProductHandler(productService),
	}

	engine := router.New(cfg, log, handlers)

	// Start periodic overdue sweep (if enabled)
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	if cfg.Sweep.Enabled {
		go runOverdueSweep(sweepCtx, invoiceService, clock, cfg.Sweep, log)
		log.Info("Overdue sweep started",
			zap.Duration("interval", cfg.Sweep.Interval),
			zap.Int("grace_days", cfg.Sweep.GraceDays),
		)
	}

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// runOverdueSweep periodically marks issued invoices past their grace period
// as overdue. Conflicts with concurrent writers are left for the next tick.
func runOverdueSweep(ctx context.Context, svc *appbilling.InvoiceService, clock shared.Clock, cfg config.SweepConfig, log *zap.Logger) {
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := clock.Today().AddDays(-cfg.GraceDays)
			result, err := svc.SweepOverdue(ctx, cutoff, "system")
			if err != nil {
				log.Error("Overdue sweep failed", zap.Error(err))
				continue
			}
			if result.Examined > 0 {
				log.Info("Overdue sweep completed",
					zap.String("cutoff", cutoff.String()),
					zap.Int("examined", result.Examined),
					zap.Int("marked", result.Marked),
					zap.Int("skipped", result.Skipped),
				)
			}
		}
	}
}
