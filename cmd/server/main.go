// main wires high-level dependencies, exposes the HTTP router, and keeps
// the server lifecycle small. Business logic lives in internal services
// packages. Every infrastructure dependency is optional: without Postgres,
// Redis, Kafka, or a bond desk URL the process runs fully in memory, which
// only makes sense for development.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"sovmint/internal/bonds"
	"sovmint/internal/coin"
	coinhandler "sovmint/internal/coin/handler"
	coinmetrics "sovmint/internal/coin/metrics"
	coinstore "sovmint/internal/coin/store"
	"sovmint/internal/exchange"
	exchangehandler "sovmint/internal/exchange/handler"
	"sovmint/internal/ledger"
	"sovmint/internal/mint"
	minthandler "sovmint/internal/mint/handler"
	mintmetrics "sovmint/internal/mint/metrics"
	mintstore "sovmint/internal/mint/store"
	"sovmint/internal/oracle"
	"sovmint/internal/platform/config"
	"sovmint/internal/platform/httpserver"
	"sovmint/internal/platform/logger"
	platformredis "sovmint/internal/platform/redis"
	"sovmint/internal/redeem"
	redeemhandler "sovmint/internal/redeem/handler"
	redeemmetrics "sovmint/internal/redeem/metrics"
	redeemstore "sovmint/internal/redeem/store"
	"sovmint/internal/settlement"
	httptransport "sovmint/internal/transport/http"
	id "sovmint/pkg/domain"
	"sovmint/pkg/platform/audit"
	kafkaaudit "sovmint/pkg/platform/audit/publishers/kafka"
	auditmemory "sovmint/pkg/platform/audit/store/memory"
	auditpostgres "sovmint/pkg/platform/audit/store/postgres"
	auditworker "sovmint/pkg/platform/audit/worker"
	"sovmint/pkg/platform/circuit"
)

const sweepInterval = time.Minute

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	static := oracle.NewStaticSource()
	for code, price := range cfg.CurrencyPrices {
		static.SetCurrencyPrice(id.CurrencyCode(code), oracle.Price{Mantissa: price.Mantissa, Scale: price.Scale})
	}
	for bond, price := range cfg.BondPrices {
		static.SetBondPrice(id.BondID(bond), oracle.Price{Mantissa: price.Mantissa, Scale: price.Scale})
	}

	memLedger := ledger.NewMemory()
	memCoins := coinstore.NewMemory()
	var (
		coins       coinstore.Store   = memCoins
		ledgerStore ledger.Store      = memLedger
		units       settlement.Runner = settlement.NewMemory(memLedger, memCoins)
		mintPlans   mintstore.Store   = mintstore.NewMemory()
		redeemPlans redeemstore.Store = redeemstore.NewMemory()
		auditStore  audit.Store       = auditmemory.New()
		source      oracle.Source     = static
	)

	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return err
		}
		pgCoins := coinstore.NewPostgres(db)
		pgLedger := ledger.NewPostgres(db)
		coins = pgCoins
		ledgerStore = pgLedger
		units = settlement.NewPostgres(db, pgLedger, pgCoins)

		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer pool.Close()
		auditStore = auditpostgres.New(pool)
	}

	rdb, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		mintPlans = mintstore.NewRedis(rdb)
		redeemPlans = redeemstore.NewRedis(rdb)
		source = oracle.NewCachedSource(source, rdb.Client, cfg.PriceCacheTTL)
	}
	converter := oracle.NewFeedConverter(source)

	var desk bonds.Desk = bonds.NewMemoryDesk()
	if cfg.BondDeskURL != "" {
		desk = bonds.NewHTTPDesk(cfg.BondDeskURL, nil)
	}
	desk = bonds.NewCircuitDesk(desk, circuit.New("bond-desk"), log)

	channel := audit.NewChannelPublisher(256, log)
	publisher := audit.Fanout{channel}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := kafkaaudit.New(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		if err != nil {
			return err
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = kafkaPublisher.Close(closeCtx)
		}()
		publisher = append(publisher, kafkaPublisher)
	}

	coinService := coin.NewService(coins, ledgerStore, coinmetrics.New(), coin.WithAuditPublisher(publisher))
	if _, err := coinService.EnsureFactory(ctx, coin.SeedPolicy{
		FeeBps:             id.Bips(cfg.ProtocolFeeBps),
		BaseReserveBps:     id.Bips(cfg.BaseReserveBps),
		ReserveNumerator:   cfg.ReserveNumerator,
		ReserveDenominator: cfg.ReserveDenominator,
	}); err != nil {
		return err
	}

	mintService := mint.NewService(coins, mintPlans, units, desk, converter, cfg.PlanTTL,
		mint.WithAuditPublisher(publisher),
		mint.WithMetrics(mintmetrics.New()),
	)
	redeemService := redeem.NewService(coins, redeemPlans, ledgerStore, units, desk, converter, cfg.PlanTTL,
		redeem.WithAuditPublisher(publisher),
		redeem.WithMetrics(redeemmetrics.New()),
	)
	exchangeService := exchange.NewService(coins, converter)

	router := httptransport.NewRouter(httptransport.Handlers{
		Coins:    coinhandler.New(coinService, log),
		Mint:     minthandler.New(mintService, log),
		Redeem:   redeemhandler.New(redeemService, log),
		Exchange: exchangehandler.New(exchangeService, log),
	}, httptransport.Options{
		JWTSigningKey: []byte(cfg.JWTSigningKey),
		AdminToken:    cfg.AdminToken,
		Logger:        log,
	})

	srv := httpserver.New(cfg.Addr, router)
	worker := auditworker.NewWorker(auditStore, channel.Events())

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting sovmint", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return worker.Run(ctx)
	})

	// Plan stores without native expiry rely on this sweep.
	g.Go(func() error {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if _, err := mintService.SweepExpired(ctx); err != nil {
					log.Warn("mint plan sweep failed", "error", err)
				}
				if _, err := redeemService.SweepExpired(ctx); err != nil {
					log.Warn("redeem plan sweep failed", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
