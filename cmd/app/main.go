// File: cmd/app/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"uniresto-dining/internal/config"
	"uniresto-dining/internal/domain/ports/adapter"
	aiAdapters "uniresto-dining/internal/infra/adapters/ai"
	pg "uniresto-dining/internal/infra/db/postgres"
	"uniresto-dining/internal/infra/logging"
	"uniresto-dining/internal/infra/metrics"
	red "uniresto-dining/internal/infra/redis"
	"uniresto-dining/internal/infra/sched"
	"uniresto-dining/internal/infra/web"
	"uniresto-dining/internal/usecase"
)

// Populated via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("schema")
	}
	txManager := pg.NewTxManager(pool)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	locker := red.NewLocker(redisClient)
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Repositories ----
	menuRepo := pg.NewMenuRepo(pool)
	bookingRepo := pg.NewBookingRepoCacheDecorator(pg.NewBookingRepo(pool), redisClient, cfg.Redis.TTL)
	accountRepo := pg.NewAccountRepo(pool)

	// ---- Text generation (Gemini -> OpenAI-compatible -> noop) ----
	var gen adapter.TextGenerator
	switch {
	case cfg.AI.Provider == "gemini" && cfg.AI.GeminiKey != "":
		gen, err = aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.DefaultModel)
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini adapter")
		}
	case cfg.AI.Provider == "openai_compat" && cfg.AI.OpenAIKey != "":
		gen, err = aiAdapters.NewOpenAICompatAdapter(cfg.AI.OpenAIKey, cfg.AI.DefaultModel, cfg.AI.BaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("openai-compat adapter")
		}
	default:
		gen = aiAdapters.NewNoopAdapter()
	}
	logger.Info().Str("provider", gen.Name()).Msg("text generator ready")

	// ---- Use cases ----
	menuUC := usecase.NewMenuUseCase(menuRepo, logger)
	bookingUC := usecase.NewBookingUseCase(bookingRepo, menuRepo, txManager, logger)
	redemptionUC := usecase.NewRedemptionUseCase(bookingUC, accountRepo, menuRepo, locker, logger)
	accountUC := usecase.NewAccountUseCase(accountRepo, logger)
	statsUC := usecase.NewStatsUseCase(accountRepo, bookingRepo, logger)
	suggestUC := usecase.NewSuggestionUseCase(gen, logger)

	// ---- HTTP ----
	auth := web.NewAuthManager(cfg.Web.JWTSecret, !cfg.Runtime.Dev, "", cfg.Web.TokenTTL)
	srv := web.NewServer(menuUC, bookingUC, redemptionUC, accountUC, statsUC, suggestUC, auth, cfg.Web.StaffAPIKey, rateLimiter, logger)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Web.Port),
		Handler:      srv.Router(),
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server")
		}
	}()

	// Optional ops listener, kept off the student-facing port.
	var adminServer *http.Server
	if cfg.Admin.Port > 0 {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		adminServer = &http.Server{Addr: fmt.Sprintf(":%d", cfg.Admin.Port), Handler: mux}
		go func() {
			logger.Info().Str("addr", adminServer.Addr).Msg("admin listening")
			if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Msg("admin server")
			}
		}()
	}

	// ---- Background workers ----
	gaugeWorker := sched.NewStatusGaugeWorker(cfg.Sweeper.Interval, bookingRepo, logger)
	go func() { _ = gaugeWorker.Run(ctx) }()

	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				st := pool.Stat()
				metrics.SetDBPoolStats(st.TotalConns(), st.IdleConns(), st.AcquiredConns())
			}
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	if adminServer != nil {
		if err := adminServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("admin shutdown")
		}
	}
}
