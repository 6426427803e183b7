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

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/7283111011/FLK2/internal/bank"
	"github.com/7283111011/FLK2/internal/config"
	"github.com/7283111011/FLK2/internal/httpapi"
	"github.com/7283111011/FLK2/internal/logger"
	"github.com/7283111011/FLK2/internal/opentdb"
	"github.com/7283111011/FLK2/internal/questionset"
	"github.com/7283111011/FLK2/internal/sessions"
)

func main() {
	os.Exit(run())
}

func run() int {
	flags := pflag.NewFlagSet("quiz-service", pflag.ContinueOnError)
	config.RegisterFlags(flags)
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return 1
	}
	log, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeBank, err := bank.Open(ctx, cfg.Bank, log)
	if err != nil {
		log.Error("open question bank", zap.Error(err))
		return 1
	}
	defer closeBank()

	trivia := opentdb.NewClient(&http.Client{Timeout: cfg.OpenTDB.Timeout})
	sets := questionset.NewService(repo, questionset.WithDefaultAmount(trivia.FetchQuestions, cfg.OpenTDB.Amount), log)
	registry := sessions.NewRegistry(
		sessions.WithIdleTTL(cfg.HTTP.SessionIdleTTL),
		sessions.WithLogger(log),
	)
	go sweepSessions(ctx, registry, cfg.HTTP.SessionIdleTTL)

	server := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: httpapi.NewRouter(httpapi.NewAPI(sets, registry, log), httpapi.RouterConfig{
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
			RequestTimeout: cfg.HTTP.RequestTimeout,
			MaxLogBytes:    cfg.HTTP.MaxLogBytes,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("quiz-service listening", zap.String("addr", cfg.HTTP.Addr), zap.String("bank", cfg.Bank.Driver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	code := 0
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		log.Error("server failed", zap.Error(err))
		code = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	return code
}

// sweepSessions drops idle sessions until ctx is done.
func sweepSessions(ctx context.Context, registry *sessions.Registry, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			registry.Sweep()
		}
	}
}
