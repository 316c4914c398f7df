// Command signauthd runs the account authentication service: Redis-backed
// account and refresh stores behind the signAuth engine and its JSON API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	signAuth "github.com/MrEthical07/signAuth"
	"github.com/MrEthical07/signAuth/account"
	"github.com/MrEthical07/signAuth/httpapi"
	"github.com/MrEthical07/signAuth/logging"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := loadConfig()
	logger := logging.NewJSONLogger()
	ctx := context.Background()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error(ctx, "signauthd exited", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config, logger logging.Logger) error {
	if len(cfg.SecretKey) < 32 {
		return errors.New("a signing key of at least 32 bytes is required (-k or SIGNAUTH_SECRET_KEY)")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer func() { _ = rdb.Close() }()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return err
	}

	engineConfig := signAuth.DefaultConfig()
	engineConfig.JWT.SecretKey = []byte(cfg.SecretKey)

	engine, err := signAuth.New().
		WithConfig(engineConfig).
		WithRedis(rdb).
		WithAccountStore(account.NewRedisStore(rdb, engineConfig.Refresh.RedisPrefix)).
		WithLogger(logger).
		Build()
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewHandler(engine, logger).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "listening", "addr", cfg.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	return server.Shutdown(shutdownCtx)
}
