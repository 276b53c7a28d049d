// Command macau-server serves Macau games over HTTP and WebSockets.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/devdo-eu/macau/service/internal/cache"
	"github.com/devdo-eu/macau/service/internal/config"
	"github.com/devdo-eu/macau/service/internal/registry"
	"github.com/devdo-eu/macau/service/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("configuration")
	}
	log := cfg.NewLogger()
	if cfg.LogLevel < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	var pub *cache.Publisher
	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer rdb.Close()
		pub = cache.NewPublisher(rdb, log)
		log.WithField("addr", cfg.RedisAddr).Info("publishing games to redis")
	}

	games := registry.New(ctx, registry.Options{
		TurnDuration:   cfg.TurnTimeout,
		CardsPerPlayer: cfg.CardsPerPlayer,
		Decks:          cfg.Decks,
		Publisher:      pub,
		Logger:         log,
	})
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.New(games, log).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		log.WithField("addr", cfg.ListenAddr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	grp.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := games.Close(shutdownCtx); err != nil {
			log.WithError(err).Warn("games still running at shutdown")
		}
		return srv.Shutdown(shutdownCtx)
	})
	return grp.Wait()
}
