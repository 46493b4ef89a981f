// cmd/server/serve.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jason-s-yu/blanks/internal/cache"
	"github.com/jason-s-yu/blanks/internal/cards"
	"github.com/jason-s-yu/blanks/internal/database"
	"github.com/jason-s-yu/blanks/internal/game"
	"github.com/jason-s-yu/blanks/internal/handlers"
	"github.com/sirupsen/logrus"
)

func newLogger(verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(logrus.InfoLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// loadCards picks the card source: files, then the database, then the built-in set.
func loadCards(ctx context.Context, cfg *Config, logger logrus.FieldLogger) (cards.Set, error) {
	var set cards.Set
	switch {
	case cfg.prompts != "":
		prompts, dropped, err := cards.LoadPrompts(cfg.prompts)
		if err != nil {
			return set, err
		}
		if dropped > 0 {
			logger.Warnf("Dropped %d duplicate prompts from %s", dropped, cfg.prompts)
		}
		answers, dropped, err := cards.LoadAnswers(cfg.answers)
		if err != nil {
			return set, err
		}
		if dropped > 0 {
			logger.Warnf("Dropped %d duplicate answers from %s", dropped, cfg.answers)
		}
		set = cards.Set{Prompts: prompts, Answers: answers}

	case cfg.databaseURL != "":
		pool, err := database.ConnectDB(ctx, cfg.databaseURL)
		if err != nil {
			return set, err
		}
		defer pool.Close()
		set, err = database.LoadCardSets(ctx, pool)
		if err != nil {
			return set, err
		}
		logger.Info("Loaded cards from the database")

	default:
		var err error
		set, err = cards.Default()
		if err != nil {
			return set, err
		}
		logger.Info("Using the built-in card set")
	}
	return set.Expand(cfg.blankWidth)
}

func serve(ctx context.Context, cfg *Config) error {
	logger := newLogger(cfg.verbose)

	set, err := loadCards(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("loading cards: %w", err)
	}

	opts := []game.Option{game.WithLogger(logger)}
	if cfg.redisAddr != "" {
		rdb, err := cache.ConnectRedis(ctx, cfg.redisAddr, cfg.redisDB)
		if err != nil {
			return err
		}
		defer rdb.Close()
		opts = append(opts, game.WithActionSink(cache.NewActionPublisher(rdb, cfg.queue)))
		logger.Infof("Publishing actions to Redis list %q at %s", cfg.queue, cfg.redisAddr)
	}

	session, err := game.NewSession(cfg.gameConfig(), set.Prompts, set.Answers, opts...)
	if err != nil {
		return err
	}
	defer session.Close()

	srv := &http.Server{
		Addr: net.JoinHostPort(cfg.bind, strconv.Itoa(cfg.port)),
		Handler: handlers.NewRouter(logger, session, handlers.RouterConfig{
			PublicURL:      cfg.publicURL,
			OriginPatterns: cfg.origins,
		}),
		IdleTimeout:       10 * time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
		// Websocket handlers outlive Shutdown; tying requests to ctx ends them too.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errs := make(chan error, 1)
	go func() {
		logger.Infof("Running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return fmt.Errorf("server exited: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
