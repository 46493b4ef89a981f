// cmd/historian/main.go is an asynchronous historian service that pops session
// actions from a Redis queue and persists them to a PostgreSQL database.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/blanks/internal/cache"
	"github.com/jason-s-yu/blanks/internal/config"
	"github.com/jason-s-yu/blanks/internal/database"
	"github.com/jason-s-yu/blanks/internal/historian"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type Config struct {
	databaseURL string
	redisAddr   string
	redisDB     int
	queue       string
	batchSize   int
	flushDelay  time.Duration
	migrate     bool
	verbose     bool
}

func newCmd(cfg *Config) (*cobra.Command, error) {
	def := historian.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "blanks-historian",
		Short: "Persists the blanks action log from Redis to PostgreSQL.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.databaseURL == "" {
				return errors.New("--database-url is required")
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&cfg.databaseURL, "database-url", "", "PostgreSQL connection URL (env: BLANKS_DATABASE_URL)")
	fs.StringVar(&cfg.redisAddr, "redis-addr", "localhost:6379", "Redis server address (env: BLANKS_REDIS_ADDR)")
	fs.IntVar(&cfg.redisDB, "redis-db", 0, "Redis database index (env: BLANKS_REDIS_DB)")
	fs.StringVar(&cfg.queue, "queue", def.Queue, "Redis list to drain (env: BLANKS_QUEUE)")
	fs.IntVar(&cfg.batchSize, "batch-size", def.BatchSize, "records per database transaction (env: BLANKS_BATCH_SIZE)")
	fs.DurationVar(&cfg.flushDelay, "flush-delay", def.FlushDelay, "longest a partial batch waits (env: BLANKS_FLUSH_DELAY)")
	fs.BoolVar(&cfg.migrate, "migrate", false, "create the tables before starting (env: BLANKS_MIGRATE)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "log every flush (env: BLANKS_VERBOSE)")

	if err := config.BindEnv(fs, "BLANKS"); err != nil {
		return nil, err
	}
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return cmd, nil
}

func run(ctx context.Context, cfg *Config) error {
	logger := logrus.New()
	if cfg.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	pool, err := database.ConnectDB(ctx, cfg.databaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	if cfg.migrate {
		if err := database.Migrate(ctx, pool); err != nil {
			return err
		}
	}

	rdb, err := cache.ConnectRedis(ctx, cfg.redisAddr, cfg.redisDB)
	if err != nil {
		return err
	}
	defer rdb.Close()

	hs := historian.New(historian.Config{
		Queue:      cfg.queue,
		BatchSize:  cfg.batchSize,
		FlushDelay: cfg.flushDelay,
	}, rdb, pool, logger)

	logger.Info("blanks-historian service started.")
	err = hs.Run(ctx)
	logger.Info("Historian shutdown complete.")
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, err := newCmd(&Config{})
	cobra.CheckErr(err)
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		cobra.CheckErr(err)
	}
}
