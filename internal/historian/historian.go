// Package historian drains the session action queue from Redis and persists the
// records to PostgreSQL in batches.
package historian

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jason-s-yu/blanks/internal/cache"
	"github.com/jason-s-yu/blanks/internal/database"
	"github.com/jason-s-yu/blanks/internal/game"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Popper is the part of a Redis client the historian reads with.
type Popper interface {
	BLPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
}

// Config tunes batching.
type Config struct {
	Queue      string
	BatchSize  int
	FlushDelay time.Duration
	PopTimeout time.Duration
}

// DefaultConfig returns the batching defaults.
func DefaultConfig() Config {
	return Config{
		Queue:      cache.DefaultQueueName,
		BatchSize:  20,
		FlushDelay: 500 * time.Millisecond,
		PopTimeout: 3 * time.Second,
	}
}

// Service moves action records from the queue to the database. Run owns the batch;
// nothing else touches it.
type Service struct {
	cfg   Config
	rdb   Popper
	db    database.TxBeginner
	log   logrus.FieldLogger
	batch []game.ActionRecord

	flushed int
}

// New builds a Service. Zero config fields take their defaults.
func New(cfg Config, rdb Popper, db database.TxBeginner, log logrus.FieldLogger) *Service {
	def := DefaultConfig()
	if cfg.Queue == "" {
		cfg.Queue = def.Queue
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.FlushDelay <= 0 {
		cfg.FlushDelay = def.FlushDelay
	}
	if cfg.PopTimeout <= 0 {
		cfg.PopTimeout = def.PopTimeout
	}
	return &Service{
		cfg:   cfg,
		rdb:   rdb,
		db:    db,
		log:   log,
		batch: make([]game.ActionRecord, 0, cfg.BatchSize),
	}
}

// Run pops records until ctx is done, then flushes what is left.
func (hs *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(hs.cfg.FlushDelay)
	defer ticker.Stop()

	hs.log.Infof("historian reading queue %q", hs.cfg.Queue)
	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := hs.flush(flushCtx); err != nil {
				return fmt.Errorf("final flush: %w", err)
			}
			hs.log.Infof("historian stopped after %d records", hs.flushed)
			return nil

		case <-ticker.C:
			if err := hs.flush(ctx); err != nil {
				hs.log.WithError(err).Error("flushing batch")
			}

		default:
			res, err := hs.rdb.BLPop(ctx, hs.cfg.PopTimeout, hs.cfg.Queue).Result()
			switch {
			case errors.Is(err, redis.Nil), ctx.Err() != nil:
				continue
			case err != nil:
				hs.log.WithError(err).Error("BLPop")
				select {
				case <-ctx.Done():
				case <-time.After(time.Second):
				}
				continue
			}
			if len(res) < 2 {
				continue
			}
			// res[0] is the queue name and res[1] the payload.
			var rec game.ActionRecord
			if err := json.Unmarshal([]byte(res[1]), &rec); err != nil {
				hs.log.Warnf("invalid action record: %v", err)
				continue
			}
			hs.batch = append(hs.batch, rec)
			if len(hs.batch) >= hs.cfg.BatchSize {
				if err := hs.flush(ctx); err != nil {
					hs.log.WithError(err).Error("flushing batch")
				}
			}
		}
	}
}

// flush writes the batch in one transaction. A failed batch is kept for the next try.
func (hs *Service) flush(ctx context.Context) error {
	if len(hs.batch) == 0 {
		return nil
	}
	err := pgx.BeginTxFunc(ctx, hs.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, rec := range hs.batch {
			if err := insertActionTx(ctx, tx, rec); err != nil {
				return fmt.Errorf("inserting action %d of session %s: %w", rec.ActionIndex, rec.SessionID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	hs.flushed += len(hs.batch)
	hs.log.Debugf("flushed %d actions", len(hs.batch))
	hs.batch = hs.batch[:0]
	return nil
}

// insertActionTx records one action and touches its session row. Replayed actions
// are ignored.
func insertActionTx(ctx context.Context, tx pgx.Tx, rec game.ActionRecord) error {
	ended := 0
	if rec.ActionType == game.ActionGameEnd {
		ended = 1
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO sessions (id, first_seen, last_seen, games_ended)
		VALUES ($1, NOW(), NOW(), $2)
		ON CONFLICT (id)
		DO UPDATE SET last_seen = NOW(), games_ended = sessions.games_ended + $2
	`, rec.SessionID, ended)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(rec.ActionPayload)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO session_actions (
			session_id, action_index, actor_id, action_type, action_payload, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (session_id, action_index) DO NOTHING
	`, rec.SessionID, rec.ActionIndex, int64(rec.ActorID), rec.ActionType, payload, time.UnixMilli(rec.Timestamp))
	return err
}
