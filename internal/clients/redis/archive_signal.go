package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

// ArchiveSignal is the payload published when a terminated session is queued for archival.
type ArchiveSignal struct {
	SessionID string `json:"session_id"`
}

// ArchiveBus wakes archive workers without waiting for their next poll.
type ArchiveBus interface {
	Publish(ctx context.Context, sig ArchiveSignal) error
	StartForwarder(ctx context.Context, onSignal func(sig ArchiveSignal)) error
	Close() error
}

type archiveBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

type ArchiveBusConfig struct {
	Addr     string
	Password string
	Channel  string
}

func NewArchiveBus(log *logger.Logger, cfg ArchiveBusConfig) (ArchiveBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ch := strings.TrimSpace(cfg.Channel)
	if ch == "" {
		ch = "adaptive_quiz.archive"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return newArchiveBus(log, rdb, ch), nil
}

func newArchiveBus(log *logger.Logger, rdb *goredis.Client, channel string) *archiveBus {
	return &archiveBus{
		log:     log.With("service", "RedisArchiveBus"),
		rdb:     rdb,
		channel: channel,
	}
}

func (b *archiveBus) Publish(ctx context.Context, sig ArchiveSignal) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis archive bus not initialized")
	}
	raw, err := json.Marshal(sig)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *archiveBus) StartForwarder(ctx context.Context, onSignal func(sig ArchiveSignal)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis archive bus not initialized")
	}
	if onSignal == nil {
		return fmt.Errorf("onSignal callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					_ = sub.Close()
					return
				}
				var sig ArchiveSignal
				if err := json.Unmarshal([]byte(m.Payload), &sig); err != nil {
					b.log.Warn("bad redis archive payload", "error", err)
					continue
				}
				onSignal(sig)
			}
		}
	}()

	return nil
}

func (b *archiveBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
