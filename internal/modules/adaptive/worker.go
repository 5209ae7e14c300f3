package adaptive

import (
	"context"
	"time"

	"github.com/yungbote/adaptivequiz-backend/internal/clients/redis"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

// ArchiveWorker drains the archive outbox on a timer, and immediately when a redis signal arrives.
type ArchiveWorker struct {
	uc        Usecases
	log       *logger.Logger
	bus       redis.ArchiveBus
	interval  time.Duration
	batchSize int
}

func NewArchiveWorker(uc Usecases, log *logger.Logger, bus redis.ArchiveBus, interval time.Duration) *ArchiveWorker {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ArchiveWorker{
		uc:        uc,
		log:       log.With("worker", "ArchiveWorker"),
		bus:       bus,
		interval:  interval,
		batchSize: 25,
	}
}

// Run blocks until ctx is done.
func (w *ArchiveWorker) Run(ctx context.Context) error {
	wake := make(chan struct{}, 1)
	if w.bus != nil {
		err := w.bus.StartForwarder(ctx, func(sig redis.ArchiveSignal) {
			select {
			case wake <- struct{}{}:
			default:
			}
		})
		if err != nil {
			w.log.Warn("archive signal subscription failed, polling only", "error", err)
		}
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	w.log.Info("archive worker started", "interval", w.interval.String())
	for {
		w.drain(ctx)
		select {
		case <-ctx.Done():
			w.log.Info("archive worker stopped")
			return nil
		case <-ticker.C:
		case <-wake:
		}
	}
}

func (w *ArchiveWorker) drain(ctx context.Context) {
	for ctx.Err() == nil {
		n, err := w.uc.ProcessDueArchives(ctx, w.batchSize)
		if err != nil {
			if ctx.Err() == nil {
				w.log.Warn("archive sweep failed", "error", err)
			}
			return
		}
		if n < w.batchSize {
			return
		}
	}
}
