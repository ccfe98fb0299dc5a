package worker

import (
	"context"
	"time"

	"stockprices-service/internal/application"

	"go.uber.org/zap"
)

var _ application.Worker = (*Refresher)(nil)

// Refresher periodically re-resolves prices for symbols already known
// to the persistent store so that callers keep getting recent prices
// even for symbols nobody asked about in a while.
type Refresher struct {
	Service *application.PriceService

	PollEvery  time.Duration
	BatchLimit int
	Log        *zap.Logger
}

func (w *Refresher) Start(ctx context.Context) {
	log := w.Log
	if log == nil {
		log = zap.NewNop()
	}
	if w.PollEvery <= 0 {
		w.PollEvery = 6 * time.Hour
	}
	if w.BatchLimit <= 0 {
		w.BatchLimit = 50
	}

	t := time.NewTicker(w.PollEvery)
	defer t.Stop()

	log.Info("refresher_started", zap.Duration("poll_every", w.PollEvery))
	for {
		select {
		case <-ctx.Done():
			log.Info("refresher_stopped")
			return
		case <-t.C:
			w.tick(ctx, log)
		}
	}
}

func (w *Refresher) tick(ctx context.Context, log *zap.Logger) {
	n, err := w.Service.RefreshKnown(ctx, w.BatchLimit)
	if err != nil {
		log.Warn("refresh_cycle_failed", zap.Error(err))
		return
	}
	log.Info("refresh_cycle_done", zap.Int("refreshed", n))
}
