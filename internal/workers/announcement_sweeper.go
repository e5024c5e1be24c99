package workers

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type AnnouncementPurger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// AnnouncementSweeper deletes announcements past their 24h lifetime.
type AnnouncementSweeper struct {
	Store    AnnouncementPurger
	Interval time.Duration
	Now      func() time.Time
}

func NewAnnouncementSweeper(store AnnouncementPurger, interval time.Duration) *AnnouncementSweeper {
	return &AnnouncementSweeper{Store: store, Interval: interval, Now: time.Now}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (w *AnnouncementSweeper) Run(ctx context.Context) {
	interval := w.Interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.SweepOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.SweepOnce(ctx)
		}
	}
}

func (w *AnnouncementSweeper) SweepOnce(ctx context.Context) int64 {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	n, err := w.Store.PurgeExpired(ctx, now())
	if err != nil {
		if ctx.Err() == nil {
			zap.L().Error("announcement sweep failed", zap.Error(err))
		}
		return 0
	}
	if n > 0 {
		zap.L().Info("expired announcements purged", zap.Int64("count", n))
	}
	return n
}
