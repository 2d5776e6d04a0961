// Package reminder runs the background loop that fires due reminders.
package reminder

import (
	"context"
	"log/slog"
	"time"

	"github.com/Joseda-hg/todoagent/internal/db"
	"github.com/Joseda-hg/todoagent/internal/model"
)

// NotifyFunc receives each fired reminder exactly once.
type NotifyFunc func(model.FiredReminder)

// Poller periodically claims due reminders from the store and hands
// them to the notify callback. Claiming flips sent inside one store
// transaction, so a reminder never fires twice even across delayed or
// missed ticks; anything still unsent when the process stops is picked
// up by the next run.
type Poller struct {
	store    *db.Store
	interval time.Duration
	notify   NotifyFunc
	logger   *slog.Logger

	now func() time.Time
}

func NewPoller(store *db.Store, interval time.Duration, notify NotifyFunc, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		store:    store,
		interval: interval,
		notify:   notify,
		logger:   logger,
		now:      time.Now,
	}
}

// Run blocks until ctx is canceled. Each wake fires everything due at
// that moment, so a late tick delivers late rather than dropping.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("reminder poller started", "interval", p.interval)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.Tick(ctx)
		select {
		case <-ctx.Done():
			p.logger.Info("reminder poller stopped")
			return
		case <-ticker.C:
		}
	}
}

// Tick claims and delivers everything currently due. It is the unit
// the loop repeats and is safe to call directly.
func (p *Poller) Tick(ctx context.Context) {
	fired, err := p.store.ClaimDueReminders(ctx, p.now())
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Error("claim due reminders", "err", err)
		}
		return
	}

	for _, f := range fired {
		p.notify(f)
	}
}
