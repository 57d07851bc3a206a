// Package schedule drives the register's automatic open/close on a
// fixed cadence, standing in for an external cron.
package schedule

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/cashdesk/register"
)

// Dispatcher is the slice of the register service the trigger needs.
type Dispatcher interface {
	CheckAndDispatch(ctx context.Context, now time.Time) register.Action
}

// Trigger polls the dispatcher every interval. Precision requirements
// are coarse: the register's dispatch windows are minutes wide, so a
// poll at the same width is enough to land inside every window.
type Trigger struct {
	dispatcher Dispatcher
	interval   time.Duration
	log        zerolog.Logger
}

// New builds a trigger; a non-positive interval defaults to 5 minutes.
func New(d Dispatcher, interval time.Duration, log zerolog.Logger) *Trigger {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Trigger{
		dispatcher: d,
		interval:   interval,
		log:        log.With().Str("component", "schedule").Logger(),
	}
}

// Run polls until ctx is cancelled. The first check fires immediately
// so a process restarted inside a dispatch window still dispatches.
// Nothing the dispatcher does can stop the loop; automatic operations
// log their own failures.
func (t *Trigger) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.check(ctx, time.Now())
	for {
		select {
		case <-ctx.Done():
			t.log.Info().Msg("trigger stopped")
			return ctx.Err()
		case now := <-ticker.C:
			t.check(ctx, now)
		}
	}
}

func (t *Trigger) check(ctx context.Context, now time.Time) {
	action := t.dispatcher.CheckAndDispatch(ctx, now)
	if action != register.ActionNone {
		t.log.Info().Str("action", string(action)).Time("at", now).Msg("dispatched")
	}
}
