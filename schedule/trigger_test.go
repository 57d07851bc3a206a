package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/cashdesk/register"
)

type countingDispatcher struct {
	calls atomic.Int64
}

func (c *countingDispatcher) CheckAndDispatch(ctx context.Context, now time.Time) register.Action {
	c.calls.Add(1)
	return register.ActionNone
}

func TestRunPollsAndStops(t *testing.T) {
	t.Parallel()

	d := &countingDispatcher{}
	trg := New(d, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := trg.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// Immediate check plus several ticks.
	assert.GreaterOrEqual(t, d.calls.Load(), int64(2))
}

func TestDefaultInterval(t *testing.T) {
	t.Parallel()

	trg := New(&countingDispatcher{}, 0, zerolog.Nop())
	assert.Equal(t, 5*time.Minute, trg.interval)
}
