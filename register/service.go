package register

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/cashdesk/ledger"
	"github.com/rustyeddy/cashdesk/period"
	"github.com/rustyeddy/cashdesk/pkg/id"
)

// Messages attached to Current views when a new register cannot be
// opened yet.
const (
	MsgClosedToday = "register already closed today; a new one opens tomorrow"
	MsgGracePeriod = "previous business day still in its grace period; nothing to open yet"
)

// Action reports what CheckAndDispatch decided to do.
type Action string

const (
	ActionNone  Action = "none"
	ActionOpen  Action = "open"
	ActionClose Action = "close"
)

// Settings are the register constants: when the business day rolls
// over, when the register opens, and how wide the automatic dispatch
// window is.
type Settings struct {
	Cutoff   period.Cutoff
	OpenHour int
	Window   time.Duration

	// Now is the clock; defaults to time.Now. Injected for tests.
	Now func() time.Time
}

// Service is the closure state machine over its three collaborators.
type Service struct {
	closures ClosureStore
	txs      TransactionSource
	methods  MethodCatalog
	cutoff   period.Cutoff
	openAt   period.Cutoff
	window   time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

// New builds a Service. Hour settings are taken as-is (00:00 is a
// valid cutoff; config.Default carries the production constants); a
// nil location means UTC, a non-positive window means 5 minutes.
func New(closures ClosureStore, txs TransactionSource, methods MethodCatalog, st Settings, log zerolog.Logger) *Service {
	if st.Cutoff.Location == nil {
		st.Cutoff.Location = time.UTC
	}
	if st.Window <= 0 {
		st.Window = 5 * time.Minute
	}
	if st.Now == nil {
		st.Now = time.Now
	}
	return &Service{
		closures: closures,
		txs:      txs,
		methods:  methods,
		cutoff:   st.Cutoff,
		openAt:   period.Cutoff{Hour: st.OpenHour, Location: st.Cutoff.Location},
		window:   st.Window,
		now:      st.Now,
		log:      log.With().Str("component", "register").Logger(),
	}
}

// View is what Current returns: the relevant closure, its live totals
// when it is open, and a message when a new register could not be
// legitimately opened.
type View struct {
	Closure *Closure
	Totals  []ledger.MethodTotal
	Message string
}

// Current returns the open register with live totals for the current
// business period. When no register is open it inspects the most
// recently closed one: closed today means no reopen until tomorrow,
// closed yesterday before today's cutoff means the previous period is
// still live. Only when neither holds does it open a new register.
// Current never fails outright on aggregation problems; it degrades to
// empty totals.
func (s *Service) Current(ctx context.Context) (*View, error) {
	open, err := s.closures.FindOpen(ctx)
	if err != nil {
		return nil, err
	}
	if open != nil {
		now := s.now()
		p := s.cutoff.Resolve(now)
		totals := s.aggregate(ctx, p.Start, p.End)
		if err := s.closures.Touch(ctx, open.ID, now); err != nil {
			s.log.Warn().Err(err).Str("closure_id", open.ID).Msg("touch failed")
		} else {
			open.LastActivityAt = now
		}
		credit, debit := sumTotals(totals)
		open.Totals = totals
		open.TotalCredit = credit
		open.TotalDebit = debit
		open.FinalBalance = credit - debit
		return &View{Closure: open, Totals: totals}, nil
	}

	last, err := s.closures.FindLatestClosed(ctx)
	if err != nil {
		return nil, err
	}
	if last != nil && last.ClosedAt != nil {
		now := s.now()
		closedAt := *last.ClosedAt
		if s.cutoff.SameLocalDay(closedAt, now) {
			s.log.Debug().Str("closure_id", last.ID).Msg("already closed today")
			return &View{Closure: last, Totals: last.Totals, Message: MsgClosedToday}, nil
		}
		if s.cutoff.SameLocalDay(closedAt, now.AddDate(0, 0, -1)) && !s.cutoff.IsAfter(now) {
			s.log.Debug().Str("closure_id", last.ID).Msg("previous day in grace period")
			return &View{Closure: last, Totals: last.Totals, Message: MsgGracePeriod}, nil
		}
	}

	opened, err := s.Open(ctx)
	if err != nil {
		// Someone opened between our read and the insert; re-read.
		if errors.Is(err, ErrAlreadyOpen) {
			return s.Current(ctx)
		}
		return nil, err
	}
	return &View{Closure: opened}, nil
}

// Open creates a new OPEN closure with zeroed totals. Returns
// ErrAlreadyOpen when a register is already open.
func (s *Service) Open(ctx context.Context) (*Closure, error) {
	now := s.now()
	c := &Closure{
		ID:             id.New(),
		Status:         StatusOpen,
		CreatedAt:      now,
		LastActivityAt: now,
	}
	if err := s.closures.Create(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info().Str("closure_id", c.ID).Time("created_at", now).Msg("register opened")
	return c, nil
}

// Close aggregates the open register's own lifetime (CreatedAt to now,
// not the resolver period) and transitions it to CLOSED with the
// totals frozen. Returns ErrNoOpenClosure when there is nothing to
// close, including when a concurrent close won the conditional update.
func (s *Service) Close(ctx context.Context, operatorID string) (*Closure, error) {
	open, err := s.closures.FindOpen(ctx)
	if err != nil {
		return nil, err
	}
	if open == nil {
		return nil, ErrNoOpenClosure
	}

	now := s.now()
	totals := s.aggregate(ctx, open.CreatedAt, now)
	credit, debit := sumTotals(totals)

	fields := CloseFields{
		ClosedAt:     now,
		OperatorID:   operatorID,
		Totals:       totals,
		TotalCredit:  credit,
		TotalDebit:   debit,
		FinalBalance: credit - debit,
	}
	ok, err := s.closures.CloseIfOpen(ctx, open.ID, fields)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoOpenClosure
	}

	open.Status = StatusClosed
	open.ClosedAt = &now
	open.LastActivityAt = now
	open.OperatorID = operatorID
	open.Totals = totals
	open.TotalCredit = credit
	open.TotalDebit = debit
	open.FinalBalance = credit - debit

	s.log.Info().
		Str("closure_id", open.ID).
		Str("operator", operatorID).
		Float64("credit", credit).
		Float64("debit", debit).
		Float64("balance", credit-debit).
		Msg("register closed")
	return open, nil
}

// AutomaticOpen is Open for the scheduler: already-open is a logged
// no-op, never an error.
func (s *Service) AutomaticOpen(ctx context.Context) (*Closure, error) {
	c, err := s.Open(ctx)
	if errors.Is(err, ErrAlreadyOpen) {
		s.log.Debug().Msg("automatic open: register already open")
		return nil, nil
	}
	return c, err
}

// AutomaticClose is Close for the scheduler: nothing-to-close is a
// logged no-op, never an error.
func (s *Service) AutomaticClose(ctx context.Context) (*Closure, error) {
	c, err := s.Close(ctx, "")
	if errors.Is(err, ErrNoOpenClosure) {
		s.log.Debug().Msg("automatic close: no open register")
		return nil, nil
	}
	return c, err
}

// CheckAndDispatch is the coarse scheduler hook. Inside the first
// window after the close cutoff it closes the register; inside the
// first window after the open hour it opens one; otherwise it does
// nothing. It is safe to call more than once per window: both
// automatic operations are conditional at the store, so a second
// invocation is a no-op. Errors are logged, never returned.
func (s *Service) CheckAndDispatch(ctx context.Context, now time.Time) Action {
	switch {
	case s.inWindow(now, s.cutoff):
		if _, err := s.AutomaticClose(ctx); err != nil {
			s.log.Error().Err(err).Msg("automatic close failed")
		}
		return ActionClose
	case s.inWindow(now, s.openAt):
		if _, err := s.AutomaticOpen(ctx); err != nil {
			s.log.Error().Err(err).Msg("automatic open failed")
		}
		return ActionOpen
	default:
		return ActionNone
	}
}

// History lists closed registers, newest first.
func (s *Service) History(ctx context.Context, f Filter, page, perPage int) ([]Closure, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	return s.closures.FindMany(ctx, f, page, perPage)
}

// inWindow reports whether now's local wall-clock time falls in
// [c, c+window). Wall-clock distance is taken modulo 24h so a window
// that starts just before local midnight still covers the first
// minutes of the next day.
func (s *Service) inWindow(now time.Time, c period.Cutoff) bool {
	local := now.In(c.Location)
	wallClock := time.Duration(local.Hour())*time.Hour +
		time.Duration(local.Minute())*time.Minute +
		time.Duration(local.Second())*time.Second
	cutoff := time.Duration(c.Hour)*time.Hour + time.Duration(c.Minute)*time.Minute

	elapsed := wallClock - cutoff
	if elapsed < 0 {
		elapsed += 24 * time.Hour
	}
	return elapsed < s.window
}

// aggregate folds the period's transactions into method totals. A
// store failure or a panic out of the fold degrades to empty totals so
// a malformed transaction can never block the accounting cycle.
func (s *Service) aggregate(ctx context.Context, start, end time.Time) (totals []ledger.MethodTotal) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn().Interface("panic", r).Msg("aggregation failed; returning empty totals")
			totals = nil
		}
	}()

	txs, err := s.txs.TransactionsBetween(ctx, start, end)
	if err != nil {
		s.log.Warn().Err(err).Time("start", start).Time("end", end).Msg("transaction query failed")
		return nil
	}
	methods, err := s.methods.ActiveMethods(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("method catalog unavailable; aggregating without seed buckets")
		methods = nil
	}
	return ledger.Aggregate(txs, methods)
}

func sumTotals(totals []ledger.MethodTotal) (credit, debit float64) {
	for _, t := range totals {
		credit += t.Credit
		debit += t.Debit
	}
	return credit, debit
}
