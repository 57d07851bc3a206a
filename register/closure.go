// Package register implements the cash-closure state machine: at most
// one register session is open at any time, transactions accumulate
// into it, and closing it freezes per-payment-method totals.
package register

import (
	"context"
	"errors"
	"time"

	"github.com/rustyeddy/cashdesk/ledger"
)

// Status of a closure record.
type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusClosed Status = "CLOSED"
)

var (
	// ErrNoOpenClosure is returned by Close when there is nothing to
	// close. Interactive callers surface it; automatic paths swallow it.
	ErrNoOpenClosure = errors.New("no open register to close")

	// ErrAlreadyOpen is returned by Open when a register is already
	// open.
	ErrAlreadyOpen = errors.New("a register is already open")
)

// Closure is one register session. LastActivityAt tracks the most
// recent read of the open record; ClosedAt is nil until the session is
// closed.
type Closure struct {
	ID             string
	Status         Status
	CreatedAt      time.Time
	LastActivityAt time.Time
	ClosedAt       *time.Time
	OperatorID     string

	Totals       []ledger.MethodTotal
	TotalCredit  float64
	TotalDebit   float64
	FinalBalance float64
}

// CloseFields carries everything a close writes in one atomic update.
type CloseFields struct {
	ClosedAt     time.Time
	OperatorID   string
	Totals       []ledger.MethodTotal
	TotalCredit  float64
	TotalDebit   float64
	FinalBalance float64
}

// Filter narrows History listings.
type Filter struct {
	// ClosedFrom/ClosedTo bound closed_at as [from, to); zero values
	// mean unbounded.
	ClosedFrom time.Time
	ClosedTo   time.Time
}

// ClosureStore is the persistence contract for closure records.
//
// FindOpen and FindLatestClosed return (nil, nil) when no matching
// record exists. Create must refuse to insert a second OPEN record,
// returning ErrAlreadyOpen. CloseIfOpen performs a conditional update
// (status OPEN required) and reports whether a row transitioned, so a
// lost race surfaces as (false, nil) rather than a double close.
type ClosureStore interface {
	FindOpen(ctx context.Context) (*Closure, error)
	FindLatestClosed(ctx context.Context) (*Closure, error)
	Create(ctx context.Context, c *Closure) error
	CloseIfOpen(ctx context.Context, id string, f CloseFields) (bool, error)
	Touch(ctx context.Context, id string, at time.Time) error
	FindMany(ctx context.Context, f Filter, page, perPage int) ([]Closure, int, error)
}

// TransactionSource yields the transactions inside [start, end).
type TransactionSource interface {
	TransactionsBetween(ctx context.Context, start, end time.Time) ([]ledger.Transaction, error)
}

// MethodCatalog lists the currently active payment methods, used to
// seed aggregation buckets.
type MethodCatalog interface {
	ActiveMethods(ctx context.Context) ([]ledger.Method, error)
}
