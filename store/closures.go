package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rustyeddy/cashdesk/ledger"
	"github.com/rustyeddy/cashdesk/register"
)

const closureColumns = `id, status, created_at, last_activity_at, closed_at, operator_id,
	total_credit, total_debit, final_balance`

// FindOpen returns the open closure, or (nil, nil) when none exists.
func (s *SQLite) FindOpen(ctx context.Context) (*register.Closure, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+closureColumns+`
		FROM closures
		WHERE status = ?
		ORDER BY created_at DESC
		LIMIT 1`, register.StatusOpen)

	c, err := scanClosure(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// FindLatestClosed returns the most recently closed closure with its
// persisted totals, or (nil, nil) when none exists.
func (s *SQLite) FindLatestClosed(ctx context.Context) (*register.Closure, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+closureColumns+`
		FROM closures
		WHERE status = ?
		ORDER BY closed_at DESC
		LIMIT 1`, register.StatusClosed)

	c, err := scanClosure(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadTotals(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts a new OPEN closure. The insert is conditional on no
// OPEN row existing, so two racing opens cannot both succeed; the
// loser gets register.ErrAlreadyOpen.
func (s *SQLite) Create(ctx context.Context, c *register.Closure) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO closures (id, status, created_at, last_activity_at)
		SELECT ?, ?, ?, ?
		WHERE NOT EXISTS (SELECT 1 FROM closures WHERE status = ?)`,
		c.ID, register.StatusOpen, c.CreatedAt, c.LastActivityAt, register.StatusOpen,
	)
	if err != nil {
		return fmt.Errorf("insert closure: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return register.ErrAlreadyOpen
	}
	return nil
}

// CloseIfOpen transitions the closure to CLOSED and persists its
// totals, but only if it is still OPEN. The status update and totals
// insert share one transaction, so a half-closed record is never
// observable. Zero rows affected means someone closed it first.
func (s *SQLite) CloseIfOpen(ctx context.Context, id string, f register.CloseFields) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE closures
		SET status = ?, closed_at = ?, last_activity_at = ?, operator_id = ?,
			total_credit = ?, total_debit = ?, final_balance = ?
		WHERE id = ? AND status = ?`,
		register.StatusClosed, f.ClosedAt, f.ClosedAt, f.OperatorID,
		f.TotalCredit, f.TotalDebit, f.FinalBalance,
		id, register.StatusOpen,
	)
	if err != nil {
		return false, fmt.Errorf("close closure: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	for i, mt := range f.Totals {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO closure_totals (closure_id, method_id, method_name, credit, debit, total, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, mt.ID, mt.Name, mt.Credit, mt.Debit, mt.Total, i,
		); err != nil {
			return false, fmt.Errorf("insert closure total: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// Touch updates last_activity_at on the given closure.
func (s *SQLite) Touch(ctx context.Context, id string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE closures SET last_activity_at = ? WHERE id = ?`, at, id)
	return err
}

// FindMany lists closed closures newest first, with their totals.
// Page numbering starts at 1.
func (s *SQLite) FindMany(ctx context.Context, f register.Filter, page, perPage int) ([]register.Closure, int, error) {
	where := `WHERE status = ?`
	args := []any{register.StatusClosed}
	if !f.ClosedFrom.IsZero() {
		where += ` AND closed_at >= ?`
		args = append(args, f.ClosedFrom)
	}
	if !f.ClosedTo.IsZero() {
		where += ` AND closed_at < ?`
		args = append(args, f.ClosedTo)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM closures `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+closureColumns+`
		FROM closures `+where+`
		ORDER BY closed_at DESC
		LIMIT ? OFFSET ?`,
		append(args, perPage, (page-1)*perPage)...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []register.Closure
	for rows.Next() {
		c, err := scanClosure(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range out {
		if err := s.loadTotals(ctx, &out[i]); err != nil {
			return nil, 0, err
		}
	}
	return out, total, nil
}

func (s *SQLite) loadTotals(ctx context.Context, c *register.Closure) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT method_id, method_name, credit, debit, total
		FROM closure_totals
		WHERE closure_id = ?
		ORDER BY position ASC`, c.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	c.Totals = nil
	for rows.Next() {
		var mt ledger.MethodTotal
		if err := rows.Scan(&mt.ID, &mt.Name, &mt.Credit, &mt.Debit, &mt.Total); err != nil {
			return err
		}
		c.Totals = append(c.Totals, mt)
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClosure(row rowScanner) (*register.Closure, error) {
	var (
		c        register.Closure
		closedAt sql.NullTime
	)
	err := row.Scan(
		&c.ID,
		&c.Status,
		&c.CreatedAt,
		&c.LastActivityAt,
		&closedAt,
		&c.OperatorID,
		&c.TotalCredit,
		&c.TotalDebit,
		&c.FinalBalance,
	)
	if err != nil {
		return nil, err
	}
	if closedAt.Valid {
		t := closedAt.Time
		c.ClosedAt = &t
	}
	return &c, nil
}
