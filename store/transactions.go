package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rustyeddy/cashdesk/ledger"
	"github.com/rustyeddy/cashdesk/register"
)

// Record inserts a transaction. The metadata bag is stored as JSON
// text; method and type links are nullable.
func (s *SQLite) Record(ctx context.Context, tx ledger.Transaction) error {
	meta := []byte("{}")
	if len(tx.Metadata) > 0 {
		var err error
		meta, err = json.Marshal(tx.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
	}

	var methodID, methodName, typeName, affects sql.NullString
	if tx.Method != nil {
		methodID = sql.NullString{String: tx.Method.ID, Valid: true}
		methodName = sql.NullString{String: tx.Method.Name, Valid: true}
	}
	if tx.Type != nil {
		typeName = sql.NullString{String: tx.Type.Name, Valid: true}
		if tx.Type.AffectsBalance != "" {
			affects = sql.NullString{String: string(tx.Type.AffectsBalance), Valid: true}
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, amount, transaction_date, method_id, method_name, type_name, affects_balance, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.Amount, tx.Date, methodID, methodName, typeName, affects, string(meta),
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// TransactionsBetween returns transactions with transaction_date in
// [start, end), oldest first.
func (s *SQLite) TransactionsBetween(ctx context.Context, start, end time.Time) ([]ledger.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, amount, transaction_date, method_id, method_name, type_name, affects_balance, metadata
		FROM transactions
		WHERE transaction_date >= ? AND transaction_date < ?
		ORDER BY transaction_date ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

// TransactionsForClosure returns the transactions covered by a closure
// (its open-to-close span; open-to-now for a still-open one). An
// unknown closure id yields an empty result, not an error.
func (s *SQLite) TransactionsForClosure(ctx context.Context, closureID string) ([]ledger.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT created_at, closed_at FROM closures WHERE id = ?`, closureID)

	var (
		createdAt time.Time
		closedAt  sql.NullTime
	)
	if err := row.Scan(&createdAt, &closedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	end := time.Now().UTC()
	if closedAt.Valid {
		end = closedAt.Time
	}
	return s.TransactionsBetween(ctx, createdAt, end)
}

// ActiveMethods lists the active payment-method catalog in insertion
// order.
func (s *SQLite) ActiveMethods(ctx context.Context) ([]ledger.Method, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name FROM payment_methods WHERE active = 1 ORDER BY rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Method
	for rows.Next() {
		var m ledger.Method
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanTransaction(rows *sql.Rows) (ledger.Transaction, error) {
	var (
		tx         ledger.Transaction
		methodID   sql.NullString
		methodName sql.NullString
		typeName   sql.NullString
		affects    sql.NullString
		meta       string
	)
	if err := rows.Scan(&tx.ID, &tx.Amount, &tx.Date, &methodID, &methodName, &typeName, &affects, &meta); err != nil {
		return ledger.Transaction{}, err
	}

	if methodID.Valid || methodName.Valid {
		tx.Method = &ledger.Method{ID: methodID.String, Name: methodName.String}
	}
	if typeName.Valid || affects.Valid {
		tx.Type = &ledger.TransactionType{
			Name:           typeName.String,
			AffectsBalance: ledger.Balance(affects.String),
		}
	}
	if meta != "" && meta != "{}" {
		if err := json.Unmarshal([]byte(meta), &tx.Metadata); err != nil {
			return ledger.Transaction{}, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return tx, nil
}

// compile-time interface checks
var (
	_ register.ClosureStore      = (*SQLite)(nil)
	_ register.TransactionSource = (*SQLite)(nil)
	_ register.MethodCatalog     = (*SQLite)(nil)
)
