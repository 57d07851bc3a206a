// Package ledger holds the transaction model and the aggregation fold
// that turns raw transactions into per-payment-method credit/debit
// totals for a register session.
package ledger

import "time"

// Balance says which side of the register a transaction lands on.
type Balance string

const (
	Credit Balance = "credit"
	Debit  Balance = "debit"
)

// Method is a payment method from the catalog (or synthesized during
// aggregation when a transaction names one the catalog doesn't know).
type Method struct {
	ID   string
	Name string
}

// TransactionType categorizes a transaction. AffectsBalance, when set,
// is the authoritative credit/debit classification; Name is used as a
// fallback vocabulary match.
type TransactionType struct {
	Name           string
	AffectsBalance Balance
}

// Transaction is one movement of money through the register. Payment
// method information has accumulated in three places over the life of
// the schema: the linked Method, a paymentMethod/paymentMethodId pair
// in Metadata, and nothing at all. The aggregation fold reconciles
// them; see resolveMethod.
type Transaction struct {
	ID       string
	Amount   float64
	Date     time.Time
	Method   *Method
	Type     *TransactionType
	Metadata map[string]string
}

// MethodTotal is the per-method accumulator produced by Aggregate.
// Credit and Debit are stored positive; Total = Credit - Debit.
type MethodTotal struct {
	ID     string
	Name   string
	Credit float64
	Debit  float64
	Total  float64
}
