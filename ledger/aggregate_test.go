package ledger

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var catalog = []Method{
	{ID: CashID, Name: CashName},
	{ID: "tarjeta-credito", Name: "Credit Card"},
	{ID: "transferencia", Name: "Bank Transfer"},
}

func tx(amount float64, meta map[string]string) Transaction {
	return Transaction{
		ID:       "t",
		Amount:   amount,
		Date:     time.Date(2025, 3, 27, 12, 0, 0, 0, time.UTC),
		Metadata: meta,
	}
}

func findTotal(t *testing.T, totals []MethodTotal, id string) MethodTotal {
	t.Helper()
	for _, mt := range totals {
		if mt.ID == id {
			return mt
		}
	}
	t.Fatalf("no bucket %q in %+v", id, totals)
	return MethodTotal{}
}

func TestAggregateCashBucket(t *testing.T) {
	t.Parallel()

	// A metadata "efectivo" credit and an in-store debit both land in
	// the single cash bucket.
	txs := []Transaction{
		tx(100, map[string]string{"paymentMethod": "efectivo"}),
		{
			Amount: -30,
			Type:   &TransactionType{AffectsBalance: Debit},
			Method: &Method{ID: "pm-store", Name: "Pago en Tienda"},
		},
	}

	totals := Aggregate(txs, catalog)
	require.Len(t, totals, 1)

	cash := totals[0]
	assert.Equal(t, CashID, cash.ID)
	assert.Equal(t, CashName, cash.Name)
	assert.Equal(t, 100.0, cash.Credit)
	assert.Equal(t, 30.0, cash.Debit)
	assert.Equal(t, 70.0, cash.Total)
}

func TestAggregateCardDoesNotCollideWithCash(t *testing.T) {
	t.Parallel()

	txs := []Transaction{
		tx(50, map[string]string{"paymentMethod": "tarjeta"}),
		tx(80, map[string]string{"paymentMethod": "efectivo"}),
	}

	totals := Aggregate(txs, catalog)
	require.Len(t, totals, 2)

	cash := findTotal(t, totals, CashID)
	assert.Equal(t, 80.0, cash.Credit)

	// "tarjeta" carries no id, so one is synthesized off the alias
	// name rather than falling into the cash bucket.
	card := findTotal(t, totals, "other-credit-card")
	assert.Equal(t, "Credit Card", card.Name)
	assert.Equal(t, 50.0, card.Credit)
}

func TestAggregateMetadataIDWins(t *testing.T) {
	t.Parallel()

	txs := []Transaction{
		tx(25, map[string]string{
			"paymentMethod":   "tarjeta-debito",
			"paymentMethodId": "pm-debit-7",
		}),
	}

	totals := Aggregate(txs, catalog)
	require.Len(t, totals, 1)
	assert.Equal(t, "pm-debit-7", totals[0].ID)
	assert.Equal(t, "Debit Card", totals[0].Name)
}

func TestAggregateLinkedMethod(t *testing.T) {
	t.Parallel()

	txs := []Transaction{
		{Amount: 40, Method: &Method{ID: "pm-yappy", Name: "Yappy"}},
	}

	totals := Aggregate(txs, catalog)
	require.Len(t, totals, 1)
	assert.Equal(t, "pm-yappy", totals[0].ID)
	assert.Equal(t, "Yappy", totals[0].Name)
	assert.Equal(t, 40.0, totals[0].Credit)
}

func TestAggregateMetadataNameAuthoritative(t *testing.T) {
	t.Parallel()

	// Metadata name wins over the linked method's name; the linked id
	// still supplies the bucket id.
	txs := []Transaction{
		tx(10, map[string]string{"paymentMethod": "punto pago"}),
	}
	txs[0].Method = &Method{ID: "pm-pp", Name: "PuntoPago S.A."}

	totals := Aggregate(txs, catalog)
	require.Len(t, totals, 1)
	assert.Equal(t, "pm-pp", totals[0].ID)
	assert.Equal(t, "Punto Pago", totals[0].Name)
}

func TestAggregateUnknownMethodTitleCased(t *testing.T) {
	t.Parallel()

	txs := []Transaction{
		tx(15, map[string]string{"paymentMethod": "cheque gerencial"}),
	}

	totals := Aggregate(txs, catalog)
	require.Len(t, totals, 1)
	assert.Equal(t, "other-cheque-gerencial", totals[0].ID)
	assert.Equal(t, "Cheque Gerencial", totals[0].Name)
}

func TestAggregateMultibyteMethodName(t *testing.T) {
	t.Parallel()

	// Names starting with a multibyte rune must title-case cleanly,
	// not get sliced mid-rune.
	txs := []Transaction{
		tx(8, map[string]string{"paymentMethod": "ñame asado"}),
	}

	totals := Aggregate(txs, catalog)
	require.Len(t, totals, 1)
	assert.Equal(t, "Ñame Asado", totals[0].Name)
	assert.Equal(t, "other-ñame-asado", totals[0].ID)
}

func TestClassifyPriority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tx   Transaction
		want Balance
	}{
		{
			name: "affects balance wins over sign",
			tx:   Transaction{Amount: 100, Type: &TransactionType{AffectsBalance: Debit}},
			want: Debit,
		},
		{
			name: "type name vocabulary spanish",
			tx:   Transaction{Amount: 100, Type: &TransactionType{Name: "Gasto operativo"}},
			want: Debit,
		},
		{
			name: "type name vocabulary english",
			tx:   Transaction{Amount: -100, Type: &TransactionType{Name: "Other income"}},
			want: Credit,
		},
		{
			name: "metadata hint",
			tx:   tx(-5, map[string]string{"transactionType": "ingreso extraordinario"}),
			want: Credit,
		},
		{
			name: "positive sign fallback",
			tx:   Transaction{Amount: 5},
			want: Credit,
		},
		{
			name: "negative sign fallback",
			tx:   Transaction{Amount: -5},
			want: Debit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.tx))
		})
	}
}

func TestAggregateConservation(t *testing.T) {
	t.Parallel()

	txs := []Transaction{
		tx(100, map[string]string{"paymentMethod": "efectivo"}),
		tx(-40, map[string]string{"paymentMethod": "efectivo"}),
		tx(55, map[string]string{"paymentMethod": "tarjeta"}),
		{Amount: 20, Type: &TransactionType{Name: "egreso vario"}},
		{Amount: 12.5, Method: &Method{ID: "pm-yappy", Name: "Yappy"}},
	}

	// Every amount is accounted exactly once, as a credit or a debit.
	var wantNet float64
	for _, x := range txs {
		if classify(x) == Credit {
			wantNet += math.Abs(x.Amount)
		} else {
			wantNet -= math.Abs(x.Amount)
		}
	}

	totals := Aggregate(txs, catalog)
	var gotNet float64
	for _, mt := range totals {
		gotNet += mt.Credit - mt.Debit
		assert.InDelta(t, mt.Credit-mt.Debit, mt.Total, 1e-9)
	}
	assert.InDelta(t, wantNet, gotNet, 1e-9)
}

func TestAggregateIdempotent(t *testing.T) {
	t.Parallel()

	txs := []Transaction{
		tx(100, map[string]string{"paymentMethod": "efectivo"}),
		tx(55, map[string]string{"paymentMethod": "transferencia-bancaria", "paymentMethodId": "transferencia"}),
		{Amount: -9, Method: &Method{ID: "pm-yappy", Name: "Yappy"}},
	}

	first := Aggregate(txs, catalog)
	second := Aggregate(txs, catalog)
	assert.Equal(t, first, second)
}

func TestAggregateDropsIdleMethods(t *testing.T) {
	t.Parallel()

	txs := []Transaction{
		tx(10, map[string]string{"paymentMethod": "efectivo"}),
	}

	totals := Aggregate(txs, catalog)
	require.Len(t, totals, 1)
	assert.Equal(t, CashID, totals[0].ID)
}

func TestAggregateEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Aggregate(nil, catalog))
	assert.Empty(t, Aggregate(nil, nil))
}
