package ledger

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// The cash bucket. Transactions that never identify a payment method
// default here, and several legacy spellings collapse into it.
const (
	CashID   = "efectivo"
	CashName = "Cash"
)

// storeSaleName is the legacy label the storefront attached to
// in-store payments; those are always cash.
const storeSaleName = "Pago en Tienda"

// metadata keys that may carry payment method information.
const (
	metaMethod   = "paymentMethod"
	metaMethodID = "paymentMethodId"
	metaTypeHint = "transactionType"
)

// methodAliases maps normalized metadata.paymentMethod values to
// display names. Spellings drifted over time, so several map to the
// same method.
var methodAliases = map[string]string{
	"tarjeta":                "Credit Card",
	"tarjeta-credito":        "Credit Card",
	"tarjeta-de-credito":     "Credit Card",
	"tarjeta-debito":         "Debit Card",
	"transferencia":          "Bank Transfer",
	"transferencia-bancaria": "Bank Transfer",
}

// resolveMethod decides which payment-method bucket a transaction
// belongs to. Method identity lives in up to three places (the
// metadata bag, a metadata id, and a linked catalog method) and the
// sources disagree for old rows, so resolution is a strict priority
// chain:
//
//  1. metadata.paymentMethod string, normalized and de-aliased; its
//     display name wins over everything else.
//  2. metadata.paymentMethodId, unless step 1 already resolved cash.
//  3. the linked catalog method: "Pago en Tienda" forces the cash
//     bucket; otherwise it fills whatever id/name is still unset.
//  4. a bucket that still carries the cash id but a non-cash name gets
//     a synthesized "other-" id so it cannot collide with real cash.
func resolveMethod(tx Transaction) (id, name string) {
	id, name = CashID, CashName
	nameFromMetadata := false
	idSet := false

	if raw, ok := tx.Metadata[metaMethod]; ok && strings.TrimSpace(raw) != "" {
		norm := strings.ToLower(strings.TrimSpace(raw))
		nameFromMetadata = true
		if norm == CashID {
			id, name = CashID, CashName
			idSet = true
		} else if alias, ok := methodAliases[norm]; ok {
			name = alias
		} else {
			name = titleCase(norm)
		}
	}

	resolvedCash := idSet && id == CashID

	if mid, ok := tx.Metadata[metaMethodID]; ok && mid != "" && !resolvedCash {
		id = mid
		idSet = true
	}

	if m := tx.Method; m != nil {
		if m.Name == storeSaleName {
			return CashID, CashName
		}
		if !idSet && m.ID != "" && m.ID != CashID {
			id = m.ID
			idSet = true
		}
		if !nameFromMetadata && m.Name != "" && !(id == CashID && name == CashName) {
			name = m.Name
		}
	}

	// Distinct methods known only by name must not pile up in the
	// cash bucket.
	if id == CashID && name != CashName {
		id = "other-" + slug(name)
	}
	return id, name
}

// vocabulary returns the classification implied by a free-text type or
// category name, if any.
func vocabulary(s string) (Balance, bool) {
	s = strings.ToLower(s)
	for _, kw := range []string{"expense", "gasto", "egreso"} {
		if strings.Contains(s, kw) {
			return Debit, true
		}
	}
	for _, kw := range []string{"income", "ingreso"} {
		if strings.Contains(s, kw) {
			return Credit, true
		}
	}
	return "", false
}

// classify decides whether a transaction is a credit or a debit, in
// priority order: the type's explicit AffectsBalance, the type name
// vocabulary, a metadata hint, and finally the sign of the amount.
func classify(tx Transaction) Balance {
	if tx.Type != nil {
		if tx.Type.AffectsBalance == Credit || tx.Type.AffectsBalance == Debit {
			return tx.Type.AffectsBalance
		}
		if tx.Type.Name != "" {
			if b, ok := vocabulary(tx.Type.Name); ok {
				return b
			}
		}
	}
	if hint, ok := tx.Metadata[metaTypeHint]; ok && hint != "" {
		if b, ok := vocabulary(hint); ok {
			return b
		}
	}
	if tx.Amount > 0 {
		return Credit
	}
	return Debit
}

// Aggregate folds transactions into per-method credit/debit totals.
//
// Buckets are seeded at zero from the active catalog so resolution
// always finds a home for cash; buckets for methods outside the
// catalog are created on demand. Methods with no activity are dropped
// from the result. The fold is pure: same inputs, same output, in
// catalog order followed by first-seen order.
func Aggregate(txs []Transaction, active []Method) []MethodTotal {
	buckets := make(map[string]*MethodTotal, len(active))
	order := make([]string, 0, len(active))

	for _, m := range active {
		if _, ok := buckets[m.ID]; ok {
			continue
		}
		buckets[m.ID] = &MethodTotal{ID: m.ID, Name: m.Name}
		order = append(order, m.ID)
	}

	for _, tx := range txs {
		id, name := resolveMethod(tx)
		b, ok := buckets[id]
		if !ok {
			b = &MethodTotal{ID: id, Name: name}
			buckets[id] = b
			order = append(order, id)
		}

		amount := math.Abs(tx.Amount)
		if classify(tx) == Credit {
			b.Credit += amount
		} else {
			b.Debit += amount
		}
		b.Total = b.Credit - b.Debit
	}

	out := make([]MethodTotal, 0, len(order))
	for _, id := range order {
		b := buckets[id]
		if b.Credit > 0 || b.Debit > 0 {
			out = append(out, *b)
		}
	}
	return out
}

// titleCase renders a normalized metadata value ("punto pago",
// "punto-pago") as a display name ("Punto Pago").
func titleCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	})
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// slug lowercases a display name and joins its words with hyphens for
// use in synthesized ids.
func slug(s string) string {
	words := strings.Fields(strings.ToLower(s))
	return strings.Join(words, "-")
}
