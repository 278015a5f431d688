// Package normalizer turns the untrusted "fields" object of a parse response
// into a NormalizedStatement that is always safe to render.
package normalizer

import (
	"bytes"
	"encoding/json"
	"strconv"

	"stmtview/internal/domain"
)

// Normalize derives a NormalizedStatement from bank and the decoded "fields" value.
// It never fails: absent, null, empty or wrong-typed values become domain.Placeholder,
// and a missing or non-list "transactions" becomes an empty slice.
func Normalize(bank any, fields any) domain.NormalizedStatement {
	obj, _ := fields.(map[string]any)

	return domain.NormalizedStatement{
		Bank:              Scalar(bank),
		Last4:             Scalar(obj["last4"]),
		StatementDate:     Scalar(obj["statement_date"]),
		BillingCycleStart: Scalar(obj["billing_cycle_start"]),
		BillingCycleEnd:   Scalar(obj["billing_cycle_end"]),
		PaymentDueDate:    Scalar(obj["payment_due_date"]),
		TotalBalance:      Scalar(obj["total_balance"]),
		MinimumDue:        Scalar(obj["minimum_due"]),
		Transactions:      transactions(obj["transactions"]),
	}
}

// NormalizeJSON decodes raw as the "fields" object and normalizes it.
// Undecodable input yields an all-placeholder statement.
func NormalizeJSON(bank string, raw []byte) domain.NormalizedStatement {
	return Normalize(bank, Decode(raw))
}

// Decode unmarshals raw JSON keeping numbers in their literal form.
// It returns nil when raw is not valid JSON.
func Decode(raw []byte) any {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	return v
}

// Scalar renders one display value. Strings pass through untouched unless empty;
// other JSON scalars follow display truthiness (0 and false are missing).
func Scalar(v any) string {
	switch t := v.(type) {
	case string:
		if t == "" {
			return domain.Placeholder
		}
		return t
	case json.Number:
		if f, err := t.Float64(); err == nil && f == 0 {
			return domain.Placeholder
		}
		return t.String()
	case float64:
		if t == 0 {
			return domain.Placeholder
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if !t {
			return domain.Placeholder
		}
		return "true"
	default:
		return domain.Placeholder
	}
}

func transactions(v any) []domain.Transaction {
	list, ok := v.([]any)
	if !ok {
		return []domain.Transaction{}
	}

	out := make([]domain.Transaction, 0, len(list))
	for _, item := range list {
		tx, _ := item.(map[string]any)
		out = append(out, domain.Transaction{
			Date:        Scalar(tx["date"]),
			Description: Scalar(tx["description"]),
			Amount:      Scalar(tx["amount"]),
		})
	}
	return out
}
