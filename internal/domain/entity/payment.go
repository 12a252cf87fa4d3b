package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/freelio/freelio-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Payment is a single settlement against an invoice. Payments are value
// objects: immutable once appended, never addressed or removed
// individually.
type Payment struct {
	Date   time.Time          `json:"date"`
	Amount decimal.Decimal    `json:"amount"`
	Method enum.PaymentMethod `json:"method"`
	Note   string             `json:"note,omitempty"`
}

// PaymentList is the append-only payment ledger of an invoice, persisted as
// a JSON document. Malformed entries are rejected when the column is
// scanned, not on first use.
type PaymentList []Payment

// Total returns the sum of all payment amounts.
func (l PaymentList) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range l {
		total = total.Add(p.Amount)
	}
	return total
}

// Value implements driver.Valuer, serializing the ledger to JSON. An empty
// ledger is stored as an empty array, never as NULL.
func (l PaymentList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner, validating every entry eagerly so a corrupt
// ledger surfaces as a load error instead of a silent bad total later.
func (l *PaymentList) Scan(value interface{}) error {
	if value == nil {
		*l = PaymentList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into PaymentList", value)
	}

	var entries []Payment
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("malformed payment ledger: %w", err)
	}
	for idx, p := range entries {
		if err := p.validate(); err != nil {
			return fmt.Errorf("malformed payment ledger entry %d: %w", idx, err)
		}
	}

	*l = entries
	return nil
}

func (p Payment) validate() error {
	if p.Date.IsZero() {
		return errors.New("missing date")
	}
	if p.Amount.Sign() <= 0 {
		return errors.New("amount must be greater than zero")
	}
	if !p.Method.Valid() {
		return fmt.Errorf("unknown payment method %q", p.Method)
	}
	return nil
}
