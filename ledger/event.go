// Package ledger folds an account's append-only PnL events into the
// balance figures shown on every dashboard surface.
package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidDate = errors.New("ledger: event date must be YYYY-MM-DD")
	ErrZeroAmount  = errors.New("ledger: event amount must be non-zero")
)

// Event is a single dated profit (positive) or loss (negative) attributed
// to a trading day. Events are immutable once appended.
type Event struct {
	Date        string          `json:"date" yaml:"date"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
}

// Validate applies the entry-form policy: a real calendar date and a
// non-zero amount. Derive never calls it.
func (e Event) Validate() error {
	if _, err := ParseDate(e.Date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, e.Date)
	}
	if e.Amount.IsZero() {
		return ErrZeroAmount
	}
	return nil
}

// Append returns a new slice holding events followed by e. The backing
// array of events is never written, so callers holding the old slice keep
// seeing the old history.
func Append(events []Event, e Event) []Event {
	out := make([]Event, len(events), len(events)+1)
	copy(out, events)
	return append(out, e)
}
