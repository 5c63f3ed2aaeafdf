package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single record from a bank statement. Values parsed
// from a statement are detached (AccountID zero) until an import
// assigns an owning account; persisted transactions are never mutated.
type Transaction struct {
	ID              int64
	Type            string // bank transaction type (CREDIT, DEBIT, ...)
	DatePosted      time.Time
	Amount          decimal.Decimal // negative = money out
	ReferenceNumber int             // statement-assigned, 0 when absent
	Name            string          // payee/description, max 200 chars
	Memo            string          // optional free text, max 200 chars
	RunningBalance  decimal.NullDecimal
	TransactionID   string // statement-assigned id (FITID), max 120 chars
	AccountID       int64  // zero until attached
}

// WithAccount returns a copy of the transaction attached to account.
func (t Transaction) WithAccount(a Account) Transaction {
	t.AccountID = a.ID
	return t
}

// Attached reports whether the transaction has an owning account.
func (t Transaction) Attached() bool {
	return t.AccountID != 0
}
