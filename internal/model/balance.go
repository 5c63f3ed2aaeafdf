package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerBalance is the balance-as-of-date snapshot included in a
// statement file. A file carries exactly one snapshot; each import
// replaces the caller's notion of current balance rather than
// appending history.
type LedgerBalance struct {
	ID        int64
	AsOf      time.Time
	Balance   decimal.Decimal
	AccountID int64 // assigned by the caller, not parsed
}
