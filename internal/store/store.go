// Package store is the persistence layer behind the wallet service.
// The service depends only on the Store interface; the GORM/SQLite
// implementation lives in gorm.go.
package store

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wallet-dev/wallet/internal/model"
)

var (
	// ErrNotFound is returned by finders that matched nothing.
	ErrNotFound = errors.New("not found")
	// ErrMultipleMatches is returned when an identity lookup matched
	// more than one row. Callers treat it as a data-integrity defect,
	// not an expected branch.
	ErrMultipleMatches = errors.New("multiple rows matched")
)

// TransactionKey is the composite identity used for duplicate
// detection. Statement transaction ids are not globally unique, so the
// key carries the descriptive fields as well, and lookups are always
// scoped to one account.
type TransactionKey struct {
	TransactionID string
	Name          string
	Amount        decimal.Decimal
	DatePosted    time.Time
	Type          string
}

// KeyOf returns the dedup key of a transaction.
func KeyOf(t model.Transaction) TransactionKey {
	return TransactionKey{
		TransactionID: t.TransactionID,
		Name:          t.Name,
		Amount:        t.Amount,
		DatePosted:    t.DatePosted,
		Type:          t.Type,
	}
}

// Store is the persistence port. Persist with flush=false buffers the
// row until Flush; finders only ever see flushed state.
type Store interface {
	PersistAccount(a *model.Account, flush bool) error
	PersistTransaction(t *model.Transaction, flush bool) error
	RemoveAccount(a model.Account) error
	RemoveTransaction(t model.Transaction) error
	Flush() error

	ContainsAccount(id int64) (bool, error)
	FindAccountByID(id int64) (model.Account, error)
	FindAccountByName(name string) (model.Account, error)
	Accounts() ([]model.Account, error)
	FindTransactionMatching(key TransactionKey, accountID int64) (model.Transaction, error)

	Close() error
}
