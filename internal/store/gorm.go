package store

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"github.com/wallet-dev/wallet/internal/model"
)

// accountRow is the accounts table schema. Name is indexed but not
// unique: uniqueness is a service-level intent, and the resolver must
// be able to report a multi-match.
type accountRow struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"size:120;index"`
}

func (accountRow) TableName() string { return "accounts" }

// transactionRow is the transactions table schema. Amounts are stored
// as exact decimal text so the dedup match never goes through floats.
type transactionRow struct {
	ID              int64  `gorm:"primaryKey"`
	Type            string `gorm:"size:32"`
	DatePosted      time.Time
	Amount          string `gorm:"size:32"`
	ReferenceNumber int
	Name            string  `gorm:"size:200"`
	Memo            string  `gorm:"size:200"`
	RunningBalance  *string `gorm:"size:32"`
	TransactionID   string  `gorm:"size:120;index"`
	AccountID       int64   `gorm:"index"`
}

func (transactionRow) TableName() string { return "transactions" }

// DB is the GORM-backed Store.
type DB struct {
	db      *gorm.DB
	pending []any // rows persisted without flush, in order
}

// Open opens (creating if needed) the SQLite database at path and
// migrates the schema.
func Open(path string) (*DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	if err := db.AutoMigrate(&accountRow{}, &transactionRow{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the underlying database.
func (s *DB) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// PersistAccount stores a new account. A zero ID is assigned by the
// database; a non-zero ID is inserted as-is.
func (s *DB) PersistAccount(a *model.Account, flush bool) error {
	row := &accountRow{ID: a.ID, Name: a.Name}
	s.pending = append(s.pending, row)
	if !flush {
		return nil
	}
	if err := s.Flush(); err != nil {
		return err
	}
	a.ID = row.ID
	return nil
}

// PersistTransaction stores a new transaction row.
func (s *DB) PersistTransaction(t *model.Transaction, flush bool) error {
	row := newTransactionRow(*t)
	s.pending = append(s.pending, row)
	if !flush {
		return nil
	}
	if err := s.Flush(); err != nil {
		return err
	}
	t.ID = row.ID
	return nil
}

// Flush writes all buffered rows in one database transaction. The
// buffer is kept on failure so a retry sees the same rows.
func (s *DB) Flush() error {
	if len(s.pending) == 0 {
		return nil
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, row := range s.pending {
			if err := tx.Create(row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("flushing %d pending rows: %w", len(s.pending), err)
	}
	s.pending = s.pending[:0]
	return nil
}

// RemoveAccount deletes an account row.
func (s *DB) RemoveAccount(a model.Account) error {
	if err := s.db.Delete(&accountRow{}, a.ID).Error; err != nil {
		return fmt.Errorf("removing account %d: %w", a.ID, err)
	}
	return nil
}

// RemoveTransaction deletes a transaction row.
func (s *DB) RemoveTransaction(t model.Transaction) error {
	if err := s.db.Delete(&transactionRow{}, t.ID).Error; err != nil {
		return fmt.Errorf("removing transaction %d: %w", t.ID, err)
	}
	return nil
}

// ContainsAccount reports whether an account with id is stored.
func (s *DB) ContainsAccount(id int64) (bool, error) {
	var count int64
	if err := s.db.Model(&accountRow{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("checking account %d: %w", id, err)
	}
	return count > 0, nil
}

// FindAccountByID returns the account with the given primary key.
func (s *DB) FindAccountByID(id int64) (model.Account, error) {
	return s.findAccount("id = ?", id)
}

// FindAccountByName returns the account with the given exact name.
// ErrMultipleMatches when the name is ambiguous.
func (s *DB) FindAccountByName(name string) (model.Account, error) {
	return s.findAccount("name = ?", name)
}

func (s *DB) findAccount(query string, arg any) (model.Account, error) {
	var rows []accountRow
	if err := s.db.Where(query, arg).Limit(2).Find(&rows).Error; err != nil {
		return model.Account{}, fmt.Errorf("querying accounts: %w", err)
	}
	switch len(rows) {
	case 0:
		return model.Account{}, ErrNotFound
	case 1:
		return model.Account{ID: rows[0].ID, Name: rows[0].Name}, nil
	default:
		return model.Account{}, ErrMultipleMatches
	}
}

// Accounts returns all stored accounts ordered by id.
func (s *DB) Accounts() ([]model.Account, error) {
	var rows []accountRow
	if err := s.db.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	accounts := make([]model.Account, 0, len(rows))
	for _, r := range rows {
		accounts = append(accounts, model.Account{ID: r.ID, Name: r.Name})
	}
	return accounts, nil
}

// FindTransactionMatching returns the stored transaction equal to key
// within the given account. ErrMultipleMatches signals an integrity
// defect: the composite key is expected to identify at most one row.
func (s *DB) FindTransactionMatching(key TransactionKey, accountID int64) (model.Transaction, error) {
	var rows []transactionRow
	err := s.db.
		Where("transaction_id = ? AND name = ? AND amount = ? AND date_posted = ? AND type = ? AND account_id = ?",
			key.TransactionID, key.Name, key.Amount.String(), key.DatePosted, key.Type, accountID).
		Limit(2).
		Find(&rows).Error
	if err != nil {
		return model.Transaction{}, fmt.Errorf("querying transactions: %w", err)
	}
	switch len(rows) {
	case 0:
		return model.Transaction{}, ErrNotFound
	case 1:
		return rows[0].toTransaction()
	default:
		return model.Transaction{}, ErrMultipleMatches
	}
}

func newTransactionRow(t model.Transaction) *transactionRow {
	row := &transactionRow{
		ID:              t.ID,
		Type:            t.Type,
		DatePosted:      t.DatePosted,
		Amount:          t.Amount.String(),
		ReferenceNumber: t.ReferenceNumber,
		Name:            t.Name,
		Memo:            t.Memo,
		TransactionID:   t.TransactionID,
		AccountID:       t.AccountID,
	}
	if t.RunningBalance.Valid {
		bal := t.RunningBalance.Decimal.String()
		row.RunningBalance = &bal
	}
	return row
}

func (r transactionRow) toTransaction() (model.Transaction, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("stored amount %q: %w", r.Amount, err)
	}
	t := model.Transaction{
		ID:              r.ID,
		Type:            r.Type,
		DatePosted:      r.DatePosted,
		Amount:          amount,
		ReferenceNumber: r.ReferenceNumber,
		Name:            r.Name,
		Memo:            r.Memo,
		TransactionID:   r.TransactionID,
		AccountID:       r.AccountID,
	}
	if r.RunningBalance != nil {
		bal, err := decimal.NewFromString(*r.RunningBalance)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("stored running balance %q: %w", *r.RunningBalance, err)
		}
		t.RunningBalance = decimal.NullDecimal{Decimal: bal, Valid: true}
	}
	return t, nil
}
