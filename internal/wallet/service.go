// Package wallet holds the import coordinator: the business rules for
// registering parsed statement records against accounts without
// creating duplicates.
package wallet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wallet-dev/wallet/internal/model"
	"github.com/wallet-dev/wallet/internal/parser"
	"github.com/wallet-dev/wallet/internal/store"
)

// Service coordinates parsing formats, account resolution and
// dedup-aware transaction registration over an injected store.
type Service struct {
	store   store.Store
	parsers *parser.Registry
	log     zerolog.Logger
}

// NewService creates a Service.
func NewService(st store.Store, parsers *parser.Registry, log zerolog.Logger) *Service {
	return &Service{store: st, parsers: parsers, log: log}
}

// SupportedFormats returns the statement formats offered to the user.
func (s *Service) SupportedFormats() []string {
	return parser.SupportedFormats()
}

// ParserFor returns the parser for format, or an
// UnsupportedFormatError when none is registered.
func (s *Service) ParserFor(format string) (parser.Parser, error) {
	return s.parsers.For(format)
}

// FetchAccountByIDOrName resolves an account token: numeric tokens by
// primary key, anything else by exact name.
func (s *Service) FetchAccountByIDOrName(token string) (model.Account, error) {
	token = strings.TrimSpace(token)
	if id, err := strconv.ParseInt(token, 10, 64); err == nil {
		return s.fetchAccountByID(id)
	}
	return s.fetchAccountByName(token)
}

func (s *Service) fetchAccountByID(id int64) (model.Account, error) {
	acc, err := s.store.FindAccountByID(id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return model.Account{}, &AccountNotFoundError{Ref: fmt.Sprintf("id %d", id)}
	case errors.Is(err, store.ErrMultipleMatches):
		return model.Account{}, &InvariantViolationError{Detail: fmt.Sprintf("more than one account for id %d", id)}
	case err != nil:
		return model.Account{}, fmt.Errorf("fetching account %d: %w", id, err)
	}
	return acc, nil
}

func (s *Service) fetchAccountByName(name string) (model.Account, error) {
	acc, err := s.store.FindAccountByName(name)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return model.Account{}, &AccountNotFoundError{Ref: name}
	case errors.Is(err, store.ErrMultipleMatches):
		return model.Account{}, &MultipleAccountsMatchedError{Name: name}
	case err != nil:
		return model.Account{}, fmt.Errorf("fetching account %q: %w", name, err)
	}
	return acc, nil
}

// RegisterTransaction stores a detached transaction under account.
// An equivalent stored record fails with DuplicateTransactionError and
// persists nothing. flush=true commits immediately; batch imports need
// that so later records can match siblings committed earlier in the
// same batch (dedup only sees committed state).
func (s *Service) RegisterTransaction(account model.Account, txn model.Transaction, flush bool) error {
	if account.ID == 0 {
		return &AccountNotFoundError{Ref: "account has no identity"}
	}
	known, err := s.store.ContainsAccount(account.ID)
	if err != nil {
		return fmt.Errorf("checking account %d: %w", account.ID, err)
	}
	if !known {
		return &AccountNotFoundError{Ref: fmt.Sprintf("id %d", account.ID)}
	}

	_, err = s.store.FindTransactionMatching(store.KeyOf(txn), account.ID)
	switch {
	case err == nil:
		return &DuplicateTransactionError{TransactionID: txn.TransactionID}
	case errors.Is(err, store.ErrMultipleMatches):
		return &InvariantViolationError{
			Detail: fmt.Sprintf("more than one stored transaction matches %s", txn.TransactionID),
		}
	case !errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("matching transaction %s: %w", txn.TransactionID, err)
	}

	attached := txn.WithAccount(account)
	if err := s.store.PersistTransaction(&attached, flush); err != nil {
		return fmt.Errorf("persisting transaction %s: %w", txn.TransactionID, err)
	}
	return nil
}

// Result summarizes a batch import.
type Result struct {
	Imported   int
	Duplicates []model.Transaction
}

// ImportStatement registers each transaction in statement order.
// Duplicates are collected and skipped; any other failure aborts the
// rest of the batch. Records committed before an abort stay committed:
// there is no batch rollback.
func (s *Service) ImportStatement(account model.Account, txns []model.Transaction) (Result, error) {
	var res Result
	for _, txn := range txns {
		err := s.RegisterTransaction(account, txn, true)
		var dup *DuplicateTransactionError
		switch {
		case err == nil:
			res.Imported++
		case errors.As(err, &dup):
			s.log.Warn().
				Str("transaction_id", dup.TransactionID).
				Str("name", txn.Name).
				Msg("duplicate transaction skipped")
			res.Duplicates = append(res.Duplicates, txn)
		default:
			return res, err
		}
	}
	s.log.Info().
		Int("imported", res.Imported).
		Int("duplicates", len(res.Duplicates)).
		Msg("statement import finished")
	return res, nil
}

// RegisterAccount creates a new account. id may be zero to let the
// store assign one.
func (s *Service) RegisterAccount(name string, id int64) (model.Account, error) {
	_, err := s.fetchAccountByName(name)
	var notFound *AccountNotFoundError
	switch {
	case err == nil:
		return model.Account{}, &AccountAlreadyExistsError{Ref: name}
	case !errors.As(err, &notFound):
		return model.Account{}, err
	}

	if id != 0 {
		if _, err := s.fetchAccountByID(id); err == nil {
			return model.Account{}, &AccountAlreadyExistsError{Ref: fmt.Sprintf("id %d", id)}
		} else if !errors.As(err, &notFound) {
			return model.Account{}, err
		}
	}

	acc := model.Account{ID: id, Name: name}
	if err := s.store.PersistAccount(&acc, true); err != nil {
		return model.Account{}, fmt.Errorf("persisting account %q: %w", name, err)
	}
	return acc, nil
}

// Accounts returns all stored accounts.
func (s *Service) Accounts() ([]model.Account, error) {
	return s.store.Accounts()
}

// DeleteAccount removes a stored account.
func (s *Service) DeleteAccount(account model.Account) error {
	known, err := s.store.ContainsAccount(account.ID)
	if err != nil {
		return fmt.Errorf("checking account %d: %w", account.ID, err)
	}
	if !known {
		return &AccountNotFoundError{Ref: fmt.Sprintf("id %d", account.ID)}
	}
	return s.store.RemoveAccount(account)
}

// DeleteTransaction removes a stored transaction.
func (s *Service) DeleteTransaction(txn model.Transaction) error {
	return s.store.RemoveTransaction(txn)
}
