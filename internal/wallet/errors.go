package wallet

import "fmt"

// AccountNotFoundError means the requested account does not exist or
// the given account is not known to the store. Fatal to an import
// batch.
type AccountNotFoundError struct {
	Ref string // id or name the lookup was made with
}

func (e *AccountNotFoundError) Error() string {
	return "account not found: " + e.Ref
}

// MultipleAccountsMatchedError means an account name lookup was
// ambiguous. Account names are expected to be unique but storage does
// not enforce it.
type MultipleAccountsMatchedError struct {
	Name string
}

func (e *MultipleAccountsMatchedError) Error() string {
	return fmt.Sprintf("more than one account matches %q", e.Name)
}

// AccountAlreadyExistsError means registration would collide with a
// stored account.
type AccountAlreadyExistsError struct {
	Ref string
}

func (e *AccountAlreadyExistsError) Error() string {
	return "account already exists: " + e.Ref
}

// DuplicateTransactionError means an equivalent transaction is already
// stored for the account. Recoverable: batch imports skip the record
// and continue.
type DuplicateTransactionError struct {
	TransactionID string
}

func (e *DuplicateTransactionError) Error() string {
	return "duplicate transaction: " + e.TransactionID
}

// InvariantViolationError reports a storage-integrity defect, such as
// more than one row matching an identity key. It is surfaced apart
// from not-found and duplicate outcomes so callers investigate instead
// of branching on it.
type InvariantViolationError struct {
	Detail string
}

func (e *InvariantViolationError) Error() string {
	return "storage invariant violated: " + e.Detail
}
