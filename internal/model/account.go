package model

// Account is a ledger account transactions are imported into.
type Account struct {
	ID   int64  // assigned by the store
	Name string // display label, unique by intent but not enforced
}
