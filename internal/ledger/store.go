package ledger

import (
	"context"
	"errors"
)

var (
	// ErrAccountExists is returned by Tx.Create when the address already
	// holds an account. Callers rely on it as an insert-if-absent check.
	ErrAccountExists   = errors.New("account already exists")
	ErrAccountNotFound = errors.New("account not found")
	ErrReadOnly        = errors.New("write in read-only transaction")
)

// Tx is the view of the ledger inside one atomic unit of work.
type Tx interface {
	// Get returns a copy of the account data, or ErrAccountNotFound.
	Get(addr Address) ([]byte, error)
	// Create initializes the account at addr. It fails with ErrAccountExists
	// if anything is stored there, checked and written atomically.
	Create(addr Address, data []byte) error
	// Put replaces the data of an existing account.
	Put(addr Address, data []byte) error
}

// Store runs functions against the ledger. Update commits every write made
// through the Tx when fn returns nil and discards all of them otherwise.
type Store interface {
	View(ctx context.Context, fn func(Tx) error) error
	Update(ctx context.Context, fn func(Tx) error) error
	Close() error
}

// Exists reports whether an account is stored at addr.
func Exists(tx Tx, addr Address) (bool, error) {
	_, err := tx.Get(addr)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrAccountNotFound):
		return false, nil
	default:
		return false, err
	}
}
