package journal

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// RangeTotals holds the system-wide debit/credit sums for a value-date range
type RangeTotals struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	EntryCount  int64
}

// Repository manages durable journal entry persistence. The store is
// append-only: entries are created with all their lines in one atomic unit
// and never updated or deleted afterwards.
type Repository interface {
	// CreateWithLines persists the entry and all lines atomically.
	// Returns ErrReferenceAlreadyPosted if the reference uniqueness
	// constraint is violated.
	CreateWithLines(ctx context.Context, entry *Entry) error

	// GetByReference loads an entry and its lines by normalized reference.
	// Returns ErrEntryNotFound if absent.
	GetByReference(ctx context.Context, reference string) (*Entry, error)

	// ExistsByReference reports whether an entry with the reference exists
	ExistsByReference(ctx context.Context, reference string) (bool, error)

	// SumByAccount totals all debit and credit line amounts ever posted
	// against the account.
	SumByAccount(ctx context.Context, accountCode string) (totalDebit, totalCredit decimal.Decimal, err error)

	// SumByValueDateRange totals all debits and credits across entries whose
	// value date falls in [from, to] and counts the entries.
	SumByValueDateRange(ctx context.Context, from, to time.Time) (*RangeTotals, error)

	WithTx(tx pgx.Tx) Repository
}

// ErrEntryNotFound indicates no entry exists for the reference
type ErrEntryNotFound struct {
	Reference string
}

func (e ErrEntryNotFound) Error() string {
	return "journal entry not found: " + e.Reference
}

// Is matches any ErrEntryNotFound when the target carries no reference
func (e ErrEntryNotFound) Is(target error) bool {
	t, ok := target.(ErrEntryNotFound)
	if !ok {
		return false
	}
	return t.Reference == "" || t.Reference == e.Reference
}

// ErrReferenceAlreadyPosted indicates the reference has already produced an
// entry. Retrying with the same reference is safe: the caller gets this
// deterministic rejection instead of a duplicate entry.
type ErrReferenceAlreadyPosted struct {
	Reference string
}

func (e ErrReferenceAlreadyPosted) Error() string {
	return "reference already posted: " + e.Reference
}

// Is matches any ErrReferenceAlreadyPosted when the target carries no reference
func (e ErrReferenceAlreadyPosted) Is(target error) bool {
	t, ok := target.(ErrReferenceAlreadyPosted)
	if !ok {
		return false
	}
	return t.Reference == "" || t.Reference == e.Reference
}
