package account

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository defines chart-of-accounts persistence operations
type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByCode(ctx context.Context, code string) (*Account, error)
	List(ctx context.Context) ([]*Account, error)
	SetActive(ctx context.Context, code string, active bool) error
	WithTx(tx pgx.Tx) Repository
}

// ErrAccountNotFound indicates the code is not registered in the chart of accounts
type ErrAccountNotFound struct {
	Code string
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + e.Code
}

// Is matches any ErrAccountNotFound when the target carries no code
func (e ErrAccountNotFound) Is(target error) bool {
	t, ok := target.(ErrAccountNotFound)
	if !ok {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// ErrAccountInactive indicates the account exists but has been deactivated.
// Posting against it is refused; historical entries remain readable.
type ErrAccountInactive struct {
	Code string
}

func (e ErrAccountInactive) Error() string {
	return "account is inactive: " + e.Code
}

// Is matches any ErrAccountInactive when the target carries no code
func (e ErrAccountInactive) Is(target error) bool {
	t, ok := target.(ErrAccountInactive)
	if !ok {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// ErrAccountExists indicates a code uniqueness violation on create
type ErrAccountExists struct {
	Code string
}

func (e ErrAccountExists) Error() string {
	return "account already exists: " + e.Code
}

// Is matches any ErrAccountExists when the target carries no code
func (e ErrAccountExists) Is(target error) bool {
	t, ok := target.(ErrAccountExists)
	if !ok {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}
