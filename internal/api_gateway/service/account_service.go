package service

import (
	"context"

	"github.com/corebank-posting-ledger/internal/domain/account"
)

// AccountAdminServiceImpl implements the AccountAdminService interface
type AccountAdminServiceImpl struct {
	accountRepo account.Repository
}

// NewAccountAdminService creates a new account administration service
func NewAccountAdminService(accountRepo account.Repository) AccountAdminService {
	return &AccountAdminServiceImpl{
		accountRepo: accountRepo,
	}
}

// CreateAccount registers a new chart-of-accounts entry. Code uniqueness is
// enforced by the store's constraint, so concurrent creates cannot both win.
func (s *AccountAdminServiceImpl) CreateAccount(ctx context.Context, code, name, category string) (*account.Account, error) {
	cat, err := account.ParseCategory(category)
	if err != nil {
		return nil, err
	}

	acc, err := account.NewAccount(code, name, cat)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.Create(ctx, acc); err != nil {
		return nil, err
	}

	return acc, nil
}

// GetAccount retrieves an account by its normalized code
func (s *AccountAdminServiceImpl) GetAccount(ctx context.Context, code string) (*account.Account, error) {
	return s.accountRepo.GetByCode(ctx, account.NormalizeCode(code))
}

// ListAccounts returns the full chart of accounts
func (s *AccountAdminServiceImpl) ListAccounts(ctx context.Context) ([]*account.Account, error) {
	return s.accountRepo.List(ctx)
}

// SetAccountActive flips the active flag and returns the updated account
func (s *AccountAdminServiceImpl) SetAccountActive(ctx context.Context, code string, active bool) (*account.Account, error) {
	normalized := account.NormalizeCode(code)
	if err := s.accountRepo.SetActive(ctx, normalized, active); err != nil {
		return nil, err
	}
	return s.accountRepo.GetByCode(ctx, normalized)
}
