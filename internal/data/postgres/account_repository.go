// Package postgres provides PostgreSQL implementations of the chart-of-accounts
// and journal repositories. The journal store is append-only; reference
// uniqueness is enforced by a database constraint, not an application check.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/corebank-posting-ledger/internal/domain/account"
	"github.com/corebank-posting-ledger/internal/platform/persistence"
)

const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a PostgreSQL unique constraint error
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// AccountRepository implements account.Repository for PostgreSQL
type AccountRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) account.Repository {
	return &AccountRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to the given transaction
func (r *AccountRepository) WithTx(tx pgx.Tx) account.Repository {
	return &AccountRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new account. Returns ErrAccountExists if the code is
// already registered (database uniqueness constraint).
func (r *AccountRepository) Create(ctx context.Context, acc *account.Account) error {
	query := `
		INSERT INTO ledger_accounts (id, code, name, category, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.querier.Exec(ctx, query,
		acc.ID,
		acc.Code,
		acc.Name,
		acc.Category,
		acc.Active,
		acc.CreatedAt,
		acc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return account.ErrAccountExists{Code: acc.Code}
		}
		r.logger.Error("Failed to create account", "code", acc.Code, "error", err)
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByCode retrieves an account by its normalized code
func (r *AccountRepository) GetByCode(ctx context.Context, code string) (*account.Account, error) {
	query := `
		SELECT id, code, name, category, active, created_at, updated_at
		FROM ledger_accounts
		WHERE code = $1
	`

	var acc account.Account
	err := r.querier.QueryRow(ctx, query, code).Scan(
		&acc.ID,
		&acc.Code,
		&acc.Name,
		&acc.Category,
		&acc.Active,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{Code: code}
		}
		r.logger.Error("Failed to get account", "code", code, "error", err)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &acc, nil
}

// List returns the full chart of accounts ordered by code
func (r *AccountRepository) List(ctx context.Context) ([]*account.Account, error) {
	query := `
		SELECT id, code, name, category, active, created_at, updated_at
		FROM ledger_accounts
		ORDER BY code
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list accounts", "error", err)
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		var acc account.Account
		if err := rows.Scan(
			&acc.ID,
			&acc.Code,
			&acc.Name,
			&acc.Category,
			&acc.Active,
			&acc.CreatedAt,
			&acc.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, &acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read accounts: %w", err)
	}

	return accounts, nil
}

// SetActive flips the active flag. Accounts are never deleted, only
// deactivated, so historical journal lines keep resolving.
func (r *AccountRepository) SetActive(ctx context.Context, code string, active bool) error {
	query := `
		UPDATE ledger_accounts
		SET active = $2, updated_at = NOW()
		WHERE code = $1
	`

	result, err := r.querier.Exec(ctx, query, code, active)
	if err != nil {
		r.logger.Error("Failed to update account active flag", "code", code, "error", err)
		return fmt.Errorf("failed to update account active flag: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrAccountNotFound{Code: code}
	}

	return nil
}
