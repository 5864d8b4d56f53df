package postgres

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corebank-posting-ledger/internal/domain/account"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func testAccount() *account.Account {
	return &account.Account{
		ID:        uuid.New(),
		Code:      "CASH-001",
		Name:      "Cash on Hand",
		Category:  account.CategoryAsset,
		Active:    true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func accountColumns() []string {
	return []string{"id", "code", "name", "category", "active", "created_at", "updated_at"}
}

func TestAccountRepository_Create(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: logger}
	acc := testAccount()

	query := `
		INSERT INTO ledger_accounts \(id, code, name, category, active, created_at, updated_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7\)
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(acc.ID, acc.Code, acc.Name, acc.Category, acc.Active, acc.CreatedAt, acc.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Create(ctx, acc)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate code maps to ErrAccountExists", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(acc.ID, acc.Code, acc.Name, acc.Category, acc.Active, acc.CreatedAt, acc.UpdatedAt).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := repo.Create(ctx, acc)
		assert.ErrorIs(t, err, account.ErrAccountExists{Code: acc.Code})
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectExec(query).
			WithArgs(acc.ID, acc.Code, acc.Name, acc.Category, acc.Active, acc.CreatedAt, acc.UpdatedAt).
			WillReturnError(expectedErr)

		err := repo.Create(ctx, acc)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create account")
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_GetByCode(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: logger}
	acc := testAccount()

	query := `
		SELECT id, code, name, category, active, created_at, updated_at
		FROM ledger_accounts
		WHERE code = \$1
	`

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows(accountColumns()).
			AddRow(acc.ID, acc.Code, acc.Name, acc.Category, acc.Active, acc.CreatedAt, acc.UpdatedAt)

		mock.ExpectQuery(query).WithArgs(acc.Code).WillReturnRows(rows)

		got, err := repo.GetByCode(ctx, acc.Code)
		require.NoError(t, err)
		assert.Equal(t, acc.Code, got.Code)
		assert.Equal(t, acc.Category, got.Category)
		assert.True(t, got.Active)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs("NOPE").WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByCode(ctx, "NOPE")
		assert.ErrorIs(t, err, account.ErrAccountNotFound{Code: "NOPE"})
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectQuery(query).WithArgs(acc.Code).WillReturnError(expectedErr)

		_, err := repo.GetByCode(ctx, acc.Code)
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_List(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: logger}

	query := `
		SELECT id, code, name, category, active, created_at, updated_at
		FROM ledger_accounts
		ORDER BY code
	`

	t.Run("success", func(t *testing.T) {
		now := time.Now()
		rows := pgxmock.NewRows(accountColumns()).
			AddRow(uuid.New(), "ACC-1", "First", account.CategoryAsset, true, now, now).
			AddRow(uuid.New(), "ACC-2", "Second", account.CategoryLiability, false, now, now)

		mock.ExpectQuery(query).WillReturnRows(rows)

		accounts, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, accounts, 2)
		assert.Equal(t, "ACC-1", accounts[0].Code)
		assert.False(t, accounts[1].Active)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty chart", func(t *testing.T) {
		mock.ExpectQuery(query).WillReturnRows(pgxmock.NewRows(accountColumns()))

		accounts, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, accounts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_SetActive(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: logger}

	query := `
		UPDATE ledger_accounts
		SET active = \$2, updated_at = NOW\(\)
		WHERE code = \$1
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs("ACC-1", false).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.SetActive(ctx, "ACC-1", false)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown code maps to not found", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs("NOPE", true).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.SetActive(ctx, "NOPE", true)
		assert.ErrorIs(t, err, account.ErrAccountNotFound{Code: "NOPE"})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
