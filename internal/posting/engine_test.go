package posting

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/corebank-posting-ledger/internal/domain/account"
	"github.com/corebank-posting-ledger/internal/domain/journal"
)

// MockAccountRepository mocks account.Repository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, acc *account.Account) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByCode(ctx context.Context, code string) (*account.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepository) List(ctx context.Context) ([]*account.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Account), args.Error(1)
}

func (m *MockAccountRepository) SetActive(ctx context.Context, code string, active bool) error {
	args := m.Called(ctx, code, active)
	return args.Error(0)
}

func (m *MockAccountRepository) WithTx(tx pgx.Tx) account.Repository {
	return m
}

// MockJournalRepository mocks journal.Repository
type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) CreateWithLines(ctx context.Context, entry *journal.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) GetByReference(ctx context.Context, reference string) (*journal.Entry, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*journal.Entry), args.Error(1)
}

func (m *MockJournalRepository) ExistsByReference(ctx context.Context, reference string) (bool, error) {
	args := m.Called(ctx, reference)
	return args.Bool(0), args.Error(1)
}

func (m *MockJournalRepository) SumByAccount(ctx context.Context, accountCode string) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, accountCode)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockJournalRepository) SumByValueDateRange(ctx context.Context, from, to time.Time) (*journal.RangeTotals, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*journal.RangeTotals), args.Error(1)
}

func (m *MockJournalRepository) WithTx(tx pgx.Tx) journal.Repository {
	return m
}

// fakeTxRunner runs the posting closure without a real database transaction
type fakeTxRunner struct {
	err error
}

func (r *fakeTxRunner) ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	if r.err != nil {
		return r.err
	}
	return fn(nil)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func activeAccount(code string) *account.Account {
	acc, _ := account.NewAccount(code, code, account.CategoryAsset)
	return acc
}

func inactiveAccount(code string) *account.Account {
	acc := activeAccount(code)
	acc.Active = false
	return acc
}

func TestEngine_Post(t *testing.T) {
	ctx := context.Background()
	valueDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	balancedLines := func() []LineRequest {
		return []LineRequest{
			{AccountCode: "ACC-1", Type: journal.EntryTypeDebit, Amount: decimal.RequireFromString("100.50")},
			{AccountCode: "ACC-2", Type: journal.EntryTypeCredit, Amount: decimal.RequireFromString("100.50")},
		}
	}

	t.Run("SuccessfulPost", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		journalRepo := new(MockJournalRepository)
		engine := NewEngine(testLogger(), &fakeTxRunner{}, accountRepo, journalRepo)

		accountRepo.On("GetByCode", ctx, "ACC-1").Return(activeAccount("ACC-1"), nil).Once()
		accountRepo.On("GetByCode", ctx, "ACC-2").Return(activeAccount("ACC-2"), nil).Once()
		journalRepo.On("ExistsByReference", ctx, "REF-1").Return(false, nil).Once()
		journalRepo.On("CreateWithLines", ctx, mock.AnythingOfType("*journal.Entry")).Return(nil).Once()

		result, err := engine.Post(ctx, "ref-1", "payment", valueDate, balancedLines())

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, "REF-1", result.Reference)
		assert.True(t, result.TotalDebit.Equal(decimal.RequireFromString("100.50")))
		assert.True(t, result.TotalCredit.Equal(decimal.RequireFromString("100.50")))
		accountRepo.AssertExpectations(t)
		journalRepo.AssertExpectations(t)
	})

	t.Run("UnbalancedEntryRejectedBeforeTx", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		journalRepo := new(MockJournalRepository)
		engine := NewEngine(testLogger(), &fakeTxRunner{}, accountRepo, journalRepo)

		accountRepo.On("GetByCode", ctx, "ACC-1").Return(activeAccount("ACC-1"), nil).Once()
		accountRepo.On("GetByCode", ctx, "ACC-2").Return(activeAccount("ACC-2"), nil).Once()

		_, err := engine.Post(ctx, "REF-2", "", valueDate, []LineRequest{
			{AccountCode: "ACC-1", Type: journal.EntryTypeDebit, Amount: decimal.NewFromInt(100)},
			{AccountCode: "ACC-2", Type: journal.EntryTypeCredit, Amount: decimal.NewFromInt(90)},
		})

		require.Error(t, err)
		var unbalanced journal.ErrUnbalancedEntry
		require.ErrorAs(t, err, &unbalanced)
		assert.True(t, unbalanced.TotalDebit.Equal(decimal.NewFromInt(100)))
		assert.True(t, unbalanced.TotalCredit.Equal(decimal.NewFromInt(90)))
		journalRepo.AssertNotCalled(t, "CreateWithLines", mock.Anything, mock.Anything)
	})

	t.Run("UnknownAccountRejected", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		journalRepo := new(MockJournalRepository)
		engine := NewEngine(testLogger(), &fakeTxRunner{}, accountRepo, journalRepo)

		accountRepo.On("GetByCode", ctx, "ACC-1").Return(nil, account.ErrAccountNotFound{Code: "ACC-1"}).Once()

		_, err := engine.Post(ctx, "REF-3", "", valueDate, balancedLines())

		assert.ErrorIs(t, err, account.ErrAccountNotFound{})
		journalRepo.AssertNotCalled(t, "CreateWithLines", mock.Anything, mock.Anything)
	})

	t.Run("InactiveAccountRejected", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		journalRepo := new(MockJournalRepository)
		engine := NewEngine(testLogger(), &fakeTxRunner{}, accountRepo, journalRepo)

		accountRepo.On("GetByCode", ctx, "ACC-1").Return(activeAccount("ACC-1"), nil).Once()
		accountRepo.On("GetByCode", ctx, "ACC-2").Return(inactiveAccount("ACC-2"), nil).Once()

		_, err := engine.Post(ctx, "REF-4", "", valueDate, balancedLines())

		assert.ErrorIs(t, err, account.ErrAccountInactive{Code: "ACC-2"})
		journalRepo.AssertNotCalled(t, "CreateWithLines", mock.Anything, mock.Anything)
	})

	t.Run("DuplicateReferenceRejected", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		journalRepo := new(MockJournalRepository)
		engine := NewEngine(testLogger(), &fakeTxRunner{}, accountRepo, journalRepo)

		accountRepo.On("GetByCode", ctx, "ACC-1").Return(activeAccount("ACC-1"), nil).Once()
		accountRepo.On("GetByCode", ctx, "ACC-2").Return(activeAccount("ACC-2"), nil).Once()
		journalRepo.On("ExistsByReference", ctx, "REF-5").Return(true, nil).Once()

		_, err := engine.Post(ctx, "REF-5", "", valueDate, balancedLines())

		assert.ErrorIs(t, err, journal.ErrReferenceAlreadyPosted{Reference: "REF-5"})
		journalRepo.AssertNotCalled(t, "CreateWithLines", mock.Anything, mock.Anything)
	})

	t.Run("ReferenceNormalizedBeforeIdempotencyCheck", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		journalRepo := new(MockJournalRepository)
		engine := NewEngine(testLogger(), &fakeTxRunner{}, accountRepo, journalRepo)

		accountRepo.On("GetByCode", ctx, "ACC-1").Return(activeAccount("ACC-1"), nil).Once()
		accountRepo.On("GetByCode", ctx, "ACC-2").Return(activeAccount("ACC-2"), nil).Once()
		journalRepo.On("ExistsByReference", ctx, "REF-6").Return(true, nil).Once()

		_, err := engine.Post(ctx, "  ref-6 ", "", valueDate, balancedLines())

		assert.ErrorIs(t, err, journal.ErrReferenceAlreadyPosted{Reference: "REF-6"})
	})

	t.Run("ValidationErrorsSurfaceUnchanged", func(t *testing.T) {
		engine := NewEngine(testLogger(), &fakeTxRunner{}, new(MockAccountRepository), new(MockJournalRepository))

		_, err := engine.Post(ctx, "REF-7", "", valueDate, []LineRequest{
			{AccountCode: "ACC-1", Type: journal.EntryTypeDebit, Amount: decimal.NewFromInt(1)},
		})
		assert.ErrorIs(t, err, journal.ErrTooFewLines)
	})

	t.Run("TxFailureSurfaces", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		journalRepo := new(MockJournalRepository)
		txErr := errors.New("connection reset")
		engine := NewEngine(testLogger(), &fakeTxRunner{err: txErr}, accountRepo, journalRepo)

		accountRepo.On("GetByCode", ctx, "ACC-1").Return(activeAccount("ACC-1"), nil).Once()
		accountRepo.On("GetByCode", ctx, "ACC-2").Return(activeAccount("ACC-2"), nil).Once()

		_, err := engine.Post(ctx, "REF-8", "", valueDate, balancedLines())
		assert.ErrorIs(t, err, txErr)
	})
}

func TestEngine_GetEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("NormalizesReference", func(t *testing.T) {
		journalRepo := new(MockJournalRepository)
		engine := NewEngine(testLogger(), &fakeTxRunner{}, new(MockAccountRepository), journalRepo)

		entry := &journal.Entry{Reference: "REF-9"}
		journalRepo.On("GetByReference", ctx, "REF-9").Return(entry, nil).Once()

		got, err := engine.GetEntry(ctx, " ref-9 ")
		require.NoError(t, err)
		assert.Equal(t, entry, got)
	})

	t.Run("NotFoundSurfaces", func(t *testing.T) {
		journalRepo := new(MockJournalRepository)
		engine := NewEngine(testLogger(), &fakeTxRunner{}, new(MockAccountRepository), journalRepo)

		journalRepo.On("GetByReference", ctx, "REF-10").Return(nil, journal.ErrEntryNotFound{Reference: "REF-10"}).Once()

		_, err := engine.GetEntry(ctx, "REF-10")
		assert.ErrorIs(t, err, journal.ErrEntryNotFound{})
	})
}
