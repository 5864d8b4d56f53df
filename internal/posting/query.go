package posting

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/corebank-posting-ledger/internal/domain/account"
	"github.com/corebank-posting-ledger/internal/domain/journal"
)

// AccountBalance is the all-time debit/credit position of one account.
// Balance is debit − credit for every category; the sign convention per
// account category is the caller's concern, the ledger is category-agnostic.
type AccountBalance struct {
	AccountCode string
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Balance     decimal.Decimal
}

// ReconciliationReport is the system-wide debit/credit comparison over a
// value-date range. An imbalance here is a posting engine defect: every
// individual entry is already verified balanced at post time.
type ReconciliationReport struct {
	FromDate    time.Time
	ToDate      time.Time
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Balanced    bool
	EntryCount  int64
}

// QueryService computes balances and audit totals from the journal store
type QueryService struct {
	accountRepo account.Repository
	journalRepo journal.Repository
	logger      *slog.Logger
}

// NewQueryService creates a reconciliation/query service
func NewQueryService(logger *slog.Logger, accountRepo account.Repository, journalRepo journal.Repository) *QueryService {
	return &QueryService{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		logger:      logger,
	}
}

// GetBalance sums all debit and credit amounts ever posted against the
// account. Inactive accounts still report balances; only posting is refused.
func (s *QueryService) GetBalance(ctx context.Context, accountCode string) (*AccountBalance, error) {
	code := account.NormalizeCode(accountCode)

	acc, err := s.accountRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	totalDebit, totalCredit, err := s.journalRepo.SumByAccount(ctx, acc.Code)
	if err != nil {
		return nil, err
	}

	return &AccountBalance{
		AccountCode: acc.Code,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		Balance:     totalDebit.Sub(totalCredit),
	}, nil
}

// Reconcile totals all debits and credits across entries with a value date in
// [from, to] inclusive and reports whether the two sides agree.
func (s *QueryService) Reconcile(ctx context.Context, from, to time.Time) (*ReconciliationReport, error) {
	totals, err := s.journalRepo.SumByValueDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report := &ReconciliationReport{
		FromDate:    from,
		ToDate:      to,
		TotalDebit:  totals.TotalDebit,
		TotalCredit: totals.TotalCredit,
		Balanced:    totals.TotalDebit.Equal(totals.TotalCredit),
		EntryCount:  totals.EntryCount,
	}

	if !report.Balanced {
		s.logger.Error("Ledger reconciliation imbalance detected",
			"from", from,
			"to", to,
			"total_debit", report.TotalDebit.StringFixed(journal.AmountScale),
			"total_credit", report.TotalCredit.StringFixed(journal.AmountScale),
		)
	}

	return report, nil
}
