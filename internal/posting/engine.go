// Package posting implements the double-entry posting engine: the single
// component every money-moving operation goes through to record a balanced,
// idempotent, auditable journal entry.
package posting

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/corebank-posting-ledger/internal/domain/account"
	"github.com/corebank-posting-ledger/internal/domain/journal"
)

// TxRunner runs a function inside its own database transaction, committing or
// rolling back independently of any surrounding unit of work. The engine
// always posts through a TxRunner bound to the pool, never to a caller's
// transaction: if the posting fails, the caller's own state must still be
// able to commit (as FAILED), otherwise there is nothing left to retry.
type TxRunner interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// LineRequest is one requested movement before account resolution and rounding
type LineRequest struct {
	AccountCode string
	Type        journal.EntryType
	Amount      decimal.Decimal
}

// Result reports the outcome of a successful post
type Result struct {
	EntryID     uuid.UUID
	Reference   string
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

// Engine validates and commits balanced journal entries
type Engine struct {
	txRunner    TxRunner
	accountRepo account.Repository
	journalRepo journal.Repository
	logger      *slog.Logger
}

// NewEngine creates a posting engine
func NewEngine(logger *slog.Logger, txRunner TxRunner, accountRepo account.Repository, journalRepo journal.Repository) *Engine {
	return &Engine{
		txRunner:    txRunner,
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		logger:      logger,
	}
}

// Post validates and commits a balanced multi-line entry as one atomic unit.
//
// The sequence is: normalize the reference and lines, resolve every account
// (must exist and be active), round amounts to the ledger scale, compare the
// debit and credit totals, then persist entry and lines in a single
// transaction. Every failure leaves the journal store exactly as it was.
// Re-posting an existing reference fails with ErrReferenceAlreadyPosted, so
// callers can retry blindly without risking a duplicate entry.
func (e *Engine) Post(ctx context.Context, reference, description string, valueDate time.Time, lines []LineRequest) (*Result, error) {
	requested := make([]journal.Line, 0, len(lines))
	for _, line := range lines {
		requested = append(requested, journal.Line{
			AccountCode: account.NormalizeCode(line.AccountCode),
			Type:        line.Type,
			Amount:      line.Amount,
		})
	}

	entry, err := journal.NewEntry(reference, description, valueDate, requested)
	if err != nil {
		return nil, err
	}

	if err := e.resolveAccounts(ctx, entry); err != nil {
		return nil, err
	}

	totalDebit, totalCredit := entry.Totals()
	if !totalDebit.Equal(totalCredit) {
		return nil, journal.ErrUnbalancedEntry{
			Reference:   entry.Reference,
			TotalDebit:  totalDebit,
			TotalCredit: totalCredit,
		}
	}

	// Own transaction scope: the existence check and the insert run under the
	// same tx, with the storage-level unique constraint closing the race
	// between two concurrent posts for the same reference.
	err = e.txRunner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		repo := e.journalRepo.WithTx(tx)

		exists, err := repo.ExistsByReference(ctx, entry.Reference)
		if err != nil {
			return err
		}
		if exists {
			return journal.ErrReferenceAlreadyPosted{Reference: entry.Reference}
		}

		return repo.CreateWithLines(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("Journal entry posted",
		"reference", entry.Reference,
		"entry_id", entry.ID.String(),
		"lines", len(entry.Lines),
		"total_debit", totalDebit.StringFixed(journal.AmountScale),
		"total_credit", totalCredit.StringFixed(journal.AmountScale),
	)

	return &Result{
		EntryID:     entry.ID,
		Reference:   entry.Reference,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
	}, nil
}

// GetEntry loads a posted entry with its lines by reference
func (e *Engine) GetEntry(ctx context.Context, reference string) (*journal.Entry, error) {
	return e.journalRepo.GetByReference(ctx, journal.NormalizeReference(reference))
}

// resolveAccounts checks every distinct account on the entry against the
// chart of accounts. Activeness is enforced here, at posting time, so
// accounts can be retired without breaking historical entries.
func (e *Engine) resolveAccounts(ctx context.Context, entry *journal.Entry) error {
	seen := make(map[string]struct{}, len(entry.Lines))
	for _, line := range entry.Lines {
		if _, ok := seen[line.AccountCode]; ok {
			continue
		}
		seen[line.AccountCode] = struct{}{}

		acc, err := e.accountRepo.GetByCode(ctx, line.AccountCode)
		if err != nil {
			return err
		}
		if !acc.Active {
			return account.ErrAccountInactive{Code: acc.Code}
		}
	}
	return nil
}
