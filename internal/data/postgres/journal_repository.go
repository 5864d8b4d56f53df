package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/corebank-posting-ledger/internal/domain/journal"
	"github.com/corebank-posting-ledger/internal/platform/persistence"
)

// JournalRepository implements journal.Repository for PostgreSQL.
// Amounts travel as text on the wire and NUMERIC(20,4) in the database so the
// fixed decimal scale survives the round trip exactly.
type JournalRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewJournalRepository creates a new PostgreSQL journal repository
func NewJournalRepository(logger *slog.Logger, db *persistence.PostgresDB) journal.Repository {
	return &JournalRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to the given transaction
func (r *JournalRepository) WithTx(tx pgx.Tx) journal.Repository {
	return &JournalRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// CreateWithLines persists the entry and all of its lines. The caller is
// expected to run this inside a transaction; the unique constraint on
// reference turns a concurrent double-post into ErrReferenceAlreadyPosted.
func (r *JournalRepository) CreateWithLines(ctx context.Context, entry *journal.Entry) error {
	entryQuery := `
		INSERT INTO journal_entries (id, reference, description, value_date, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.querier.Exec(ctx, entryQuery,
		entry.ID,
		entry.Reference,
		entry.Description,
		entry.ValueDate,
		entry.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return journal.ErrReferenceAlreadyPosted{Reference: entry.Reference}
		}
		r.logger.Error("Failed to create journal entry", "reference", entry.Reference, "error", err)
		return fmt.Errorf("failed to create journal entry: %w", err)
	}

	lineQuery := `
		INSERT INTO journal_entry_lines (id, entry_id, line_no, account_code, type, amount)
		VALUES ($1, $2, $3, $4, $5, $6::numeric)
	`

	for i, line := range entry.Lines {
		_, err := r.querier.Exec(ctx, lineQuery,
			line.ID,
			entry.ID,
			i+1,
			line.AccountCode,
			line.Type,
			line.Amount.StringFixed(journal.AmountScale),
		)
		if err != nil {
			r.logger.Error("Failed to create journal entry line",
				"reference", entry.Reference,
				"line_no", i+1,
				"error", err,
			)
			return fmt.Errorf("failed to create journal entry line: %w", err)
		}
	}

	return nil
}

// ExistsByReference reports whether an entry with the reference exists
func (r *JournalRepository) ExistsByReference(ctx context.Context, reference string) (bool, error) {
	query := `SELECT 1 FROM journal_entries WHERE reference = $1 LIMIT 1`

	var one int
	err := r.querier.QueryRow(ctx, query, reference).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		r.logger.Error("Failed to check journal entry existence", "reference", reference, "error", err)
		return false, fmt.Errorf("failed to check journal entry existence: %w", err)
	}

	return true, nil
}

// GetByReference loads an entry and its lines in line order
func (r *JournalRepository) GetByReference(ctx context.Context, reference string) (*journal.Entry, error) {
	entryQuery := `
		SELECT id, reference, description, value_date, created_at
		FROM journal_entries
		WHERE reference = $1
	`

	var entry journal.Entry
	err := r.querier.QueryRow(ctx, entryQuery, reference).Scan(
		&entry.ID,
		&entry.Reference,
		&entry.Description,
		&entry.ValueDate,
		&entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, journal.ErrEntryNotFound{Reference: reference}
		}
		r.logger.Error("Failed to get journal entry", "reference", reference, "error", err)
		return nil, fmt.Errorf("failed to get journal entry: %w", err)
	}

	linesQuery := `
		SELECT id, account_code, type, amount::text
		FROM journal_entry_lines
		WHERE entry_id = $1
		ORDER BY line_no
	`

	rows, err := r.querier.Query(ctx, linesQuery, entry.ID)
	if err != nil {
		r.logger.Error("Failed to get journal entry lines", "reference", reference, "error", err)
		return nil, fmt.Errorf("failed to get journal entry lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line journal.Line
		var amount string
		if err := rows.Scan(&line.ID, &line.AccountCode, &line.Type, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry line: %w", err)
		}
		line.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse line amount %q: %w", amount, err)
		}
		entry.Lines = append(entry.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal entry lines: %w", err)
	}

	return &entry, nil
}

// SumByAccount totals all debit and credit amounts ever posted against the account
func (r *JournalRepository) SumByAccount(ctx context.Context, accountCode string) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'DEBIT'), 0)::text,
			COALESCE(SUM(amount) FILTER (WHERE type = 'CREDIT'), 0)::text
		FROM journal_entry_lines
		WHERE account_code = $1
	`

	var debitStr, creditStr string
	err := r.querier.QueryRow(ctx, query, accountCode).Scan(&debitStr, &creditStr)
	if err != nil {
		r.logger.Error("Failed to sum account totals", "account_code", accountCode, "error", err)
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum account totals: %w", err)
	}

	return parseTotals(debitStr, creditStr)
}

// SumByValueDateRange totals debits and credits across all entries with a
// value date in [from, to] inclusive
func (r *JournalRepository) SumByValueDateRange(ctx context.Context, from, to time.Time) (*journal.RangeTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(l.amount) FILTER (WHERE l.type = 'DEBIT'), 0)::text,
			COALESCE(SUM(l.amount) FILTER (WHERE l.type = 'CREDIT'), 0)::text,
			COUNT(DISTINCT e.id)
		FROM journal_entries e
		LEFT JOIN journal_entry_lines l ON l.entry_id = e.id
		WHERE e.value_date >= $1 AND e.value_date <= $2
	`

	var debitStr, creditStr string
	var count int64
	err := r.querier.QueryRow(ctx, query, from, to).Scan(&debitStr, &creditStr, &count)
	if err != nil {
		r.logger.Error("Failed to sum value date range", "from", from, "to", to, "error", err)
		return nil, fmt.Errorf("failed to sum value date range: %w", err)
	}

	totalDebit, totalCredit, err := parseTotals(debitStr, creditStr)
	if err != nil {
		return nil, err
	}

	return &journal.RangeTotals{
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		EntryCount:  count,
	}, nil
}

func parseTotals(debitStr, creditStr string) (decimal.Decimal, decimal.Decimal, error) {
	totalDebit, err := decimal.NewFromString(debitStr)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to parse debit total %q: %w", debitStr, err)
	}
	totalCredit, err := decimal.NewFromString(creditStr)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to parse credit total %q: %w", creditStr, err)
	}
	return totalDebit, totalCredit, nil
}
