package journal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AmountScale is the fixed decimal precision for all journal amounts.
// Totals are rounded and compared at this scale so floating-point drift
// can never make a balanced entry look unbalanced.
const AmountScale = 4

// Common errors
var (
	ErrEmptyReference   = errors.New("entry reference cannot be empty")
	ErrTooFewLines      = errors.New("entry requires at least two lines")
	ErrNegativeAmount   = errors.New("line amount cannot be negative")
	ErrInvalidEntryType = errors.New("invalid entry type")
	ErrEmptyAccountCode = errors.New("line account code cannot be empty")
)

// EntryType is the side of a journal entry line
type EntryType string

const (
	EntryTypeDebit  EntryType = "DEBIT"
	EntryTypeCredit EntryType = "CREDIT"
)

// ParseEntryType normalizes and validates an entry type string
func ParseEntryType(raw string) (EntryType, error) {
	et := EntryType(strings.ToUpper(strings.TrimSpace(raw)))
	switch et {
	case EntryTypeDebit, EntryTypeCredit:
		return et, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidEntryType, raw)
	}
}

// Line is one debit or credit movement against one account. Lines are owned
// exclusively by their entry and never exist independently.
type Line struct {
	ID          uuid.UUID       `json:"id"`
	AccountCode string          `json:"account_code"`
	Type        EntryType       `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
}

// Entry is one atomic, balanced accounting record. Entries are immutable once
// posted: corrections are made by posting an offsetting entry, never by
// mutating lines.
type Entry struct {
	ID          uuid.UUID `json:"id"`
	Reference   string    `json:"reference"`
	Description string    `json:"description"`
	ValueDate   time.Time `json:"value_date"`
	Lines       []Line    `json:"lines"`
	CreatedAt   time.Time `json:"created_at"`
}

// NormalizeReference canonicalizes a caller-supplied reference (trim,
// uppercase) so retries with differently-formatted references still collide.
func NormalizeReference(reference string) string {
	return strings.ToUpper(strings.TrimSpace(reference))
}

// RoundAmount rounds an amount to the fixed ledger scale using half-up
func RoundAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(AmountScale)
}

// NewEntry validates and builds an entry, normalizing the reference and
// rounding every line amount to AmountScale. It does not check balance; the
// posting engine compares the totals so it can report both sides.
func NewEntry(reference, description string, valueDate time.Time, lines []Line) (*Entry, error) {
	reference = NormalizeReference(reference)
	if reference == "" {
		return nil, ErrEmptyReference
	}
	if len(lines) < 2 {
		return nil, ErrTooFewLines
	}

	normalized := make([]Line, 0, len(lines))
	for _, line := range lines {
		if _, err := ParseEntryType(string(line.Type)); err != nil {
			return nil, err
		}
		if line.AccountCode == "" {
			return nil, ErrEmptyAccountCode
		}
		if line.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: %s", ErrNegativeAmount, line.Amount.String())
		}
		normalized = append(normalized, Line{
			ID:          uuid.New(),
			AccountCode: line.AccountCode,
			Type:        line.Type,
			Amount:      RoundAmount(line.Amount),
		})
	}

	return &Entry{
		ID:          uuid.New(),
		Reference:   reference,
		Description: description,
		ValueDate:   valueDate,
		Lines:       normalized,
		CreatedAt:   time.Now(),
	}, nil
}

// Totals accumulates the debit and credit sides of the entry
func (e *Entry) Totals() (totalDebit, totalCredit decimal.Decimal) {
	totalDebit = decimal.Zero
	totalCredit = decimal.Zero
	for _, line := range e.Lines {
		switch line.Type {
		case EntryTypeDebit:
			totalDebit = totalDebit.Add(line.Amount)
		case EntryTypeCredit:
			totalCredit = totalCredit.Add(line.Amount)
		}
	}
	return totalDebit, totalCredit
}

// Balanced reports whether total debits equal total credits at AmountScale
func (e *Entry) Balanced() bool {
	debit, credit := e.Totals()
	return debit.Equal(credit)
}

// ErrUnbalancedEntry indicates debits != credits. This is always a caller
// bug, never something a blind retry can fix.
type ErrUnbalancedEntry struct {
	Reference   string
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

func (e ErrUnbalancedEntry) Error() string {
	return fmt.Sprintf("unbalanced entry %s: debit %s != credit %s",
		e.Reference, e.TotalDebit.StringFixed(AmountScale), e.TotalCredit.StringFixed(AmountScale))
}

// Is matches any ErrUnbalancedEntry when the target carries no reference
func (e ErrUnbalancedEntry) Is(target error) bool {
	t, ok := target.(ErrUnbalancedEntry)
	if !ok {
		return false
	}
	return t.Reference == "" || t.Reference == e.Reference
}
