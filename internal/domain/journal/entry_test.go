package journal

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debitLine(code, amount string) Line {
	return Line{AccountCode: code, Type: EntryTypeDebit, Amount: decimal.RequireFromString(amount)}
}

func creditLine(code, amount string) Line {
	return Line{AccountCode: code, Type: EntryTypeCredit, Amount: decimal.RequireFromString(amount)}
}

func TestNewEntry(t *testing.T) {
	valueDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("SuccessfulCreation", func(t *testing.T) {
		entry, err := NewEntry("pay-1 ", "customer payment", valueDate, []Line{
			debitLine("ACC-1", "100.50"),
			creditLine("ACC-2", "100.50"),
		})

		require.NoError(t, err)
		require.NotNil(t, entry)

		assert.NotEqual(t, uuid.Nil, entry.ID)
		assert.Equal(t, "PAY-1", entry.Reference, "reference should be normalized")
		assert.Equal(t, "customer payment", entry.Description)
		assert.Equal(t, valueDate, entry.ValueDate)
		require.Len(t, entry.Lines, 2)
		for _, line := range entry.Lines {
			assert.NotEqual(t, uuid.Nil, line.ID, "each line gets its own identity")
		}
	})

	t.Run("RoundsAmountsHalfUpToFourDecimals", func(t *testing.T) {
		entry, err := NewEntry("REF-ROUND", "", valueDate, []Line{
			debitLine("ACC-1", "10.00005"),
			creditLine("ACC-2", "10.00004"),
		})

		require.NoError(t, err)
		assert.True(t, entry.Lines[0].Amount.Equal(decimal.RequireFromString("10.0001")),
			"0.00005 rounds up, got %s", entry.Lines[0].Amount)
		assert.True(t, entry.Lines[1].Amount.Equal(decimal.RequireFromString("10.0000")),
			"0.00004 rounds down, got %s", entry.Lines[1].Amount)
	})

	t.Run("ZeroAmountLineIsAllowed", func(t *testing.T) {
		entry, err := NewEntry("REF-ZERO", "", valueDate, []Line{
			debitLine("ACC-1", "0"),
			creditLine("ACC-2", "0"),
		})
		require.NoError(t, err)
		assert.True(t, entry.Balanced())
	})

	t.Run("RejectsEmptyReference", func(t *testing.T) {
		_, err := NewEntry("  ", "", valueDate, []Line{
			debitLine("ACC-1", "1"),
			creditLine("ACC-2", "1"),
		})
		assert.ErrorIs(t, err, ErrEmptyReference)
	})

	t.Run("RejectsSingleLine", func(t *testing.T) {
		_, err := NewEntry("REF-1", "", valueDate, []Line{debitLine("ACC-1", "1")})
		assert.ErrorIs(t, err, ErrTooFewLines)
	})

	t.Run("RejectsNegativeAmount", func(t *testing.T) {
		_, err := NewEntry("REF-1", "", valueDate, []Line{
			debitLine("ACC-1", "-5"),
			creditLine("ACC-2", "5"),
		})
		assert.ErrorIs(t, err, ErrNegativeAmount)
	})

	t.Run("RejectsUnknownEntryType", func(t *testing.T) {
		_, err := NewEntry("REF-1", "", valueDate, []Line{
			{AccountCode: "ACC-1", Type: EntryType("TRANSFER"), Amount: decimal.NewFromInt(1)},
			creditLine("ACC-2", "1"),
		})
		assert.ErrorIs(t, err, ErrInvalidEntryType)
	})

	t.Run("RejectsEmptyAccountCode", func(t *testing.T) {
		_, err := NewEntry("REF-1", "", valueDate, []Line{
			debitLine("", "1"),
			creditLine("ACC-2", "1"),
		})
		assert.ErrorIs(t, err, ErrEmptyAccountCode)
	})
}

func TestEntry_Totals(t *testing.T) {
	valueDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("MultiLineSplit", func(t *testing.T) {
		entry, err := NewEntry("REF-SPLIT", "", valueDate, []Line{
			debitLine("ACC-1", "70"),
			debitLine("ACC-2", "30"),
			creditLine("ACC-3", "100"),
		})
		require.NoError(t, err)

		debit, credit := entry.Totals()
		assert.True(t, debit.Equal(decimal.NewFromInt(100)))
		assert.True(t, credit.Equal(decimal.NewFromInt(100)))
		assert.True(t, entry.Balanced())
	})

	t.Run("UnbalancedDetected", func(t *testing.T) {
		entry, err := NewEntry("REF-OFF", "", valueDate, []Line{
			debitLine("ACC-1", "100"),
			creditLine("ACC-2", "99.9999"),
		})
		require.NoError(t, err)
		assert.False(t, entry.Balanced())
	})

	t.Run("RoundingClosesSubScaleGap", func(t *testing.T) {
		// The legs differ by 0.00004 before rounding; at ledger scale they agree
		entry, err := NewEntry("REF-NEAR", "", valueDate, []Line{
			debitLine("ACC-1", "33.33334"),
			creditLine("ACC-2", "33.33330"),
		})
		require.NoError(t, err)
		assert.True(t, entry.Balanced())
	})
}

func TestParseEntryType(t *testing.T) {
	et, err := ParseEntryType(" debit ")
	require.NoError(t, err)
	assert.Equal(t, EntryTypeDebit, et)

	_, err = ParseEntryType("BOTH")
	assert.ErrorIs(t, err, ErrInvalidEntryType)
}

func TestJournalErrors_Is(t *testing.T) {
	t.Run("ReferenceAlreadyPostedMatchesBlankTarget", func(t *testing.T) {
		err := ErrReferenceAlreadyPosted{Reference: "REF-1"}
		assert.ErrorIs(t, err, ErrReferenceAlreadyPosted{})
		assert.NotErrorIs(t, err, ErrReferenceAlreadyPosted{Reference: "REF-2"})
	})

	t.Run("UnbalancedMatchesBlankTarget", func(t *testing.T) {
		err := ErrUnbalancedEntry{
			Reference:   "REF-1",
			TotalDebit:  decimal.NewFromInt(10),
			TotalCredit: decimal.NewFromInt(9),
		}
		assert.ErrorIs(t, err, ErrUnbalancedEntry{})
	})

	t.Run("EntryNotFoundMatchesBlankTarget", func(t *testing.T) {
		assert.ErrorIs(t, ErrEntryNotFound{Reference: "REF-1"}, ErrEntryNotFound{})
	})
}
