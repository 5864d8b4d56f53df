package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/corebank-posting-ledger/internal/domain/account"
	"github.com/corebank-posting-ledger/internal/domain/journal"
	"github.com/corebank-posting-ledger/internal/domain/shared"
	"github.com/corebank-posting-ledger/internal/posting"
)

// respondPostingError translates posting errors into the documented error
// codes. Rejections carry their own code so callers can branch on them
// instead of parsing messages.
func respondPostingError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, journal.ErrReferenceAlreadyPosted{}):
		RespondWithError(c, http.StatusConflict, "REFERENCE_ALREADY_POSTED", err.Error())
	case errors.Is(err, journal.ErrUnbalancedEntry{}):
		RespondWithError(c, http.StatusUnprocessableEntity, "UNBALANCED_ENTRY", err.Error())
	case errors.Is(err, account.ErrAccountNotFound{}):
		RespondWithError(c, http.StatusUnprocessableEntity, "ACCOUNT_NOT_FOUND", err.Error())
	case errors.Is(err, account.ErrAccountInactive{}):
		RespondWithError(c, http.StatusUnprocessableEntity, "ACCOUNT_INACTIVE", err.Error())
	case errors.Is(err, posting.ErrCounterpartyRequired):
		RespondWithError(c, http.StatusBadRequest, "COUNTERPARTY_REQUIRED", err.Error())
	case isValidationError(err):
		RespondBadRequest(c, err.Error())
	default:
		return false
	}
	return true
}

// isValidationError reports whether err is a domain input rejection rather
// than an infrastructure failure
func isValidationError(err error) bool {
	validationErrs := []error{
		shared.ErrInvalidOperationType,
		shared.ErrInvalidAmount,
		journal.ErrEmptyReference,
		journal.ErrTooFewLines,
		journal.ErrNegativeAmount,
		journal.ErrInvalidEntryType,
		journal.ErrEmptyAccountCode,
	}
	for _, target := range validationErrs {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// parseValueDate accepts a plain date or a full timestamp, defaulting to the
// current time when absent
func parseValueDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
