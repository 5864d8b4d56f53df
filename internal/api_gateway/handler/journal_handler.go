package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/corebank-posting-ledger/internal/api_gateway/service"
	"github.com/corebank-posting-ledger/internal/domain/account"
	"github.com/corebank-posting-ledger/internal/domain/journal"
	"github.com/corebank-posting-ledger/internal/domain/shared"
	"github.com/corebank-posting-ledger/internal/posting"
)

// JournalHandler handles HTTP requests for journal posting and queries
type JournalHandler struct {
	journalService service.JournalService
	logger         *slog.Logger
}

// NewJournalHandler creates a new journal handler
func NewJournalHandler(logger *slog.Logger, journalService service.JournalService) *JournalHandler {
	return &JournalHandler{
		journalService: journalService,
		logger:         logger,
	}
}

// PostEntry posts a caller-specified multi-line entry. Rejections come back
// with their taxonomy code; a repeated reference is a 409.
func (h *JournalHandler) PostEntry(c *gin.Context) {
	var req PostEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	valueDate, err := parseValueDate(req.ValueDate)
	if err != nil {
		RespondBadRequest(c, "Invalid value date: "+err.Error())
		return
	}

	lines := make([]posting.LineRequest, 0, len(req.Lines))
	for _, l := range req.Lines {
		amount, err := decimal.NewFromString(l.Amount)
		if err != nil {
			RespondBadRequest(c, "Invalid amount: "+l.Amount)
			return
		}
		entryType, err := journal.ParseEntryType(l.Type)
		if err != nil {
			RespondBadRequest(c, err.Error())
			return
		}
		lines = append(lines, posting.LineRequest{
			AccountCode: l.AccountCode,
			Type:        entryType,
			Amount:      amount,
		})
	}

	result, err := h.journalService.PostEntry(c.Request.Context(), req.Reference, req.Description, valueDate, lines)
	if err != nil {
		if respondPostingError(c, err) {
			return
		}
		h.logger.Error("Failed to post entry", "reference", req.Reference, "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapResultToResponse(result))
}

// PostPolicyEntry posts a two-line entry derived from an operation type
func (h *JournalHandler) PostPolicyEntry(c *gin.Context) {
	var req PostPolicyEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		RespondBadRequest(c, "Invalid amount: "+req.Amount)
		return
	}

	valueDate, err := parseValueDate(req.ValueDate)
	if err != nil {
		RespondBadRequest(c, "Invalid value date: "+err.Error())
		return
	}

	result, err := h.journalService.PostPolicyEntry(c.Request.Context(), &posting.PolicyRequest{
		Reference:               req.Reference,
		Description:             req.Description,
		ValueDate:               valueDate,
		OperationType:           shared.OperationType(req.OperationType),
		Amount:                  amount,
		AccountCode:             req.AccountCode,
		CounterpartyAccountCode: req.CounterpartyAccountCode,
	})
	if err != nil {
		if respondPostingError(c, err) {
			return
		}
		h.logger.Error("Failed to post policy entry", "reference", req.Reference, "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapResultToResponse(result))
}

// GetEntry retrieves a posted entry with its lines, returns 404 if not found
func (h *JournalHandler) GetEntry(c *gin.Context) {
	reference := c.Param("reference")

	entry, err := h.journalService.GetEntry(c.Request.Context(), reference)
	if err != nil {
		if errors.Is(err, journal.ErrEntryNotFound{}) {
			RespondNotFound(c, "Journal entry not found")
			return
		}
		h.logger.Error("Failed to get entry", "reference", reference, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapEntryToResponse(entry))
}

// GetBalance returns an account's all-time debit/credit position
func (h *JournalHandler) GetBalance(c *gin.Context) {
	code := c.Param("code")

	balance, err := h.journalService.GetBalance(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound{}) {
			RespondNotFound(c, "Account not found")
			return
		}
		h.logger.Error("Failed to get balance", "code", code, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, BalanceResponse{
		AccountCode: balance.AccountCode,
		TotalDebit:  balance.TotalDebit.StringFixed(journal.AmountScale),
		TotalCredit: balance.TotalCredit.StringFixed(journal.AmountScale),
		Balance:     balance.Balance.StringFixed(journal.AmountScale),
	})
}

// Reconcile returns system-wide totals over an inclusive value-date range
func (h *JournalHandler) Reconcile(c *gin.Context) {
	from, err := parseValueDate(c.Query("from"))
	if err != nil {
		RespondBadRequest(c, "Invalid from date: "+err.Error())
		return
	}
	to, err := parseValueDate(c.Query("to"))
	if err != nil {
		RespondBadRequest(c, "Invalid to date: "+err.Error())
		return
	}
	if to.Before(from) {
		RespondBadRequest(c, "Range end precedes range start")
		return
	}

	report, err := h.journalService.Reconcile(c.Request.Context(), from, to)
	if err != nil {
		h.logger.Error("Failed to reconcile", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, ReconciliationResponse{
		FromDate:    report.FromDate.Format("2006-01-02"),
		ToDate:      report.ToDate.Format("2006-01-02"),
		TotalDebit:  report.TotalDebit.StringFixed(journal.AmountScale),
		TotalCredit: report.TotalCredit.StringFixed(journal.AmountScale),
		Balanced:    report.Balanced,
		EntryCount:  report.EntryCount,
	})
}

// mapResultToResponse maps a posting result to its API representation
func mapResultToResponse(result *posting.Result) PostingResultResponse {
	return PostingResultResponse{
		EntryID:     result.EntryID.String(),
		Reference:   result.Reference,
		TotalDebit:  result.TotalDebit.StringFixed(journal.AmountScale),
		TotalCredit: result.TotalCredit.StringFixed(journal.AmountScale),
	}
}

// mapEntryToResponse maps a journal entry to its API representation
func mapEntryToResponse(entry *journal.Entry) EntryResponse {
	lines := make([]EntryLineResponse, 0, len(entry.Lines))
	for _, l := range entry.Lines {
		lines = append(lines, EntryLineResponse{
			AccountCode: l.AccountCode,
			Type:        string(l.Type),
			Amount:      l.Amount.StringFixed(journal.AmountScale),
		})
	}

	return EntryResponse{
		ID:          entry.ID.String(),
		Reference:   entry.Reference,
		Description: entry.Description,
		ValueDate:   entry.ValueDate.Format("2006-01-02"),
		Lines:       lines,
		CreatedAt:   entry.CreatedAt.Format(time.RFC3339),
	}
}
