package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/corebank-posting-ledger/internal/api_gateway/middleware"
	"github.com/corebank-posting-ledger/internal/api_gateway/service"
	"github.com/corebank-posting-ledger/internal/domain/journal"
	"github.com/corebank-posting-ledger/internal/domain/payment"
	"github.com/corebank-posting-ledger/internal/domain/shared"
)

// PaymentHandler handles HTTP requests for payment operations
type PaymentHandler struct {
	paymentService service.PaymentService
	logger         *slog.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(logger *slog.Logger, paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// Create initiates a payment. The response is 201 regardless of the posting
// outcome; the payment's status field says whether the ledger accepted it.
func (h *PaymentHandler) Create(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	op, err := shared.ParseOperationType(req.OperationType)
	if err != nil {
		RespondBadRequest(c, err.Error())
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

	p, err := h.paymentService.CreatePayment(c.Request.Context(), &service.CreatePaymentParams{
		OperationType:           op,
		Amount:                  amount,
		AccountCode:             req.AccountCode,
		CounterpartyAccountCode: req.CounterpartyAccountCode,
		Description:             req.Description,
		ValueDate:               valueDate,
		CorrelationID:           middleware.GetCorrelationID(c),
	})
	if err != nil {
		if errors.Is(err, payment.ErrEmptyAccountCode) || errors.Is(err, payment.ErrInvalidAmount) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to create payment", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapPaymentToResponse(p))
}

// GetByID retrieves payment details, returns 404 if not found
func (h *PaymentHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid payment ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid payment ID")
		return
	}

	p, err := h.paymentService.GetPayment(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, payment.ErrPaymentNotFound{}) {
			RespondNotFound(c, "Payment not found")
			return
		}
		h.logger.Error("Failed to get payment", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapPaymentToResponse(p))
}

// List returns a page of payments in the requested status, newest first.
// The status query parameter is required; limit defaults to 50, offset to 0.
func (h *PaymentHandler) List(c *gin.Context) {
	status, err := shared.ParseStatus(c.Query("status"))
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	limit, err := parsePageQuery(c, "limit", 50)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}
	offset, err := parsePageQuery(c, "offset", 0)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	list, err := h.paymentService.ListPayments(c.Request.Context(), status, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list payments", "status", string(status), "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]PaymentResponse, 0, len(list))
	for _, p := range list {
		responses = append(responses, mapPaymentToResponse(p))
	}

	RespondOK(c, PaymentListResponse{Payments: responses, Count: len(responses)})
}

// parsePageQuery reads a non-negative integer paging parameter,
// falling back to def when absent
func parsePageQuery(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: %s", name, raw)
	}
	return n, nil
}

// Retry re-attempts a FAILED payment's ledger posting with the same derived
// reference. Retrying a payment that is not FAILED is a 409.
func (h *PaymentHandler) Retry(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid payment ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid payment ID")
		return
	}

	p, err := h.paymentService.RetryPosting(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, payment.ErrPaymentNotFound{}) {
			RespondNotFound(c, "Payment not found")
			return
		}
		var transitionErr shared.ErrInvalidTransition
		if errors.As(err, &transitionErr) {
			RespondConflict(c, err.Error())
			return
		}
		h.logger.Error("Failed to retry payment", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapPaymentToResponse(p))
}

// CreateBatch enqueues posting instructions for the batch processor and
// returns 202 with the assigned payment IDs
func (h *PaymentHandler) CreateBatch(c *gin.Context) {
	var req BatchPaymentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	correlationID := middleware.GetCorrelationID(c)
	params := make([]*service.CreatePaymentParams, 0, len(req.Instructions))
	for i, instr := range req.Instructions {
		op, err := shared.ParseOperationType(instr.OperationType)
		if err != nil {
			RespondBadRequest(c, fmt.Sprintf("instruction %d: %s", i, err.Error()))
			return
		}
		amount, err := decimal.NewFromString(instr.Amount)
		if err != nil {
			RespondBadRequest(c, fmt.Sprintf("instruction %d: invalid amount %s", i, instr.Amount))
			return
		}
		valueDate, err := parseValueDate(instr.ValueDate)
		if err != nil {
			RespondBadRequest(c, fmt.Sprintf("instruction %d: invalid value date: %s", i, err.Error()))
			return
		}
		params = append(params, &service.CreatePaymentParams{
			OperationType:           op,
			Amount:                  amount,
			AccountCode:             instr.AccountCode,
			CounterpartyAccountCode: instr.CounterpartyAccountCode,
			Description:             instr.Description,
			ValueDate:               valueDate,
			CorrelationID:           correlationID,
		})
	}

	ids, err := h.paymentService.EnqueueBatch(c.Request.Context(), params)
	if err != nil {
		h.logger.Error("Failed to enqueue payment batch", "enqueued", len(ids), "error", err)
		RespondInternalError(c)
		return
	}

	idStrings := make([]string, 0, len(ids))
	for _, id := range ids {
		idStrings = append(idStrings, id.String())
	}

	RespondAccepted(c, BatchAcceptedResponse{
		PaymentIDs: idStrings,
		Count:      len(idStrings),
	})
}

// mapPaymentToResponse maps a payment to its API representation
func mapPaymentToResponse(p *payment.Payment) PaymentResponse {
	response := PaymentResponse{
		ID:                      p.ID.String(),
		OperationType:           string(p.OperationType),
		Amount:                  p.Amount.StringFixed(journal.AmountScale),
		AccountCode:             p.AccountCode,
		CounterpartyAccountCode: p.CounterpartyAccountCode,
		Description:             p.Description,
		ValueDate:               p.ValueDate.Format("2006-01-02"),
		LedgerReference:         p.LedgerReference,
		Status:                  string(p.Status),
		FailureReason:           p.FailureReason,
		CreatedAt:               p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:               p.UpdatedAt.Format(time.RFC3339),
	}

	if p.ProcessedAt != nil {
		response.ProcessedAt = p.ProcessedAt.Format(time.RFC3339)
	}

	return response
}
