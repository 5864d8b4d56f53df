package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/corebank-posting-ledger/internal/domain/payment"
	"github.com/corebank-posting-ledger/internal/domain/shared"
	"github.com/corebank-posting-ledger/internal/payments"
)

// PaymentLifecycle is the slice of the payment service the processor needs
type PaymentLifecycle interface {
	CreatePayment(ctx context.Context, params *payments.CreateParams) (*payment.Payment, error)
	RetryPosting(ctx context.Context, id uuid.UUID) (*payment.Payment, error)
}

type ProcessingServiceImpl struct {
	paymentSvc  PaymentLifecycle
	paymentRepo payment.Repository
	logger      *slog.Logger
}

func NewProcessingService(
	logger *slog.Logger,
	paymentSvc PaymentLifecycle,
	paymentRepo payment.Repository,
) ProcessingService {
	return &ProcessingServiceImpl{
		paymentSvc:  paymentSvc,
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

// ProcessInstruction handles one posting instruction from the batch stream.
// A rejected posting marks the payment FAILED and still returns nil so the
// offset commits and the batch continues; only infrastructure errors are
// returned for redelivery.
func (s *ProcessingServiceImpl) ProcessInstruction(ctx context.Context, instruction *shared.PostingInstruction) error {
	logger := s.logger
	if instruction.CorrelationID != "" {
		logger = s.logger.With("correlation_id", instruction.CorrelationID)
	}

	logger.Info("Processing posting instruction",
		"payment_id", instruction.PaymentID.String(),
		"operation_type", instruction.OperationType,
		"account_code", instruction.AccountCode,
	)

	p, err := s.paymentSvc.CreatePayment(ctx, &payments.CreateParams{
		ID:                      instruction.PaymentID,
		OperationType:           instruction.OperationType,
		Amount:                  instruction.Amount,
		AccountCode:             instruction.AccountCode,
		CounterpartyAccountCode: instruction.CounterpartyAccountCode,
		Description:             instruction.Description,
		ValueDate:               instruction.ValueDate,
		CorrelationID:           instruction.CorrelationID,
	})
	if err == nil {
		logger.Info("Posting instruction settled",
			"payment_id", p.ID.String(),
			"status", p.Status,
			"failure_reason", p.FailureReason,
		)
		return nil
	}

	if errors.Is(err, payment.ErrDuplicatePayment{}) {
		return s.handleRedelivery(ctx, logger, instruction)
	}

	// Invalid instructions never become valid on redelivery. Log and skip so
	// one bad item cannot stall the rest of the batch.
	if errors.Is(err, shared.ErrInvalidOperationType) ||
		errors.Is(err, payment.ErrInvalidAmount) ||
		errors.Is(err, payment.ErrEmptyAccountCode) {
		logger.Error("Dropping unprocessable posting instruction",
			"payment_id", instruction.PaymentID.String(),
			"error", err,
		)
		return nil
	}

	return fmt.Errorf("processing instruction %s failed: %w", instruction.PaymentID.String(), err)
}

// handleRedelivery resolves a replayed instruction against the payment
// record it already created. FAILED payments get one more attempt; anything
// else already settled.
func (s *ProcessingServiceImpl) handleRedelivery(ctx context.Context, logger *slog.Logger, instruction *shared.PostingInstruction) error {
	existing, err := s.paymentRepo.GetByID(ctx, instruction.PaymentID)
	if err != nil {
		return fmt.Errorf("loading replayed payment %s: %w", instruction.PaymentID.String(), err)
	}

	if existing.Status != shared.StatusFailed {
		logger.Info("Instruction already processed, skipping",
			"payment_id", existing.ID.String(),
			"status", existing.Status,
		)
		return nil
	}

	p, err := s.paymentSvc.RetryPosting(ctx, existing.ID)
	if err != nil {
		return fmt.Errorf("retrying replayed payment %s: %w", existing.ID.String(), err)
	}

	logger.Info("Replayed instruction re-attempted",
		"payment_id", p.ID.String(),
		"status", p.Status,
		"failure_reason", p.FailureReason,
	)
	return nil
}
