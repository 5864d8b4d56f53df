// Package payments implements the reference caller service for the ledger:
// a payment record owns its own lifecycle, invokes the policy router, absorbs
// posting failures into its FAILED state, and exposes a retry operation.
package payments

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/corebank-posting-ledger/internal/domain/journal"
	"github.com/corebank-posting-ledger/internal/domain/payment"
	"github.com/corebank-posting-ledger/internal/domain/shared"
	"github.com/corebank-posting-ledger/internal/posting"
)

// PolicyPoster is the routing surface the service posts through
type PolicyPoster interface {
	PostPolicy(ctx context.Context, req *posting.PolicyRequest) (*posting.Result, error)
}

// CreateParams carries the validated input for a new payment. ID is optional:
// batch callers supply their own so redelivered instructions collide instead
// of duplicating.
type CreateParams struct {
	ID                      uuid.UUID
	OperationType           shared.OperationType
	Amount                  decimal.Decimal
	AccountCode             string
	CounterpartyAccountCode string
	Description             string
	ValueDate               time.Time
	CorrelationID           string
}

// Service drives the payment lifecycle around ledger posting attempts
type Service struct {
	paymentRepo payment.Repository
	poster      PolicyPoster
	logger      *slog.Logger
}

// NewService creates a payment service
func NewService(logger *slog.Logger, paymentRepo payment.Repository, poster PolicyPoster) *Service {
	return &Service{
		paymentRepo: paymentRepo,
		poster:      poster,
		logger:      logger,
	}
}

// CreatePayment validates and persists the payment, then attempts the ledger
// posting. The posting outcome never fails the create: the record commits as
// COMPLETED or FAILED, and the caller reads the status field to learn whether
// money actually moved. Only a failure to persist the record itself is
// returned as an error.
func (s *Service) CreatePayment(ctx context.Context, params *CreateParams) (*payment.Payment, error) {
	p, err := payment.NewPayment(
		params.OperationType,
		params.Amount,
		params.AccountCode,
		params.CounterpartyAccountCode,
		params.Description,
		params.ValueDate,
	)
	if err != nil {
		return nil, err
	}
	if params.ID != uuid.Nil {
		p.ID = params.ID
		p.LedgerReference = shared.DeriveReference(p.OperationType, p.ID.String(), 1)
	}
	p.CorrelationID = params.CorrelationID

	if err := s.paymentRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	if err := p.MarkProcessing(); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.UpdateOutcome(ctx, p); err != nil {
		return nil, err
	}

	s.attemptPosting(ctx, p)

	if err := s.paymentRepo.UpdateOutcome(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// GetPayment retrieves a payment by ID
func (s *Service) GetPayment(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	return s.paymentRepo.GetByID(ctx, id)
}

// ListPayments returns a page of payments in the given status, newest first.
// Operators use this to find FAILED payments worth retrying.
func (s *Service) ListPayments(ctx context.Context, status shared.Status, limit, offset int) ([]*payment.Payment, error) {
	return s.paymentRepo.ListByStatus(ctx, status, limit, offset)
}

// RetryPosting re-attempts the ledger call for a FAILED payment using the
// same derived reference. If a previous attempt actually reached the ledger,
// the idempotent rejection is treated as success: the entry exists, so the
// payment is COMPLETED.
func (s *Service) RetryPosting(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	p, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// The guard table only allows FAILED → PROCESSING here
	if err := p.MarkProcessing(); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.UpdateOutcome(ctx, p); err != nil {
		return nil, err
	}

	s.attemptPosting(ctx, p)

	if err := s.paymentRepo.UpdateOutcome(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// attemptPosting runs one posting attempt and folds the outcome into the
// payment's lifecycle. The ledger call commits or rolls back on its own; only
// the payment's own status records what happened here.
func (s *Service) attemptPosting(ctx context.Context, p *payment.Payment) {
	logger := s.logger
	if p.CorrelationID != "" {
		logger = s.logger.With("correlation_id", p.CorrelationID)
	}

	req := &posting.PolicyRequest{
		Reference:               p.LedgerReference,
		Description:             p.Description,
		ValueDate:               p.ValueDate,
		OperationType:           p.OperationType,
		Amount:                  p.Amount,
		AccountCode:             p.AccountCode,
		CounterpartyAccountCode: p.CounterpartyAccountCode,
	}

	_, err := s.poster.PostPolicy(ctx, req)
	switch {
	case err == nil:
		if terr := p.MarkCompleted(); terr != nil {
			logger.Error("Failed to mark payment completed", "payment_id", p.ID.String(), "error", terr)
		}
		logger.Info("Payment posted to ledger",
			"payment_id", p.ID.String(),
			"reference", p.LedgerReference,
		)

	case errors.Is(err, journal.ErrReferenceAlreadyPosted{}):
		// A previous attempt reached the ledger before failing on our side
		if terr := p.MarkCompleted(); terr != nil {
			logger.Error("Failed to mark payment completed", "payment_id", p.ID.String(), "error", terr)
		}
		logger.Info("Ledger entry already posted, treating as completed",
			"payment_id", p.ID.String(),
			"reference", p.LedgerReference,
		)

	default:
		if terr := p.MarkFailed(err.Error()); terr != nil {
			logger.Error("Failed to mark payment failed", "payment_id", p.ID.String(), "error", terr)
		}
		logger.Warn("Ledger posting failed, payment marked FAILED",
			"payment_id", p.ID.String(),
			"reference", p.LedgerReference,
			"reason", err.Error(),
		)
	}
}
