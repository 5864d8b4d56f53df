package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/corebank-posting-ledger/internal/domain/payment"
	"github.com/corebank-posting-ledger/internal/domain/shared"
	"github.com/corebank-posting-ledger/internal/payments"
	"github.com/corebank-posting-ledger/internal/platform/messaging/producers"
)

// PaymentServiceImpl adapts the shared payment lifecycle service to the
// gateway's boundary contract and enqueues batch instructions to Kafka
type PaymentServiceImpl struct {
	svc      *payments.Service
	producer producers.MessagePublisher
}

// NewPaymentService creates a new payment boundary service
func NewPaymentService(svc *payments.Service, producer producers.MessagePublisher) PaymentService {
	return &PaymentServiceImpl{
		svc:      svc,
		producer: producer,
	}
}

// CreatePayment persists a payment and attempts the ledger posting. The
// returned payment's status tells the caller whether posting succeeded.
func (s *PaymentServiceImpl) CreatePayment(ctx context.Context, params *CreatePaymentParams) (*payment.Payment, error) {
	return s.svc.CreatePayment(ctx, &payments.CreateParams{
		OperationType:           params.OperationType,
		Amount:                  params.Amount,
		AccountCode:             params.AccountCode,
		CounterpartyAccountCode: params.CounterpartyAccountCode,
		Description:             params.Description,
		ValueDate:               params.ValueDate,
		CorrelationID:           params.CorrelationID,
	})
}

// GetPayment retrieves a payment by ID
func (s *PaymentServiceImpl) GetPayment(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	return s.svc.GetPayment(ctx, id)
}

// ListPayments returns a page of payments in the given status
func (s *PaymentServiceImpl) ListPayments(ctx context.Context, status shared.Status, limit, offset int) ([]*payment.Payment, error) {
	return s.svc.ListPayments(ctx, status, limit, offset)
}

// RetryPosting re-attempts a FAILED payment's ledger call
func (s *PaymentServiceImpl) RetryPosting(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	return s.svc.RetryPosting(ctx, id)
}

// EnqueueBatch assigns each instruction a payment ID and publishes it to the
// posting topic. The batch processor creates the payment records; the IDs let
// callers poll for outcomes.
func (s *PaymentServiceImpl) EnqueueBatch(ctx context.Context, params []*CreatePaymentParams) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(params))
	for _, p := range params {
		instruction := &shared.PostingInstruction{
			PaymentID:               uuid.New(),
			OperationType:           p.OperationType,
			Amount:                  p.Amount,
			AccountCode:             p.AccountCode,
			CounterpartyAccountCode: p.CounterpartyAccountCode,
			Description:             p.Description,
			ValueDate:               p.ValueDate,
			CorrelationID:           p.CorrelationID,
			Timestamp:               time.Now().UTC(),
		}

		if err := s.producer.Publish(ctx, instruction.PaymentID.String(), instruction); err != nil {
			return ids, fmt.Errorf("enqueueing instruction %d of %d: %w", len(ids)+1, len(params), err)
		}
		ids = append(ids, instruction.PaymentID)
	}

	return ids, nil
}
