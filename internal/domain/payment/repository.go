package payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/corebank-posting-ledger/internal/domain/shared"
)

// Repository manages payment caller-record persistence
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// UpdateOutcome persists the lifecycle fields after a posting attempt
	UpdateOutcome(ctx context.Context, p *Payment) error

	// ListByStatus returns paginated payments in the given status, newest first
	ListByStatus(ctx context.Context, status shared.Status, limit, offset int) ([]*Payment, error)
}

// ErrPaymentNotFound indicates a missing payment record
type ErrPaymentNotFound struct {
	PaymentID uuid.UUID
}

func (e ErrPaymentNotFound) Error() string {
	return "payment not found: " + e.PaymentID.String()
}

// Is matches any ErrPaymentNotFound when the target carries a nil ID
func (e ErrPaymentNotFound) Is(target error) bool {
	t, ok := target.(ErrPaymentNotFound)
	if !ok {
		return false
	}
	return t.PaymentID == uuid.Nil || t.PaymentID == e.PaymentID
}

// ErrDuplicatePayment indicates a payment ID collision on create
type ErrDuplicatePayment struct {
	PaymentID uuid.UUID
}

func (e ErrDuplicatePayment) Error() string {
	return "duplicate payment: " + e.PaymentID.String()
}

// Is matches any ErrDuplicatePayment when the target carries a nil ID
func (e ErrDuplicatePayment) Is(target error) bool {
	t, ok := target.(ErrDuplicatePayment)
	if !ok {
		return false
	}
	return t.PaymentID == uuid.Nil || t.PaymentID == e.PaymentID
}
