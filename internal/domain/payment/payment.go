package payment

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/corebank-posting-ledger/internal/domain/shared"
)

// Common errors
var (
	ErrEmptyAccountCode = errors.New("payment account code cannot be empty")
	ErrInvalidAmount    = errors.New("payment amount must be positive")
)

// Payment is a caller record: it owns its own lifecycle independently of the
// ledger. The ledger entry it produced is linked by LedgerReference, a
// deterministic string derived from the payment's identity. It is a lookup,
// not a foreign key, since the ledger may be a separate network-isolated
// service.
type Payment struct {
	ID                      uuid.UUID            `json:"id"`
	OperationType           shared.OperationType `json:"operation_type"`
	Amount                  decimal.Decimal      `json:"amount"`
	AccountCode             string               `json:"account_code"`
	CounterpartyAccountCode string               `json:"counterparty_account_code,omitempty"`
	Description             string               `json:"description,omitempty"`
	ValueDate               time.Time            `json:"value_date"`
	LedgerReference         string               `json:"ledger_reference"`
	CorrelationID           string               `json:"correlation_id,omitempty"`
	shared.Lifecycle
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

// NewPayment validates business preconditions and builds an INITIATED payment
// with its ledger reference already derived, so every posting attempt (first
// try and retries) uses the same reference.
func NewPayment(op shared.OperationType, amount decimal.Decimal, accountCode, counterpartyCode, description string, valueDate time.Time) (*Payment, error) {
	if _, err := shared.ParseOperationType(string(op)); err != nil {
		return nil, err
	}
	if accountCode == "" {
		return nil, ErrEmptyAccountCode
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	id := uuid.New()
	now := time.Now()
	return &Payment{
		ID:                      id,
		OperationType:           op,
		Amount:                  amount,
		AccountCode:             accountCode,
		CounterpartyAccountCode: counterpartyCode,
		Description:             description,
		ValueDate:               valueDate,
		LedgerReference:         shared.DeriveReference(op, id.String(), 1),
		Lifecycle:               shared.NewLifecycle(),
		CreatedAt:               now,
		UpdatedAt:               now,
	}, nil
}

// MarkProcessing moves the payment into PROCESSING ahead of a posting attempt
func (p *Payment) MarkProcessing() error {
	if err := p.TransitionTo(shared.StatusProcessing, ""); err != nil {
		return err
	}
	p.UpdatedAt = time.Now()
	return nil
}

// MarkCompleted records a successful posting and clears any prior failure reason
func (p *Payment) MarkCompleted() error {
	if err := p.TransitionTo(shared.StatusCompleted, ""); err != nil {
		return err
	}
	now := time.Now()
	p.UpdatedAt = now
	p.ProcessedAt = &now
	return nil
}

// MarkFailed absorbs a posting failure into the payment's own state
func (p *Payment) MarkFailed(reason string) error {
	if err := p.TransitionTo(shared.StatusFailed, reason); err != nil {
		return err
	}
	now := time.Now()
	p.UpdatedAt = now
	p.ProcessedAt = &now
	return nil
}
