package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/corebank-posting-ledger/internal/domain/account"
	"github.com/corebank-posting-ledger/internal/domain/journal"
	"github.com/corebank-posting-ledger/internal/domain/payment"
	"github.com/corebank-posting-ledger/internal/domain/shared"
	"github.com/corebank-posting-ledger/internal/posting"
)

// AccountAdminService defines chart-of-accounts administration
type AccountAdminService interface {
	// CreateAccount registers a new account with a normalized code
	// Returns ErrAccountExists if the code is taken
	CreateAccount(ctx context.Context, code, name, category string) (*account.Account, error)

	// GetAccount retrieves one account by code
	// Returns ErrAccountNotFound if absent
	GetAccount(ctx context.Context, code string) (*account.Account, error)

	// ListAccounts returns the full chart of accounts
	ListAccounts(ctx context.Context) ([]*account.Account, error)

	// SetAccountActive activates or deactivates an account and returns it
	SetAccountActive(ctx context.Context, code string, active bool) (*account.Account, error)
}

// JournalService is the boundary contract calling services consume: direct
// and policy-routed posting plus the reconciliation queries.
type JournalService interface {
	PostEntry(ctx context.Context, reference, description string, valueDate time.Time, lines []posting.LineRequest) (*posting.Result, error)
	PostPolicyEntry(ctx context.Context, req *posting.PolicyRequest) (*posting.Result, error)
	GetEntry(ctx context.Context, reference string) (*journal.Entry, error)
	GetBalance(ctx context.Context, accountCode string) (*posting.AccountBalance, error)
	Reconcile(ctx context.Context, from, to time.Time) (*posting.ReconciliationReport, error)
}

// CreatePaymentParams carries the validated input for a new payment
type CreatePaymentParams struct {
	OperationType           shared.OperationType
	Amount                  decimal.Decimal
	AccountCode             string
	CounterpartyAccountCode string
	Description             string
	ValueDate               time.Time
	CorrelationID           string
}

// PaymentService is the reference Caller State Machine implementation.
// Posting failures are absorbed into the payment's FAILED state; creating a
// payment only fails when the payment record itself cannot be persisted.
type PaymentService interface {
	CreatePayment(ctx context.Context, params *CreatePaymentParams) (*payment.Payment, error)
	GetPayment(ctx context.Context, id uuid.UUID) (*payment.Payment, error)

	// ListPayments returns a page of payments in the given status,
	// newest first
	ListPayments(ctx context.Context, status shared.Status, limit, offset int) ([]*payment.Payment, error)

	// RetryPosting re-attempts the ledger call with the same derived
	// reference. Allowed only from FAILED.
	RetryPosting(ctx context.Context, id uuid.UUID) (*payment.Payment, error)

	// EnqueueBatch publishes posting instructions for asynchronous
	// processing and returns the assigned payment IDs
	EnqueueBatch(ctx context.Context, params []*CreatePaymentParams) ([]uuid.UUID, error)
}
