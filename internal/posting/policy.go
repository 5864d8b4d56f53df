package posting

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/corebank-posting-ledger/internal/domain/journal"
	"github.com/corebank-posting-ledger/internal/domain/shared"
)

// Well-known system accounts the policy routes settle against
const (
	SystemAccountPaymentClearing = "PAYMENT-CLEARING"
	SystemAccountCashSettlement  = "CASH-SETTLEMENT"
	SystemAccountFeeIncome       = "FEE-INCOME"
	SystemAccountInterestExpense = "INTEREST-EXPENSE"
)

// ErrCounterpartyRequired indicates an operation type that has no default
// counterparty (TRANSFER) was requested without one.
var ErrCounterpartyRequired = errors.New("counterparty account is required")

// Poster is the posting surface the router delegates to
type Poster interface {
	Post(ctx context.Context, reference, description string, valueDate time.Time, lines []LineRequest) (*Result, error)
}

// PolicyRequest maps one high-level banking operation onto a two-line entry
type PolicyRequest struct {
	Reference               string
	Description             string
	ValueDate               time.Time
	OperationType           shared.OperationType
	Amount                  decimal.Decimal
	AccountCode             string
	CounterpartyAccountCode string
}

// route names the debit and credit account for an operation type. Adding an
// operation type is a row in the table, not new branching logic.
type route struct {
	requiresCounterparty bool
	debitAccount         func(r *PolicyRequest) string
	creditAccount        func(r *PolicyRequest) string
}

func primary(r *PolicyRequest) string { return r.AccountCode }

func counterparty(r *PolicyRequest) string { return r.CounterpartyAccountCode }

func counterpartyOr(fallback string) func(r *PolicyRequest) string {
	return func(r *PolicyRequest) string {
		if r.CounterpartyAccountCode != "" {
			return r.CounterpartyAccountCode
		}
		return fallback
	}
}

func system(code string) func(r *PolicyRequest) string {
	return func(*PolicyRequest) string { return code }
}

var routes = map[shared.OperationType]route{
	shared.OperationTypePayment:    {debitAccount: primary, creditAccount: counterpartyOr(SystemAccountPaymentClearing)},
	shared.OperationTypeTransfer:   {requiresCounterparty: true, debitAccount: primary, creditAccount: counterparty},
	shared.OperationTypeDeposit:    {debitAccount: primary, creditAccount: system(SystemAccountCashSettlement)},
	shared.OperationTypeWithdrawal: {debitAccount: system(SystemAccountCashSettlement), creditAccount: primary},
	shared.OperationTypeFee:        {debitAccount: primary, creditAccount: system(SystemAccountFeeIncome)},
	shared.OperationTypeInterest:   {debitAccount: system(SystemAccountInterestExpense), creditAccount: primary},
}

// PolicyRouter keeps account-routing knowledge in one place instead of
// scattering it across every calling service.
type PolicyRouter struct {
	poster Poster
	logger *slog.Logger
}

// NewPolicyRouter creates a policy router delegating to the given poster
func NewPolicyRouter(logger *slog.Logger, poster Poster) *PolicyRouter {
	return &PolicyRouter{
		poster: poster,
		logger: logger,
	}
}

// PostPolicy resolves the operation type to its two-line template and
// delegates to the posting engine. It performs no other business logic.
func (p *PolicyRouter) PostPolicy(ctx context.Context, req *PolicyRequest) (*Result, error) {
	op, err := shared.ParseOperationType(string(req.OperationType))
	if err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, shared.ErrInvalidAmount
	}

	r := routes[op]
	if r.requiresCounterparty && req.CounterpartyAccountCode == "" {
		return nil, ErrCounterpartyRequired
	}

	lines := []LineRequest{
		{AccountCode: r.debitAccount(req), Type: journal.EntryTypeDebit, Amount: req.Amount},
		{AccountCode: r.creditAccount(req), Type: journal.EntryTypeCredit, Amount: req.Amount},
	}

	p.logger.Debug("Routing policy entry",
		"reference", req.Reference,
		"operation_type", op,
		"debit_account", lines[0].AccountCode,
		"credit_account", lines[1].AccountCode,
	)

	return p.poster.Post(ctx, req.Reference, req.Description, req.ValueDate, lines)
}
