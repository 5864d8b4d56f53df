package posting

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/corebank-posting-ledger/internal/domain/journal"
	"github.com/corebank-posting-ledger/internal/domain/shared"
)

// MockPoster mocks the Poster interface
type MockPoster struct {
	mock.Mock
}

func (m *MockPoster) Post(ctx context.Context, reference, description string, valueDate time.Time, lines []LineRequest) (*Result, error) {
	args := m.Called(ctx, reference, description, valueDate, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Result), args.Error(1)
}

func policyRequest(op shared.OperationType, counterparty string) *PolicyRequest {
	return &PolicyRequest{
		Reference:               "REF-1",
		Description:             "test",
		ValueDate:               time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		OperationType:           op,
		Amount:                  decimal.RequireFromString("50.25"),
		AccountCode:             "ACC-PRIMARY",
		CounterpartyAccountCode: counterparty,
	}
}

func TestPolicyRouter_PostPolicy_Routing(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name          string
		op            shared.OperationType
		counterparty  string
		wantDebit     string
		wantCredit    string
	}{
		{"PaymentWithCounterparty", shared.OperationTypePayment, "ACC-OTHER", "ACC-PRIMARY", "ACC-OTHER"},
		{"PaymentDefaultsToClearing", shared.OperationTypePayment, "", "ACC-PRIMARY", SystemAccountPaymentClearing},
		{"Transfer", shared.OperationTypeTransfer, "ACC-OTHER", "ACC-PRIMARY", "ACC-OTHER"},
		{"Deposit", shared.OperationTypeDeposit, "", "ACC-PRIMARY", SystemAccountCashSettlement},
		{"Withdrawal", shared.OperationTypeWithdrawal, "", SystemAccountCashSettlement, "ACC-PRIMARY"},
		{"Fee", shared.OperationTypeFee, "", "ACC-PRIMARY", SystemAccountFeeIncome},
		{"Interest", shared.OperationTypeInterest, "", SystemAccountInterestExpense, "ACC-PRIMARY"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			poster := new(MockPoster)
			router := NewPolicyRouter(testLogger(), poster)
			req := policyRequest(tc.op, tc.counterparty)

			poster.On("Post", ctx, req.Reference, req.Description, req.ValueDate,
				mock.MatchedBy(func(lines []LineRequest) bool {
					if len(lines) != 2 {
						return false
					}
					debit, credit := lines[0], lines[1]
					return debit.Type == journal.EntryTypeDebit &&
						credit.Type == journal.EntryTypeCredit &&
						debit.AccountCode == tc.wantDebit &&
						credit.AccountCode == tc.wantCredit &&
						debit.Amount.Equal(req.Amount) &&
						credit.Amount.Equal(req.Amount)
				})).Return(&Result{Reference: req.Reference}, nil).Once()

			result, err := router.PostPolicy(ctx, req)

			require.NoError(t, err)
			assert.Equal(t, req.Reference, result.Reference)
			poster.AssertExpectations(t)
		})
	}
}

func TestPolicyRouter_PostPolicy_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("TransferRequiresCounterparty", func(t *testing.T) {
		poster := new(MockPoster)
		router := NewPolicyRouter(testLogger(), poster)

		_, err := router.PostPolicy(ctx, policyRequest(shared.OperationTypeTransfer, ""))

		assert.ErrorIs(t, err, ErrCounterpartyRequired)
		poster.AssertNotCalled(t, "Post", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnknownOperationTypeRejected", func(t *testing.T) {
		router := NewPolicyRouter(testLogger(), new(MockPoster))

		_, err := router.PostPolicy(ctx, policyRequest(shared.OperationType("CHARGEBACK"), ""))
		assert.ErrorIs(t, err, shared.ErrInvalidOperationType)
	})

	t.Run("OperationTypeNormalized", func(t *testing.T) {
		poster := new(MockPoster)
		router := NewPolicyRouter(testLogger(), poster)
		req := policyRequest(shared.OperationType(" fee "), "")

		poster.On("Post", ctx, req.Reference, req.Description, req.ValueDate, mock.Anything).
			Return(&Result{Reference: req.Reference}, nil).Once()

		_, err := router.PostPolicy(ctx, req)
		require.NoError(t, err)
		poster.AssertExpectations(t)
	})

	t.Run("ZeroAmountRejected", func(t *testing.T) {
		router := NewPolicyRouter(testLogger(), new(MockPoster))
		req := policyRequest(shared.OperationTypeDeposit, "")
		req.Amount = decimal.Zero

		_, err := router.PostPolicy(ctx, req)
		assert.ErrorIs(t, err, shared.ErrInvalidAmount)
	})

	t.Run("NegativeAmountRejected", func(t *testing.T) {
		router := NewPolicyRouter(testLogger(), new(MockPoster))
		req := policyRequest(shared.OperationTypeDeposit, "")
		req.Amount = decimal.NewFromInt(-10)

		_, err := router.PostPolicy(ctx, req)
		assert.ErrorIs(t, err, shared.ErrInvalidAmount)
	})

	t.Run("PosterErrorsSurface", func(t *testing.T) {
		poster := new(MockPoster)
		router := NewPolicyRouter(testLogger(), poster)
		req := policyRequest(shared.OperationTypePayment, "")

		poster.On("Post", ctx, req.Reference, req.Description, req.ValueDate, mock.Anything).
			Return(nil, journal.ErrReferenceAlreadyPosted{Reference: req.Reference}).Once()

		_, err := router.PostPolicy(ctx, req)
		assert.ErrorIs(t, err, journal.ErrReferenceAlreadyPosted{})
	})
}
