package shared

import (
	"errors"
	"fmt"
	"strings"
)

// OperationType defines the high-level banking operations the policy router
// knows how to turn into journal entries.
type OperationType string

const (
	OperationTypePayment    OperationType = "PAYMENT"
	OperationTypeTransfer   OperationType = "TRANSFER"
	OperationTypeDeposit    OperationType = "DEPOSIT"
	OperationTypeWithdrawal OperationType = "WITHDRAWAL"
	OperationTypeFee        OperationType = "FEE"
	OperationTypeInterest   OperationType = "INTEREST"
)

var (
	ErrInvalidOperationType = errors.New("invalid operation type")
	ErrInvalidAmount        = errors.New("amount must be positive")
)

// ParseOperationType normalizes and validates an operation type string
func ParseOperationType(raw string) (OperationType, error) {
	op := OperationType(strings.ToUpper(strings.TrimSpace(raw)))
	switch op {
	case OperationTypePayment, OperationTypeTransfer, OperationTypeDeposit,
		OperationTypeWithdrawal, OperationTypeFee, OperationTypeInterest:
		return op, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidOperationType, raw)
	}
}

// DeriveReference builds the ledger reference for a caller-owned operation.
// The reference is deterministic and stable across retries so the posting
// engine's idempotency check can reject duplicates.
func DeriveReference(op OperationType, callerID string, sequence int) string {
	return fmt.Sprintf("%s-%s-%d", op, strings.ToUpper(callerID), sequence)
}
