package shared

import (
	"errors"
	"fmt"
	"strings"
)

// Status defines the processing states shared by every calling service
// (payments, transfers, loan repayments) that posts to the ledger.
type Status string

const (
	StatusInitiated  Status = "INITIATED"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
	StatusCancelled  Status = "CANCELLED"
)

// MaxFailureReasonLength is the longest failure reason stored on a caller record
const MaxFailureReasonLength = 255

// ErrInvalidStatus indicates a status string outside the lifecycle vocabulary
var ErrInvalidStatus = errors.New("invalid status")

// ParseStatus normalizes and validates a status string
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	switch s {
	case StatusInitiated, StatusProcessing, StatusCompleted, StatusFailed, StatusCancelled:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidStatus, raw)
	}
}

// allowedTransitions is the guard table for caller lifecycles.
// COMPLETED and CANCELLED are terminal.
var allowedTransitions = map[Status][]Status{
	StatusInitiated:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusFailed},
	StatusFailed:     {StatusProcessing, StatusCancelled},
}

// CanTransitionTo reports whether moving from s to next is a legal transition
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed from s
func (s Status) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// ErrInvalidTransition indicates a lifecycle transition the guard table forbids
type ErrInvalidTransition struct {
	From Status
	To   Status
}

func (e ErrInvalidTransition) Error() string {
	return "invalid status transition from " + string(e.From) + " to " + string(e.To)
}

// Lifecycle is the reusable status + failure-reason pair embedded by caller
// records. All transitions go through TransitionTo so the guard table is the
// single source of legality.
type Lifecycle struct {
	Status        Status `json:"status"`
	FailureReason string `json:"failure_reason,omitempty"`
}

// NewLifecycle returns a lifecycle in the INITIATED state
func NewLifecycle() Lifecycle {
	return Lifecycle{Status: StatusInitiated}
}

// TransitionTo moves the lifecycle to next, recording reason on FAILED and
// clearing any prior reason otherwise. Reasons are truncated to
// MaxFailureReasonLength so downstream stores never reject them.
func (l *Lifecycle) TransitionTo(next Status, reason string) error {
	if !l.Status.CanTransitionTo(next) {
		return ErrInvalidTransition{From: l.Status, To: next}
	}

	l.Status = next
	if next == StatusFailed {
		l.FailureReason = TruncateReason(reason)
	} else {
		l.FailureReason = ""
	}
	return nil
}

// TruncateReason trims a failure reason to the storable maximum
func TruncateReason(reason string) string {
	if len(reason) > MaxFailureReasonLength {
		return reason[:MaxFailureReasonLength]
	}
	return reason
}
