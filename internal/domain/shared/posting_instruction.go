package shared

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PostingInstruction defines a Kafka message carrying one bulk posting item
// (e.g. one installment of a scheduled loan collection run). Each instruction
// is processed independently: a failure on one item must not abort the batch.
type PostingInstruction struct {
	PaymentID               uuid.UUID       `json:"payment_id"`
	OperationType           OperationType   `json:"operation_type"`
	Amount                  decimal.Decimal `json:"amount"`
	AccountCode             string          `json:"account_code"`
	CounterpartyAccountCode string          `json:"counterparty_account_code,omitempty"`
	Description             string          `json:"description"`
	ValueDate               time.Time       `json:"value_date"`
	CorrelationID           string          `json:"correlation_id"`
	Timestamp               time.Time       `json:"timestamp"`
}
