package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/corebank-posting-ledger/internal/batch_processor/service"
	"github.com/corebank-posting-ledger/internal/domain/shared"
	"github.com/corebank-posting-ledger/internal/platform/messaging/producers"
)

// PostingEventHandler handles incoming posting instruction messages from Kafka
type PostingEventHandler struct {
	processingService service.ProcessingService
	producer          producers.DeadLetterPublisher
	logger            *slog.Logger
}

// NewPostingEventHandler creates a new handler
func NewPostingEventHandler(
	logger *slog.Logger,
	processingService service.ProcessingService,
	producer producers.DeadLetterPublisher,
) *PostingEventHandler {
	return &PostingEventHandler{
		processingService: processingService,
		producer:          producer,
		logger:            logger,
	}
}

// HandleMessage processes Kafka messages
func (h *PostingEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var instruction shared.PostingInstruction
	if err := json.Unmarshal(value, &instruction); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal posting instruction from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)

		// Send to DLQ if available
		if h.producer != nil {
			dlqReason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error())
			if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
				h.logger.Error("Failed to publish message to DLQ after unmarshal error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
				// Return original error if DLQ fails
			} else {
				h.logger.Info("Successfully published unprocessable message to DLQ", "message_key", string(key), "reason", dlqReason)
				// Message handled, commit offset
				return nil
			}
		}
		// Allow Kafka retries
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	// Add correlation ID to logger
	logger := h.logger
	if instruction.CorrelationID != "" {
		logger = h.logger.With("correlation_id", instruction.CorrelationID)
	}

	logger.Info("Received posting instruction for processing",
		"payment_id", instruction.PaymentID.String(),
		"operation_type", instruction.OperationType,
		"account_code", instruction.AccountCode,
		"amount", instruction.Amount,
	)

	if err := h.processingService.ProcessInstruction(ctx, &instruction); err != nil {
		logger.Error("Failed to process posting instruction",
			"payment_id", instruction.PaymentID.String(),
			"account_code", instruction.AccountCode,
			"error", err,
		)
		return fmt.Errorf("processing instruction %s failed: %w", instruction.PaymentID.String(), err)
	}

	logger.Info("Successfully processed posting instruction", "payment_id", instruction.PaymentID.String())
	return nil // Success, commit offset
}
