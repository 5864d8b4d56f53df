package service

import (
	"context"

	"github.com/corebank-posting-ledger/internal/domain/shared"
)

// ProcessingService defines the interface for processing posting instructions
type ProcessingService interface {
	ProcessInstruction(ctx context.Context, instruction *shared.PostingInstruction) error
}
