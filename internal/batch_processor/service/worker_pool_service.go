package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/corebank-posting-ledger/internal/domain/shared"
)

// WorkerPoolProcessingService fans posting instructions out to a bounded
// worker pool while preserving the per-message error contract of the base
// service.
type WorkerPoolProcessingService struct {
	baseService ProcessingService
	pool        *ants.Pool
	logger      *slog.Logger
	// Protects the in-flight results map
	mu      sync.Mutex
	results map[string]chan error
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolProcessingService(
	baseService ProcessingService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolProcessingService, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolProcessingService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
		results:     make(map[string]chan error),
	}, nil
}

// ProcessInstruction submits an instruction to the worker pool and waits for
// its outcome so the consumer's offset semantics stay intact.
func (s *WorkerPoolProcessingService) ProcessInstruction(ctx context.Context, instruction *shared.PostingInstruction) error {
	logger := s.logger
	if instruction.CorrelationID != "" {
		logger = s.logger.With("correlation_id", instruction.CorrelationID)
	}

	logger.Info("Submitting posting instruction to worker pool",
		"payment_id", instruction.PaymentID.String(),
		"account_code", instruction.AccountCode,
	)

	resultChan := make(chan error, 1)

	paymentID := instruction.PaymentID.String()
	s.mu.Lock()
	s.results[paymentID] = resultChan
	s.mu.Unlock()

	// Copy the instruction to avoid data races with the caller
	instructionCopy := *instruction

	err := s.pool.Submit(func() {
		err := s.baseService.ProcessInstruction(ctx, &instructionCopy)

		resultChan <- err

		s.mu.Lock()
		delete(s.results, paymentID)
		close(resultChan)
		s.mu.Unlock()
	})

	if err != nil {
		s.mu.Lock()
		delete(s.results, paymentID)
		close(resultChan)
		s.mu.Unlock()

		logger.Error("Failed to submit instruction to worker pool",
			"payment_id", instruction.PaymentID.String(),
			"error", err,
		)
		return err
	}

	return <-resultChan
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolProcessingService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolProcessingService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolProcessingService) Capacity() int {
	return s.pool.Cap()
}
