package service

import (
	"context"
	"time"

	"github.com/corebank-posting-ledger/internal/domain/journal"
	"github.com/corebank-posting-ledger/internal/posting"
)

// JournalServiceImpl implements JournalService by delegating to the posting
// engine, policy router and query service. It adds no business logic of its
// own; it exists so the HTTP layer depends on one narrow contract.
type JournalServiceImpl struct {
	engine *posting.Engine
	router *posting.PolicyRouter
	query  *posting.QueryService
}

// NewJournalService creates a new journal boundary service
func NewJournalService(engine *posting.Engine, router *posting.PolicyRouter, query *posting.QueryService) JournalService {
	return &JournalServiceImpl{
		engine: engine,
		router: router,
		query:  query,
	}
}

// PostEntry posts a caller-specified multi-line entry
func (s *JournalServiceImpl) PostEntry(ctx context.Context, reference, description string, valueDate time.Time, lines []posting.LineRequest) (*posting.Result, error) {
	return s.engine.Post(ctx, reference, description, valueDate, lines)
}

// PostPolicyEntry posts a two-line entry derived from an operation type
func (s *JournalServiceImpl) PostPolicyEntry(ctx context.Context, req *posting.PolicyRequest) (*posting.Result, error) {
	return s.router.PostPolicy(ctx, req)
}

// GetEntry loads a posted entry with its lines
func (s *JournalServiceImpl) GetEntry(ctx context.Context, reference string) (*journal.Entry, error) {
	return s.engine.GetEntry(ctx, reference)
}

// GetBalance returns the all-time debit/credit position of an account
func (s *JournalServiceImpl) GetBalance(ctx context.Context, accountCode string) (*posting.AccountBalance, error) {
	return s.query.GetBalance(ctx, accountCode)
}

// Reconcile returns system-wide totals over a value-date range
func (s *JournalServiceImpl) Reconcile(ctx context.Context, from, to time.Time) (*posting.ReconciliationReport, error) {
	return s.query.Reconcile(ctx, from, to)
}
