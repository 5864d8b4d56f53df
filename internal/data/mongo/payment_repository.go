// Package mongo provides the MongoDB implementation of the payment
// caller-record repository. Payments live in a separate store from the
// ledger: the two are linked only by the derived ledger reference.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/corebank-posting-ledger/internal/domain/payment"
	"github.com/corebank-posting-ledger/internal/domain/shared"
)

const (
	// PaymentCollectionName is the name of the payments collection in MongoDB
	PaymentCollectionName = "payments"
)

// paymentDocument is the stored shape of a payment. IDs and amounts are kept
// as strings so the document stays readable and the decimal scale is exact.
type paymentDocument struct {
	ID                      string     `bson:"_id"`
	OperationType           string     `bson:"operation_type"`
	Amount                  string     `bson:"amount"`
	AccountCode             string     `bson:"account_code"`
	CounterpartyAccountCode string     `bson:"counterparty_account_code,omitempty"`
	Description             string     `bson:"description,omitempty"`
	ValueDate               time.Time  `bson:"value_date"`
	LedgerReference         string     `bson:"ledger_reference"`
	CorrelationID           string     `bson:"correlation_id,omitempty"`
	Status                  string     `bson:"status"`
	FailureReason           string     `bson:"failure_reason,omitempty"`
	CreatedAt               time.Time  `bson:"created_at"`
	UpdatedAt               time.Time  `bson:"updated_at"`
	ProcessedAt             *time.Time `bson:"processed_at,omitempty"`
}

func toDocument(p *payment.Payment) *paymentDocument {
	return &paymentDocument{
		ID:                      p.ID.String(),
		OperationType:           string(p.OperationType),
		Amount:                  p.Amount.String(),
		AccountCode:             p.AccountCode,
		CounterpartyAccountCode: p.CounterpartyAccountCode,
		Description:             p.Description,
		ValueDate:               p.ValueDate,
		LedgerReference:         p.LedgerReference,
		CorrelationID:           p.CorrelationID,
		Status:                  string(p.Status),
		FailureReason:           p.FailureReason,
		CreatedAt:               p.CreatedAt,
		UpdatedAt:               p.UpdatedAt,
		ProcessedAt:             p.ProcessedAt,
	}
}

func fromDocument(doc *paymentDocument) (*payment.Payment, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse payment id %q: %w", doc.ID, err)
	}
	amount, err := decimal.NewFromString(doc.Amount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse payment amount %q: %w", doc.Amount, err)
	}

	return &payment.Payment{
		ID:                      id,
		OperationType:           shared.OperationType(doc.OperationType),
		Amount:                  amount,
		AccountCode:             doc.AccountCode,
		CounterpartyAccountCode: doc.CounterpartyAccountCode,
		Description:             doc.Description,
		ValueDate:               doc.ValueDate,
		LedgerReference:         doc.LedgerReference,
		CorrelationID:           doc.CorrelationID,
		Lifecycle: shared.Lifecycle{
			Status:        shared.Status(doc.Status),
			FailureReason: doc.FailureReason,
		},
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
		ProcessedAt: doc.ProcessedAt,
	}, nil
}

// PaymentRepository implements the payment.Repository interface for MongoDB
type PaymentRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewPaymentRepository creates a new MongoDB payment repository
func NewPaymentRepository(logger *slog.Logger, db *mongo.Database) payment.Repository {
	return &PaymentRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new payment record.
// Returns ErrDuplicatePayment if a record with the same ID exists.
func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	collection := r.db.Collection(PaymentCollectionName)

	_, err := collection.InsertOne(ctx, toDocument(p))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return payment.ErrDuplicatePayment{PaymentID: p.ID}
		}
		r.logger.Error("Failed to create payment",
			"payment_id", p.ID.String(),
			"error", err)
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// GetByID retrieves a payment by its ID.
// Returns ErrPaymentNotFound if no record exists.
func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	collection := r.db.Collection(PaymentCollectionName)

	filter := bson.M{"_id": id.String()}
	var doc paymentDocument
	err := collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, payment.ErrPaymentNotFound{PaymentID: id}
		}
		r.logger.Error("Failed to get payment",
			"payment_id", id.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return fromDocument(&doc)
}

// UpdateOutcome persists the lifecycle fields after a posting attempt
func (r *PaymentRepository) UpdateOutcome(ctx context.Context, p *payment.Payment) error {
	collection := r.db.Collection(PaymentCollectionName)

	filter := bson.M{"_id": p.ID.String()}
	update := bson.M{
		"$set": bson.M{
			"status":         string(p.Status),
			"failure_reason": p.FailureReason,
			"updated_at":     time.Now(),
			"processed_at":   p.ProcessedAt,
		},
	}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.Error("Failed to update payment outcome",
			"payment_id", p.ID.String(),
			"status", p.Status,
			"error", err)
		return fmt.Errorf("failed to update payment outcome: %w", err)
	}

	if result.MatchedCount == 0 {
		return payment.ErrPaymentNotFound{PaymentID: p.ID}
	}

	return nil
}

// ListByStatus returns paginated payments in the given status, newest first
func (r *PaymentRepository) ListByStatus(ctx context.Context, status shared.Status, limit, offset int) ([]*payment.Payment, error) {
	collection := r.db.Collection(PaymentCollectionName)

	filter := bson.M{"status": string(status)}
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to list payments by status",
			"status", status,
			"error", err)
		return nil, fmt.Errorf("failed to list payments by status: %w", err)
	}
	defer cursor.Close(ctx)

	var payments []*payment.Payment
	for cursor.Next(ctx) {
		var doc paymentDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode payment: %w", err)
		}
		p, err := fromDocument(&doc)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payments: %w", err)
	}

	return payments, nil
}
