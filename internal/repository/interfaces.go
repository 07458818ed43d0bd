package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pdvlite/pos-engine/internal/domain"
)

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	// Create creates payment obligations; more than one for installment plans
	Create(ctx context.Context, payments []*domain.Payment) error

	// GetByID retrieves a payment by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)

	// GetBySaleID retrieves all payments for a sale
	GetBySaleID(ctx context.Context, saleID string) ([]*domain.Payment, error)

	// List retrieves payments matching the filter
	List(ctx context.Context, filter domain.PaymentFilter) ([]*domain.Payment, error)

	// Update persists paid value, payment date and denormalized status
	Update(ctx context.Context, payment *domain.Payment) error

	// UpdateStatus updates only the denormalized status column
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error

	// CreateEntry records an applied payment in the audit log
	CreateEntry(ctx context.Context, entry *domain.PaymentEntry) error

	// ListEntries retrieves the audit log for a payment
	ListEntries(ctx context.Context, paymentID uuid.UUID) ([]*domain.PaymentEntry, error)
}

// SaleRepository defines the read-only interface to the sales collaborator
type SaleRepository interface {
	// GetByID retrieves a sale by its ID
	GetByID(ctx context.Context, id string) (*domain.Sale, error)

	// TotalForDate returns the summed sale value for a calendar date
	TotalForDate(ctx context.Context, date time.Time) (decimal.Decimal, error)

	// Recent returns up to limit sales, for a specific date when date is
	// non-nil, most recent first otherwise
	Recent(ctx context.Context, date *time.Time, limit int) ([]*domain.Sale, error)
}
