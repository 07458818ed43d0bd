package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	customError "github.com/pdvlite/pos-engine/pkg/errors"
	"github.com/pdvlite/pos-engine/pkg/utils"
)

// Payment statuses. The stored status column is a denormalized query hint;
// StatusAt is the authoritative derivation.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusPartial = "partial"
	PaymentStatusOverdue = "overdue"
)

// Payment methods
const (
	MethodCash         = "cash"
	MethodPix          = "pix"
	MethodDebitCard    = "debit_card"
	MethodCreditCard   = "credit_card"
	MethodBankTransfer = "bank_transfer"
	MethodBankSlip     = "bank_slip"
)

var paymentMethods = map[string]bool{
	MethodCash:         true,
	MethodPix:          true,
	MethodDebitCard:    true,
	MethodCreditCard:   true,
	MethodBankTransfer: true,
	MethodBankSlip:     true,
}

// ValidPaymentMethod reports whether method is one of the supported methods.
func ValidPaymentMethod(method string) bool {
	return paymentMethods[method]
}

// Payment represents one payment obligation tied to a sale.
type Payment struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	SaleID        string          `json:"sale_id" db:"sale_id"`
	TotalValue    decimal.Decimal `json:"total_value" db:"total_value"`
	PaidValue     decimal.Decimal `json:"paid_value" db:"paid_value"`
	PaymentMethod string          `json:"payment_method" db:"payment_method"`
	DueDate       time.Time       `json:"due_date" db:"due_date"`
	PaymentDate   *time.Time      `json:"payment_date,omitempty" db:"payment_date"`
	Installment   int             `json:"installment" db:"installment"`
	Notes         string          `json:"notes,omitempty" db:"notes"`
	Status        string          `json:"status" db:"status"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// NewPayment creates a payment obligation for a sale.
func NewPayment(saleID string, totalValue decimal.Decimal, method string, dueDate time.Time, initialPaid decimal.Decimal) (*Payment, error) {
	if saleID == "" {
		return nil, customError.WrapValidation("sale ID is required")
	}
	if totalValue.LessThanOrEqual(decimal.Zero) {
		return nil, customError.WrapValidation("total value must be greater than zero")
	}
	if !ValidPaymentMethod(method) {
		return nil, customError.NewBusinessError(customError.ErrCodeValidation,
			"unknown payment method: "+method, customError.ErrInvalidMethod)
	}
	if dueDate.IsZero() {
		return nil, customError.NewBusinessError(customError.ErrCodeValidation,
			"due date is required", customError.ErrInvalidDueDate)
	}
	if initialPaid.IsNegative() {
		return nil, customError.WrapValidation("initial paid value cannot be negative")
	}
	if initialPaid.GreaterThan(totalValue) {
		return nil, customError.WrapOverpayment(totalValue.String(), initialPaid.String())
	}

	p := &Payment{
		ID:            uuid.New(),
		SaleID:        saleID,
		TotalValue:    totalValue,
		PaidValue:     initialPaid,
		PaymentMethod: method,
		DueDate:       utils.DateOnly(dueDate),
		Installment:   1,
	}
	if p.PaidValue.Equal(p.TotalValue) {
		now := time.Now()
		p.PaymentDate = &now
	}
	return p, nil
}

// ApplyPayment increases the paid value by amount. The state is left
// unchanged when the amount is invalid or would exceed the total.
// PaymentDate is set once, the moment the obligation first settles.
func (p *Payment) ApplyPayment(amount decimal.Decimal, now time.Time) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return customError.WrapValidation("payment amount must be greater than zero")
	}

	newPaid := p.PaidValue.Add(amount)
	if newPaid.GreaterThan(p.TotalValue) {
		return customError.WrapOverpayment(p.RemainingValue().String(), amount.String())
	}

	p.PaidValue = newPaid
	if p.PaidValue.Equal(p.TotalValue) && p.PaymentDate == nil {
		paidAt := now
		p.PaymentDate = &paidAt
	}
	return nil
}

// StatusAt derives the payment status as of now.
// Precedence: paid > partial > (overdue or pending for untouched obligations).
// A partially paid obligation past its due date stays partial.
func (p *Payment) StatusAt(now time.Time) string {
	if p.PaidValue.IsZero() {
		if utils.IsDateOverdue(p.DueDate, now) {
			return PaymentStatusOverdue
		}
		return PaymentStatusPending
	}
	if p.PaidValue.GreaterThanOrEqual(p.TotalValue) {
		return PaymentStatusPaid
	}
	return PaymentStatusPartial
}

// RemainingValue returns the unpaid balance, floored at zero.
func (p *Payment) RemainingValue() decimal.Decimal {
	remaining := p.TotalValue.Sub(p.PaidValue)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// IsOverdue reports whether the obligation is past due and not settled.
// Unlike StatusAt, this includes partially paid obligations past their due date.
func (p *Payment) IsOverdue(now time.Time) bool {
	return utils.IsDateOverdue(p.DueDate, now) && p.StatusAt(now) != PaymentStatusPaid
}

// LateFeeAt returns the penalty accrued as of now, zero when not late.
func (p *Payment) LateFeeAt(now time.Time) decimal.Decimal {
	if !p.IsOverdue(now) {
		return decimal.Zero
	}
	return utils.LateFee(p.TotalValue, utils.DaysLate(p.DueDate, now))
}

// Summary is the plain value object handed to the presentation layer.
type Summary struct {
	Status         string          `json:"status"`
	RemainingValue decimal.Decimal `json:"remaining_value"`
	IsOverdue      bool            `json:"is_overdue"`
}

// SummaryAt builds the presentation summary as of now.
func (p *Payment) SummaryAt(now time.Time) Summary {
	return Summary{
		Status:         p.StatusAt(now),
		RemainingValue: p.RemainingValue(),
		IsOverdue:      p.IsOverdue(now),
	}
}

// PaymentEntry is the audit record of one applied payment.
type PaymentEntry struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	PaymentID     uuid.UUID       `json:"payment_id" db:"payment_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	PaymentMethod string          `json:"payment_method" db:"payment_method"`
	PaidAt        time.Time       `json:"paid_at" db:"paid_at"`
	Notes         string          `json:"notes,omitempty" db:"notes"`
}

// PaymentFilter narrows repository queries by status and due-date range.
type PaymentFilter struct {
	Status  string
	DueFrom *time.Time
	DueTo   *time.Time
}

// DTOs for requests and responses

type CreatePaymentRequest struct {
	SaleID        string          `json:"sale_id" validate:"required"`
	TotalValue    decimal.Decimal `json:"total_value" validate:"required"`
	PaidValue     decimal.Decimal `json:"paid_value"`
	PaymentMethod string          `json:"payment_method" validate:"required"`
	DueDate       string          `json:"due_date" validate:"required,datetime=2006-01-02"`
	Installments  int             `json:"installments" validate:"omitempty,gte=1,lte=48"`
	Notes         string          `json:"notes"`
}

type RegisterPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes"`
}

type PaymentResponse struct {
	Payment *Payment `json:"payment"`
	Summary Summary  `json:"summary"`
}

type CreatePaymentResponse struct {
	Payments []*Payment `json:"payments"`
}
