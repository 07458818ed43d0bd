package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pdvlite/pos-engine/internal/config"
	"github.com/pdvlite/pos-engine/internal/domain"
	"github.com/pdvlite/pos-engine/internal/repository"
	customError "github.com/pdvlite/pos-engine/pkg/errors"
	"github.com/pdvlite/pos-engine/pkg/utils"
)

// LedgerService owns the lifecycle of payment obligations.
type LedgerService struct {
	PaymentRepo repository.PaymentRepository
	SaleRepo    repository.SaleRepository
	config      *config.Config
}

func NewLedgerService(
	paymentRepo repository.PaymentRepository,
	saleRepo repository.SaleRepository,
	config *config.Config,
) *LedgerService {
	return &LedgerService{
		PaymentRepo: paymentRepo,
		SaleRepo:    saleRepo,
		config:      config,
	}
}

// CreatePayment creates the payment obligation for a sale. A request with
// more than one installment produces that many independent obligations due
// monthly, each carrying its share of the total.
func (s *LedgerService) CreatePayment(ctx context.Context, request *domain.CreatePaymentRequest) ([]*domain.Payment, error) {
	dueDate, err := utils.ParseDate(request.DueDate)
	if err != nil {
		return nil, customError.NewBusinessError(customError.ErrCodeValidation,
			"due date must be a valid YYYY-MM-DD date", customError.ErrInvalidDueDate)
	}

	// The sale must exist before an obligation can reference it.
	if _, err := s.SaleRepo.GetByID(ctx, request.SaleID); err != nil {
		if customError.IsNotFound(err) {
			return nil, err
		}
		return nil, customError.WrapDatabaseError(err)
	}

	var payments []*domain.Payment
	if request.Installments > 1 {
		if request.PaidValue.IsPositive() {
			return nil, customError.WrapValidation("installment plans must start with zero paid value")
		}
		payments, err = domain.BuildInstallments(request.SaleID, request.TotalValue, request.PaymentMethod, dueDate, request.Installments)
		if err != nil {
			return nil, err
		}
	} else {
		payment, err := domain.NewPayment(request.SaleID, request.TotalValue, request.PaymentMethod, dueDate, request.PaidValue)
		if err != nil {
			return nil, err
		}
		payments = []*domain.Payment{payment}
	}

	now := time.Now()
	for _, p := range payments {
		p.Notes = request.Notes
		p.Status = p.StatusAt(now)
	}

	if err := s.PaymentRepo.Create(ctx, payments); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return payments, nil
}

// RegisterPayment applies an amount to an obligation and records the
// application in the audit log.
func (s *LedgerService) RegisterPayment(ctx context.Context, paymentID uuid.UUID, request *domain.RegisterPaymentRequest) (*domain.PaymentResponse, error) {
	payment, err := s.PaymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		if customError.IsNotFound(err) {
			return nil, err
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if request.PaymentMethod != "" {
		if !domain.ValidPaymentMethod(request.PaymentMethod) {
			return nil, customError.NewBusinessError(customError.ErrCodeValidation,
				"unknown payment method: "+request.PaymentMethod, customError.ErrInvalidMethod)
		}
		payment.PaymentMethod = request.PaymentMethod
	}

	now := time.Now()
	if err := payment.ApplyPayment(request.Amount, now); err != nil {
		return nil, err
	}
	payment.Status = payment.StatusAt(now)

	if err := s.PaymentRepo.Update(ctx, payment); err != nil {
		if customError.IsNotFound(err) {
			return nil, err
		}
		return nil, customError.WrapDatabaseError(err)
	}

	entry := &domain.PaymentEntry{
		ID:            uuid.New(),
		PaymentID:     payment.ID,
		Amount:        request.Amount,
		PaymentMethod: payment.PaymentMethod,
		PaidAt:        now,
		Notes:         request.Notes,
	}
	if err := s.PaymentRepo.CreateEntry(ctx, entry); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return &domain.PaymentResponse{Payment: payment, Summary: payment.SummaryAt(now)}, nil
}

// GetPayment returns one obligation with its derived summary.
func (s *LedgerService) GetPayment(ctx context.Context, paymentID uuid.UUID) (*domain.PaymentResponse, error) {
	payment, err := s.PaymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		if customError.IsNotFound(err) {
			return nil, err
		}
		return nil, customError.WrapDatabaseError(err)
	}

	return &domain.PaymentResponse{Payment: payment, Summary: payment.SummaryAt(time.Now())}, nil
}

// ListPayments returns obligations matching the filter.
func (s *LedgerService) ListPayments(ctx context.Context, filter domain.PaymentFilter) ([]*domain.Payment, error) {
	payments, err := s.PaymentRepo.List(ctx, filter)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return payments, nil
}

// PaymentEntries returns the audit log for one obligation.
func (s *LedgerService) PaymentEntries(ctx context.Context, paymentID uuid.UUID) ([]*domain.PaymentEntry, error) {
	entries, err := s.PaymentRepo.ListEntries(ctx, paymentID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return entries, nil
}

// PeriodReport aggregates obligations with due dates inside [from, to].
func (s *LedgerService) PeriodReport(ctx context.Context, from, to time.Time) (*domain.PeriodReport, error) {
	payments, err := s.PaymentRepo.List(ctx, domain.PaymentFilter{DueFrom: &from, DueTo: &to})
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	now := time.Now()
	report := &domain.PeriodReport{
		From:          utils.FormatDate(from),
		To:            utils.FormatDate(to),
		PaidByMethod:  make(map[string]decimal.Decimal),
		CountByStatus: make(map[string]int),
	}

	for _, p := range payments {
		report.TotalBilled = report.TotalBilled.Add(p.TotalValue)
		report.TotalPaid = report.TotalPaid.Add(p.PaidValue)
		report.TotalOutstanding = report.TotalOutstanding.Add(p.RemainingValue())
		if p.IsOverdue(now) {
			report.TotalOverdue = report.TotalOverdue.Add(p.RemainingValue())
		}

		report.PaidByMethod[p.PaymentMethod] = report.PaidByMethod[p.PaymentMethod].Add(p.PaidValue)
		report.CountByStatus[p.StatusAt(now)]++
	}

	return report, nil
}

// MarkOverduePayments refreshes the denormalized status column for untouched
// obligations past their due date. Returns the number of rows updated.
func (s *LedgerService) MarkOverduePayments(ctx context.Context, now time.Time) (int, error) {
	pending, err := s.PaymentRepo.List(ctx, domain.PaymentFilter{Status: domain.PaymentStatusPending})
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	marked := 0
	for _, p := range pending {
		if p.StatusAt(now) != domain.PaymentStatusOverdue {
			continue
		}
		if err := s.PaymentRepo.UpdateStatus(ctx, p.ID, domain.PaymentStatusOverdue); err != nil {
			return marked, customError.WrapDatabaseError(err)
		}
		marked++
	}

	return marked, nil
}

// DueSoonPayments returns unsettled obligations due within the next
// windowDays days, for the reminder job.
func (s *LedgerService) DueSoonPayments(ctx context.Context, now time.Time, windowDays int) ([]*domain.Payment, error) {
	from := utils.DateOnly(now)
	to := from.AddDate(0, 0, windowDays)

	payments, err := s.PaymentRepo.List(ctx, domain.PaymentFilter{DueFrom: &from, DueTo: &to})
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	dueSoon := make([]*domain.Payment, 0, len(payments))
	for _, p := range payments {
		if p.StatusAt(now) != domain.PaymentStatusPaid {
			dueSoon = append(dueSoon, p)
		}
	}

	return dueSoon, nil
}
