package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pdvlite/pos-engine/internal/domain"
	"github.com/pdvlite/pos-engine/internal/repository"
	customError "github.com/pdvlite/pos-engine/pkg/errors"
	"github.com/pdvlite/pos-engine/pkg/utils"
)

// Default cutoffs for the recent-sales table: a date filter widens the
// window, the unfiltered view shows only the latest few.
const (
	RecentSalesDateLimit    = 10
	RecentSalesDefaultLimit = 5
)

// DashboardService derives the headline metrics from a fresh snapshot of
// payments and sales. The aggregation functions are pure; Snapshot does the
// fetching and recomputes everything from scratch on each call.
type DashboardService struct {
	PaymentRepo repository.PaymentRepository
	SaleRepo    repository.SaleRepository
}

func NewDashboardService(paymentRepo repository.PaymentRepository, saleRepo repository.SaleRepository) *DashboardService {
	return &DashboardService{
		PaymentRepo: paymentRepo,
		SaleRepo:    saleRepo,
	}
}

// TotalReceivedOnDate sums the paid value of settled payments whose payment
// date falls on date. Cash sales often settle without a payment record, so
// when the day's sales total outruns the recorded receipts the sales total
// wins.
func TotalReceivedOnDate(payments []*domain.Payment, salesTotal decimal.Decimal, date, now time.Time) decimal.Decimal {
	var received decimal.Decimal
	for _, p := range payments {
		if p.StatusAt(now) != domain.PaymentStatusPaid || p.PaymentDate == nil {
			continue
		}
		if utils.SameDay(*p.PaymentDate, date) {
			received = received.Add(p.PaidValue)
		}
	}

	if received.LessThan(salesTotal) {
		return salesTotal
	}
	return received
}

// TotalPending sums the remaining balance of every payment that is not fully
// settled. Overdue and partial remainders are included: "pending" here means
// not fully paid, not status == pending.
func TotalPending(payments []*domain.Payment, now time.Time) decimal.Decimal {
	var total decimal.Decimal
	for _, p := range payments {
		if p.StatusAt(now) != domain.PaymentStatusPaid {
			total = total.Add(p.RemainingValue())
		}
	}
	return total
}

// TotalOverdue sums the remaining balance of payments past their due date,
// partial ones included.
func TotalOverdue(payments []*domain.Payment, now time.Time) decimal.Decimal {
	var total decimal.Decimal
	for _, p := range payments {
		if p.IsOverdue(now) {
			total = total.Add(p.RemainingValue())
		}
	}
	return total
}

// TotalPartial sums the remaining balance of partially paid payments.
func TotalPartial(payments []*domain.Payment, now time.Time) decimal.Decimal {
	var total decimal.Decimal
	for _, p := range payments {
		if p.StatusAt(now) == domain.PaymentStatusPartial {
			total = total.Add(p.RemainingValue())
		}
	}
	return total
}

func countOverdue(payments []*domain.Payment, now time.Time) int {
	n := 0
	for _, p := range payments {
		if p.IsOverdue(now) {
			n++
		}
	}
	return n
}

func countPartial(payments []*domain.Payment, now time.Time) int {
	n := 0
	for _, p := range payments {
		if p.StatusAt(now) == domain.PaymentStatusPartial {
			n++
		}
	}
	return n
}

// RecentSales returns the recent-sales table rows. With a date filter the
// cutoff defaults to RecentSalesDateLimit for that day; without one it
// defaults to RecentSalesDefaultLimit across all sales.
func (s *DashboardService) RecentSales(ctx context.Context, date *time.Time, limit int) ([]*domain.Sale, error) {
	if limit <= 0 {
		if date != nil {
			limit = RecentSalesDateLimit
		} else {
			limit = RecentSalesDefaultLimit
		}
	}

	sales, err := s.SaleRepo.Recent(ctx, date, limit)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return sales, nil
}

// Snapshot fetches payments and sales and computes the dashboard metrics for
// the reference date (today when date is nil).
func (s *DashboardService) Snapshot(ctx context.Context, date *time.Time) (*domain.DashboardSnapshot, error) {
	now := time.Now()
	refDate := utils.DateOnly(now)
	if date != nil {
		refDate = utils.DateOnly(*date)
	}

	payments, err := s.PaymentRepo.List(ctx, domain.PaymentFilter{})
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	salesTotal, err := s.SaleRepo.TotalForDate(ctx, refDate)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	recent, err := s.RecentSales(ctx, date, 0)
	if err != nil {
		return nil, err
	}

	return &domain.DashboardSnapshot{
		Date:          utils.FormatDate(refDate),
		TotalSales:    salesTotal,
		TotalReceived: TotalReceivedOnDate(payments, salesTotal, refDate, now),
		TotalPending:  TotalPending(payments, now),
		TotalOverdue:  TotalOverdue(payments, now),
		TotalPartial:  TotalPartial(payments, now),
		OverdueCount:  countOverdue(payments, now),
		PartialCount:  countPartial(payments, now),
		RecentSales:   recent,
		GeneratedAt:   now,
	}, nil
}
