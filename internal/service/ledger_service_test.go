package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pdvlite/pos-engine/internal/domain"
	customError "github.com/pdvlite/pos-engine/pkg/errors"
	"github.com/pdvlite/pos-engine/tests/mocks"
)

func TestCreatePayment(t *testing.T) {
	sale := &domain.Sale{TotalValue: decimal.NewFromInt(300)}

	tests := []struct {
		name           string
		request        *domain.CreatePaymentRequest
		setupMocks     func(*mocks.MockPaymentRepository, *mocks.MockSaleRepository)
		expectedError  error
		errorContains  string
		validateResult func(*testing.T, []*domain.Payment)
	}{
		{
			name: "Success - single payment",
			request: &domain.CreatePaymentRequest{
				SaleID:        "SALE-100",
				TotalValue:    decimal.NewFromInt(300),
				PaymentMethod: domain.MethodPix,
				DueDate:       "2026-09-15",
			},
			setupMocks: func(paymentRepo *mocks.MockPaymentRepository, saleRepo *mocks.MockSaleRepository) {
				saleRepo.On("GetByID", mock.Anything, "SALE-100").Return(sale, nil)
				paymentRepo.On("Create", mock.Anything, mock.MatchedBy(func(payments []*domain.Payment) bool {
					return len(payments) == 1 && payments[0].SaleID == "SALE-100"
				})).Return(nil)
			},
			validateResult: func(t *testing.T, payments []*domain.Payment) {
				require.Len(t, payments, 1)
				assert.True(t, payments[0].TotalValue.Equal(decimal.NewFromInt(300)))
				assert.True(t, payments[0].PaidValue.IsZero())
			},
		},
		{
			name: "Success - installment plan",
			request: &domain.CreatePaymentRequest{
				SaleID:        "SALE-101",
				TotalValue:    decimal.NewFromInt(300),
				PaymentMethod: domain.MethodCreditCard,
				DueDate:       "2026-09-15",
				Installments:  3,
			},
			setupMocks: func(paymentRepo *mocks.MockPaymentRepository, saleRepo *mocks.MockSaleRepository) {
				saleRepo.On("GetByID", mock.Anything, "SALE-101").Return(sale, nil)
				paymentRepo.On("Create", mock.Anything, mock.MatchedBy(func(payments []*domain.Payment) bool {
					return len(payments) == 3
				})).Return(nil)
			},
			validateResult: func(t *testing.T, payments []*domain.Payment) {
				require.Len(t, payments, 3)
				assert.True(t, payments[0].TotalValue.Equal(decimal.NewFromInt(100)))
				assert.Equal(t, 3, payments[2].Installment)
			},
		},
		{
			name: "Failure - sale not found",
			request: &domain.CreatePaymentRequest{
				SaleID:        "SALE-404",
				TotalValue:    decimal.NewFromInt(300),
				PaymentMethod: domain.MethodPix,
				DueDate:       "2026-09-15",
			},
			setupMocks: func(paymentRepo *mocks.MockPaymentRepository, saleRepo *mocks.MockSaleRepository) {
				saleRepo.On("GetByID", mock.Anything, "SALE-404").Return(nil, customError.WrapSaleNotFound("SALE-404"))
			},
			expectedError: customError.ErrSaleNotFound,
		},
		{
			name: "Failure - invalid due date",
			request: &domain.CreatePaymentRequest{
				SaleID:        "SALE-100",
				TotalValue:    decimal.NewFromInt(300),
				PaymentMethod: domain.MethodPix,
				DueDate:       "15/09/2026",
			},
			setupMocks:    func(*mocks.MockPaymentRepository, *mocks.MockSaleRepository) {},
			expectedError: customError.ErrInvalidDueDate,
		},
		{
			name: "Failure - invalid method",
			request: &domain.CreatePaymentRequest{
				SaleID:        "SALE-100",
				TotalValue:    decimal.NewFromInt(300),
				PaymentMethod: "barter",
				DueDate:       "2026-09-15",
			},
			setupMocks: func(paymentRepo *mocks.MockPaymentRepository, saleRepo *mocks.MockSaleRepository) {
				saleRepo.On("GetByID", mock.Anything, "SALE-100").Return(sale, nil)
			},
			expectedError: customError.ErrInvalidMethod,
		},
		{
			name: "Failure - installments with initial paid value",
			request: &domain.CreatePaymentRequest{
				SaleID:        "SALE-100",
				TotalValue:    decimal.NewFromInt(300),
				PaidValue:     decimal.NewFromInt(50),
				PaymentMethod: domain.MethodCreditCard,
				DueDate:       "2026-09-15",
				Installments:  3,
			},
			setupMocks: func(paymentRepo *mocks.MockPaymentRepository, saleRepo *mocks.MockSaleRepository) {
				saleRepo.On("GetByID", mock.Anything, "SALE-100").Return(sale, nil)
			},
			expectedError: customError.ErrValidation,
		},
		{
			name: "Failure - database error on create",
			request: &domain.CreatePaymentRequest{
				SaleID:        "SALE-100",
				TotalValue:    decimal.NewFromInt(300),
				PaymentMethod: domain.MethodPix,
				DueDate:       "2026-09-15",
			},
			setupMocks: func(paymentRepo *mocks.MockPaymentRepository, saleRepo *mocks.MockSaleRepository) {
				saleRepo.On("GetByID", mock.Anything, "SALE-100").Return(sale, nil)
				paymentRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection refused"))
			},
			errorContains: "database",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			paymentRepo := &mocks.MockPaymentRepository{}
			saleRepo := &mocks.MockSaleRepository{}
			svc := NewLedgerService(paymentRepo, saleRepo, nil)

			tt.setupMocks(paymentRepo, saleRepo)

			// Act
			payments, err := svc.CreatePayment(context.Background(), tt.request)

			// Assert
			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, payments)
			} else {
				require.NoError(t, err)
				tt.validateResult(t, payments)
			}

			paymentRepo.AssertExpectations(t)
			saleRepo.AssertExpectations(t)
		})
	}
}

func TestRegisterPayment(t *testing.T) {
	paymentID := uuid.New()

	newStored := func(total, paid int64) *domain.Payment {
		p, err := domain.NewPayment("SALE-200", decimal.NewFromInt(total), domain.MethodBankSlip,
			time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), decimal.Zero)
		require.NoError(t, err)
		p.ID = paymentID
		p.PaidValue = decimal.NewFromInt(paid)
		return p
	}

	t.Run("Success - partial then settled", func(t *testing.T) {
		paymentRepo := &mocks.MockPaymentRepository{}
		svc := NewLedgerService(paymentRepo, &mocks.MockSaleRepository{}, nil)

		paymentRepo.On("GetByID", mock.Anything, paymentID).Return(newStored(100, 40), nil)
		paymentRepo.On("Update", mock.Anything, mock.MatchedBy(func(p *domain.Payment) bool {
			return p.PaidValue.Equal(decimal.NewFromInt(100)) && p.Status == domain.PaymentStatusPaid && p.PaymentDate != nil
		})).Return(nil)
		paymentRepo.On("CreateEntry", mock.Anything, mock.MatchedBy(func(e *domain.PaymentEntry) bool {
			return e.PaymentID == paymentID && e.Amount.Equal(decimal.NewFromInt(60))
		})).Return(nil)

		result, err := svc.RegisterPayment(context.Background(), paymentID, &domain.RegisterPaymentRequest{
			Amount: decimal.NewFromInt(60),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusPaid, result.Summary.Status)
		assert.True(t, result.Summary.RemainingValue.IsZero())

		paymentRepo.AssertExpectations(t)
	})

	t.Run("Success - method override is persisted", func(t *testing.T) {
		paymentRepo := &mocks.MockPaymentRepository{}
		svc := NewLedgerService(paymentRepo, &mocks.MockSaleRepository{}, nil)

		paymentRepo.On("GetByID", mock.Anything, paymentID).Return(newStored(100, 0), nil)
		paymentRepo.On("Update", mock.Anything, mock.MatchedBy(func(p *domain.Payment) bool {
			return p.PaymentMethod == domain.MethodPix
		})).Return(nil)
		paymentRepo.On("CreateEntry", mock.Anything, mock.Anything).Return(nil)

		_, err := svc.RegisterPayment(context.Background(), paymentID, &domain.RegisterPaymentRequest{
			Amount:        decimal.NewFromInt(30),
			PaymentMethod: domain.MethodPix,
		})
		require.NoError(t, err)

		paymentRepo.AssertExpectations(t)
	})

	t.Run("Failure - overpayment leaves state unpersisted", func(t *testing.T) {
		paymentRepo := &mocks.MockPaymentRepository{}
		svc := NewLedgerService(paymentRepo, &mocks.MockSaleRepository{}, nil)

		paymentRepo.On("GetByID", mock.Anything, paymentID).Return(newStored(100, 40), nil)

		_, err := svc.RegisterPayment(context.Background(), paymentID, &domain.RegisterPaymentRequest{
			Amount: decimal.NewFromInt(200),
		})
		assert.ErrorIs(t, err, customError.ErrOverpayment)

		// No Update, no CreateEntry
		paymentRepo.AssertExpectations(t)
	})

	t.Run("Failure - payment not found", func(t *testing.T) {
		paymentRepo := &mocks.MockPaymentRepository{}
		svc := NewLedgerService(paymentRepo, &mocks.MockSaleRepository{}, nil)

		paymentRepo.On("GetByID", mock.Anything, paymentID).Return(nil, customError.WrapPaymentNotFound(paymentID.String()))

		_, err := svc.RegisterPayment(context.Background(), paymentID, &domain.RegisterPaymentRequest{
			Amount: decimal.NewFromInt(10),
		})
		assert.ErrorIs(t, err, customError.ErrPaymentNotFound)
	})
}

func TestMarkOverduePayments(t *testing.T) {
	sweepNow := time.Date(2026, 8, 30, 0, 5, 0, 0, time.UTC)

	overduePayment := func(due time.Time) *domain.Payment {
		p, err := domain.NewPayment("SALE-300", decimal.NewFromInt(100), domain.MethodCash, due, decimal.Zero)
		require.NoError(t, err)
		return p
	}

	pastDue := overduePayment(sweepNow.AddDate(0, 0, -3))
	notYetDue := overduePayment(sweepNow.AddDate(0, 0, 3))

	paymentRepo := &mocks.MockPaymentRepository{}
	svc := NewLedgerService(paymentRepo, &mocks.MockSaleRepository{}, nil)

	paymentRepo.On("List", mock.Anything, domain.PaymentFilter{Status: domain.PaymentStatusPending}).
		Return([]*domain.Payment{pastDue, notYetDue}, nil)
	paymentRepo.On("UpdateStatus", mock.Anything, pastDue.ID, domain.PaymentStatusOverdue).Return(nil)

	marked, err := svc.MarkOverduePayments(context.Background(), sweepNow)
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	paymentRepo.AssertExpectations(t)
}

func TestPeriodReport(t *testing.T) {
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	build := func(total, paid int64, method string, due time.Time) *domain.Payment {
		p, err := domain.NewPayment("SALE-400", decimal.NewFromInt(total), method, due, decimal.Zero)
		require.NoError(t, err)
		p.PaidValue = decimal.NewFromInt(paid)
		return p
	}

	payments := []*domain.Payment{
		build(100, 100, domain.MethodPix, from),        // paid
		build(200, 50, domain.MethodCash, from),        // partial
		build(300, 0, domain.MethodBankSlip, from),     // overdue by now
	}

	paymentRepo := &mocks.MockPaymentRepository{}
	svc := NewLedgerService(paymentRepo, &mocks.MockSaleRepository{}, nil)

	paymentRepo.On("List", mock.Anything, mock.MatchedBy(func(f domain.PaymentFilter) bool {
		return f.DueFrom != nil && f.DueTo != nil && f.DueFrom.Equal(from) && f.DueTo.Equal(to)
	})).Return(payments, nil)

	report, err := svc.PeriodReport(context.Background(), from, to)
	require.NoError(t, err)

	assert.Equal(t, "2026-08-01", report.From)
	assert.Equal(t, "2026-08-31", report.To)
	assert.True(t, report.TotalBilled.Equal(decimal.NewFromInt(600)))
	assert.True(t, report.TotalPaid.Equal(decimal.NewFromInt(150)))
	assert.True(t, report.TotalOutstanding.Equal(decimal.NewFromInt(450)))
	assert.True(t, report.TotalOverdue.Equal(decimal.NewFromInt(450)))
	assert.True(t, report.PaidByMethod[domain.MethodPix].Equal(decimal.NewFromInt(100)))
	assert.True(t, report.PaidByMethod[domain.MethodCash].Equal(decimal.NewFromInt(50)))
	assert.Equal(t, 1, report.CountByStatus[domain.PaymentStatusPaid])
	assert.Equal(t, 1, report.CountByStatus[domain.PaymentStatusPartial])
	assert.Equal(t, 1, report.CountByStatus[domain.PaymentStatusOverdue])
}

func TestDueSoonPayments(t *testing.T) {
	dueNow := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	build := func(total, paid int64, due time.Time) *domain.Payment {
		p, err := domain.NewPayment("SALE-500", decimal.NewFromInt(total), domain.MethodCash, due, decimal.Zero)
		require.NoError(t, err)
		p.PaidValue = decimal.NewFromInt(paid)
		return p
	}

	unsettled := build(100, 0, dueNow.AddDate(0, 0, 1))
	settled := build(100, 100, dueNow.AddDate(0, 0, 2))

	paymentRepo := &mocks.MockPaymentRepository{}
	svc := NewLedgerService(paymentRepo, &mocks.MockSaleRepository{}, nil)

	paymentRepo.On("List", mock.Anything, mock.MatchedBy(func(f domain.PaymentFilter) bool {
		return f.DueFrom != nil && f.DueTo != nil
	})).Return([]*domain.Payment{unsettled, settled}, nil)

	dueSoon, err := svc.DueSoonPayments(context.Background(), dueNow, 3)
	require.NoError(t, err)

	require.Len(t, dueSoon, 1)
	assert.Equal(t, unsettled.ID, dueSoon[0].ID)
}
