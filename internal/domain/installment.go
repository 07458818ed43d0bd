package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pdvlite/pos-engine/pkg/utils"
)

// BuildInstallments splits a sale's total into n independent payment
// obligations due monthly, starting at firstDue. The last installment
// absorbs the rounding remainder so the parts sum to the exact total.
func BuildInstallments(saleID string, totalValue decimal.Decimal, method string, firstDue time.Time, n int) ([]*Payment, error) {
	if n < 1 {
		return nil, fmt.Errorf("installment count must be at least 1: %d", n)
	}

	parts := utils.SplitEvenly(totalValue, n)
	payments := make([]*Payment, 0, n)
	for i, part := range parts {
		dueDate := firstDue.AddDate(0, i, 0)
		p, err := NewPayment(saleID, part, method, dueDate, decimal.Zero)
		if err != nil {
			return nil, err
		}
		p.Installment = i + 1
		payments = append(payments, p)
	}

	return payments, nil
}
