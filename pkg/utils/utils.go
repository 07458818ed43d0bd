package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// DateOnly truncates a timestamp to its calendar date, preserving location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two timestamps fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsDateOverdue reports whether dueDate's calendar date is strictly before now's.
// A payment due today is not overdue until tomorrow.
func IsDateOverdue(dueDate, now time.Time) bool {
	return DateOnly(now).After(DateOnly(dueDate))
}

// DaysLate returns the number of whole days between dueDate and now,
// floored at zero.
func DaysLate(dueDate, now time.Time) int {
	days := int(DateOnly(now).Sub(DateOnly(dueDate)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// FormatDate formats a timestamp as a YYYY-MM-DD calendar date.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// LateFee calculates the penalty for a late payment:
// a flat 2% of the total plus 0.033% per day of lateness.
func LateFee(totalValue decimal.Decimal, daysLate int) decimal.Decimal {
	if daysLate <= 0 {
		return decimal.Zero
	}
	flat := totalValue.Mul(decimal.NewFromFloat(0.02))
	daily := totalValue.Mul(decimal.NewFromFloat(0.00033)).Mul(decimal.NewFromInt(int64(daysLate)))
	return flat.Add(daily).Round(2)
}

// SplitEvenly divides total into n parts rounded to 2 decimal places,
// with the last part absorbing any rounding remainder.
func SplitEvenly(total decimal.Decimal, n int) []decimal.Decimal {
	if n <= 0 {
		return nil
	}
	part := total.Div(decimal.NewFromInt(int64(n))).Round(2)
	parts := make([]decimal.Decimal, n)
	var allocated decimal.Decimal
	for i := 0; i < n-1; i++ {
		parts[i] = part
		allocated = allocated.Add(part)
	}
	parts[n-1] = total.Sub(allocated)
	return parts
}
