package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSnapshot is a point-in-time aggregation over payments and sales
// for one reference date. Money metrics are computed fresh on every request.
type DashboardSnapshot struct {
	Date          string          `json:"date"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	TotalReceived decimal.Decimal `json:"total_received"`
	TotalPending  decimal.Decimal `json:"total_pending"`
	TotalOverdue  decimal.Decimal `json:"total_overdue"`
	TotalPartial  decimal.Decimal `json:"total_partial"`
	OverdueCount  int             `json:"overdue_count"`
	PartialCount  int             `json:"partial_count"`
	RecentSales   []*Sale         `json:"recent_sales"`
	GeneratedAt   time.Time       `json:"generated_at"`
}

// PeriodReport aggregates payments over a due-date range.
type PeriodReport struct {
	From             string                     `json:"from"`
	To               string                     `json:"to"`
	TotalBilled      decimal.Decimal            `json:"total_billed"`
	TotalPaid        decimal.Decimal            `json:"total_paid"`
	TotalOutstanding decimal.Decimal            `json:"total_outstanding"`
	TotalOverdue     decimal.Decimal            `json:"total_overdue"`
	PaidByMethod     map[string]decimal.Decimal `json:"paid_by_method"`
	CountByStatus    map[string]int             `json:"count_by_status"`
}
