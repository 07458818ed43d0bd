package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is a read-only record owned by the sales/inventory side.
// The ledger never writes to it.
type Sale struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	CustomerID string          `json:"customer_id" db:"customer_id"`
	ProductID  string          `json:"product_id" db:"product_id"`
	Quantity   int             `json:"quantity" db:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price" db:"unit_price"`
	TotalValue decimal.Decimal `json:"total_value" db:"total_value"`
	SaleDate   time.Time       `json:"sale_date" db:"sale_date"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}
