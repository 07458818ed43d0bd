package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/pdvlite/pos-engine/internal/domain"
	customError "github.com/pdvlite/pos-engine/pkg/errors"
)

type saleRepository struct {
	db *sqlx.DB
}

func NewSaleRepository(db *sqlx.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) GetByID(ctx context.Context, id string) (*domain.Sale, error) {
	query := `
		SELECT id, customer_id, product_id, quantity, unit_price, total_value, sale_date, created_at
		FROM sales
		WHERE id = $1
	`

	var sale domain.Sale
	err := r.db.GetContext(ctx, &sale, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapSaleNotFound(id)
	}
	if err != nil {
		return nil, err
	}

	return &sale, nil
}

func (r *saleRepository) TotalForDate(ctx context.Context, date time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(total_value), 0)
		FROM sales
		WHERE sale_date::date = $1::date
	`

	var total decimal.Decimal
	if err := r.db.GetContext(ctx, &total, query, date); err != nil {
		return decimal.Zero, err
	}

	return total, nil
}

func (r *saleRepository) Recent(ctx context.Context, date *time.Time, limit int) ([]*domain.Sale, error) {
	var (
		query string
		args  []interface{}
	)

	if date != nil {
		query = `
			SELECT id, customer_id, product_id, quantity, unit_price, total_value, sale_date, created_at
			FROM sales
			WHERE sale_date::date = $1::date
			ORDER BY sale_date DESC
			LIMIT $2
		`
		args = []interface{}{*date, limit}
	} else {
		query = `
			SELECT id, customer_id, product_id, quantity, unit_price, total_value, sale_date, created_at
			FROM sales
			ORDER BY sale_date DESC
			LIMIT $1
		`
		args = []interface{}{limit}
	}

	var sales []*domain.Sale
	if err := r.db.SelectContext(ctx, &sales, query, args...); err != nil {
		return nil, err
	}

	return sales, nil
}
