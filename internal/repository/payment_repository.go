package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pdvlite/pos-engine/internal/domain"
	customError "github.com/pdvlite/pos-engine/pkg/errors"
)

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payments []*domain.Payment) error {
	query := `
		INSERT INTO payments (id, sale_id, total_value, paid_value, payment_method, due_date, payment_date, installment, notes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	for _, p := range payments {
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		p.UpdatedAt = now
		_, err = tx.ExecContext(ctx, query,
			p.ID,
			p.SaleID,
			p.TotalValue,
			p.PaidValue,
			p.PaymentMethod,
			p.DueDate,
			p.PaymentDate,
			p.Installment,
			p.Notes,
			p.Status,
			p.CreatedAt,
			p.UpdatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *paymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	query := `
		SELECT id, sale_id, total_value, paid_value, payment_method, due_date, payment_date, installment, notes, status, created_at, updated_at
		FROM payments
		WHERE id = $1
	`

	var payment domain.Payment
	err := r.db.GetContext(ctx, &payment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapPaymentNotFound(id.String())
	}
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepository) GetBySaleID(ctx context.Context, saleID string) ([]*domain.Payment, error) {
	query := `
		SELECT id, sale_id, total_value, paid_value, payment_method, due_date, payment_date, installment, notes, status, created_at, updated_at
		FROM payments
		WHERE sale_id = $1
		ORDER BY installment
	`

	var payments []*domain.Payment
	if err := r.db.SelectContext(ctx, &payments, query, saleID); err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) List(ctx context.Context, filter domain.PaymentFilter) ([]*domain.Payment, error) {
	query := `
		SELECT id, sale_id, total_value, paid_value, payment_method, due_date, payment_date, installment, notes, status, created_at, updated_at
		FROM payments
		WHERE 1=1
	`

	args := make([]interface{}, 0, 3)
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.DueFrom != nil {
		args = append(args, *filter.DueFrom)
		query += fmt.Sprintf(" AND due_date >= $%d", len(args))
	}
	if filter.DueTo != nil {
		args = append(args, *filter.DueTo)
		query += fmt.Sprintf(" AND due_date <= $%d", len(args))
	}
	query += ` ORDER BY due_date, created_at`

	var payments []*domain.Payment
	if err := r.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	query := `
		UPDATE payments
		SET paid_value = $2, payment_date = $3, payment_method = $4, status = $5, notes = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.PaidValue,
		payment.PaymentDate,
		payment.PaymentMethod,
		payment.Status,
		payment.Notes,
		time.Now(),
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return customError.WrapPaymentNotFound(payment.ID.String())
	}

	return nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE payments
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, status, time.Now())
	return err
}

func (r *paymentRepository) CreateEntry(ctx context.Context, entry *domain.PaymentEntry) error {
	query := `
		INSERT INTO payment_entries (id, payment_id, amount, payment_method, paid_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.PaymentID,
		entry.Amount,
		entry.PaymentMethod,
		entry.PaidAt,
		entry.Notes,
	)
	return err
}

func (r *paymentRepository) ListEntries(ctx context.Context, paymentID uuid.UUID) ([]*domain.PaymentEntry, error) {
	query := `
		SELECT id, payment_id, amount, payment_method, paid_at, notes
		FROM payment_entries
		WHERE payment_id = $1
		ORDER BY paid_at
	`

	var entries []*domain.PaymentEntry
	if err := r.db.SelectContext(ctx, &entries, query, paymentID); err != nil {
		return nil, err
	}

	return entries, nil
}
