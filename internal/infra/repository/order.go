package repository

import (
	"context"
	"time"

	"commerce-core/internal/domain/order"
	"commerce-core/internal/infra"
	"commerce-core/internal/infra/db"

	"github.com/google/uuid"
)

type OrderRepository struct {
	db db.DBTX
}

func NewOrderRepository(dbtx db.DBTX) *OrderRepository {
	return &OrderRepository{db: dbtx}
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO orders (id, user_id, coupon_id, status, total_cents, discount_cents, final_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		o.ID(), o.UserID(), o.CouponID(), string(o.Status()), o.TotalCents(), o.DiscountCents(), o.FinalCents())
	if err != nil {
		return wrapQueryErr("failed to insert order", err)
	}

	for _, line := range o.Lines() {
		_, err := r.db.Exec(ctx, `
			INSERT INTO order_lines (id, order_id, product_id, quantity, unit_price_cents)
			VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), o.ID(), line.ProductID, line.Quantity, line.UnitPriceCents)
		if err != nil {
			return wrapQueryErr("failed to insert order line", err)
		}
	}
	return nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status order.Status) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`,
		orderID, string(status))
	if err != nil {
		return wrapQueryErr("failed to update order status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, orderID uuid.UUID) (*order.Order, error) {
	var (
		id, userID             uuid.UUID
		couponID               *uuid.UUID
		status                 string
		total, discount, final int64
		createdAt, updatedAt   time.Time
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, coupon_id, status, total_cents, discount_cents, final_cents, created_at, updated_at
		FROM orders WHERE id = $1`, orderID).
		Scan(&id, &userID, &couponID, &status, &total, &discount, &final, &createdAt, &updatedAt)
	if err != nil {
		return nil, wrapQueryErr("failed to find order", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT product_id, quantity, unit_price_cents
		FROM order_lines WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, wrapQueryErr("failed to find order lines", err)
	}
	defer rows.Close()

	var lines []order.Line
	for rows.Next() {
		var line order.Line
		if err := rows.Scan(&line.ProductID, &line.Quantity, &line.UnitPriceCents); err != nil {
			return nil, wrapQueryErr("failed to scan order line", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryErr("failed to read order lines", err)
	}

	return order.Restore(id, userID, couponID, order.Status(status), total, discount, final, lines, createdAt, updatedAt), nil
}
