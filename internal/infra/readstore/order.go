package readstore

import (
	"context"

	"commerce-core/internal/infra"
	"commerce-core/internal/infra/db"
	"commerce-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderReadStore struct {
	db db.DBTX
}

func NewOrderReadStore(dbtx db.DBTX) *OrderReadStore {
	return &OrderReadStore{db: dbtx}
}

func (r *OrderReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.OrderView, error) {
	var (
		v             queries.OrderView
		paymentStatus *string
	)
	err := r.db.QueryRow(ctx, `
		SELECT o.id, o.user_id, o.coupon_id, o.status,
		       o.total_cents, o.discount_cents, o.final_cents,
		       p.status, o.created_at, o.updated_at
		FROM orders o
		LEFT JOIN payments p ON p.order_id = o.id AND p.status <> 'FAILED'
		WHERE o.id = $1`, id).
		Scan(&v.ID, &v.UserID, &v.CouponID, &v.Status,
			&v.TotalCents, &v.DiscountCents, &v.FinalCents,
			&paymentStatus, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order view", err)
	}
	v.PaymentStatus = paymentStatus

	rows, err := r.db.Query(ctx, `
		SELECT l.product_id, pr.name, l.quantity, l.unit_price_cents
		FROM order_lines l
		JOIN products pr ON pr.id = l.product_id
		WHERE l.order_id = $1`, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find order line views", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line queries.OrderLineView
		if err := rows.Scan(&line.ProductID, &line.ProductName, &line.Quantity, &line.UnitPriceCents); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order line view", err)
		}
		v.Lines = append(v.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read order line views", err)
	}
	return &v, nil
}

func (r *OrderReadStore) FindByUserID(ctx context.Context, userID uuid.UUID, limit int32) ([]*queries.OrderListItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, status, final_cents, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list orders", err)
	}
	defer rows.Close()

	var items []*queries.OrderListItem
	for rows.Next() {
		var item queries.OrderListItem
		if err := rows.Scan(&item.ID, &item.Status, &item.FinalCents, &item.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order list item", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read order list", err)
	}
	return items, nil
}

var _ queries.OrderViewRepo = (*OrderReadStore)(nil)
