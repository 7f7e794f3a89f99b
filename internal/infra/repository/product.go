package repository

import (
	"context"

	"commerce-core/internal/infra"
	"commerce-core/internal/infra/db"
	"commerce-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type ProductRepository struct {
	db db.DBTX
}

func NewProductRepository(dbtx db.DBTX) *ProductRepository {
	return &ProductRepository{db: dbtx}
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]shared.ProductSnapshot, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, price_cents, stock_quantity, sales_count
		FROM products
		WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, wrapQueryErr("failed to find products", err)
	}
	defer rows.Close()

	var out []shared.ProductSnapshot
	for rows.Next() {
		var p shared.ProductSnapshot
		if err := rows.Scan(&p.ID, &p.Name, &p.PriceCents, &p.StockQuantity, &p.SalesCount); err != nil {
			return nil, wrapQueryErr("failed to scan product row", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryErr("failed to read product rows", err)
	}
	return out, nil
}

// DecreaseStock decrements under the implicit row lock the UPDATE takes.
// The predicate rejects a decrement past zero, which surfaces as a conflict.
func (r *ProductRepository) DecreaseStock(ctx context.Context, productID uuid.UUID, qty int32) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity - $2, updated_at = now()
		WHERE id = $1 AND stock_quantity >= $2`, productID, qty)
	if err != nil {
		return wrapQueryErr("failed to decrease stock", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("insufficient stock or product missing", nil, infra.KindConflict)
	}
	return nil
}

func (r *ProductRepository) IncreaseStock(ctx context.Context, productID uuid.UUID, qty int32) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity + $2, updated_at = now()
		WHERE id = $1`, productID, qty)
	if err != nil {
		return wrapQueryErr("failed to increase stock", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("product not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ProductRepository) IncreaseSales(ctx context.Context, productID uuid.UUID, qty int32) error {
	_, err := r.db.Exec(ctx, `
		UPDATE products
		SET sales_count = sales_count + $2, updated_at = now()
		WHERE id = $1`, productID, qty)
	if err != nil {
		return wrapQueryErr("failed to increase sales count", err)
	}
	return nil
}

func (r *ProductRepository) DecreaseSales(ctx context.Context, productID uuid.UUID, qty int32) error {
	_, err := r.db.Exec(ctx, `
		UPDATE products
		SET sales_count = GREATEST(sales_count - $2, 0), updated_at = now()
		WHERE id = $1`, productID, qty)
	if err != nil {
		return wrapQueryErr("failed to decrease sales count", err)
	}
	return nil
}

func (r *ProductRepository) RecordMovement(ctx context.Context, productID, orderID uuid.UUID, qty int32, movementType string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO stock_movements (id, product_id, order_id, quantity, movement_type)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), productID, orderID, qty, movementType)
	if err != nil {
		return wrapQueryErr("failed to record stock movement", err)
	}
	return nil
}
