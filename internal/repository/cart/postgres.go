package cart

import (
	"context"
	"errors"

	"cartbridge/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const cartColumns = `id, uid::text, client_id, status, created_at`

func (r *postgresRepo) Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error) {
	status := in.Status
	if status == "" {
		status = domain.CartStatusActive
	}
	const q = `
INSERT INTO carts (client_id, status)
VALUES ($1, $2)
RETURNING ` + cartColumns
	return scanCart(r.pool.QueryRow(ctx, q, in.ClientID, status))
}

func (r *postgresRepo) GetByRef(ctx context.Context, ref domain.CartRef) (*domain.Cart, error) {
	var row pgx.Row
	if ref.IsOpaque() {
		row = r.pool.QueryRow(ctx, `SELECT `+cartColumns+` FROM carts WHERE uid = $1::uuid`, ref.Opaque)
	} else {
		row = r.pool.QueryRow(ctx, `SELECT `+cartColumns+` FROM carts WHERE id = $1`, ref.Numeric)
	}
	cart, err := scanCart(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return cart, nil
}

func (r *postgresRepo) GetActiveByClient(ctx context.Context, clientID int64) (*domain.Cart, error) {
	const q = `
SELECT ` + cartColumns + `
FROM carts
WHERE client_id = $1 AND status = 'active'
ORDER BY created_at DESC
LIMIT 1
`
	cart, err := scanCart(r.pool.QueryRow(ctx, q, clientID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return cart, nil
}

const itemColumns = `id, cart_id, product_variant_id, qty, created_at`

func (r *postgresRepo) GetItem(ctx context.Context, cartID, itemID int64) (*domain.CartItem, error) {
	const q = `SELECT ` + itemColumns + ` FROM cart_items WHERE id = $1 AND cart_id = $2`
	return scanItemNotFound(r.pool.QueryRow(ctx, q, itemID, cartID))
}

func (r *postgresRepo) GetItemByVariant(ctx context.Context, cartID, variantID int64) (*domain.CartItem, error) {
	const q = `SELECT ` + itemColumns + ` FROM cart_items WHERE cart_id = $1 AND product_variant_id = $2`
	return scanItemNotFound(r.pool.QueryRow(ctx, q, cartID, variantID))
}

func (r *postgresRepo) InsertItem(ctx context.Context, cartID, variantID int64, qty int) (*domain.CartItem, error) {
	const q = `
INSERT INTO cart_items (cart_id, product_variant_id, qty)
VALUES ($1, $2, $3)
RETURNING ` + itemColumns
	return scanItem(r.pool.QueryRow(ctx, q, cartID, variantID, qty))
}

func (r *postgresRepo) UpdateItemQty(ctx context.Context, itemID int64, qty int) (*domain.CartItem, error) {
	const q = `
UPDATE cart_items
SET qty = $1
WHERE id = $2
RETURNING ` + itemColumns
	return scanItemNotFound(r.pool.QueryRow(ctx, q, qty, itemID))
}

func (r *postgresRepo) DeleteItem(ctx context.Context, cartID, itemID int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1 AND cart_id = $2`, itemID, cartID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) ListLines(ctx context.Context, cartID int64) ([]domain.CartLine, error) {
	const q = `
SELECT i.id, i.qty,
       v.id, v.stock,
       p.id, p.name, COALESCE(p.description, ''), p.price_cents,
       c.id, c.name,
       s.id, s.name
FROM cart_items i
JOIN product_variants v ON v.id = i.product_variant_id
JOIN products p ON p.id = v.product_id
LEFT JOIN colors c ON c.id = v.color_id
LEFT JOIN sizes s ON s.id = v.size_id
WHERE i.cart_id = $1
ORDER BY i.created_at ASC
`
	rows, err := r.pool.Query(ctx, q, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var line domain.CartLine
		var priceCents int64
		var colorID, sizeID *int64
		var colorName, sizeName *string
		if err := rows.Scan(
			&line.ID,
			&line.Qty,
			&line.Variant.ID,
			&line.Variant.Stock,
			&line.Variant.Product.ID,
			&line.Variant.Product.Name,
			&line.Variant.Product.Description,
			&priceCents,
			&colorID,
			&colorName,
			&sizeID,
			&sizeName,
		); err != nil {
			return nil, err
		}
		line.Variant.Product.Price = float64(priceCents) / 100
		if colorID != nil {
			line.Variant.Color = &domain.Color{ID: *colorID, Name: *colorName}
		}
		if sizeID != nil {
			line.Variant.Size = &domain.Size{ID: *sizeID, Name: *sizeName}
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func scanCart(row pgx.Row) (*domain.Cart, error) {
	var cart domain.Cart
	if err := row.Scan(&cart.ID, &cart.UID, &cart.ClientID, &cart.Status, &cart.CreatedAt); err != nil {
		return nil, err
	}
	return &cart, nil
}

func scanItem(row pgx.Row) (*domain.CartItem, error) {
	var item domain.CartItem
	if err := row.Scan(&item.ID, &item.CartID, &item.ProductVariantID, &item.Qty, &item.CreatedAt); err != nil {
		return nil, err
	}
	return &item, nil
}

func scanItemNotFound(row pgx.Row) (*domain.CartItem, error) {
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return item, nil
}
