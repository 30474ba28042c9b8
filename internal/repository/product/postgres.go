package product

import (
	"context"
	"errors"
	"io"
	"log"

	"cartbridge/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context, filter ListFilter) ([]domain.Product, error) {
	const q = `
SELECT p.id, p.name, COALESCE(p.description, ''), p.price_cents, p.available, p.created_at,
       gt.id, gt.name
FROM products p
LEFT JOIN garment_types gt ON gt.id = p.garment_type_id
WHERE p.available
  AND ($1 = '' OR p.name ILIKE '%' || $1 || '%')
  AND ($2 = '' OR COALESCE(p.description, '') ILIKE '%' || $2 || '%')
ORDER BY p.created_at DESC
`
	rows, err := r.pool.Query(ctx, q, filter.Name, filter.Description)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}

	for i := range result {
		variants, err := r.variantsByProduct(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Variants = variants
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	const q = `
SELECT p.id, p.name, COALESCE(p.description, ''), p.price_cents, p.available, p.created_at,
       gt.id, gt.name
FROM products p
LEFT JOIN garment_types gt ON gt.id = p.garment_type_id
WHERE p.id = $1
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%d error=%v", id, err)
		return nil, err
	}

	variants, err := r.variantsByProduct(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Variants = variants
	return p, nil
}

func (r *postgresRepo) GetVariant(ctx context.Context, id int64) (*domain.VariantDetail, error) {
	const q = `
SELECT v.id, v.stock, p.id, p.name, p.price_cents, COALESCE(gt.name, '')
FROM product_variants v
JOIN products p ON p.id = v.product_id
LEFT JOIN garment_types gt ON gt.id = p.garment_type_id
WHERE v.id = $1
`
	var v domain.VariantDetail
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&v.ID,
		&v.Stock,
		&v.ProductID,
		&v.ProductName,
		&v.PriceCents,
		&v.GarmentTypeName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get variant id=%d error=%v", id, err)
		return nil, err
	}
	return &v, nil
}

func (r *postgresRepo) variantsByProduct(ctx context.Context, productID int64) ([]domain.ProductVariant, error) {
	const q = `
SELECT v.id, v.stock, c.id, c.name, s.id, s.name
FROM product_variants v
LEFT JOIN colors c ON c.id = v.color_id
LEFT JOIN sizes s ON s.id = v.size_id
WHERE v.product_id = $1
ORDER BY v.id ASC
`
	rows, err := r.pool.Query(ctx, q, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var variants []domain.ProductVariant
	for rows.Next() {
		var v domain.ProductVariant
		var colorID, sizeID *int64
		var colorName, sizeName *string
		if err := rows.Scan(&v.ID, &v.Stock, &colorID, &colorName, &sizeID, &sizeName); err != nil {
			return nil, err
		}
		if colorID != nil {
			v.Color = &domain.Color{ID: *colorID, Name: *colorName}
		}
		if sizeID != nil {
			v.Size = &domain.Size{ID: *sizeID, Name: *sizeName}
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var priceCents int64
	var gtID *int64
	var gtName *string
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &priceCents, &p.Available, &p.CreatedAt, &gtID, &gtName); err != nil {
		return nil, err
	}
	p.Price = float64(priceCents) / 100
	if gtID != nil {
		p.GarmentType = &domain.GarmentType{ID: *gtID, Name: *gtName}
	}
	return &p, nil
}
