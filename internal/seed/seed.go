package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type variantSeed struct {
	Color string
	Size  string
	Stock int
}

type productSeed struct {
	Name        string
	Description string
	PriceCents  int64
	GarmentType string
	Variants    []variantSeed
}

// Apply inserts demo catalog data for manual testing. It is idempotent:
// lookup tables upsert by name and products are matched by name before
// insertion, so repeated runs change nothing.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			Name:        "Classic Cotton Tee",
			Description: "Soft 100% cotton t-shirt with a relaxed fit",
			PriceCents:  1999,
			GarmentType: "t-shirt",
			Variants: []variantSeed{
				{Color: "white", Size: "M", Stock: 12},
				{Color: "white", Size: "L", Stock: 8},
				{Color: "black", Size: "M", Stock: 5},
			},
		},
		{
			Name:        "Slim Denim Jeans",
			Description: "Stretch denim jeans with a slim cut",
			PriceCents:  4999,
			GarmentType: "jeans",
			Variants: []variantSeed{
				{Color: "blue", Size: "M", Stock: 6},
				{Color: "blue", Size: "L", Stock: 3},
			},
		},
		{
			Name:        "Zip Hoodie",
			Description: "Fleece-lined hoodie with a full-length zip",
			PriceCents:  3599,
			GarmentType: "hoodie",
			Variants: []variantSeed{
				{Color: "black", Size: "S", Stock: 4},
				{Color: "black", Size: "M", Stock: 7},
				{Color: "white", Size: "M", Stock: 2},
			},
		},
		{
			Name:        "Summer Linen Dress",
			Description: "Lightweight linen dress for warm weather",
			PriceCents:  5499,
			GarmentType: "dress",
			Variants: []variantSeed{
				{Color: "white", Size: "S", Stock: 5},
				{Color: "blue", Size: "M", Stock: 5},
			},
		},
	}

	for _, p := range products {
		if err := seedProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("seed product %q: %w", p.Name, err)
		}
	}
	return nil
}

func ensureNamed(ctx context.Context, pool *pgxpool.Pool, table, name string) (int64, error) {
	q := fmt.Sprintf(`
INSERT INTO %s (name)
VALUES ($1)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id
`, table)
	var id int64
	if err := pool.QueryRow(ctx, q, name).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func seedProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	garmentTypeID, err := ensureNamed(ctx, pool, "garment_types", p.GarmentType)
	if err != nil {
		return fmt.Errorf("ensure garment type: %w", err)
	}

	productID, err := ensureProduct(ctx, pool, p, garmentTypeID)
	if err != nil {
		return err
	}

	for _, v := range p.Variants {
		colorID, err := ensureNamed(ctx, pool, "colors", v.Color)
		if err != nil {
			return fmt.Errorf("ensure color: %w", err)
		}
		sizeID, err := ensureNamed(ctx, pool, "sizes", v.Size)
		if err != nil {
			return fmt.Errorf("ensure size: %w", err)
		}
		if err := ensureVariant(ctx, pool, productID, colorID, sizeID, v.Stock); err != nil {
			return fmt.Errorf("ensure variant %s/%s: %w", v.Color, v.Size, err)
		}
	}
	return nil
}

// ensureProduct matches by name; products have no natural unique key.
func ensureProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed, garmentTypeID int64) (int64, error) {
	var id int64
	err := pool.QueryRow(ctx, `SELECT id FROM products WHERE name = $1`, p.Name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	const q = `
INSERT INTO products (name, description, price_cents, available, garment_type_id)
VALUES ($1, $2, $3, TRUE, $4)
RETURNING id
`
	if err := pool.QueryRow(ctx, q, p.Name, p.Description, p.PriceCents, garmentTypeID).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func ensureVariant(ctx context.Context, pool *pgxpool.Pool, productID, colorID, sizeID int64, stock int) error {
	var id int64
	err := pool.QueryRow(ctx, `
SELECT id FROM product_variants
WHERE product_id = $1 AND color_id = $2 AND size_id = $3
`, productID, colorID, sizeID).Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	_, err = pool.Exec(ctx, `
INSERT INTO product_variants (product_id, color_id, size_id, stock)
VALUES ($1, $2, $3, $4)
`, productID, colorID, sizeID, stock)
	return err
}
