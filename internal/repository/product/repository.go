package product

import (
	"context"

	"cartbridge/internal/domain"
)

// ListFilter narrows the product listing by partial name/description match.
type ListFilter struct {
	Name        string
	Description string
}

type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetVariant(ctx context.Context, id int64) (*domain.VariantDetail, error)
}
