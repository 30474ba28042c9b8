package cart

import (
	"context"

	"cartbridge/internal/domain"
)

type CreateCartInput struct {
	ClientID *int64
	Status   string
}

type Repository interface {
	Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error)
	GetByRef(ctx context.Context, ref domain.CartRef) (*domain.Cart, error)
	GetActiveByClient(ctx context.Context, clientID int64) (*domain.Cart, error)
	GetItem(ctx context.Context, cartID, itemID int64) (*domain.CartItem, error)
	GetItemByVariant(ctx context.Context, cartID, variantID int64) (*domain.CartItem, error)
	InsertItem(ctx context.Context, cartID, variantID int64, qty int) (*domain.CartItem, error)
	UpdateItemQty(ctx context.Context, itemID int64, qty int) (*domain.CartItem, error)
	DeleteItem(ctx context.Context, cartID, itemID int64) error
	ListLines(ctx context.Context, cartID int64) ([]domain.CartLine, error)
}
