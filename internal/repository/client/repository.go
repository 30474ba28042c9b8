package client

import (
	"context"

	"cartbridge/internal/domain"
)

type CreateClientInput struct {
	Name  string
	Email string
	Phone string
}

type Repository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Client, error)
	Create(ctx context.Context, in CreateClientInput) (*domain.Client, error)
	UpdatePhone(ctx context.Context, id int64, phone string) error
}
