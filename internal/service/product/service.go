package product

import (
	"context"
	"errors"

	"cartbridge/internal/domain"
	productrepo "cartbridge/internal/repository/product"
)

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

// List returns available products matching the optional partial-match
// filters, with variants and taxonomy embedded.
func (s *Service) List(ctx context.Context, filter productrepo.ListFilter) ([]domain.Product, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFoundf("no product found with id %d", id)
		}
		return nil, err
	}
	return p, nil
}
