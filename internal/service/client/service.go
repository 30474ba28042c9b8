package client

import (
	"context"
	"errors"
	"strings"

	"cartbridge/internal/domain"
	cartrepo "cartbridge/internal/repository/cart"
	clientrepo "cartbridge/internal/repository/client"
)

// Service implements the session-start operation: resolve a client by
// email (creating one if needed) and hand back their single active cart.
type Service struct {
	clients clientRepo
	carts   cartRepo
}

type clientRepo interface {
	GetByEmail(ctx context.Context, email string) (*domain.Client, error)
	Create(ctx context.Context, in clientrepo.CreateClientInput) (*domain.Client, error)
	UpdatePhone(ctx context.Context, id int64, phone string) error
}

type cartRepo interface {
	Create(ctx context.Context, in cartrepo.CreateCartInput) (*domain.Cart, error)
	GetActiveByClient(ctx context.Context, clientID int64) (*domain.Cart, error)
}

func New(clients clientrepo.Repository, carts cartRepo) *Service {
	return &Service{clients: clients, carts: carts}
}

type GetOrCreateInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Session scopes every downstream cart mutation to one client and cart.
type Session struct {
	ClientID   int64  `json:"clientId"`
	CartID     int64  `json:"cartId"`
	CartStatus string `json:"cartStatus"`
}

// GetOrCreate looks the client up by email, refreshing the phone if a new
// one was supplied, then reuses the client's active cart or opens one.
// Calling it twice with the same email yields the same client and cart.
func (s *Service) GetOrCreate(ctx context.Context, in GetOrCreateInput) (*Session, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" {
		return nil, domain.Validationf("name and email are required")
	}

	cl, err := s.clients.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		if phone := strings.TrimSpace(in.Phone); phone != "" && phone != cl.Phone {
			if err := s.clients.UpdatePhone(ctx, cl.ID, phone); err != nil {
				return nil, err
			}
		}
	case errors.Is(err, domain.ErrNotFound):
		cl, err = s.clients.Create(ctx, clientrepo.CreateClientInput{
			Name:  strings.TrimSpace(in.Name),
			Email: strings.TrimSpace(in.Email),
			Phone: strings.TrimSpace(in.Phone),
		})
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	cart, err := s.carts.GetActiveByClient(ctx, cl.ID)
	if errors.Is(err, domain.ErrNotFound) {
		cart, err = s.carts.Create(ctx, cartrepo.CreateCartInput{
			ClientID: &cl.ID,
			Status:   domain.CartStatusActive,
		})
	}
	if err != nil {
		return nil, err
	}

	return &Session{
		ClientID:   cl.ID,
		CartID:     cart.ID,
		CartStatus: cart.Status,
	}, nil
}
