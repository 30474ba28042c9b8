package client

import (
	"context"
	"errors"
	"testing"

	"cartbridge/internal/domain"
	cartrepo "cartbridge/internal/repository/cart"
	clientrepo "cartbridge/internal/repository/client"
)

type fakeClients struct {
	nextID     int64
	byEmail    map[string]*domain.Client
	phoneCalls []string
	createdN   int
}

func newFakeClients() *fakeClients {
	return &fakeClients{byEmail: map[string]*domain.Client{}}
}

func (f *fakeClients) GetByEmail(_ context.Context, email string) (*domain.Client, error) {
	cl, ok := f.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cl, nil
}

func (f *fakeClients) Create(_ context.Context, in clientrepo.CreateClientInput) (*domain.Client, error) {
	f.nextID++
	f.createdN++
	cl := &domain.Client{ID: f.nextID, Name: in.Name, Email: in.Email, Phone: in.Phone}
	f.byEmail[in.Email] = cl
	return cl, nil
}

func (f *fakeClients) UpdatePhone(_ context.Context, id int64, phone string) error {
	f.phoneCalls = append(f.phoneCalls, phone)
	for _, cl := range f.byEmail {
		if cl.ID == id {
			cl.Phone = phone
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeCarts struct {
	nextID   int64
	byClient map[int64]*domain.Cart
	createdN int
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{byClient: map[int64]*domain.Cart{}}
}

func (f *fakeCarts) Create(_ context.Context, in cartrepo.CreateCartInput) (*domain.Cart, error) {
	f.nextID++
	f.createdN++
	cart := &domain.Cart{ID: f.nextID, ClientID: in.ClientID, Status: in.Status}
	if in.ClientID != nil {
		f.byClient[*in.ClientID] = cart
	}
	return cart, nil
}

func (f *fakeCarts) GetActiveByClient(_ context.Context, clientID int64) (*domain.Cart, error) {
	cart, ok := f.byClient[clientID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cart, nil
}

func TestGetOrCreateValidation(t *testing.T) {
	svc := &Service{clients: newFakeClients(), carts: newFakeCarts()}

	for _, in := range []GetOrCreateInput{
		{Name: "", Email: "ana@example.com"},
		{Name: "Ana", Email: "  "},
	} {
		_, err := svc.GetOrCreate(context.Background(), in)
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("input %+v: expected validation error, got %v", in, err)
		}
	}
}

func TestGetOrCreateNewClient(t *testing.T) {
	clients := newFakeClients()
	carts := newFakeCarts()
	svc := &Service{clients: clients, carts: carts}

	session, err := svc.GetOrCreate(context.Background(), GetOrCreateInput{
		Name:  "Ana",
		Email: "ana@example.com",
		Phone: "+5491122334455",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.ClientID == 0 || session.CartID == 0 {
		t.Fatalf("expected session ids set, got %+v", session)
	}
	if session.CartStatus != domain.CartStatusActive {
		t.Fatalf("expected active cart, got %q", session.CartStatus)
	}
	if clients.createdN != 1 || carts.createdN != 1 {
		t.Fatalf("expected one client and one cart created, got %d/%d", clients.createdN, carts.createdN)
	}
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	clients := newFakeClients()
	carts := newFakeCarts()
	svc := &Service{clients: clients, carts: carts}

	in := GetOrCreateInput{Name: "Ana", Email: "ana@example.com"}
	first, err := svc.GetOrCreate(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.GetOrCreate(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.ClientID != second.ClientID || first.CartID != second.CartID {
		t.Fatalf("expected same session, got %+v then %+v", first, second)
	}
	if clients.createdN != 1 || carts.createdN != 1 {
		t.Fatalf("expected no duplicates, created %d clients and %d carts", clients.createdN, carts.createdN)
	}
}

func TestGetOrCreateRefreshesPhone(t *testing.T) {
	clients := newFakeClients()
	carts := newFakeCarts()
	svc := &Service{clients: clients, carts: carts}

	if _, err := svc.GetOrCreate(context.Background(), GetOrCreateInput{Name: "Ana", Email: "ana@example.com", Phone: "111"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetOrCreate(context.Background(), GetOrCreateInput{Name: "Ana", Email: "ana@example.com", Phone: "222"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clients.phoneCalls) != 1 || clients.phoneCalls[0] != "222" {
		t.Fatalf("expected one phone update to 222, got %v", clients.phoneCalls)
	}

	// Same phone again is a no-op.
	if _, err := svc.GetOrCreate(context.Background(), GetOrCreateInput{Name: "Ana", Email: "ana@example.com", Phone: "222"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clients.phoneCalls) != 1 {
		t.Fatalf("expected no extra phone update, got %v", clients.phoneCalls)
	}
}
