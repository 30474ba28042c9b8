package cart

import (
	"context"
	"errors"
	"testing"

	"cartbridge/internal/domain"
	cartrepo "cartbridge/internal/repository/cart"
)

// fakeRepo is an in-memory cart store. Tests seed carts and items directly
// and assert on the resulting state.
type fakeRepo struct {
	nextCartID  int64
	nextItemID  int64
	carts       map[int64]*domain.Cart
	items       map[int64]*domain.CartItem
	linesByCart map[int64][]domain.CartLine
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		carts:       map[int64]*domain.Cart{},
		items:       map[int64]*domain.CartItem{},
		linesByCart: map[int64][]domain.CartLine{},
	}
}

func (f *fakeRepo) addCart(id int64, uid string) *domain.Cart {
	cart := &domain.Cart{ID: id, UID: uid, Status: domain.CartStatusActive}
	f.carts[id] = cart
	if id > f.nextCartID {
		f.nextCartID = id
	}
	return cart
}

func (f *fakeRepo) addItem(cartID, variantID int64, qty int) *domain.CartItem {
	f.nextItemID++
	item := &domain.CartItem{ID: f.nextItemID, CartID: cartID, ProductVariantID: variantID, Qty: qty}
	f.items[item.ID] = item
	return item
}

func (f *fakeRepo) Create(_ context.Context, in cartrepo.CreateCartInput) (*domain.Cart, error) {
	f.nextCartID++
	status := in.Status
	if status == "" {
		status = domain.CartStatusActive
	}
	cart := &domain.Cart{ID: f.nextCartID, UID: "00000000-0000-0000-0000-000000000001", ClientID: in.ClientID, Status: status}
	f.carts[cart.ID] = cart
	return cart, nil
}

func (f *fakeRepo) GetByRef(_ context.Context, ref domain.CartRef) (*domain.Cart, error) {
	if ref.IsOpaque() {
		for _, cart := range f.carts {
			if cart.UID == ref.Opaque {
				return cart, nil
			}
		}
		return nil, domain.ErrNotFound
	}
	cart, ok := f.carts[ref.Numeric]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cart, nil
}

func (f *fakeRepo) GetActiveByClient(_ context.Context, _ int64) (*domain.Cart, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeRepo) GetItem(_ context.Context, cartID, itemID int64) (*domain.CartItem, error) {
	item, ok := f.items[itemID]
	if !ok || item.CartID != cartID {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (f *fakeRepo) GetItemByVariant(_ context.Context, cartID, variantID int64) (*domain.CartItem, error) {
	for _, item := range f.items {
		if item.CartID == cartID && item.ProductVariantID == variantID {
			return item, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRepo) InsertItem(_ context.Context, cartID, variantID int64, qty int) (*domain.CartItem, error) {
	return f.addItem(cartID, variantID, qty), nil
}

func (f *fakeRepo) UpdateItemQty(_ context.Context, itemID int64, qty int) (*domain.CartItem, error) {
	item, ok := f.items[itemID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	item.Qty = qty
	return item, nil
}

func (f *fakeRepo) DeleteItem(_ context.Context, cartID, itemID int64) error {
	item, ok := f.items[itemID]
	if !ok || item.CartID != cartID {
		return domain.ErrNotFound
	}
	delete(f.items, itemID)
	return nil
}

func (f *fakeRepo) ListLines(_ context.Context, cartID int64) ([]domain.CartLine, error) {
	return f.linesByCart[cartID], nil
}

type stubVariants struct {
	variants map[int64]*domain.VariantDetail
}

func (s *stubVariants) GetVariant(_ context.Context, id int64) (*domain.VariantDetail, error) {
	v, ok := s.variants[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func numericRef(id int64) domain.CartRef { return domain.CartRef{Numeric: id} }

func newTestService(repo *fakeRepo, variants map[int64]*domain.VariantDetail) *Service {
	return &Service{repo: repo, products: &stubVariants{variants: variants}}
}

func TestAddItemInsertsNewLine(t *testing.T) {
	repo := newFakeRepo()
	repo.addCart(1, "")
	svc := newTestService(repo, map[int64]*domain.VariantDetail{
		7: {ID: 7, Stock: 10, GarmentTypeName: "T-Shirt"},
	})

	res, err := svc.AddItem(context.Background(), numericRef(1), AddItemInput{ProductVariantID: 7, Qty: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Created {
		t.Fatalf("expected a new line, got merge")
	}
	if res.Item.Qty != 3 || res.Item.ProductVariantID != 7 {
		t.Fatalf("unexpected item: %+v", res.Item)
	}
	if res.GarmentTypeName != "T-Shirt" {
		t.Fatalf("expected garment type carried through, got %q", res.GarmentTypeName)
	}
}

func TestAddItemMergesDuplicateVariant(t *testing.T) {
	repo := newFakeRepo()
	repo.addCart(1, "")
	existing := repo.addItem(1, 7, 2)
	svc := newTestService(repo, map[int64]*domain.VariantDetail{
		7: {ID: 7, Stock: 10},
	})

	res, err := svc.AddItem(context.Background(), numericRef(1), AddItemInput{ProductVariantID: 7, Qty: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Created {
		t.Fatalf("expected merge into existing line, got new line")
	}
	if res.Item.ID != existing.ID {
		t.Fatalf("expected line %d updated, got %d", existing.ID, res.Item.ID)
	}
	if res.Item.Qty != 5 {
		t.Fatalf("expected merged qty 5, got %d", res.Item.Qty)
	}
}

func TestAddItemRejectsBeyondStock(t *testing.T) {
	repo := newFakeRepo()
	repo.addCart(1, "")
	svc := newTestService(repo, map[int64]*domain.VariantDetail{
		7: {ID: 7, Stock: 2},
	})

	_, err := svc.AddItem(context.Background(), numericRef(1), AddItemInput{ProductVariantID: 7, Qty: 3})
	var stockErr *domain.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}
	if stockErr.Available != 2 {
		t.Fatalf("expected available 2, got %d", stockErr.Available)
	}
	if len(repo.items) != 0 {
		t.Fatalf("expected no line inserted, got %d", len(repo.items))
	}
}

func TestAddItemRejectsMergeBeyondStock(t *testing.T) {
	repo := newFakeRepo()
	repo.addCart(1, "")
	existing := repo.addItem(1, 7, 3)
	svc := newTestService(repo, map[int64]*domain.VariantDetail{
		7: {ID: 7, Stock: 5},
	})

	// 3 in cart + 3 requested exceeds the 5 in stock even though the
	// request alone would fit.
	_, err := svc.AddItem(context.Background(), numericRef(1), AddItemInput{ProductVariantID: 7, Qty: 3})
	var stockErr *domain.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}
	if repo.items[existing.ID].Qty != 3 {
		t.Fatalf("expected existing qty unchanged at 3, got %d", repo.items[existing.ID].Qty)
	}
}

func TestAddItemValidation(t *testing.T) {
	repo := newFakeRepo()
	repo.addCart(1, "")
	svc := newTestService(repo, nil)

	for _, in := range []AddItemInput{
		{ProductVariantID: 0, Qty: 1},
		{ProductVariantID: 7, Qty: 0},
		{ProductVariantID: 7, Qty: -2},
	} {
		_, err := svc.AddItem(context.Background(), numericRef(1), in)
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("input %+v: expected validation error, got %v", in, err)
		}
	}
}

func TestAddItemUnknownCart(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil)
	_, err := svc.AddItem(context.Background(), numericRef(99), AddItemInput{ProductVariantID: 7, Qty: 1})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddItemUnknownVariant(t *testing.T) {
	repo := newFakeRepo()
	repo.addCart(1, "")
	svc := newTestService(repo, map[int64]*domain.VariantDetail{})

	_, err := svc.AddItem(context.Background(), numericRef(1), AddItemInput{ProductVariantID: 42, Qty: 1})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddItemByOpaqueRef(t *testing.T) {
	repo := newFakeRepo()
	repo.addCart(3, "a3bb189e-8bf9-3888-9912-ace4e6543002")
	svc := newTestService(repo, map[int64]*domain.VariantDetail{
		7: {ID: 7, Stock: 10},
	})

	res, err := svc.AddItem(context.Background(), domain.CartRef{Opaque: "a3bb189e-8bf9-3888-9912-ace4e6543002"}, AddItemInput{ProductVariantID: 7, Qty: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Item.CartID != 3 {
		t.Fatalf("expected item attached to cart 3, got %d", res.Item.CartID)
	}
}

func TestGetComputesTotals(t *testing.T) {
	repo := newFakeRepo()
	repo.addCart(1, "")
	repo.linesByCart[1] = []domain.CartLine{
		{ID: 1, Qty: 2, Variant: domain.CartLineVariant{ID: 7, Product: domain.CartLineProduct{Price: 10}}},
		{ID: 2, Qty: 3, Variant: domain.CartLineVariant{ID: 8, Product: domain.CartLineProduct{Price: 5}}},
	}
	svc := newTestService(repo, nil)

	detail, err := svc.Get(context.Background(), numericRef(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Total != 35 {
		t.Fatalf("expected total 35, got %v", detail.Total)
	}
	if detail.ItemCount != 2 {
		t.Fatalf("expected 2 distinct lines, got %d", detail.ItemCount)
	}
}

func TestGetEmptyCart(t *testing.T) {
	repo := newFakeRepo()
	repo.addCart(1, "")
	svc := newTestService(repo, nil)

	detail, err := svc.Get(context.Background(), numericRef(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Items == nil || len(detail.Items) != 0 {
		t.Fatalf("expected empty non-nil items, got %#v", detail.Items)
	}
	if detail.Total != 0 || detail.ItemCount != 0 {
		t.Fatalf("expected zero totals, got total=%v count=%d", detail.Total, detail.ItemCount)
	}
}

func TestUpdateItemRejectsNonPositiveQty(t *testing.T) {
	repo := newFakeRepo()
	repo.addCart(1, "")
	item := repo.addItem(1, 7, 4)
	svc := newTestService(repo, map[int64]*domain.VariantDetail{
		7: {ID: 7, Stock: 10},
	})

	for _, qty := range []int{0, -1} {
		_, err := svc.UpdateItem(context.Background(), numericRef(1), item.ID, qty)
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("qty %d: expected validation error, got %v", qty, err)
		}
	}
	if repo.items[item.ID].Qty != 4 {
		t.Fatalf("expected qty unchanged at 4, got %d", repo.items[item.ID].Qty)
	}
}

func TestUpdateItemAbsoluteStockCheck(t *testing.T) {
	repo := newFakeRepo()
	repo.addCart(1, "")
	item := repo.addItem(1, 7, 2)
	svc := newTestService(repo, map[int64]*domain.VariantDetail{
		7: {ID: 7, Stock: 5},
	})

	// The new qty replaces the old one, so 5 fits exactly.
	updated, err := svc.UpdateItem(context.Background(), numericRef(1), item.ID, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Qty != 5 {
		t.Fatalf("expected qty 5, got %d", updated.Qty)
	}

	_, err = svc.UpdateItem(context.Background(), numericRef(1), item.ID, 6)
	var stockErr *domain.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}
	if repo.items[item.ID].Qty != 5 {
		t.Fatalf("expected qty still 5 after rejection, got %d", repo.items[item.ID].Qty)
	}
}

func TestUpdateItemUnknownItem(t *testing.T) {
	repo := newFakeRepo()
	repo.addCart(1, "")
	svc := newTestService(repo, nil)

	_, err := svc.UpdateItem(context.Background(), numericRef(1), 99, 1)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRemoveItem(t *testing.T) {
	repo := newFakeRepo()
	repo.addCart(1, "")
	item := repo.addItem(1, 7, 2)
	svc := newTestService(repo, nil)

	if err := svc.RemoveItem(context.Background(), numericRef(1), item.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.items) != 0 {
		t.Fatalf("expected line deleted, %d remain", len(repo.items))
	}

	// Removing the same line again reports not found.
	err := svc.RemoveItem(context.Background(), numericRef(1), item.ID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on second remove, got %v", err)
	}
}

func TestCreateCart(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	cart, err := svc.Create(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart.ID == 0 || cart.UID == "" {
		t.Fatalf("expected both identifiers set, got %+v", cart)
	}
	if cart.Status != domain.CartStatusActive {
		t.Fatalf("expected active status, got %q", cart.Status)
	}
	if cart.ClientID != nil {
		t.Fatalf("expected no owner, got %v", *cart.ClientID)
	}
}
