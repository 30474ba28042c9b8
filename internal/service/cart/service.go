package cart

import (
	"context"
	"errors"

	"cartbridge/internal/domain"
	cartrepo "cartbridge/internal/repository/cart"
)

// Service owns the cart reconciliation rules: stock-aware add with
// merge-on-duplicate-variant, absolute-stock quantity updates, and cart
// totals. Stock is re-read fresh on every mutating call; the check-then-act
// sequence is not serialized against concurrent adds of the same variant,
// so the stock ceiling is best-effort under concurrency.
type Service struct {
	repo     cartRepo
	products productRepo
}

type cartRepo interface {
	Create(ctx context.Context, in cartrepo.CreateCartInput) (*domain.Cart, error)
	GetByRef(ctx context.Context, ref domain.CartRef) (*domain.Cart, error)
	GetItem(ctx context.Context, cartID, itemID int64) (*domain.CartItem, error)
	GetItemByVariant(ctx context.Context, cartID, variantID int64) (*domain.CartItem, error)
	InsertItem(ctx context.Context, cartID, variantID int64, qty int) (*domain.CartItem, error)
	UpdateItemQty(ctx context.Context, itemID int64, qty int) (*domain.CartItem, error)
	DeleteItem(ctx context.Context, cartID, itemID int64) error
	ListLines(ctx context.Context, cartID int64) ([]domain.CartLine, error)
}

type productRepo interface {
	GetVariant(ctx context.Context, id int64) (*domain.VariantDetail, error)
}

func New(repo cartrepo.Repository, products productRepo) *Service {
	return &Service{repo: repo, products: products}
}

type AddItemInput struct {
	ProductVariantID int64 `json:"product_variant_id"`
	Qty              int   `json:"qty"`
}

// AddItemResult reports whether the add inserted a new line (Created) or
// merged into an existing one, plus the garment type used for conversation
// labeling.
type AddItemResult struct {
	Item            domain.CartItem
	Created         bool
	GarmentTypeName string
}

// Detail is a cart with its lines and computed totals. ItemCount is the
// number of distinct lines, not the sum of quantities.
type Detail struct {
	Cart      domain.Cart       `json:"cart"`
	Items     []domain.CartLine `json:"items"`
	Total     float64           `json:"total"`
	ItemCount int               `json:"itemCount"`
}

// Create inserts a new empty cart with no owner.
func (s *Service) Create(ctx context.Context) (*domain.Cart, error) {
	return s.repo.Create(ctx, cartrepo.CreateCartInput{})
}

// AddItem validates stock against the post-merge total: if the variant is
// already in the cart, the check runs on existing qty + requested qty, and
// the existing line is updated instead of a duplicate being inserted.
func (s *Service) AddItem(ctx context.Context, ref domain.CartRef, in AddItemInput) (*AddItemResult, error) {
	cart, err := s.repo.GetByRef(ctx, ref)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFoundf("no cart found with id %s", ref)
		}
		return nil, err
	}

	if in.ProductVariantID <= 0 || in.Qty <= 0 {
		return nil, domain.Validationf("product_variant_id and qty (greater than 0) are required")
	}

	variant, err := s.products.GetVariant(ctx, in.ProductVariantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFoundf("no product variant found with id %d", in.ProductVariantID)
		}
		return nil, err
	}
	if variant.Stock < in.Qty {
		return nil, &domain.InsufficientStockError{Available: variant.Stock}
	}

	existing, err := s.repo.GetItemByVariant(ctx, cart.ID, in.ProductVariantID)
	switch {
	case err == nil:
		newQty := existing.Qty + in.Qty
		if variant.Stock < newQty {
			return nil, &domain.InsufficientStockError{Available: variant.Stock}
		}
		updated, err := s.repo.UpdateItemQty(ctx, existing.ID, newQty)
		if err != nil {
			return nil, err
		}
		return &AddItemResult{Item: *updated, GarmentTypeName: variant.GarmentTypeName}, nil
	case errors.Is(err, domain.ErrNotFound):
		inserted, err := s.repo.InsertItem(ctx, cart.ID, in.ProductVariantID, in.Qty)
		if err != nil {
			return nil, err
		}
		return &AddItemResult{Item: *inserted, Created: true, GarmentTypeName: variant.GarmentTypeName}, nil
	default:
		return nil, err
	}
}

// Get returns the cart with all its lines and computed totals. An empty
// cart is valid: total 0, itemCount 0.
func (s *Service) Get(ctx context.Context, ref domain.CartRef) (*Detail, error) {
	cart, err := s.repo.GetByRef(ctx, ref)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFoundf("no cart found with id %s", ref)
		}
		return nil, err
	}

	lines, err := s.repo.ListLines(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []domain.CartLine{}
	}

	var total float64
	for _, line := range lines {
		total += line.Variant.Product.Price * float64(line.Qty)
	}

	return &Detail{
		Cart:      *cart,
		Items:     lines,
		Total:     total,
		ItemCount: len(lines),
	}, nil
}

// UpdateItem replaces the line quantity outright; the stock check is
// absolute, not a delta against the current quantity.
func (s *Service) UpdateItem(ctx context.Context, ref domain.CartRef, itemID int64, qty int) (*domain.CartItem, error) {
	if qty <= 0 {
		return nil, domain.Validationf("qty (greater than 0) is required")
	}

	cart, err := s.repo.GetByRef(ctx, ref)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFoundf("no cart found with id %s", ref)
		}
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, cart.ID, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFoundf("no item %d found in cart %s", itemID, ref)
		}
		return nil, err
	}

	variant, err := s.products.GetVariant(ctx, item.ProductVariantID)
	if err != nil {
		return nil, err
	}
	if variant.Stock < qty {
		return nil, &domain.InsufficientStockError{Available: variant.Stock}
	}

	return s.repo.UpdateItemQty(ctx, item.ID, qty)
}

// RemoveItem deletes the line.
func (s *Service) RemoveItem(ctx context.Context, ref domain.CartRef, itemID int64) error {
	cart, err := s.repo.GetByRef(ctx, ref)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFoundf("no cart found with id %s", ref)
		}
		return err
	}

	if err := s.repo.DeleteItem(ctx, cart.ID, itemID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFoundf("no item %d found in cart %s", itemID, ref)
		}
		return err
	}
	return nil
}
