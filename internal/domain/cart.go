package domain

import "time"

const CartStatusActive = "active"

type Cart struct {
	ID        int64     `json:"id"`
	UID       string    `json:"uid"`
	ClientID  *int64    `json:"client_id,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type CartItem struct {
	ID               int64     `json:"id"`
	CartID           int64     `json:"cart_id"`
	ProductVariantID int64     `json:"product_variant_id"`
	Qty              int       `json:"qty"`
	CreatedAt        time.Time `json:"created_at"`
}

// CartLine is a cart item joined with its variant and product descriptors,
// as returned by the cart detail view.
type CartLine struct {
	ID      int64           `json:"id"`
	Qty     int             `json:"qty"`
	Variant CartLineVariant `json:"product_variant"`
}

type CartLineVariant struct {
	ID      int64           `json:"id"`
	Stock   int             `json:"stock"`
	Product CartLineProduct `json:"product"`
	Color   *Color          `json:"color,omitempty"`
	Size    *Size           `json:"size,omitempty"`
}

type CartLineProduct struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
}
