package domain

import "time"

type Product struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Price       float64          `json:"price"`
	Available   bool             `json:"available"`
	GarmentType *GarmentType     `json:"garment_type,omitempty"`
	Variants    []ProductVariant `json:"product_variants"`
	CreatedAt   time.Time        `json:"created_at"`
}

// ProductVariant is a purchasable combination of a product with a color and
// size, carrying its own stock count.
type ProductVariant struct {
	ID    int64  `json:"id"`
	Stock int    `json:"stock"`
	Color *Color `json:"color,omitempty"`
	Size  *Size  `json:"size,omitempty"`
}

type GarmentType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Color struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Size struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// VariantDetail is a variant joined with the parent product fields cart
// mutations need: price for totals, name for messages, garment type for
// conversation labeling.
type VariantDetail struct {
	ID              int64
	Stock           int
	ProductID       int64
	ProductName     string
	PriceCents      int64
	GarmentTypeName string
}
