package domain

import (
	"strconv"

	"github.com/google/uuid"
)

// CartRef identifies a cart by either its numeric id or its opaque
// UUID-shaped uid. Exactly one side is set; the form is resolved once at
// the request boundary and carried through the call chain as-is.
type CartRef struct {
	Numeric int64
	Opaque  string
}

func (r CartRef) IsOpaque() bool { return r.Opaque != "" }

func (r CartRef) String() string {
	if r.IsOpaque() {
		return r.Opaque
	}
	return strconv.FormatInt(r.Numeric, 10)
}

// ParseCartRef accepts a decimal integer or a UUID-shaped token. Any other
// value is a ValidationError.
func ParseCartRef(s string) (CartRef, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && n > 0 {
		return CartRef{Numeric: n}, nil
	}
	if err := uuid.Validate(s); err == nil {
		return CartRef{Opaque: s}, nil
	}
	return CartRef{}, Validationf("invalid cart id %q", s)
}
