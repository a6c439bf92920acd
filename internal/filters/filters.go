package filters

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Policy selects how malformed fields are treated by Parse. Both surfaces
// share the same parser; only the failure handling differs.
type Policy int

const (
	// Lenient skips a malformed field and records a message; the remaining
	// well-formed fields still apply. Used by the form UI.
	Lenient Policy = iota
	// Strict records every malformed or out-of-range field so the caller
	// can reject the whole request. Used by the JSON API.
	Strict
)

// Pagination bounds for the API surface.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Values holds the raw, untyped query parameters before validation.
type Values struct {
	Query    string
	MinPrice string
	MaxPrice string
	InStock  string
	Limit    string
	Offset   string
}

// Spec is the validated filter specification applied to a product listing.
// Nil price bounds mean no constraint; all active predicates are ANDed.
type Spec struct {
	Query    string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	InStock  bool
	Limit    int
	Offset   int
}

// FieldError describes one malformed input field.
type FieldError struct {
	Field   string
	Message string
}

// Parse turns raw query parameters into a Spec. It never fails outright:
// callers inspect the returned field errors and apply their policy (show the
// first message for Lenient, reject the request for Strict).
func Parse(values Values, policy Policy) (Spec, []FieldError) {
	spec := Spec{
		Query:  strings.TrimSpace(values.Query),
		Limit:  DefaultLimit,
		Offset: 0,
	}
	var errs []FieldError

	if raw := strings.TrimSpace(values.MinPrice); raw != "" {
		if min, err := decimal.NewFromString(raw); err != nil {
			errs = append(errs, FieldError{"min_price", "min_price must be a decimal number"})
		} else {
			spec.MinPrice = &min
		}
	}
	if raw := strings.TrimSpace(values.MaxPrice); raw != "" {
		if max, err := decimal.NewFromString(raw); err != nil {
			errs = append(errs, FieldError{"max_price", "max_price must be a decimal number"})
		} else {
			spec.MaxPrice = &max
		}
	}

	// The form UI treats in_stock as a checkbox: only "1" activates it.
	// The API coerces strictly and rejects anything unrecognised.
	switch policy {
	case Lenient:
		spec.InStock = values.InStock == "1"
	case Strict:
		switch values.InStock {
		case "", "false", "0":
			spec.InStock = false
		case "true", "1":
			spec.InStock = true
		default:
			errs = append(errs, FieldError{"in_stock", "in_stock must be a boolean"})
		}
	}

	if raw := values.Limit; raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > MaxLimit {
			errs = append(errs, FieldError{"limit", "limit must be an integer between 1 and 100"})
		} else {
			spec.Limit = limit
		}
	}
	if raw := values.Offset; raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			errs = append(errs, FieldError{"offset", "offset must be a non-negative integer"})
		} else {
			spec.Offset = offset
		}
	}

	return spec, errs
}
