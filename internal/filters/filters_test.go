package filters_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"magazzino/internal/filters"
)

func TestParse_Defaults(t *testing.T) {
	spec, errs := filters.Parse(filters.Values{}, filters.Strict)

	assert.Empty(t, errs)
	assert.Equal(t, "", spec.Query)
	assert.Nil(t, spec.MinPrice)
	assert.Nil(t, spec.MaxPrice)
	assert.False(t, spec.InStock)
	assert.Equal(t, filters.DefaultLimit, spec.Limit)
	assert.Equal(t, 0, spec.Offset)
}

func TestParse_ValidFields(t *testing.T) {
	spec, errs := filters.Parse(filters.Values{
		Query:    "  widget ",
		MinPrice: "1.50",
		MaxPrice: "99.99",
		InStock:  "true",
		Limit:    "50",
		Offset:   "10",
	}, filters.Strict)

	require.Empty(t, errs)
	assert.Equal(t, "widget", spec.Query)
	require.NotNil(t, spec.MinPrice)
	assert.True(t, spec.MinPrice.Equal(decimal.RequireFromString("1.50")))
	require.NotNil(t, spec.MaxPrice)
	assert.True(t, spec.MaxPrice.Equal(decimal.RequireFromString("99.99")))
	assert.True(t, spec.InStock)
	assert.Equal(t, 50, spec.Limit)
	assert.Equal(t, 10, spec.Offset)
}

func TestParse_LenientSkipsBadFieldsWithMessage(t *testing.T) {
	spec, errs := filters.Parse(filters.Values{
		Query:    "wid",
		MinPrice: "abc",
		MaxPrice: "20",
	}, filters.Lenient)

	// The malformed bound is dropped; the rest of the spec still applies.
	require.Len(t, errs, 1)
	assert.Equal(t, "min_price", errs[0].Field)
	assert.Nil(t, spec.MinPrice)
	require.NotNil(t, spec.MaxPrice)
	assert.Equal(t, "wid", spec.Query)
}

func TestParse_LenientInStockIsCheckboxFlag(t *testing.T) {
	spec, errs := filters.Parse(filters.Values{InStock: "1"}, filters.Lenient)
	assert.Empty(t, errs)
	assert.True(t, spec.InStock)

	// Anything other than "1" is simply an unticked box, never an error.
	spec, errs = filters.Parse(filters.Values{InStock: "true"}, filters.Lenient)
	assert.Empty(t, errs)
	assert.False(t, spec.InStock)
}

func TestParse_StrictRejectsMalformedFields(t *testing.T) {
	cases := []struct {
		name   string
		values filters.Values
		field  string
	}{
		{"bad min_price", filters.Values{MinPrice: "abc"}, "min_price"},
		{"bad max_price", filters.Values{MaxPrice: "9,99"}, "max_price"},
		{"bad in_stock", filters.Values{InStock: "maybe"}, "in_stock"},
		{"limit zero", filters.Values{Limit: "0"}, "limit"},
		{"limit too large", filters.Values{Limit: "101"}, "limit"},
		{"limit not a number", filters.Values{Limit: "ten"}, "limit"},
		{"negative offset", filters.Values{Offset: "-1"}, "offset"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, errs := filters.Parse(tc.values, filters.Strict)
			require.Len(t, errs, 1)
			assert.Equal(t, tc.field, errs[0].Field)
			assert.NotEmpty(t, errs[0].Message)
		})
	}
}

func TestParse_StrictBooleanCoercion(t *testing.T) {
	for _, raw := range []string{"true", "1"} {
		spec, errs := filters.Parse(filters.Values{InStock: raw}, filters.Strict)
		assert.Empty(t, errs)
		assert.True(t, spec.InStock, "in_stock=%s", raw)
	}
	for _, raw := range []string{"", "false", "0"} {
		spec, errs := filters.Parse(filters.Values{InStock: raw}, filters.Strict)
		assert.Empty(t, errs)
		assert.False(t, spec.InStock, "in_stock=%s", raw)
	}
}

func TestParse_CollectsEveryBadField(t *testing.T) {
	_, errs := filters.Parse(filters.Values{
		MinPrice: "x",
		MaxPrice: "y",
		Limit:    "0",
	}, filters.Strict)
	assert.Len(t, errs, 3)
}

func TestClampPage(t *testing.T) {
	cases := []struct {
		name       string
		raw        string
		total      int64
		wantNumber int
		wantOffset int
		wantPages  int
	}{
		{"first page", "1", 25, 1, 0, 3},
		{"middle page", "2", 25, 2, 10, 3},
		{"beyond last clamps to last", "99", 25, 3, 20, 3},
		{"below one clamps to first", "0", 25, 1, 0, 3},
		{"negative clamps to first", "-3", 25, 1, 0, 3},
		{"non-numeric clamps to first", "abc", 25, 1, 0, 3},
		{"empty defaults to first", "", 25, 1, 0, 3},
		{"empty result set still has one page", "5", 0, 1, 0, 1},
		{"exact multiple", "2", 20, 2, 10, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page := filters.ClampPage(tc.raw, tc.total, filters.UIPageSize)
			assert.Equal(t, tc.wantNumber, page.Number)
			assert.Equal(t, tc.wantOffset, page.Offset)
			assert.Equal(t, tc.wantPages, page.Pages)
			assert.Equal(t, tc.total, page.Total)
		})
	}
}

func TestPage_Navigation(t *testing.T) {
	page := filters.ClampPage("2", 25, filters.UIPageSize)
	assert.True(t, page.HasPrev())
	assert.True(t, page.HasNext())
	assert.Equal(t, 1, page.Prev())
	assert.Equal(t, 3, page.Next())

	first := filters.ClampPage("1", 5, filters.UIPageSize)
	assert.False(t, first.HasPrev())
	assert.False(t, first.HasNext())
}
