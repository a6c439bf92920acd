package filters

import "strconv"

// UIPageSize is the fixed page size of the form UI listing.
const UIPageSize = 10

// Page is a clamped 1-based page over a result set of Total rows.
type Page struct {
	Number int
	Size   int
	Offset int
	Pages  int
	Total  int64
}

func (p Page) HasPrev() bool { return p.Number > 1 }
func (p Page) HasNext() bool { return p.Number < p.Pages }
func (p Page) Prev() int     { return p.Number - 1 }
func (p Page) Next() int     { return p.Number + 1 }

// ClampPage resolves a raw page-number parameter against the total row
// count. A non-numeric or below-1 value clamps to the first page, a value
// beyond the last page clamps to the last; an empty result set still yields
// one (empty) page, so the caller never has to special-case it.
func ClampPage(raw string, total int64, size int) Page {
	pages := int((total + int64(size) - 1) / int64(size))
	if pages < 1 {
		pages = 1
	}

	number, err := strconv.Atoi(raw)
	if err != nil || number < 1 {
		number = 1
	}
	if number > pages {
		number = pages
	}

	return Page{
		Number: number,
		Size:   size,
		Offset: (number - 1) * size,
		Pages:  pages,
		Total:  total,
	}
}
