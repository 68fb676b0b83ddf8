package pagination

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params holds the window of a paged listing.
type Params struct {
	Limit  int
	Offset int
}

// New clamps limit to [1, MaxLimit] (DefaultLimit when not positive) and
// offset to be non-negative.
func New(limit, offset int) Params {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Params{Limit: limit, Offset: offset}
}

// HasNext returns true if there are more results after the current page.
func (p Params) HasNext(total int) bool {
	return p.Offset+p.Limit < total
}

// HasPrevious returns true if there are results before the current page.
func (p Params) HasPrevious() bool {
	return p.Offset > 0
}

// NextOffset returns the offset for the next page.
func (p Params) NextOffset() int {
	return p.Offset + p.Limit
}

// PreviousOffset returns the offset for the previous page.
// Returns 0 if the result would be negative.
func (p Params) PreviousOffset() int {
	prev := p.Offset - p.Limit
	if prev < 0 {
		return 0
	}
	return prev
}

// Page is the 1-based page number of the window.
func (p Params) Page() int {
	return p.Offset/p.Limit + 1
}

// Pages is the number of pages needed for total items; at least 1.
func (p Params) Pages(total int) int {
	if total <= 0 {
		return 1
	}
	return (total + p.Limit - 1) / p.Limit
}

// Slice returns the items inside the window.
func Slice[T any](items []T, p Params) []T {
	if p.Offset >= len(items) {
		return nil
	}
	end := p.Offset + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[p.Offset:end]
}
