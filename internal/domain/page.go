package domain

import "fmt"

// DefaultPageSize is used when the caller omits the size parameter.
const DefaultPageSize = 10

// PageRequest carries from/size values from the HTTP layer to the repo layer.
// From is a zero-based row offset, Size the maximum number of rows returned.
type PageRequest struct {
	From int
	Size int
}

// NewPageRequest builds a PageRequest from optional HTTP query params.
// A nil from means 0; a nil size means defaultSize.
// Returns ErrValidation when from is negative or size is not positive.
func NewPageRequest(from, size *int, defaultSize int) (PageRequest, error) {
	p := PageRequest{From: 0, Size: defaultSize}
	if from != nil {
		p.From = *from
	}
	if size != nil {
		p.Size = *size
	}
	if err := p.Validate(); err != nil {
		return PageRequest{}, err
	}
	return p, nil
}

// Validate reports whether the page bounds are usable.
func (p PageRequest) Validate() error {
	if p.From < 0 {
		return fmt.Errorf("%w: from must not be negative", ErrValidation)
	}
	if p.Size <= 0 {
		return fmt.Errorf("%w: size must be positive", ErrValidation)
	}
	return nil
}

// Window returns the half-open index range [lo, hi) this page selects from a
// result set of length n. Size may be as large as math.MaxInt.
func (p PageRequest) Window(n int) (lo, hi int) {
	lo = min(p.From, n)
	hi = lo + min(p.Size, n-lo)
	return lo, hi
}
