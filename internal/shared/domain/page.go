package domain

const (
	// DefaultPageSize is the page size used when a request does not specify one.
	DefaultPageSize = 20

	// MaxPageSize caps the number of entities a single page may return.
	MaxPageSize = 100
)

// PageRequest selects one bounded slice of a collection. Pages are
// zero-based and ordered by the store's stable default ordering.
type PageRequest struct {
	Page int
	Size int
}

// DefaultPageRequest returns the first page with the default size.
func DefaultPageRequest() PageRequest {
	return PageRequest{Page: 0, Size: DefaultPageSize}
}

// Normalize clamps the request to valid bounds.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset returns the number of entities preceding this page.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// Limit returns the maximum number of entities on this page.
func (p PageRequest) Limit() int {
	return p.Size
}
