package ports

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// MaxPageNumber keeps Skip far from integer overflow.
const MaxPageNumber = 1_000_000

// Page is a 1-based pagination request.
type Page struct {
	Number int
	Limit  int
}

// Normalize clamps the page into valid bounds.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Number > MaxPageNumber {
		p.Number = MaxPageNumber
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// Skip is the number of rows before the page.
func (p Page) Skip() int64 {
	return int64(p.Number-1) * int64(p.Limit)
}

// PageInfo describes the page a list result covers.
type PageInfo struct {
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// NewPageInfo computes PageInfo for a normalized page and a total row count.
func NewPageInfo(p Page, total int64) PageInfo {
	pages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return PageInfo{Total: total, Page: p.Number, Limit: p.Limit, TotalPages: pages}
}
