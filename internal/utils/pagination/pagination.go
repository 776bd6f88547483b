package pagination

// Default values.
const (
	DefaultPage     = 1
	DefaultPageSize = 3
	MaxPageSize     = 100

	// MaxPage bounds Page so Offset cannot overflow.
	MaxPage = 1 << 20
)

// Pagination represents pagination parameters.
type Pagination struct {
	Page     int
	PageSize int
}

// New creates pagination for page with the default page size.
func New(page int) *Pagination {
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	return &Pagination{
		Page:     page,
		PageSize: DefaultPageSize,
	}
}

// Offset returns the offset for database queries.
func (p *Pagination) Offset() int {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	return (p.Page - 1) * p.Limit()
}

// Limit returns the limit for database queries.
func (p *Pagination) Limit() int {
	if p.PageSize < 1 {
		return DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		return MaxPageSize
	}
	return p.PageSize
}

// TotalPages calculates the total number of pages.
func (p *Pagination) TotalPages(total int64) int {
	if total == 0 {
		return 0
	}
	pageSize := int64(p.Limit())
	pages := total / pageSize
	if total%pageSize > 0 {
		pages++
	}
	return int(pages)
}

// PageInfo represents pagination info in responses.
type PageInfo struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// HasPrevious reports whether a page precedes this one.
func (i PageInfo) HasPrevious() bool {
	return i.Page > 1
}

// HasNext reports whether a page follows this one.
func (i PageInfo) HasNext() bool {
	return i.Page < i.TotalPages
}

// Info returns pagination info for responses.
func (p *Pagination) Info(total int64) PageInfo {
	return PageInfo{
		Page:       p.Page,
		PageSize:   p.Limit(),
		Total:      total,
		TotalPages: p.TotalPages(total),
	}
}

// Page is one page of items plus its position in the full result set.
type Page[T any] struct {
	Items []T      `json:"items"`
	Info  PageInfo `json:"page_info"`
}

// NewPage builds a Page from a slice already limited to p.
func NewPage[T any](items []T, p *Pagination, total int64) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{Items: items, Info: p.Info(total)}
}
