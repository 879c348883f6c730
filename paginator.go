package quarry

// Paginator is one page of results plus the numbers needed to render
// pagination controls.
//
// LastPage is settable because deriving it from Total alone would offer
// pages past the index's max_result_window, which the engine rejects.
type Paginator struct {
	Items       []any `json:"data"`
	Total       int   `json:"total"`
	PerPage     int   `json:"per_page"`
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
}

// NewPaginator builds a paginator with LastPage derived from total.
func NewPaginator(items []any, total, perPage, currentPage int) *Paginator {
	if perPage < 1 {
		perPage = 1
	}
	if currentPage < 1 {
		currentPage = 1
	}
	if items == nil {
		items = []any{}
	}
	p := &Paginator{
		Items:       items,
		Total:       total,
		PerPage:     perPage,
		CurrentPage: currentPage,
	}
	p.LastPage = max(ceilDiv(total, perPage), 1)
	return p
}

// SetLastPage overrides the last page.
func (p *Paginator) SetLastPage(lastPage int) {
	p.LastPage = lastPage
}

// HasMorePages reports whether a page after CurrentPage exists.
func (p *Paginator) HasMorePages() bool {
	return p.CurrentPage < p.LastPage
}

// OnFirstPage reports whether CurrentPage is the first page.
func (p *Paginator) OnFirstPage() bool {
	return p.CurrentPage <= 1
}

// FirstItem returns the 1-based position of the first item on this page,
// or 0 when the page is empty.
func (p *Paginator) FirstItem() int {
	if len(p.Items) == 0 {
		return 0
	}
	return (p.CurrentPage-1)*p.PerPage + 1
}

// LastItem returns the 1-based position of the last item on this page,
// or 0 when the page is empty.
func (p *Paginator) LastItem() int {
	if len(p.Items) == 0 {
		return 0
	}
	return p.FirstItem() + len(p.Items) - 1
}

// lastPageFor caps the reachable page count at the result window.
func lastPageFor(total, perPage, maxResultWindow int) int {
	if maxResultWindow > 0 && total > maxResultWindow {
		total = maxResultWindow
	}
	return ceilDiv(total, perPage)
}

func ceilDiv(n, d int) int {
	if d <= 0 || n <= 0 {
		return 0
	}
	return (n + d - 1) / d
}
