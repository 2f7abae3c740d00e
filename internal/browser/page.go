package browser

// PageState is the pagination bookkeeping of one list.
//
// Offset moves only in steps of Limit and stays within [0, Total].
type PageState struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Total  int `json:"total"`
}

// HasNext reports whether another page starts before Total.
func (p PageState) HasNext() bool {
	return p.Offset+p.Limit < p.Total
}

// HasPrev reports whether stepping back a page stays at or above zero.
func (p PageState) HasPrev() bool {
	return p.Offset-p.Limit >= 0
}

// Page is the 1-based index of the current page.
func (p PageState) Page() int {
	if p.Limit <= 0 {
		return 1
	}
	return p.Offset/p.Limit + 1
}

// Pages is the number of pages Total spans, at least one.
func (p PageState) Pages() int {
	if p.Limit <= 0 || p.Total <= p.Limit {
		return 1
	}
	return (p.Total + p.Limit - 1) / p.Limit
}

// lastOffset is the offset of the final page.
func (p PageState) lastOffset() int {
	return (p.Pages() - 1) * p.Limit
}
