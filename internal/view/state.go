package view

import "inventory-dashboard/internal/model"

// Layout selects how a page of products is rendered
type Layout string

const (
	LayoutList Layout = "list"
	LayoutGrid Layout = "grid"
)

func ParseLayout(s string) (Layout, bool) {
	switch Layout(s) {
	case LayoutList, LayoutGrid:
		return Layout(s), true
	}
	return "", false
}

// PageSizes are the page sizes a user can pick
var PageSizes = []int{5, 10, 20}

const DefaultPageSize = 10

// NormalizePageSize maps anything outside PageSizes to fallback.
func NormalizePageSize(n, fallback int) int {
	for _, s := range PageSizes {
		if n == s {
			return n
		}
	}
	return fallback
}

// State is the ephemeral view state of one dashboard.
//
// The current page is re-clamped on every Derive, so it never points past
// the last page after a delete or a narrower search.
type State struct {
	RawSearch string `json:"raw_search"`
	Search    string `json:"search"`
	Page      int    `json:"page"`
	PageSize  int    `json:"page_size"`
	Layout    Layout `json:"layout"`
}

func NewState(pageSize int) State {
	return State{
		Page:     1,
		PageSize: NormalizePageSize(pageSize, DefaultPageSize),
		Layout:   LayoutList,
	}
}

// SetRawSearch records what the user typed. Any change to the text goes
// back to page 1 at once; the filter itself waits for SetSearch. It reports
// whether the page moved.
func (s *State) SetRawSearch(raw string) bool {
	if raw == s.RawSearch {
		return false
	}
	s.RawSearch = raw
	if s.Page == 1 {
		return false
	}
	s.Page = 1
	return true
}

// SetSearch applies the debounced search text. A new query starts at page 1.
func (s *State) SetSearch(search string) {
	if search != s.Search {
		s.Page = 1
	}
	s.Search = search
}

// SetPageSize changes the page size and goes back to page 1.
func (s *State) SetPageSize(n int) {
	s.PageSize = NormalizePageSize(n, DefaultPageSize)
	s.Page = 1
}

func (s *State) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	s.Page = n
}

func (s *State) SetLayout(l Layout) {
	if _, ok := ParseLayout(string(l)); ok {
		s.Layout = l
	}
}

// Derive computes the visible page and clamps the stored page to the new
// page count before slicing.
func (s *State) Derive(products []model.Product) Page {
	if s.Page < 1 {
		s.Page = 1
	}
	if s.PageSize <= 0 {
		s.PageSize = DefaultPageSize
	}
	filtered := Filter(products, s.Search)
	total := TotalPages(len(filtered), s.PageSize)
	if s.Page > total {
		s.Page = total
	}
	SortNewestFirst(filtered)
	return Page{
		Items:      Paginate(filtered, s.Page, s.PageSize),
		Page:       s.Page,
		PageSize:   s.PageSize,
		TotalPages: total,
		TotalItems: len(filtered),
	}
}
