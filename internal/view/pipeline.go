// Package view derives the visible page of the catalog from the product
// collection and the user's search and pagination controls.
package view

import (
	"sort"
	"strings"

	"inventory-dashboard/internal/model"
)

// Query holds the inputs of one derivation.
type Query struct {
	Search   string
	Page     int
	PageSize int
}

// Page is the derived, read-only projection that gets rendered.
type Page struct {
	Items      []model.Product `json:"items"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
	TotalItems int             `json:"total_items"`
}

// Filter keeps products whose name contains search, ignoring case.
func Filter(products []model.Product, search string) []model.Product {
	needle := strings.ToLower(search)
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if needle == "" || strings.Contains(strings.ToLower(p.Name), needle) {
			out = append(out, p)
		}
	}
	return out
}

// SortNewestFirst orders by CreatedAt descending in place. Equal timestamps
// keep their input order.
func SortNewestFirst(products []model.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
}

// TotalPages is max(1, ceil(count / pageSize)).
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := (count + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// Paginate slices the 1-based page out of products. A page past the end
// yields an empty slice.
func Paginate(products []model.Product, page, pageSize int) []model.Product {
	if page < 1 || pageSize <= 0 {
		return []model.Product{}
	}
	start := (page - 1) * pageSize
	if start >= len(products) {
		return []model.Product{}
	}
	end := start + pageSize
	if end > len(products) {
		end = len(products)
	}
	return products[start:end]
}

// Derive runs filter, sort and paginate. The page is used as given; callers
// that own a current page should go through State so it gets clamped.
func Derive(products []model.Product, q Query) Page {
	filtered := Filter(products, q.Search)
	SortNewestFirst(filtered)
	return Page{
		Items:      Paginate(filtered, q.Page, q.PageSize),
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: TotalPages(len(filtered), q.PageSize),
		TotalItems: len(filtered),
	}
}
