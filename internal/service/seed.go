package service

import (
	"fmt"
	"strconv"
	"time"

	"inventory-dashboard/internal/form"
	"inventory-dashboard/internal/model"
	"inventory-dashboard/internal/repository"
)

// SeedCatalog loads the initial products into repo. Every entry goes
// through the same checks as the product form; if any entry fails, nothing
// is inserted.
func SeedCatalog(repo repository.ProductRepository, seeds []model.SeedProduct, categories model.Categories, now time.Time) (int, error) {
	products := make([]model.Product, 0, len(seeds))
	for _, s := range seeds {
		draft := form.Draft{
			Name:        form.Field(s.Name),
			Price:       form.Field(s.Price),
			Category:    form.Field(s.Category),
			Stock:       form.Field(strconv.Itoa(s.Stock)),
			Description: form.Field(s.Description),
		}
		input, errs := draft.Validate(categories)
		if errs != nil {
			return 0, fmt.Errorf("seed %q: %w", s.Name, errs)
		}
		products = append(products, model.NewProduct(input, now.Add(-s.Age)))
	}

	for _, p := range products {
		repo.Insert(p)
	}
	return len(products), nil
}
