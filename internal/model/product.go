package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LowStockThreshold marks products that are running out
const LowStockThreshold = 10

type Product struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ProductInput is a validated set of editable fields, used both for
// creating a product and as the full-field patch of an edit.
type ProductInput struct {
	Name        string
	Price       decimal.Decimal
	Category    string
	Stock       int
	Description string
}

// NewProduct builds a fresh record from validated input. The caller owns
// the timestamp so that stores can keep creation order monotonic.
func NewProduct(in ProductInput, createdAt time.Time) Product {
	p := Product{
		ID:        uuid.New(),
		CreatedAt: createdAt,
	}
	p.Apply(in)
	return p
}

// Apply overwrites every editable field. ID and CreatedAt are left alone.
func (p *Product) Apply(in ProductInput) {
	p.Name = in.Name
	p.Price = in.Price
	p.Category = in.Category
	p.Stock = in.Stock
	p.Description = in.Description
}

// Input returns the editable fields of p.
func (p Product) Input() ProductInput {
	return ProductInput{
		Name:        p.Name,
		Price:       p.Price,
		Category:    p.Category,
		Stock:       p.Stock,
		Description: p.Description,
	}
}

func (p Product) IsLowStock() bool {
	return p.Stock < LowStockThreshold
}

// DisplayPrice renders the price with two decimals, e.g. "$999.99".
func (p Product) DisplayPrice() string {
	return "$" + p.Price.StringFixed(2)
}
