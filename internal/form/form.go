// Package form holds a product draft as the user types it and turns it
// into a validated create payload or edit patch.
package form

import (
	"errors"
	"strconv"
	"strings"

	"inventory-dashboard/internal/model"
	"inventory-dashboard/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Field names, as used in error maps and field updates
const (
	FieldName        = "name"
	FieldPrice       = "price"
	FieldCategory    = "category"
	FieldStock       = "stock"
	FieldDescription = "description"
)

const (
	MsgNameRequired     = "Product name is required"
	MsgPricePositive    = "Price must be a positive number"
	MsgCategoryRequired = "Category is required"
	MsgCategoryUnknown  = "Category is not recognised"
	MsgStockWhole       = "Stock must be a whole number"
	MsgStockNegative    = "Stock cannot be negative"
)

var ErrUnknownField = errors.New("unknown form field")

// Errors maps a field name to the message shown next to it.
type Errors map[string]string

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, f := range []string{FieldName, FieldPrice, FieldCategory, FieldStock} {
		if msg, ok := e[f]; ok {
			parts = append(parts, f+": "+msg)
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Draft is the editable text of the product form.
type Draft struct {
	Name        Field `json:"name"`
	Price       Field `json:"price"`
	Category    Field `json:"category"`
	Stock       Field `json:"stock"`
	Description Field `json:"description"`
}

// FromProduct pre-fills a draft with an existing product.
func FromProduct(p model.Product) Draft {
	return Draft{
		Name:        Field(p.Name),
		Price:       Field(p.Price.String()),
		Category:    Field(p.Category),
		Stock:       Field(strconv.Itoa(p.Stock)),
		Description: Field(p.Description),
	}
}

// Set updates one field by name.
func (d *Draft) Set(field, value string) error {
	switch field {
	case FieldName:
		d.Name = Field(value)
	case FieldPrice:
		d.Price = Field(value)
	case FieldCategory:
		d.Category = Field(value)
	case FieldStock:
		d.Stock = Field(value)
	case FieldDescription:
		d.Description = Field(value)
	default:
		return ErrUnknownField
	}
	return nil
}

// candidate is the typed shape of a draft that validator checks
type candidate struct {
	Name     string          `json:"name" validate:"notblank"`
	Price    decimal.Decimal `json:"price" validate:"decimal_gt0"`
	Category string          `json:"category" validate:"required"`
	Stock    int             `json:"stock" validate:"gte=0"`
}

var messages = map[string]string{
	FieldName:     MsgNameRequired,
	FieldPrice:    MsgPricePositive,
	FieldCategory: MsgCategoryRequired,
	FieldStock:    MsgStockNegative,
}

// Validate runs all four checks and returns every failing field. The
// result is nil when the draft is valid.
func (d Draft) Validate(categories model.Categories) (model.ProductInput, Errors) {
	errs := Errors{}
	c := candidate{
		Name:     string(d.Name),
		Category: string(d.Category),
	}

	price, err := decimal.NewFromString(strings.TrimSpace(string(d.Price)))
	if err != nil {
		errs[FieldPrice] = MsgPricePositive
	}
	c.Price = price

	stock, err := strconv.Atoi(strings.TrimSpace(string(d.Stock)))
	if err != nil {
		errs[FieldStock] = MsgStockWhole
	}
	c.Stock = stock

	for _, fe := range validator.ValidateStruct(&c) {
		if _, seen := errs[fe.FailedField]; seen {
			continue
		}
		errs[fe.FailedField] = messages[fe.FailedField]
	}

	if _, seen := errs[FieldCategory]; !seen && categories.Len() > 0 && !categories.Contains(c.Category) {
		errs[FieldCategory] = MsgCategoryUnknown
	}

	if len(errs) > 0 {
		return model.ProductInput{}, errs
	}
	return model.ProductInput{
		Name:        c.Name,
		Price:       c.Price,
		Category:    c.Category,
		Stock:       c.Stock,
		Description: string(d.Description),
	}, nil
}

// Form is an open create or edit dialog. Target is uuid.Nil when creating.
type Form struct {
	Token  uuid.UUID `json:"token"`
	Target uuid.UUID `json:"target,omitempty"`
	Draft  Draft     `json:"draft"`
	Errors Errors    `json:"errors,omitempty"`
}

func NewCreate() *Form {
	return &Form{Token: uuid.New()}
}

func NewEdit(p model.Product) *Form {
	return &Form{Token: uuid.New(), Target: p.ID, Draft: FromProduct(p)}
}

func (f *Form) IsEdit() bool {
	return f.Target != uuid.Nil
}

// SetField updates a field and clears its error, as typing into a flagged
// input does.
func (f *Form) SetField(field, value string) error {
	if err := f.Draft.Set(field, value); err != nil {
		return err
	}
	delete(f.Errors, field)
	return nil
}

// Submit validates the draft. On failure the errors are kept on the form
// and returned.
func (f *Form) Submit(categories model.Categories) (model.ProductInput, error) {
	input, errs := f.Draft.Validate(categories)
	if errs != nil {
		f.Errors = errs
		return model.ProductInput{}, errs
	}
	f.Errors = nil
	return input, nil
}

// CanAssist reports whether the draft has enough to ask for a description.
func (f *Form) CanAssist() bool {
	return strings.TrimSpace(string(f.Draft.Name)) != "" && strings.TrimSpace(string(f.Draft.Category)) != ""
}
