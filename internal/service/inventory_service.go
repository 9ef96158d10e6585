package service

import (
	"errors"
	"fmt"

	"inventory-dashboard/internal/form"
	"inventory-dashboard/internal/model"
	"inventory-dashboard/internal/repository"
	"inventory-dashboard/internal/view"
	"inventory-dashboard/internal/ws"

	"github.com/google/uuid"
)

var ErrProductNotFound = errors.New("product not found")

// Toast texts shown after a successful mutation
const (
	MsgProductCreated = "Added successfully."
	MsgProductUpdated = "Product updated."
	MsgProductDeleted = "Product removed from list."
)

type InventoryService interface {
	Categories() model.Categories
	GetAllProducts() []model.Product
	GetProduct(id uuid.UUID) (model.Product, error)
	QueryProducts(q view.Query) view.Page
	Submit(f *form.Form) (model.Product, error)
	DeleteProduct(id uuid.UUID) bool
}

type inventoryService struct {
	productRepo repository.ProductRepository
	categories  model.Categories
	wsHub       *ws.Hub
}

func NewInventoryService(pRepo repository.ProductRepository, categories model.Categories, hub *ws.Hub) InventoryService {
	return &inventoryService{
		productRepo: pRepo,
		categories:  categories,
		wsHub:       hub,
	}
}

func (s *inventoryService) Categories() model.Categories {
	return s.categories
}

func (s *inventoryService) GetAllProducts() []model.Product {
	return s.productRepo.FindAll()
}

func (s *inventoryService) GetProduct(id uuid.UUID) (model.Product, error) {
	p, ok := s.productRepo.FindByID(id)
	if !ok {
		return model.Product{}, ErrProductNotFound
	}
	return p, nil
}

// QueryProducts derives one page without any remembered state. The page
// is clamped into range so a stale page number still shows data.
func (s *inventoryService) QueryProducts(q view.Query) view.Page {
	state := view.NewState(q.PageSize)
	state.SetSearch(q.Search)
	state.SetPage(q.Page)
	return state.Derive(s.productRepo.FindAll())
}

// Submit validates the form and creates or edits the product it targets.
// Validation failures come back as form.Errors.
func (s *inventoryService) Submit(f *form.Form) (model.Product, error) {
	input, err := f.Submit(s.categories)
	if err != nil {
		return model.Product{}, err
	}

	if !f.IsEdit() {
		product := s.productRepo.Create(input)
		s.wsHub.Publish(model.NewCatalogEvent(model.ActionProductCreated, product, MsgProductCreated))
		return product, nil
	}

	product, ok := s.productRepo.Update(f.Target, input)
	if !ok {
		return model.Product{}, fmt.Errorf("update %s: %w", f.Target, ErrProductNotFound)
	}
	s.wsHub.Publish(model.NewCatalogEvent(model.ActionProductUpdated, product, MsgProductUpdated))
	return product, nil
}

// DeleteProduct removes the product for good. Deleting an unknown id is
// not an error; the result only says whether anything was removed.
func (s *inventoryService) DeleteProduct(id uuid.UUID) bool {
	product, ok := s.productRepo.Delete(id)
	if ok {
		s.wsHub.Publish(model.NewCatalogEvent(model.ActionProductDeleted, product, MsgProductDeleted))
	}
	return ok
}
