package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"inventory-dashboard/internal/model"
	"inventory-dashboard/internal/repository"
	"inventory-dashboard/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDescriber struct {
	calls int
}

func (d *stubDescriber) Describe(_ context.Context, name, category string) string {
	d.calls++
	return fmt.Sprintf("A fine %s from %s.", name, category)
}

type testAPI struct {
	app  *fiber.App
	repo repository.ProductRepository
	desc *stubDescriber
}

func newTestAPI(t *testing.T, products int) *testAPI {
	t.Helper()
	repo := repository.NewProductRepo()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < products; i++ {
		repo.Insert(model.NewProduct(model.ProductInput{
			Name:     fmt.Sprintf("Item %02d", i),
			Price:    decimal.NewFromInt(int64(i + 1)),
			Category: "Books",
			Stock:    i,
		}, base.Add(-time.Duration(i)*time.Hour)))
	}

	categories := model.NewCategories(model.DefaultCategories)
	svc := service.NewInventoryService(repo, categories, nil)
	desc := &stubDescriber{}

	inv := NewInventoryHandler(svc, desc, 10)
	dash := NewDashboardHandler(service.NewDashboardService(repo))

	app := fiber.New()
	api := app.Group("/api/v1")
	api.Get("/products", inv.GetProducts)
	api.Post("/products/describe", inv.DescribeProduct)
	api.Get("/products/:id", inv.GetProduct)
	api.Post("/products", inv.CreateProduct)
	api.Put("/products/:id", inv.UpdateProduct)
	api.Delete("/products/:id", inv.DeleteProduct)
	api.Get("/categories", inv.GetCategories)
	api.Get("/dashboard/stats", dash.GetDashboardStats)

	return &testAPI{app: app, repo: repo, desc: desc}
}

func (a *testAPI) do(t *testing.T, method, path, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := a.app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func TestGetProductsPaginates(t *testing.T) {
	api := newTestAPI(t, 25)

	resp, body := api.do(t, "GET", "/api/v1/products?page=3", "")
	assert.Equal(t, 200, resp.StatusCode)
	assert.EqualValues(t, 3, body["page"])
	assert.EqualValues(t, 10, body["per_page"])
	assert.EqualValues(t, 3, body["total_pages"])
	assert.EqualValues(t, 25, body["total_items"])
	assert.Len(t, body["data"], 5)
}

func TestGetProductsSearchClampsPage(t *testing.T) {
	api := newTestAPI(t, 25)

	resp, body := api.do(t, "GET", "/api/v1/products?search=item%202&page=3&per_page=5", "")
	assert.Equal(t, 200, resp.StatusCode)
	assert.EqualValues(t, 1, body["page"])
	assert.EqualValues(t, 5, body["per_page"])
	assert.EqualValues(t, 5, body["total_items"])
	assert.EqualValues(t, 1, body["total_pages"])
}

func TestGetProductsUnsupportedPageSize(t *testing.T) {
	api := newTestAPI(t, 3)

	_, body := api.do(t, "GET", "/api/v1/products?per_page=7", "")
	assert.EqualValues(t, 10, body["per_page"])
}

func TestGetProductsEmptyCatalog(t *testing.T) {
	api := newTestAPI(t, 0)

	_, body := api.do(t, "GET", "/api/v1/products", "")
	assert.EqualValues(t, 1, body["total_pages"])
	assert.Equal(t, []interface{}{}, body["data"])
}

func TestCreateProduct(t *testing.T) {
	api := newTestAPI(t, 0)

	resp, body := api.do(t, "POST", "/api/v1/products",
		`{"name":"Desk Lamp","price":39.5,"category":"Home & Kitchen","stock":"7"}`)
	require.Equal(t, 201, resp.StatusCode)
	assert.Equal(t, service.MsgProductCreated, body["message"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Desk Lamp", data["name"])
	assert.Len(t, api.repo.FindAll(), 1)
}

func TestCreateProductValidation(t *testing.T) {
	api := newTestAPI(t, 0)

	resp, body := api.do(t, "POST", "/api/v1/products",
		`{"name":"  ","price":"-1","category":"Garden","stock":"1.5"}`)
	require.Equal(t, 422, resp.StatusCode)
	assert.Equal(t, "Validation failed", body["error"])

	fields := body["fields"].(map[string]interface{})
	assert.Equal(t, "Product name is required", fields["name"])
	assert.Equal(t, "Price must be a positive number", fields["price"])
	assert.Equal(t, "Category is not recognised", fields["category"])
	assert.Equal(t, "Stock must be a whole number", fields["stock"])
	assert.Empty(t, api.repo.FindAll())
}

func TestCreateProductBadJSON(t *testing.T) {
	api := newTestAPI(t, 0)
	resp, _ := api.do(t, "POST", "/api/v1/products", `{"name":`)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestUpdateProduct(t *testing.T) {
	api := newTestAPI(t, 2)
	original := api.repo.FindAll()[1]

	resp, body := api.do(t, "PUT", "/api/v1/products/"+original.ID.String(),
		`{"name":"Renamed","price":"12.00","category":"Toys","stock":3,"description":"new"}`)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, service.MsgProductUpdated, body["message"])

	stored, ok := api.repo.FindByID(original.ID)
	require.True(t, ok)
	assert.Equal(t, "Renamed", stored.Name)
	assert.Equal(t, "Toys", stored.Category)
	assert.Equal(t, original.CreatedAt, stored.CreatedAt)
}

func TestUpdateProductUnknownID(t *testing.T) {
	api := newTestAPI(t, 1)
	resp, body := api.do(t, "PUT", "/api/v1/products/"+uuid.NewString(),
		`{"name":"x","price":"1","category":"Toys","stock":1}`)
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "Product not found", body["error"])
}

func TestProductBadID(t *testing.T) {
	api := newTestAPI(t, 1)
	for _, method := range []string{"GET", "PUT", "DELETE"} {
		resp, _ := api.do(t, method, "/api/v1/products/not-a-uuid", "")
		assert.Equal(t, 400, resp.StatusCode, method)
	}
}

func TestGetProduct(t *testing.T) {
	api := newTestAPI(t, 1)
	p := api.repo.FindAll()[0]

	resp, body := api.do(t, "GET", "/api/v1/products/"+p.ID.String(), "")
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, p.Name, body["name"])

	resp, _ = api.do(t, "GET", "/api/v1/products/"+uuid.NewString(), "")
	assert.Equal(t, 404, resp.StatusCode)
}

func TestDeleteProductIsIdempotent(t *testing.T) {
	api := newTestAPI(t, 2)
	p := api.repo.FindAll()[0]

	resp, _ := api.do(t, "DELETE", "/api/v1/products/"+p.ID.String(), "")
	assert.Equal(t, 204, resp.StatusCode)
	assert.Len(t, api.repo.FindAll(), 1)

	resp, _ = api.do(t, "DELETE", "/api/v1/products/"+p.ID.String(), "")
	assert.Equal(t, 204, resp.StatusCode)
	assert.Len(t, api.repo.FindAll(), 1)
}

func TestDescribeProduct(t *testing.T) {
	api := newTestAPI(t, 0)

	resp, body := api.do(t, "POST", "/api/v1/products/describe", `{"name":"Kite","category":"Toys"}`)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "A fine Kite from Toys.", body["description"])

	resp, _ = api.do(t, "POST", "/api/v1/products/describe", `{"name":"Kite","category":" "}`)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, 1, api.desc.calls)
}

func TestGetCategories(t *testing.T) {
	api := newTestAPI(t, 0)
	resp, err := api.app.Test(httptest.NewRequest("GET", "/api/v1/categories", nil))
	require.NoError(t, err)

	var names []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&names))
	assert.Equal(t, model.DefaultCategories, names)
}

func TestDashboardStats(t *testing.T) {
	api := newTestAPI(t, 3)

	// prices 1,2,3 with stock 0,1,2
	_, body := api.do(t, "GET", "/api/v1/dashboard/stats", "")
	assert.EqualValues(t, 3, body["total_products"])
	assert.EqualValues(t, 3, body["low_stock_count"])
	assert.Equal(t, "8", body["total_valuation"])
}
