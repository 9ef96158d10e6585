package handler

import (
	"errors"
	"strings"

	"inventory-dashboard/internal/assist"
	"inventory-dashboard/internal/form"
	"inventory-dashboard/internal/service"
	"inventory-dashboard/internal/session"
	"inventory-dashboard/internal/view"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type InventoryHandler struct {
	service         service.InventoryService
	describer       assist.Describer
	defaultPageSize int
}

func NewInventoryHandler(s service.InventoryService, d assist.Describer, defaultPageSize int) *InventoryHandler {
	return &InventoryHandler{
		service:         s,
		describer:       d,
		defaultPageSize: view.NormalizePageSize(defaultPageSize, view.DefaultPageSize),
	}
}

type describeRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// GetProducts returns one derived page of the catalog
// GET /api/v1/products?search=&page=&per_page=
func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	page := h.service.QueryProducts(view.Query{
		Search:   c.Query("search"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("per_page", h.defaultPageSize),
	})

	return c.JSON(fiber.Map{
		"data":        page.Items,
		"page":        page.Page,
		"per_page":    page.PageSize,
		"total_pages": page.TotalPages,
		"total_items": page.TotalItems,
	})
}

// GET /api/v1/products/:id
func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.service.GetProduct(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
	}
	return c.JSON(product)
}

// POST /api/v1/products
func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	f := form.NewCreate()
	if err := c.BodyParser(&f.Draft); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.Submit(f)
	if err != nil {
		return h.submitError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": service.MsgProductCreated, "data": product})
}

// UpdateProduct replaces every editable field of a product
// PUT /api/v1/products/:id
func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	existing, err := h.service.GetProduct(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
	}

	f := form.NewEdit(existing)
	f.Draft = form.Draft{}
	if err := c.BodyParser(&f.Draft); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.Submit(f)
	if err != nil {
		return h.submitError(c, err)
	}
	return c.JSON(fiber.Map{"message": service.MsgProductUpdated, "data": product})
}

// DeleteProduct always answers 204; deleting an unknown id changes nothing
// DELETE /api/v1/products/:id
func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	h.service.DeleteProduct(id)
	return c.SendStatus(fiber.StatusNoContent)
}

// DescribeProduct asks for a marketing description. It never fails once
// name and category are present.
// POST /api/v1/products/describe
func (h *InventoryHandler) DescribeProduct(c *fiber.Ctx) error {
	var req describeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Category) == "" {
		return c.Status(400).JSON(fiber.Map{"error": session.MsgAssistNeedsInput})
	}

	description := h.describer.Describe(c.UserContext(), req.Name, req.Category)
	return c.JSON(fiber.Map{"description": description})
}

// GET /api/v1/categories
func (h *InventoryHandler) GetCategories(c *fiber.Ctx) error {
	return c.JSON(h.service.Categories().Names())
}

func (h *InventoryHandler) submitError(c *fiber.Ctx, err error) error {
	var verrs form.Errors
	switch {
	case errors.As(err, &verrs):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": verrs,
		})
	case errors.Is(err, service.ErrProductNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
	default:
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
}
