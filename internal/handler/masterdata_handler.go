package handler

import (
	"strings"

	"gadget-prima-pos/internal/model"
	"gadget-prima-pos/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// MasterdataHandler serves the category and brand master data behind
// the product form. Plain CRUD, thin enough to sit on the repositories.
type MasterdataHandler struct {
	categories repository.CategoryRepository
	brands     repository.BrandRepository
}

func NewMasterdataHandler(categories repository.CategoryRepository, brands repository.BrandRepository) *MasterdataHandler {
	return &MasterdataHandler{categories: categories, brands: brands}
}

type CategoryRequest struct {
	Name      string `json:"name"`
	SKUPrefix string `json:"sku_prefix"`
}

func (h *MasterdataHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.categories.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(categories)
}

func (h *MasterdataHandler) CreateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	req.Name = strings.TrimSpace(req.Name)
	req.SKUPrefix = strings.ToUpper(strings.TrimSpace(req.SKUPrefix))
	if req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Name is required"})
	}

	category := &model.Category{Name: req.Name, SKUPrefix: req.SKUPrefix}
	category.CreatedBy = getUserID(c)
	category.UpdatedBy = getUserID(c)

	if err := h.categories.Create(category); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Category created", "data": category})
}

func (h *MasterdataHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid category ID"})
	}

	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	category, err := h.categories.FindByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Category not found"})
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		category.Name = name
	}
	if prefix := strings.ToUpper(strings.TrimSpace(req.SKUPrefix)); prefix != "" {
		category.SKUPrefix = prefix
	}
	category.UpdatedBy = getUserID(c)

	if err := h.categories.Update(category); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Category updated", "data": category})
}

func (h *MasterdataHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid category ID"})
	}

	if _, err := h.categories.FindByID(id); err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Category not found"})
	}
	if err := h.categories.Delete(id); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Category deleted"})
}

type BrandRequest struct {
	Name string `json:"name"`
}

func (h *MasterdataHandler) GetBrands(c *fiber.Ctx) error {
	brands, err := h.brands.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(brands)
}

func (h *MasterdataHandler) CreateBrand(c *fiber.Ctx) error {
	var req BrandRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Name is required"})
	}

	brand := &model.Brand{Name: req.Name}
	brand.CreatedBy = getUserID(c)
	brand.UpdatedBy = getUserID(c)

	if err := h.brands.Create(brand); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Brand created", "data": brand})
}

func (h *MasterdataHandler) UpdateBrand(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid brand ID"})
	}

	var req BrandRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	brand, err := h.brands.FindByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Brand not found"})
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		brand.Name = name
	}
	brand.UpdatedBy = getUserID(c)

	if err := h.brands.Update(brand); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Brand updated", "data": brand})
}

func (h *MasterdataHandler) DeleteBrand(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid brand ID"})
	}

	if _, err := h.brands.FindByID(id); err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Brand not found"})
	}
	if err := h.brands.Delete(id); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Brand deleted"})
}
