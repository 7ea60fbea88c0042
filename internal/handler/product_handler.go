package handler

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"gadget-prima-pos/internal/config"
	"gadget-prima-pos/internal/model"
	"gadget-prima-pos/internal/pricing"
	"gadget-prima-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	catalog service.CatalogService
	upload  config.UploadConfig
}

func NewProductHandler(catalog service.CatalogService, upload config.UploadConfig) *ProductHandler {
	return &ProductHandler{catalog: catalog, upload: upload}
}

// ProductForm is the create/update payload. It parses from JSON and
// from multipart/form-data (the image upload path).
type ProductForm struct {
	SKU         string `json:"sku" form:"sku"`
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	CategoryID  string `json:"category_id" form:"category_id"`
	BrandID     string `json:"brand_id" form:"brand_id"`
	Price       int64  `json:"price" form:"price"`
	BuyPrice    int64  `json:"buy_price" form:"buy_price"`
	Stock       int    `json:"stock" form:"stock"`
	MinStock    int    `json:"min_stock" form:"min_stock"`
	Unit        string `json:"unit" form:"unit"`
}

func (f *ProductForm) toModel() (*model.Product, error) {
	product := &model.Product{
		SKU:         strings.TrimSpace(f.SKU),
		Name:        strings.TrimSpace(f.Name),
		Description: f.Description,
		Price:       f.Price,
		BuyPrice:    f.BuyPrice,
		Stock:       f.Stock,
		MinStock:    f.MinStock,
		Unit:        f.Unit,
	}
	if f.CategoryID != "" {
		id, err := uuid.Parse(f.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("invalid category_id")
		}
		product.CategoryID = &id
	}
	if f.BrandID != "" {
		id, err := uuid.Parse(f.BrandID)
		if err != nil {
			return nil, fmt.Errorf("invalid brand_id")
		}
		product.BrandID = &id
	}
	return product, nil
}

// saveImage stores the uploaded file under the upload dir with a
// random name and returns the public URL path.
func (h *ProductHandler) saveImage(c *fiber.Ctx, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return "", fmt.Errorf("unsupported image type %s", ext)
	}

	name := uuid.New().String() + ext
	if err := c.SaveFile(file, filepath.Join(h.upload.Dir, name)); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}

// CreateProduct handles POST /api/v1/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var form ProductForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	product, err := form.toModel()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	if file, err := c.FormFile("image"); err == nil && file != nil {
		url, err := h.saveImage(c, file)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		product.ImageURL = url
	}

	if err := h.catalog.CreateProduct(product, getUserID(c), getUserName(c)); err != nil {
		if err == service.ErrSKUExists {
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

// UpdateProduct handles PUT /api/v1/products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var form ProductForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	product, err := form.toModel()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	if file, err := c.FormFile("image"); err == nil && file != nil {
		url, err := h.saveImage(c, file)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		product.ImageURL = url
	}

	updated, err := h.catalog.UpdateProduct(productID, product, getUserID(c), getUserName(c))
	if err != nil {
		switch err {
		case service.ErrProductNotFound:
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case service.ErrSKUExists:
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

// DeleteProduct handles DELETE /api/v1/products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.catalog.DeleteProduct(productID); err != nil {
		if err == service.ErrProductNotFound {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// GetProducts handles GET /api/v1/products
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.catalog.GetAllProducts()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(products)
}

// GetProduct handles GET /api/v1/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.catalog.GetProduct(productID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
	}
	return c.JSON(product)
}

// GetStockHistory handles GET /api/v1/products/:id/history
func (h *ProductHandler) GetStockHistory(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	history, err := h.catalog.GetStockHistory(productID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(history)
}

// GenerateSKU handles GET /api/v1/products/generate-sku?category_id=...
// The prefix follows the category; without one the generic prefix is used.
func (h *ProductHandler) GenerateSKU(c *fiber.Ctx) error {
	var categoryID *uuid.UUID
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid category_id"})
		}
		categoryID = &id
	}

	sku, err := h.catalog.GenerateSKU(categoryID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"sku": sku})
}

// PriceFromMargin handles GET /api/v1/products/price-from-margin.
// The product form uses it to derive a sell price from buy price and
// target margin.
func (h *ProductHandler) PriceFromMargin(c *fiber.Ctx) error {
	buyPrice, err := strconv.ParseInt(c.Query("buy_price"), 10, 64)
	if err != nil || buyPrice < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid buy_price"})
	}
	margin, err := decimal.NewFromString(c.Query("margin"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid margin"})
	}

	price, err := pricing.PriceFromMargin(buyPrice, margin)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"buy_price":      buyPrice,
		"margin_percent": margin,
		"price":          price,
	})
}
