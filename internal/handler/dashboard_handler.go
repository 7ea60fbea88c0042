package handler

import (
	"gadget-prima-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboard service.DashboardService
}

func NewDashboardHandler(dashboard service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// GetStats handles GET /api/v1/dashboard/stats
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.dashboard.GetStats()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(stats)
}

// GetRevenueSeries handles GET /api/v1/dashboard/revenue-series
func (h *DashboardHandler) GetRevenueSeries(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	if days < 1 || days > 365 {
		return c.Status(400).JSON(fiber.Map{"error": "days must be between 1 and 365"})
	}

	series, err := h.dashboard.GetRevenueSeries(days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(series)
}

// GetHourlyRevenue handles GET /api/v1/dashboard/hourly
func (h *DashboardHandler) GetHourlyRevenue(c *fiber.Ctx) error {
	series, err := h.dashboard.GetHourlyRevenue()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(series)
}

// GetBestSellers handles GET /api/v1/dashboard/best-sellers
func (h *DashboardHandler) GetBestSellers(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	limit := c.QueryInt("limit", 5)

	sellers, err := h.dashboard.GetBestSellers(days, limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(sellers)
}

// GetCategoryRevenue handles GET /api/v1/dashboard/category-revenue
func (h *DashboardHandler) GetCategoryRevenue(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)

	breakdown, err := h.dashboard.GetCategoryRevenue(days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(breakdown)
}

// GetPaymentBreakdown handles GET /api/v1/dashboard/payment-breakdown
func (h *DashboardHandler) GetPaymentBreakdown(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)

	breakdown, err := h.dashboard.GetPaymentBreakdown(days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(breakdown)
}

// GetRecentTransactions handles GET /api/v1/dashboard/recent-transactions
func (h *DashboardHandler) GetRecentTransactions(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)

	transactions, err := h.dashboard.GetRecentTransactions(limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(transactions)
}
