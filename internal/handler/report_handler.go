package handler

import (
	"bytes"
	"fmt"
	"time"

	"gadget-prima-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	reports service.ReportService
}

func NewReportHandler(reports service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// dateRange reads start_date/end_date query params, defaulting to the
// current month.
func dateRange(c *fiber.Ctx) (string, string) {
	now := time.Now()
	start := c.Query("start_date", time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02"))
	end := c.Query("end_date", now.Format("2006-01-02"))
	return start, end
}

// GetSummary handles GET /api/v1/reports/summary
func (h *ReportHandler) GetSummary(c *fiber.Ctx) error {
	start, end := dateRange(c)

	summary, err := h.reports.Summary(start, end)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(summary)
}

// ExportCSV handles GET /api/v1/reports/export and serves the filtered
// transaction list as a download.
func (h *ReportHandler) ExportCSV(c *fiber.Ctx) error {
	start, end := dateRange(c)

	var buf bytes.Buffer
	if err := h.reports.ExportCSV(&buf, start, end); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	filename := fmt.Sprintf("laporan-penjualan-%s-%s.csv", start, end)
	c.Set("Content-Type", "text/csv; charset=utf-8")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}
