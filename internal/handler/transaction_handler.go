package handler

import (
	"errors"

	"gadget-prima-pos/internal/checkout"
	"gadget-prima-pos/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type TransactionHandler struct {
	transactions repository.TransactionRepository
	checkout     checkout.Service
}

func NewTransactionHandler(transactions repository.TransactionRepository, svc checkout.Service) *TransactionHandler {
	return &TransactionHandler{transactions: transactions, checkout: svc}
}

// GetTransactions handles GET /api/v1/transactions
func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	transactions, err := h.transactions.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(transactions)
}

// GetTransaction handles GET /api/v1/transactions/:id. QRIS clients
// poll this until status leaves pending.
func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	txID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	transaction, err := h.transactions.FindByID(txID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Transaction not found"})
	}
	return c.JSON(transaction)
}

// CancelTransaction handles POST /api/v1/transactions/:id/cancel.
// Only pending transactions can be cancelled; their stock is restored.
func (h *TransactionHandler) CancelTransaction(c *fiber.Ctx) error {
	txID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	transaction, err := h.checkout.CancelTransaction(txID, getUserName(c))
	if err != nil {
		if errors.Is(err, checkout.ErrNotPending) {
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(404).JSON(fiber.Map{"error": "Transaction not found"})
	}

	return c.JSON(fiber.Map{"message": "Transaction cancelled", "data": transaction})
}
