package handler

import (
	"crypto/subtle"
	"errors"

	"gadget-prima-pos/internal/checkout"
	"gadget-prima-pos/internal/config"

	"github.com/gofiber/fiber/v2"
)

type CheckoutHandler struct {
	checkout checkout.Service
	cfg      config.CheckoutConfig
}

func NewCheckoutHandler(svc checkout.Service, cfg config.CheckoutConfig) *CheckoutHandler {
	return &CheckoutHandler{checkout: svc, cfg: cfg}
}

func (h *CheckoutHandler) actor(c *fiber.Ctx) checkout.Actor {
	return checkout.Actor{
		ID:    getUserID(c),
		Name:  getUserName(c),
		Email: getUserEmail(c),
	}
}

func cartError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, checkout.ErrSessionNotFound):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, checkout.ErrInsufficientStock):
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, checkout.ErrLineNotFound):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
}

// StartSession handles POST /api/v1/checkout/sessions
func (h *CheckoutHandler) StartSession(c *fiber.Ctx) error {
	cart := h.checkout.StartSession()
	return c.Status(201).JSON(cart)
}

// GetCart handles GET /api/v1/checkout/sessions/:id
func (h *CheckoutHandler) GetCart(c *fiber.Ctx) error {
	cart, err := h.checkout.GetCart(c.Params("id"))
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(cart)
}

type AddItemRequest struct {
	ProductID string `json:"product_id"`
}

// AddItem handles POST /api/v1/checkout/sessions/:id/items.
// Adding a product already in the cart increments its quantity.
func (h *CheckoutHandler) AddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	productID, err := parseUUID(req.ProductID)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product_id"})
	}

	cart, err := h.checkout.AddItem(c.Params("id"), productID)
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(cart)
}

type UpdateQuantityRequest struct {
	Delta int `json:"delta"`
}

// UpdateQuantity handles PATCH /api/v1/checkout/sessions/:id/items/:productId.
// Delta is signed; dropping to zero or below removes the line.
func (h *CheckoutHandler) UpdateQuantity(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("productId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req UpdateQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.Delta == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Delta must be non-zero"})
	}

	cart, err := h.checkout.UpdateQuantity(c.Params("id"), productID, req.Delta)
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(cart)
}

// RemoveItem handles DELETE /api/v1/checkout/sessions/:id/items/:productId
func (h *CheckoutHandler) RemoveItem(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("productId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	cart, err := h.checkout.RemoveItem(c.Params("id"), productID)
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(cart)
}

// ClearCart handles DELETE /api/v1/checkout/sessions/:id
func (h *CheckoutHandler) ClearCart(c *fiber.Ctx) error {
	cart, err := h.checkout.ClearCart(c.Params("id"))
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(cart)
}

type PayRequest struct {
	Method     string `json:"method"` // cash or card
	AmountPaid int64  `json:"amount_paid"`
}

// Pay handles POST /api/v1/checkout/sessions/:id/pay for the
// immediately-settled methods. QRIS goes through PayQRIS instead.
func (h *CheckoutHandler) Pay(c *fiber.Ctx) error {
	var req PayRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	actor := h.actor(c)
	sessionID := c.Params("id")

	switch req.Method {
	case "cash":
		transaction, err := h.checkout.PayCash(sessionID, req.AmountPaid, actor)
		if err != nil {
			if errors.Is(err, checkout.ErrInsufficientPayment) {
				return c.Status(422).JSON(fiber.Map{"error": err.Error()})
			}
			return cartError(c, err)
		}
		return c.Status(201).JSON(fiber.Map{"message": "Payment recorded", "data": transaction})
	case "card":
		transaction, err := h.checkout.PayCard(sessionID, actor)
		if err != nil {
			return cartError(c, err)
		}
		return c.Status(201).JSON(fiber.Map{"message": "Payment recorded", "data": transaction})
	default:
		return c.Status(400).JSON(fiber.Map{"error": "Method must be cash or card"})
	}
}

// PayQRIS handles POST /api/v1/checkout/sessions/:id/pay/qris. The
// transaction is created pending; the client polls it while the
// customer scans.
func (h *CheckoutHandler) PayQRIS(c *fiber.Ctx) error {
	transaction, err := h.checkout.PayQRIS(c.Params("id"), h.actor(c))
	if err != nil {
		return cartError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Awaiting payment", "data": transaction})
}

type QRISCallbackRequest struct {
	PaymentRef string `json:"payment_ref"`
	Status     string `json:"status"`
}

// QRISCallback handles POST /api/v1/payments/qris/callback. The
// gateway authenticates with a shared secret header instead of a JWT.
func (h *CheckoutHandler) QRISCallback(c *fiber.Ctx) error {
	secret := c.Get("X-Gateway-Secret")
	if h.cfg.GatewaySecret == "" ||
		subtle.ConstantTimeCompare([]byte(secret), []byte(h.cfg.GatewaySecret)) != 1 {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid gateway secret"})
	}

	var req QRISCallbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.PaymentRef == "" {
		return c.Status(400).JSON(fiber.Map{"error": "payment_ref is required"})
	}
	if req.Status != "" && req.Status != "paid" {
		return c.Status(400).JSON(fiber.Map{"error": "Unsupported status"})
	}

	transaction, err := h.checkout.ConfirmQRIS(req.PaymentRef)
	if err != nil {
		if errors.Is(err, checkout.ErrNotPending) {
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(404).JSON(fiber.Map{"error": "Unknown payment reference"})
	}

	return c.JSON(fiber.Map{"message": "Payment confirmed", "data": transaction})
}
