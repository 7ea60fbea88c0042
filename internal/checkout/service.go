package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gadget-prima-pos/internal/config"
	"gadget-prima-pos/internal/model"
	"gadget-prima-pos/internal/pricing"
	"gadget-prima-pos/internal/repository"
	"gadget-prima-pos/internal/ws"
	"gadget-prima-pos/pkg/currency"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrInsufficientPayment = errors.New("amount paid is less than total")
	ErrNotPending          = errors.New("transaction is not pending")
)

// Actor identifies the cashier driving the register.
type Actor struct {
	ID    string
	Name  string
	Email string
}

// CartView is a cart snapshot with computed totals, the shape returned
// to the register after every mutation.
type CartView struct {
	ID            string              `json:"id"`
	Items         []Line              `json:"items"`
	PaymentMethod model.PaymentMethod `json:"payment_method"`
	Subtotal      int64               `json:"subtotal"`
	Tax           int64               `json:"tax"`
	Total         int64               `json:"total"`
}

type Service interface {
	StartSession() *CartView
	GetCart(sessionID string) (*CartView, error)
	AddItem(sessionID string, productID uuid.UUID) (*CartView, error)
	UpdateQuantity(sessionID string, productID uuid.UUID, delta int) (*CartView, error)
	RemoveItem(sessionID string, productID uuid.UUID) (*CartView, error)
	ClearCart(sessionID string) (*CartView, error)
	PayCash(sessionID string, amountPaid int64, actor Actor) (*model.Transaction, error)
	PayCard(sessionID string, actor Actor) (*model.Transaction, error)
	PayQRIS(sessionID string, actor Actor) (*model.Transaction, error)
	ConfirmQRIS(paymentRef string) (*model.Transaction, error)
	CancelTransaction(id uuid.UUID, actor string) (*model.Transaction, error)
	RunExpirer(ctx context.Context)
}

type service struct {
	db           *gorm.DB
	products     repository.ProductRepository
	transactions repository.TransactionRepository
	history      repository.StockHistoryRepository
	sessions     *SessionStore
	engine       *pricing.Engine
	hub          *ws.Hub
	log          *zap.Logger
	cfg          config.CheckoutConfig
}

func NewService(
	db *gorm.DB,
	products repository.ProductRepository,
	transactions repository.TransactionRepository,
	history repository.StockHistoryRepository,
	sessions *SessionStore,
	engine *pricing.Engine,
	hub *ws.Hub,
	log *zap.Logger,
	cfg config.CheckoutConfig,
) Service {
	return &service{
		db:           db,
		products:     products,
		transactions: transactions,
		history:      history,
		sessions:     sessions,
		engine:       engine,
		hub:          hub,
		log:          log,
		cfg:          cfg,
	}
}

func (s *service) StartSession() *CartView {
	cart := s.sessions.Start()
	return s.view(cart)
}

func (s *service) GetCart(sessionID string) (*CartView, error) {
	cart, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(cart), nil
}

func (s *service) AddItem(sessionID string, productID uuid.UUID) (*CartView, error) {
	cart, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	product, err := s.products.FindByID(productID)
	if err != nil {
		return nil, errors.New("product not found")
	}
	if err := cart.AddItem(product); err != nil {
		return nil, err
	}
	return s.view(cart), nil
}

func (s *service) UpdateQuantity(sessionID string, productID uuid.UUID, delta int) (*CartView, error) {
	cart, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	product, err := s.products.FindByID(productID)
	if err != nil {
		return nil, errors.New("product not found")
	}
	if err := cart.UpdateQuantity(productID, delta, product.Stock); err != nil {
		return nil, err
	}
	return s.view(cart), nil
}

func (s *service) RemoveItem(sessionID string, productID uuid.UUID) (*CartView, error) {
	cart, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	cart.RemoveItem(productID)
	return s.view(cart), nil
}

func (s *service) ClearCart(sessionID string) (*CartView, error) {
	cart, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	cart.Clear()
	return s.view(cart), nil
}

func (s *service) PayCash(sessionID string, amountPaid int64, actor Actor) (*model.Transaction, error) {
	cart, lines, err := s.prepare(sessionID)
	if err != nil {
		return nil, err
	}

	subtotal := sumSubtotals(lines)
	total := s.engine.Total(subtotal)
	if amountPaid < total {
		return nil, ErrInsufficientPayment
	}

	transaction := s.buildTransaction(lines, model.PaymentCash, model.StatusPaid, actor)
	transaction.AmountPaid = amountPaid
	transaction.Change = amountPaid - total
	now := time.Now()
	transaction.PaidAt = &now

	if err := s.commitSale(transaction, actor); err != nil {
		return nil, err
	}

	cart.Clear()
	s.announceSale(transaction, actor)
	return transaction, nil
}

func (s *service) PayCard(sessionID string, actor Actor) (*model.Transaction, error) {
	cart, lines, err := s.prepare(sessionID)
	if err != nil {
		return nil, err
	}

	transaction := s.buildTransaction(lines, model.PaymentCard, model.StatusPaid, actor)
	transaction.AmountPaid = transaction.Total
	now := time.Now()
	transaction.PaidAt = &now

	if err := s.commitSale(transaction, actor); err != nil {
		return nil, err
	}

	cart.Clear()
	s.announceSale(transaction, actor)
	return transaction, nil
}

// PayQRIS persists the sale as pending with a payment reference. Stock
// is reserved immediately and released again if the payment is
// cancelled or expires. The register polls the transaction until the
// gateway callback marks it paid.
func (s *service) PayQRIS(sessionID string, actor Actor) (*model.Transaction, error) {
	cart, lines, err := s.prepare(sessionID)
	if err != nil {
		return nil, err
	}

	transaction := s.buildTransaction(lines, model.PaymentQRIS, model.StatusPending, actor)
	ref := "QR-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:16])
	transaction.PaymentRef = &ref
	transaction.QRPayload = fmt.Sprintf("%s/%s", strings.TrimRight(s.cfg.QRISBaseURL, "/"), ref)

	if err := s.commitSale(transaction, actor); err != nil {
		return nil, err
	}

	cart.Clear()
	s.log.Info("qris payment initiated",
		zap.String("number", transaction.Number),
		zap.String("payment_ref", ref),
	)
	return transaction, nil
}

// ConfirmQRIS transitions a pending QRIS transaction to paid. It is
// idempotent: a repeated callback for an already-paid reference returns
// the transaction without side effects.
func (s *service) ConfirmQRIS(paymentRef string) (*model.Transaction, error) {
	existing, err := s.transactions.FindByPaymentRef(paymentRef)
	if err != nil {
		return nil, errors.New("unknown payment reference")
	}
	if existing.Status == model.StatusPaid {
		return existing, nil
	}
	if existing.Status != model.StatusPending {
		return nil, ErrNotPending
	}

	var confirmed *model.Transaction
	err = s.db.Transaction(func(tx *gorm.DB) error {
		transaction, err := s.transactions.FindByIDForUpdate(tx, existing.ID)
		if err != nil {
			return err
		}
		if transaction.Status == model.StatusPaid {
			confirmed = transaction
			return nil
		}
		if transaction.Status != model.StatusPending {
			return ErrNotPending
		}

		now := time.Now()
		transaction.Status = model.StatusPaid
		transaction.PaidAt = &now
		transaction.AmountPaid = transaction.Total
		if err := s.transactions.Save(tx, transaction); err != nil {
			return err
		}
		confirmed = transaction
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.PublishTransaction("qris_paid", map[string]interface{}{
		"id":     confirmed.ID,
		"number": confirmed.Number,
		"total":  confirmed.Total,
	}, fmt.Sprintf("QRIS payment %s confirmed (%s)", confirmed.Number, currency.FormatRupiah(confirmed.Total)))
	return confirmed, nil
}

// CancelTransaction cancels a pending transaction and releases its
// reserved stock back to the shelf.
func (s *service) CancelTransaction(id uuid.UUID, actor string) (*model.Transaction, error) {
	return s.release(id, model.StatusCancelled, "payment cancelled", actor)
}

// RunExpirer moves stale pending transactions to expired on the
// configured interval until the context is cancelled.
func (s *service) RunExpirer(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.ExpiryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.expireStale()
		}
	}
}

func (s *service) expireStale() {
	stale, err := s.transactions.FindStalePending(time.Now().Add(-s.cfg.QRISExpiry))
	if err != nil {
		s.log.Error("failed to query stale pending transactions", zap.Error(err))
		return
	}
	for _, transaction := range stale {
		if _, err := s.release(transaction.ID, model.StatusExpired, "payment expired", "system"); err != nil {
			s.log.Error("failed to expire transaction",
				zap.String("number", transaction.Number),
				zap.Error(err),
			)
			continue
		}
		s.log.Info("expired pending transaction", zap.String("number", transaction.Number))
	}
}

// prepare resolves the session, rejects empty carts before any
// database work, and re-validates every line against last-known stock.
func (s *service) prepare(sessionID string) (*Cart, []Line, error) {
	cart, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, nil, err
	}
	if cart.IsEmpty() {
		return nil, nil, ErrEmptyCart
	}

	lines := cart.Lines()
	for _, line := range lines {
		product, err := s.products.FindByID(line.ProductID)
		if err != nil {
			return nil, nil, fmt.Errorf("product %s no longer exists", line.ProductName)
		}
		if line.Quantity > product.Stock {
			return nil, nil, fmt.Errorf("%w for %s", ErrInsufficientStock, product.Name)
		}
	}
	return cart, lines, nil
}

func (s *service) buildTransaction(lines []Line, method model.PaymentMethod, status model.TransactionStatus, actor Actor) *model.Transaction {
	subtotal := sumSubtotals(lines)
	tax := s.engine.Tax(subtotal)

	items := make([]model.TransactionItem, len(lines))
	for i, line := range lines {
		items[i] = model.TransactionItem{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Price:       line.Price,
			Quantity:    line.Quantity,
			Subtotal:    line.Subtotal,
		}
	}

	transaction := &model.Transaction{
		Number:        generateNumber(),
		Status:        status,
		PaymentMethod: method,
		Items:         items,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         subtotal + tax,
		CashierName:   actor.Name,
	}
	transaction.CreatedBy = actor.ID
	transaction.UpdatedBy = actor.ID
	return transaction
}

// commitSale decrements stock under row locks and persists the
// transaction with its ledger entries, all in one database transaction.
// The stock check here is authoritative; the cart-side check is only a
// courtesy.
func (s *service) commitSale(transaction *model.Transaction, actor Actor) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range transaction.Items {
			product, err := s.products.FindByIDForUpdate(tx, item.ProductID)
			if err != nil {
				return fmt.Errorf("product %s no longer exists", item.ProductName)
			}
			if product.Stock < item.Quantity {
				return fmt.Errorf("%w for %s", ErrInsufficientStock, product.Name)
			}

			newStock := product.Stock - item.Quantity
			if err := s.products.UpdateStock(tx, product.ID, newStock, actor.ID); err != nil {
				return err
			}

			entry := &model.StockHistory{
				ProductID:      product.ID,
				Type:           model.MovementOut,
				Amount:         item.Quantity,
				ResultingStock: newStock,
				Reason:         "sale " + transaction.Number,
				Actor:          actor.Name,
			}
			entry.CreatedBy = actor.ID
			entry.UpdatedBy = actor.ID
			if err := s.history.Create(tx, entry); err != nil {
				return err
			}
		}

		return s.transactions.Create(tx, transaction)
	})
}

// release restores the stock of a pending transaction and marks it with
// the given terminal status.
func (s *service) release(id uuid.UUID, status model.TransactionStatus, reason, actor string) (*model.Transaction, error) {
	var released *model.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		transaction, err := s.transactions.FindByIDForUpdate(tx, id)
		if err != nil {
			return errors.New("transaction not found")
		}
		if transaction.Status != model.StatusPending {
			return ErrNotPending
		}

		for _, item := range transaction.Items {
			product, err := s.products.FindByIDForUpdate(tx, item.ProductID)
			if err != nil {
				// product deleted since the sale; nothing to restore
				continue
			}
			newStock := product.Stock + item.Quantity
			if err := s.products.UpdateStock(tx, product.ID, newStock, actor); err != nil {
				return err
			}

			entry := &model.StockHistory{
				ProductID:      product.ID,
				Type:           model.MovementIn,
				Amount:         item.Quantity,
				ResultingStock: newStock,
				Reason:         fmt.Sprintf("%s (%s)", reason, transaction.Number),
				Actor:          actor,
			}
			entry.CreatedBy = actor
			entry.UpdatedBy = actor
			if err := s.history.Create(tx, entry); err != nil {
				return err
			}
		}

		transaction.Status = status
		transaction.UpdatedBy = actor
		if err := s.transactions.Save(tx, transaction); err != nil {
			return err
		}
		released = transaction
		return nil
	})
	if err != nil {
		return nil, err
	}
	return released, nil
}

func (s *service) announceSale(transaction *model.Transaction, actor Actor) {
	s.hub.PublishTransaction("sale_completed", map[string]interface{}{
		"id":             transaction.ID,
		"number":         transaction.Number,
		"total":          transaction.Total,
		"payment_method": transaction.PaymentMethod,
	}, fmt.Sprintf("%s completed sale %s (%s)", actor.Name, transaction.Number, currency.FormatRupiah(transaction.Total)))
}

func (s *service) view(cart *Cart) *CartView {
	lines := cart.Lines()
	subtotal := sumSubtotals(lines)
	tax := s.engine.Tax(subtotal)
	return &CartView{
		ID:            cart.ID,
		Items:         lines,
		PaymentMethod: cart.PaymentMethod,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         subtotal + tax,
	}
}

func sumSubtotals(lines []Line) int64 {
	var total int64
	for _, line := range lines {
		total += line.Subtotal
	}
	return total
}

func generateNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("TRX-%s-%s", time.Now().Format("20060102"), suffix)
}
