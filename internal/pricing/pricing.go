// Package pricing centralizes the numeric business rules that the old
// register screens each recomputed on their own: tax, margin and price
// derivation, SKU generation, and cost-of-goods estimation.
package pricing

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"gadget-prima-pos/internal/config"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	// SKUPattern is the shape every generated SKU must match.
	SKUPattern = regexp.MustCompile(`^[A-Z]+-\d{4}$`)
)

// FallbackSKUPrefix is used for categories without a configured prefix.
const FallbackSKUPrefix = "GEN"

// Engine performs money arithmetic with the configured business
// constants. Amounts are int64 rupiah; intermediate math uses decimals
// so rounding happens exactly once per derivation.
type Engine struct {
	taxRate      decimal.Decimal
	cogsFallback decimal.Decimal
}

func NewEngine(cfg config.BusinessConfig) *Engine {
	return &Engine{
		taxRate:      cfg.TaxRate,
		cogsFallback: cfg.COGSFallbackRate,
	}
}

// Tax returns the tax due on a subtotal, rounded to the nearest rupiah.
func (e *Engine) Tax(subtotal int64) int64 {
	return decimal.NewFromInt(subtotal).Mul(e.taxRate).Round(0).IntPart()
}

// Total returns subtotal plus tax.
func (e *Engine) Total(subtotal int64) int64 {
	return subtotal + e.Tax(subtotal)
}

// COGS estimates the cost of goods for a sold line item. When the
// product has no recorded purchase price the configured fallback ratio
// of the sell price is used instead.
func (e *Engine) COGS(buyPrice, sellPrice int64, quantity int) int64 {
	qty := decimal.NewFromInt(int64(quantity))
	if buyPrice > 0 {
		return decimal.NewFromInt(buyPrice).Mul(qty).IntPart()
	}
	return decimal.NewFromInt(sellPrice).Mul(e.cogsFallback).Mul(qty).Round(0).IntPart()
}

// MarginPercent returns (sell - buy) / sell * 100. A zero sell price
// yields a zero margin rather than a division error.
func MarginPercent(buyPrice, sellPrice int64) decimal.Decimal {
	if sellPrice == 0 {
		return decimal.Zero
	}
	sell := decimal.NewFromInt(sellPrice)
	return sell.Sub(decimal.NewFromInt(buyPrice)).Div(sell).Mul(hundred)
}

// PriceFromMargin derives a sell price from a purchase price and a
// target margin percent in [0, 100), rounded to the nearest rupiah.
// It round-trips with MarginPercent within rounding tolerance.
func PriceFromMargin(buyPrice int64, marginPercent decimal.Decimal) (int64, error) {
	if marginPercent.IsNegative() || marginPercent.GreaterThanOrEqual(hundred) {
		return 0, fmt.Errorf("margin must be in [0, 100), got %s", marginPercent)
	}
	divisor := decimal.NewFromInt(1).Sub(marginPercent.Div(hundred))
	return decimal.NewFromInt(buyPrice).Div(divisor).Round(0).IntPart(), nil
}

// GenerateSKU produces PREFIX-NNNN with a random 4-digit suffix in
// [1000, 9999]. The value is random on every call; only the shape is
// stable.
func GenerateSKU(prefix string) string {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		prefix = FallbackSKUPrefix
	}
	return fmt.Sprintf("%s-%04d", prefix, 1000+rand.Intn(9000))
}
