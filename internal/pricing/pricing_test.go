package pricing

import (
	"testing"

	"gadget-prima-pos/internal/config"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(config.BusinessConfig{
		TaxRate:          decimal.RequireFromString("0.11"),
		COGSFallbackRate: decimal.RequireFromString("0.60"),
	})
}

func TestTax(t *testing.T) {
	engine := testEngine(t)

	t.Run("register scenario", func(t *testing.T) {
		// two items at 100000 each
		subtotal := int64(200000)
		assert.Equal(t, int64(22000), engine.Tax(subtotal))
		assert.Equal(t, int64(222000), engine.Total(subtotal))
	})

	t.Run("rounds to nearest rupiah", func(t *testing.T) {
		// 15 * 0.11 = 1.65 -> 2
		assert.Equal(t, int64(2), engine.Tax(15))
		assert.Equal(t, int64(0), engine.Tax(0))
	})
}

func TestCOGS(t *testing.T) {
	engine := testEngine(t)

	t.Run("uses purchase price when recorded", func(t *testing.T) {
		assert.Equal(t, int64(80000), engine.COGS(40000, 50000, 2))
	})

	t.Run("falls back to ratio of sell price", func(t *testing.T) {
		assert.Equal(t, int64(30000), engine.COGS(0, 50000, 1))
		assert.Equal(t, int64(90000), engine.COGS(0, 50000, 3))
	})
}

func TestMarginPercent(t *testing.T) {
	t.Run("computed from sell price", func(t *testing.T) {
		margin := MarginPercent(60000, 100000)
		assert.True(t, margin.Equal(decimal.NewFromInt(40)), "got %s", margin)
	})

	t.Run("zero sell price yields zero", func(t *testing.T) {
		assert.True(t, MarginPercent(5000, 0).IsZero())
	})
}

func TestPriceFromMargin(t *testing.T) {
	t.Run("derives sell price", func(t *testing.T) {
		price, err := PriceFromMargin(60000, decimal.NewFromInt(40))
		require.NoError(t, err)
		assert.Equal(t, int64(100000), price)
	})

	t.Run("round trips with MarginPercent", func(t *testing.T) {
		for _, buy := range []int64{1000, 12345, 60000, 999999} {
			for _, margin := range []string{"0", "10", "33.33", "40", "75", "99"} {
				target := decimal.RequireFromString(margin)
				price, err := PriceFromMargin(buy, target)
				require.NoError(t, err)

				got := MarginPercent(buy, price)
				diff := got.Sub(target).Abs()
				assert.True(t, diff.LessThanOrEqual(decimal.RequireFromString("0.01")),
					"buy=%d margin=%s price=%d got=%s", buy, margin, price, got)
			}
		}
	})

	t.Run("rejects margin outside range", func(t *testing.T) {
		_, err := PriceFromMargin(1000, decimal.NewFromInt(100))
		assert.Error(t, err)
		_, err = PriceFromMargin(1000, decimal.NewFromInt(-1))
		assert.Error(t, err)
	})
}

func TestGenerateSKU(t *testing.T) {
	t.Run("matches shape with category prefix", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			sku := GenerateSKU("PHN")
			assert.Regexp(t, SKUPattern, sku)
			assert.Equal(t, "PHN-", sku[:4])
		}
	})

	t.Run("blank prefix falls back to generic", func(t *testing.T) {
		sku := GenerateSKU("  ")
		assert.Regexp(t, SKUPattern, sku)
		assert.Equal(t, "GEN-", sku[:4])
	})

	t.Run("lowercase prefix is normalized", func(t *testing.T) {
		sku := GenerateSKU("acc")
		assert.Equal(t, "ACC-", sku[:4])
		assert.Regexp(t, SKUPattern, sku)
	})
}
