package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "Rp0", FormatRupiah(0))
	assert.Equal(t, "Rp500", FormatRupiah(500))
	assert.Equal(t, "Rp222.000", FormatRupiah(222000))
	assert.Equal(t, "Rp1.500.000", FormatRupiah(1500000))
	assert.Equal(t, "Rp-25.000", FormatRupiah(-25000))
}
