package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPeso(t *testing.T) {
	assert.Equal(t, "₱0.00", FormatPeso(0))
	assert.Equal(t, "₱45.00", FormatPeso(45))
	assert.Equal(t, "₱1,234.50", FormatPeso(1234.5))
	assert.Equal(t, "₱1,000,000.00", FormatPeso(1e6))
	assert.Equal(t, "-₱99.90", FormatPeso(-99.9))
}
