package register

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTakingsRecord(t *testing.T) {
	tk := NewTakings(1)

	assert.True(t, tk.Record("a", "cash", decimal.RequireFromString("12.50")))
	assert.True(t, tk.Record("b", "pix", decimal.RequireFromString("7.00")))
	assert.False(t, tk.Record("a", "cash", decimal.RequireFromString("12.50")))

	assert.Equal(t, 2, tk.Orders)
	assert.True(t, tk.Total.Equal(decimal.RequireFromString("19.50")))
	assert.True(t, tk.Balance(decimal.RequireFromString("1000")).Equal(decimal.RequireFromString("1012.50")))
}

func TestTakingsCloneIsIndependent(t *testing.T) {
	tk := NewTakings(2)
	tk.Record("a", "cash", decimal.NewFromInt(5))

	clone := tk.Clone()
	clone.Record("b", "cash", decimal.NewFromInt(5))

	assert.Equal(t, 1, tk.Orders)
	assert.True(t, tk.ByMethod["cash"].Equal(decimal.NewFromInt(5)))
	assert.False(t, clone.Record("a", "cash", decimal.NewFromInt(5)))
}
