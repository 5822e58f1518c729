package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFilterByCategory(t *testing.T) {
	products := []Product{
		{ID: 1, Name: "Água Mineral 500ml", Price: decimal.RequireFromString("3.50"), Category: "Bebidas"},
		{ID: 5, Name: "X-Burger", Price: decimal.RequireFromString("15.90"), Category: "Lanches"},
		{ID: 2, Name: "Refrigerante Lata", Price: decimal.RequireFromString("5.00"), Category: "Bebidas"},
	}

	drinks := FilterByCategory(products, "Bebidas")
	assert.Len(t, drinks, 2)
	assert.Equal(t, 1, drinks[0].ID)
	assert.Equal(t, 2, drinks[1].ID)

	assert.Len(t, FilterByCategory(products, AllCategories), 3)
	assert.Len(t, FilterByCategory(products, ""), 3)
	assert.Empty(t, FilterByCategory(products, "Doces"))
}
