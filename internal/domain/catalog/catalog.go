package catalog

import (
	"errors"

	"github.com/shopspring/decimal"
)

// AllCategories is the pseudo-category the product screen uses to show everything.
const AllCategories = "Todos"

var ErrProductNotFound = errors.New("catalog: product not found")

type Product struct {
	ID       int
	Name     string
	Price    decimal.Decimal
	Category string
}

// Catalog is the read-only product registry consumed by the cart.
type Catalog interface {
	ListProducts() []Product
	ListCategories() []string
	GetProduct(id int) (Product, error)
	// ListByCategory returns the products of one category; AllCategories and the empty
	// string select every product.
	ListByCategory(category string) []Product
}

// FilterByCategory returns the products of one category, or every product for AllCategories
// and the empty string.
func FilterByCategory(products []Product, category string) []Product {
	if category == "" || category == AllCategories {
		return append([]Product(nil), products...)
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}
