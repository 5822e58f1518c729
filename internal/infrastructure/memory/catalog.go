package memory

import (
	"sort"

	"github.com/Zhima-Mochi/pos-checkout/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

var _ catalog.Catalog = (*Catalog)(nil)

// Catalog is a static, read-only product registry.
type Catalog struct {
	products   []catalog.Product
	byID       map[int]catalog.Product
	categories []string
}

// NewCatalog returns the catalog shipped with the terminal.
func NewCatalog() *Catalog {
	return NewCatalogFrom(defaultProducts())
}

// NewCatalogFrom builds a catalog from products, keeping their order. Categories are
// listed in order of first appearance.
func NewCatalogFrom(products []catalog.Product) *Catalog {
	c := &Catalog{
		products: append([]catalog.Product(nil), products...),
		byID:     make(map[int]catalog.Product, len(products)),
	}
	seen := make(map[string]struct{})
	for _, p := range products {
		c.byID[p.ID] = p
		if _, ok := seen[p.Category]; !ok {
			seen[p.Category] = struct{}{}
			c.categories = append(c.categories, p.Category)
		}
	}
	return c
}

func (c *Catalog) ListProducts() []catalog.Product {
	return append([]catalog.Product(nil), c.products...)
}

func (c *Catalog) ListCategories() []string {
	return append([]string(nil), c.categories...)
}

func (c *Catalog) GetProduct(id int) (catalog.Product, error) {
	p, ok := c.byID[id]
	if !ok {
		return catalog.Product{}, catalog.ErrProductNotFound
	}
	return p, nil
}

// ListByCategory filters the catalog; catalog.AllCategories returns every product.
func (c *Catalog) ListByCategory(category string) []catalog.Product {
	return catalog.FilterByCategory(c.products, category)
}

func defaultProducts() []catalog.Product {
	type seed struct {
		id       int
		name     string
		price    string
		category string
	}
	seeds := []seed{
		{1, "Água Mineral 500ml", "3.50", "Bebidas"},
		{2, "Refrigerante Lata", "5.00", "Bebidas"},
		{3, "Suco Natural", "7.50", "Bebidas"},
		{4, "Água com Gás", "4.00", "Bebidas"},
		{5, "X-Burger", "15.90", "Lanches"},
		{6, "Misto Quente", "8.50", "Lanches"},
		{7, "Cachorro Quente", "10.00", "Lanches"},
		{8, "Pudim", "6.50", "Doces"},
		{9, "Brigadeiro", "3.00", "Doces"},
		{10, "Coxinha", "5.50", "Salgados"},
		{11, "Empada", "6.00", "Salgados"},
		{12, "Pastel", "7.00", "Salgados"},
		{13, "Combo Lanche + Bebida", "18.90", "Combos"},
		{14, "Combo Família", "45.00", "Combos"},
	}
	products := make([]catalog.Product, 0, len(seeds))
	for _, s := range seeds {
		products = append(products, catalog.Product{
			ID:       s.id,
			Name:     s.name,
			Price:    decimal.RequireFromString(s.price),
			Category: s.category,
		})
	}
	sort.SliceStable(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products
}
