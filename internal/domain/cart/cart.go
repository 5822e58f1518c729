package cart

import (
	"fmt"

	"github.com/Zhima-Mochi/pos-checkout/internal/domain/catalog"
	pkgerrors "github.com/Zhima-Mochi/pos-checkout/internal/pkg/errors"
	"github.com/shopspring/decimal"
)

// Line pairs a product with the quantity selected. Quantity is always >= 1.
type Line struct {
	ProductID int
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// LineTotal is UnitPrice x Quantity.
func (l Line) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart owns the product -> quantity mapping of the order being built. Lines keep the
// order in which products were first added.
type Cart struct {
	catalog catalog.Catalog
	order   []int
	lines   map[int]*Line
}

func New(c catalog.Catalog) *Cart {
	return &Cart{
		catalog: c,
		lines:   make(map[int]*Line),
	}
}

// AddItem increments the quantity of productID by one, creating the line if needed.
func (c *Cart) AddItem(productID int) error {
	if line, ok := c.lines[productID]; ok {
		line.Quantity++
		return nil
	}
	product, err := c.lookup(productID)
	if err != nil {
		return err
	}
	c.insert(product, 1)
	return nil
}

// SetQuantity sets the absolute quantity of productID. Zero removes the line.
func (c *Cart) SetQuantity(productID, quantity int) error {
	if quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity must be zero or greater, got %d", quantity)).
			WithDetails(map[string]any{"product_id": productID, "quantity": quantity})
	}
	line, ok := c.lines[productID]
	switch {
	case quantity == 0:
		if ok {
			c.remove(productID)
		}
		return nil
	case ok:
		line.Quantity = quantity
		return nil
	}

	product, err := c.lookup(productID)
	if err != nil {
		return err
	}
	c.insert(product, quantity)
	return nil
}

// RemoveItem decrements productID by one. Absent products are ignored.
func (c *Cart) RemoveItem(productID int) error {
	line, ok := c.lines[productID]
	if !ok {
		return nil
	}
	return c.SetQuantity(productID, line.Quantity-1)
}

// Subtotal is recomputed from the surviving lines on every call.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, id := range c.order {
		total = total.Add(c.lines[id].LineTotal())
	}
	return total
}

func (c *Cart) Lines() []Line {
	out := make([]Line, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.lines[id])
	}
	return out
}

// Quantity returns the quantity of productID, zero when absent.
func (c *Cart) Quantity(productID int) int {
	if line, ok := c.lines[productID]; ok {
		return line.Quantity
	}
	return 0
}

// ItemCount is the number of units across all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, line := range c.lines {
		n += line.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.order) == 0
}

func (c *Cart) Clear() {
	c.order = nil
	c.lines = make(map[int]*Line)
}

func (c *Cart) lookup(productID int) (catalog.Product, error) {
	product, err := c.catalog.GetProduct(productID)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return catalog.Product{}, err
		}
		return catalog.Product{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, fmt.Sprintf("product %d not found", productID))
	}
	return product, nil
}

func (c *Cart) insert(p catalog.Product, quantity int) {
	c.lines[p.ID] = &Line{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  quantity,
	}
	c.order = append(c.order, p.ID)
}

func (c *Cart) remove(productID int) {
	delete(c.lines, productID)
	for i, id := range c.order {
		if id == productID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
