package memory

import (
	"errors"
	"testing"

	"github.com/Zhima-Mochi/pos-checkout/internal/domain/catalog"
	"github.com/Zhima-Mochi/pos-checkout/internal/domain/payment"
	"github.com/Zhima-Mochi/pos-checkout/internal/domain/register"
	"github.com/Zhima-Mochi/pos-checkout/internal/domain/ticket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogDefaults(t *testing.T) {
	c := NewCatalog()

	assert.Len(t, c.ListProducts(), 14)
	assert.Equal(t, []string{"Bebidas", "Lanches", "Doces", "Salgados", "Combos"}, c.ListCategories())

	p, err := c.GetProduct(5)
	require.NoError(t, err)
	assert.Equal(t, "X-Burger", p.Name)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("15.90")))

	_, err = c.GetProduct(99)
	assert.True(t, errors.Is(err, catalog.ErrProductNotFound))
}

func TestCatalogListByCategory(t *testing.T) {
	var c catalog.Catalog = NewCatalog()

	assert.Len(t, c.ListByCategory("Salgados"), 3)
	assert.Len(t, c.ListByCategory(catalog.AllCategories), 14)
	assert.Empty(t, c.ListByCategory("Sorvetes"))
}

func TestCatalogListIsACopy(t *testing.T) {
	c := NewCatalog()
	products := c.ListProducts()
	products[0].Name = "changed"

	p, err := c.GetProduct(products[0].ID)
	require.NoError(t, err)
	assert.NotEqual(t, "changed", p.Name)
	assert.NotEqual(t, "changed", c.ListProducts()[0].Name)
}

func TestTicketRegistryNormalizesCodes(t *testing.T) {
	r := NewTicketRegistry()

	tk, err := r.FindTicket("  promo20 ")
	require.NoError(t, err)
	assert.Equal(t, "PROMO20", tk.Code)
	assert.True(t, tk.Value.Equal(decimal.RequireFromString("20")))

	_, err = r.FindTicket("NOPE")
	assert.True(t, errors.Is(err, ticket.ErrTicketNotFound))
}

func TestPaymentMethodRegistryGroups(t *testing.T) {
	r := NewPaymentMethodRegistry()

	standard := r.ListStandardMethods()
	require.Len(t, standard, 4)
	assert.Equal(t, "cash", standard[0].ID)
	for _, m := range standard {
		assert.Equal(t, payment.GroupStandard, m.Group)
	}
	assert.Len(t, r.ListOptionalMethods(), 3)

	m, err := r.GetMethod("voucher")
	require.NoError(t, err)
	assert.Equal(t, "Vale Refeição", m.Name)
	assert.Equal(t, payment.GroupOptional, m.Group)

	_, err = r.GetMethod("bitcoin")
	assert.True(t, errors.Is(err, payment.ErrMethodNotFound))
}

func TestPaymentMethodRegistryRejectsInvalidMethods(t *testing.T) {
	_, err := NewPaymentMethodRegistryFrom([]payment.Method{
		{ID: "cash", Name: "Dinheiro", Group: payment.GroupStandard},
		{ID: "crypto", Name: "Cripto", Group: payment.Group("premium")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "premium")

	_, err = NewPaymentMethodRegistryFrom([]payment.Method{
		{ID: "pix", Name: "PIX", Group: payment.GroupStandard},
		{ID: "pix", Name: "PIX 2", Group: payment.GroupOptional},
	})
	assert.Error(t, err)

	r, err := NewPaymentMethodRegistryFrom([]payment.Method{
		{ID: "voucher", Name: "Vale Refeição", Group: payment.GroupOptional},
	})
	require.NoError(t, err)
	assert.Empty(t, r.ListStandardMethods())
	assert.Len(t, r.ListOptionalMethods(), 1)
}

func TestRegisterRegistry(t *testing.T) {
	r := NewRegisterRegistry()
	require.Len(t, r.ListRegisters(), 12)

	reg, err := r.GetRegister(3)
	require.NoError(t, err)
	assert.Equal(t, "Caixa 3", reg.Name)
	assert.True(t, reg.OpeningBalance.Equal(decimal.NewFromInt(2000)))

	_, err = r.GetRegister(13)
	assert.True(t, errors.Is(err, register.ErrNotFound))
}
