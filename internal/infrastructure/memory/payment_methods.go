package memory

import (
	"fmt"

	"github.com/Zhima-Mochi/pos-checkout/internal/domain/payment"
)

type PaymentMethodRegistry struct {
	standard []payment.Method
	optional []payment.Method
}

func NewPaymentMethodRegistry() *PaymentMethodRegistry {
	r, err := NewPaymentMethodRegistryFrom([]payment.Method{
		{ID: "cash", Name: "Dinheiro", Group: payment.GroupStandard},
		{ID: "pix", Name: "PIX", Group: payment.GroupStandard},
		{ID: "debit", Name: "Cartão de Débito", Group: payment.GroupStandard},
		{ID: "credit", Name: "Cartão de Crédito", Group: payment.GroupStandard},
		{ID: "voucher", Name: "Vale Refeição", Group: payment.GroupOptional},
		{ID: "transfer", Name: "Transferência Bancária", Group: payment.GroupOptional},
		{ID: "other", Name: "Outro Método", Group: payment.GroupOptional},
	})
	if err != nil {
		panic(err)
	}
	return r
}

// NewPaymentMethodRegistryFrom partitions methods by group. A method with an unknown
// group or a repeated id is rejected.
func NewPaymentMethodRegistryFrom(methods []payment.Method) (*PaymentMethodRegistry, error) {
	r := &PaymentMethodRegistry{}
	seen := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		if !m.Group.IsValid() {
			return nil, fmt.Errorf("payment method %q: invalid group %q", m.ID, m.Group)
		}
		if _, dup := seen[m.ID]; dup {
			return nil, fmt.Errorf("payment method %q: duplicate id", m.ID)
		}
		seen[m.ID] = struct{}{}
		if m.Group == payment.GroupStandard {
			r.standard = append(r.standard, m)
		} else {
			r.optional = append(r.optional, m)
		}
	}
	return r, nil
}

func (r *PaymentMethodRegistry) ListStandardMethods() []payment.Method {
	return append([]payment.Method(nil), r.standard...)
}

func (r *PaymentMethodRegistry) ListOptionalMethods() []payment.Method {
	return append([]payment.Method(nil), r.optional...)
}

func (r *PaymentMethodRegistry) GetMethod(id string) (payment.Method, error) {
	for _, group := range [][]payment.Method{r.standard, r.optional} {
		for _, m := range group {
			if m.ID == id {
				return m, nil
			}
		}
	}
	return payment.Method{}, payment.ErrMethodNotFound
}
