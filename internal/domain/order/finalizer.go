package order

import (
	"time"

	"github.com/Zhima-Mochi/pos-checkout/internal/domain/cart"
	"github.com/Zhima-Mochi/pos-checkout/internal/domain/discount"
	"github.com/Zhima-Mochi/pos-checkout/internal/domain/payment"
	"github.com/Zhima-Mochi/pos-checkout/internal/domain/ticket"
	pkgerrors "github.com/Zhima-Mochi/pos-checkout/internal/pkg/errors"
	"github.com/shopspring/decimal"
)

// Finalizer owns the cart, discount and payment selection of one order being built and
// gates their mutations with the lifecycle state machine.
type Finalizer struct {
	registerID int
	cart       *cart.Cart
	discounts  *discount.Engine
	payments   *payment.Selector
	state      State
	last       *Order
}

func NewFinalizer(registerID int, c *cart.Cart, d *discount.Engine, p *payment.Selector) *Finalizer {
	return &Finalizer{
		registerID: registerID,
		cart:       c,
		discounts:  d,
		payments:   p,
		state:      initialState(),
	}
}

func (f *Finalizer) AddItem(productID int) error {
	return f.edit(func() error { return f.cart.AddItem(productID) })
}

func (f *Finalizer) SetQuantity(productID, quantity int) error {
	return f.edit(func() error { return f.cart.SetQuantity(productID, quantity) })
}

func (f *Finalizer) RemoveItem(productID int) error {
	return f.edit(func() error { return f.cart.RemoveItem(productID) })
}

func (f *Finalizer) ApplyTicket(code string) (ticket.Ticket, error) {
	var applied ticket.Ticket
	err := f.edit(func() error {
		var err error
		applied, err = f.discounts.ApplyTicket(code)
		return err
	})
	return applied, err
}

func (f *Finalizer) RemoveTicket() error {
	return f.edit(func() error {
		f.discounts.RemoveTicket()
		return nil
	})
}

func (f *Finalizer) SelectMethod(id string) (payment.Method, error) {
	var selected payment.Method
	err := f.edit(func() error {
		var err error
		selected, err = f.payments.SelectMethod(id)
		return err
	})
	return selected, err
}

// Finalize freezes the current cart and payment selection into an Order. A second call
// fails with AlreadyFinalized and leaves the first Order untouched.
func (f *Finalizer) Finalize(id string, at time.Time) (*Order, error) {
	if f.state.Status() == StatusFinalized {
		return nil, pkgerrors.Wrap(pkgerrors.CodeAlreadyFinalized, ErrAlreadyFinalized, "order already finalized")
	}
	if f.cart.IsEmpty() {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStateError, ErrEmptyCart, "cannot finalize an order with no items")
	}
	method, ok := f.payments.CurrentMethod()
	if !ok {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStateError, ErrNoPaymentMethod, "cannot finalize an order without a payment method")
	}
	next, err := f.state.OnFinalize()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStateError, err, "order is not awaiting payment")
	}

	subtotal := f.cart.Subtotal()
	o := &Order{
		ID:            id,
		RegisterID:    f.registerID,
		Lines:         f.cart.Lines(),
		Subtotal:      subtotal,
		Discount:      f.discounts.CurrentDiscount(),
		Total:         f.discounts.Total(subtotal),
		PaymentMethod: method,
		FinalizedAt:   at.UTC(),
	}
	if applied, ok := f.discounts.Applied(); ok {
		o.TicketCode = applied.Code
	}

	f.last = o
	f.state = next
	f.clear()
	return o.Clone(), nil
}

// Reset clears the cart, discount and payment selection and starts a new order.
func (f *Finalizer) Reset() {
	f.clear()
	f.last = nil
	f.state = initialState()
}

func (f *Finalizer) State() Status { return f.state.Status() }

func (f *Finalizer) Subtotal() decimal.Decimal { return f.cart.Subtotal() }

func (f *Finalizer) Discount() decimal.Decimal { return f.discounts.CurrentDiscount() }

func (f *Finalizer) Total() decimal.Decimal { return f.discounts.Total(f.cart.Subtotal()) }

func (f *Finalizer) ItemCount() int { return f.cart.ItemCount() }

func (f *Finalizer) Lines() []cart.Line { return f.cart.Lines() }

func (f *Finalizer) RegisterID() int { return f.registerID }

func (f *Finalizer) AppliedTicket() (ticket.Ticket, bool) { return f.discounts.Applied() }

func (f *Finalizer) CurrentMethod() (payment.Method, bool) { return f.payments.CurrentMethod() }

// LastOrder returns the Order produced by the last finalize, if the state is Finalized.
func (f *Finalizer) LastOrder() (*Order, bool) {
	if f.last == nil {
		return nil, false
	}
	return f.last.Clone(), true
}

func (f *Finalizer) edit(mutate func() error) error {
	next, err := f.state.OnEdit()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStateError, err, "order is finalized; reset to start a new one")
	}
	if err := mutate(); err != nil {
		return err
	}
	f.state = next.OnReadiness(f.ready())
	return nil
}

func (f *Finalizer) ready() bool {
	_, selected := f.payments.CurrentMethod()
	return selected && !f.cart.IsEmpty()
}

func (f *Finalizer) clear() {
	f.cart.Clear()
	f.discounts.RemoveTicket()
	f.payments.Clear()
}
