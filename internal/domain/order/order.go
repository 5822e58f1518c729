package order

import (
	"errors"
	"time"

	"github.com/Zhima-Mochi/pos-checkout/internal/domain/cart"
	"github.com/Zhima-Mochi/pos-checkout/internal/domain/payment"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound               = errors.New("order: not found")
	ErrConflict               = errors.New("order: conflict")
	ErrEmptyCart              = errors.New("order: cart has no items")
	ErrNoPaymentMethod        = errors.New("order: no payment method selected")
	ErrOrderFinalized         = errors.New("order: order is finalized")
	ErrAlreadyFinalized       = errors.New("order: already finalized")
	ErrInvalidStateTransition = errors.New("order: invalid state transition")
)

type Status string

const (
	StatusBuilding        Status = "building"
	StatusAwaitingPayment Status = "awaiting_payment"
	StatusFinalized       Status = "finalized"
)

// Order is the record produced by a successful finalize. It is never mutated; callers
// receive clones.
type Order struct {
	ID            string
	RegisterID    int
	Lines         []cart.Line
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	TicketCode    string
	PaymentMethod payment.Method
	FinalizedAt   time.Time
}

func (o *Order) ItemCount() int {
	n := 0
	for _, l := range o.Lines {
		n += l.Quantity
	}
	return n
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Lines = append([]cart.Line(nil), o.Lines...)
	return &clone
}
