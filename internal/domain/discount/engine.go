package discount

import (
	"fmt"

	"github.com/Zhima-Mochi/pos-checkout/internal/domain/ticket"
	pkgerrors "github.com/Zhima-Mochi/pos-checkout/internal/pkg/errors"
	"github.com/shopspring/decimal"
)

// Engine holds at most one applied ticket. Applying another ticket replaces it.
type Engine struct {
	registry ticket.Registry
	applied  *ticket.Ticket
}

func NewEngine(registry ticket.Registry) *Engine {
	return &Engine{registry: registry}
}

// ApplyTicket looks up code (trimmed, case-insensitive). On a miss the active
// discount is left untouched.
func (e *Engine) ApplyTicket(code string) (ticket.Ticket, error) {
	normalized := ticket.Normalize(code)
	if normalized == "" {
		return ticket.Ticket{}, pkgerrors.New(pkgerrors.CodeValidation, "ticket code is required")
	}
	t, err := e.registry.FindTicket(normalized)
	if err != nil {
		return ticket.Ticket{}, pkgerrors.Wrap(pkgerrors.CodeInvalidTicket, err, fmt.Sprintf("ticket %q is not valid", normalized))
	}
	e.applied = &t
	return t, nil
}

func (e *Engine) RemoveTicket() {
	e.applied = nil
}

func (e *Engine) Applied() (ticket.Ticket, bool) {
	if e.applied == nil {
		return ticket.Ticket{}, false
	}
	return *e.applied, true
}

func (e *Engine) CurrentDiscount() decimal.Decimal {
	if e.applied == nil {
		return decimal.Zero
	}
	return e.applied.Value
}

// Total applies the current discount to subtotal, never going below zero.
func (e *Engine) Total(subtotal decimal.Decimal) decimal.Decimal {
	total := subtotal.Sub(e.CurrentDiscount())
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}
