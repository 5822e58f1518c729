package ticket

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrTicketNotFound = errors.New("ticket: code not found")

// Ticket is a discount code redeemable for a fixed amount off the order subtotal.
type Ticket struct {
	Code  string
	Value decimal.Decimal
}

type Registry interface {
	FindTicket(code string) (Ticket, error)
}

// Normalize canonicalises user-typed codes: surrounding blanks are dropped and the
// comparison is case-insensitive.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
