package memory

import (
	"github.com/Zhima-Mochi/pos-checkout/internal/domain/ticket"
	"github.com/shopspring/decimal"
)

type TicketRegistry struct {
	tickets map[string]ticket.Ticket
}

func NewTicketRegistry() *TicketRegistry {
	return NewTicketRegistryFrom([]ticket.Ticket{
		{Code: "DESCONTO10", Value: decimal.RequireFromString("10.00")},
		{Code: "PROMO20", Value: decimal.RequireFromString("20.00")},
		{Code: "VALE5", Value: decimal.RequireFromString("5.00")},
	})
}

func NewTicketRegistryFrom(tickets []ticket.Ticket) *TicketRegistry {
	r := &TicketRegistry{tickets: make(map[string]ticket.Ticket, len(tickets))}
	for _, t := range tickets {
		t.Code = ticket.Normalize(t.Code)
		r.tickets[t.Code] = t
	}
	return r
}

func (r *TicketRegistry) FindTicket(code string) (ticket.Ticket, error) {
	t, ok := r.tickets[ticket.Normalize(code)]
	if !ok {
		return ticket.Ticket{}, ticket.ErrTicketNotFound
	}
	return t, nil
}
