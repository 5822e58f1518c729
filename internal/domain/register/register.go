package register

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// CashMethodID is the payment method whose takings stay in the drawer.
const CashMethodID = "cash"

var ErrNotFound = errors.New("register: not found")

// Register is a physical cash register ("caixa") a terminal session is opened against.
type Register struct {
	ID             int
	Name           string
	OpeningBalance decimal.Decimal
}

type Registry interface {
	ListRegisters() []Register
	GetRegister(id int) (Register, error)
}

// Takings accumulates finalized order totals per payment method for one register.
type Takings struct {
	RegisterID int
	Orders     int
	Total      decimal.Decimal
	ByMethod   map[string]decimal.Decimal
	UpdatedAt  time.Time

	recorded map[string]struct{}
}

func NewTakings(registerID int) *Takings {
	return &Takings{
		RegisterID: registerID,
		Total:      decimal.Zero,
		ByMethod:   make(map[string]decimal.Decimal),
		recorded:   make(map[string]struct{}),
	}
}

// Record credits amount to methodID. An order already recorded is ignored and Record
// reports false.
func (t *Takings) Record(orderID, methodID string, amount decimal.Decimal) bool {
	if t.recorded == nil {
		t.recorded = make(map[string]struct{})
	}
	if _, dup := t.recorded[orderID]; dup {
		return false
	}
	t.recorded[orderID] = struct{}{}
	t.Orders++
	t.Total = t.Total.Add(amount)
	t.ByMethod[methodID] = t.ByMethod[methodID].Add(amount)
	t.UpdatedAt = time.Now().UTC()
	return true
}

// Balance is the expected drawer content: opening balance plus cash takings.
func (t *Takings) Balance(opening decimal.Decimal) decimal.Decimal {
	return opening.Add(t.ByMethod[CashMethodID])
}

func (t *Takings) Clone() *Takings {
	if t == nil {
		return nil
	}
	clone := *t
	clone.ByMethod = make(map[string]decimal.Decimal, len(t.ByMethod))
	for k, v := range t.ByMethod {
		clone.ByMethod[k] = v
	}
	clone.recorded = make(map[string]struct{}, len(t.recorded))
	for k := range t.recorded {
		clone.recorded[k] = struct{}{}
	}
	return &clone
}

type TakingsRepository interface {
	Get(ctx context.Context, registerID int) (*Takings, error)
	Save(ctx context.Context, takings *Takings) error
}
