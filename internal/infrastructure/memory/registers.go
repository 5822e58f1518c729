package memory

import (
	"fmt"

	"github.com/Zhima-Mochi/pos-checkout/internal/domain/register"
	"github.com/shopspring/decimal"
)

type RegisterRegistry struct {
	registers []register.Register
}

func NewRegisterRegistry() *RegisterRegistry {
	openings := []string{
		"1000.00", "1500.00", "2000.00", "800.00", "1200.00", "1800.00",
		"900.00", "1100.00", "1600.00", "1300.00", "700.00", "1400.00",
	}
	regs := make([]register.Register, 0, len(openings))
	for i, amount := range openings {
		regs = append(regs, register.Register{
			ID:             i + 1,
			Name:           fmt.Sprintf("Caixa %d", i+1),
			OpeningBalance: decimal.RequireFromString(amount),
		})
	}
	return &RegisterRegistry{registers: regs}
}

func (r *RegisterRegistry) ListRegisters() []register.Register {
	return append([]register.Register(nil), r.registers...)
}

func (r *RegisterRegistry) GetRegister(id int) (register.Register, error) {
	for _, reg := range r.registers {
		if reg.ID == id {
			return reg, nil
		}
	}
	return register.Register{}, register.ErrNotFound
}
