package register

import (
	"context"
	"errors"
	"sync"

	domorder "github.com/Zhima-Mochi/pos-checkout/internal/domain/order"
	domain "github.com/Zhima-Mochi/pos-checkout/internal/domain/register"
	pkgerrors "github.com/Zhima-Mochi/pos-checkout/internal/pkg/errors"
	"github.com/shopspring/decimal"
)

// View is a register with its running takings.
type View struct {
	Register domain.Register
	Takings  *domain.Takings
	// Balance is the expected drawer content.
	Balance decimal.Decimal
}

type Service struct {
	registers domain.Registry
	takings   domain.TakingsRepository

	// serialises read-modify-write of a ledger
	mu sync.Mutex
}

func NewService(registers domain.Registry, takings domain.TakingsRepository) *Service {
	return &Service{registers: registers, takings: takings}
}

func (s *Service) ListRegisters() []domain.Register {
	return s.registers.ListRegisters()
}

func (s *Service) GetRegister(ctx context.Context, id int) (View, error) {
	reg, err := s.lookup(id)
	if err != nil {
		return View{}, err
	}
	t, err := s.takings.Get(ctx, id)
	if err != nil {
		return View{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load takings")
	}
	return View{Register: reg, Takings: t, Balance: t.Balance(reg.OpeningBalance)}, nil
}

// RecordOrder credits a finalized order to its register. It reports false when the
// order had already been credited.
func (s *Service) RecordOrder(ctx context.Context, evt domorder.OrderFinalizedEvent) (bool, error) {
	if _, err := s.lookup(evt.RegisterID); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.takings.Get(ctx, evt.RegisterID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load takings")
	}
	if !t.Record(evt.OrderID, evt.PaymentMethodID, evt.Total) {
		return false, nil
	}
	if err := s.takings.Save(ctx, t); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save takings")
	}
	return true, nil
}

func (s *Service) lookup(id int) (domain.Register, error) {
	reg, err := s.registers.GetRegister(id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Register{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "register not found").
				WithDetails(map[string]int{"register_id": id})
		}
		return domain.Register{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load register")
	}
	return reg, nil
}
