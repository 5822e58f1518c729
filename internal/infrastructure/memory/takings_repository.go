package memory

import (
	"context"
	"sync"

	domain "github.com/Zhima-Mochi/pos-checkout/internal/domain/register"
)

type TakingsRepository struct {
	mu      sync.RWMutex
	takings map[int]*domain.Takings
}

func NewTakingsRepository() *TakingsRepository {
	return &TakingsRepository{
		takings: make(map[int]*domain.Takings),
	}
}

// Get returns the takings of registerID, starting from an empty ledger for registers
// that have not sold anything yet.
func (r *TakingsRepository) Get(ctx context.Context, registerID int) (*domain.Takings, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.takings[registerID]
	if !ok {
		return domain.NewTakings(registerID), nil
	}
	return t.Clone(), nil
}

func (r *TakingsRepository) Save(ctx context.Context, takings *domain.Takings) error {
	_ = ctx
	if takings == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.takings[takings.RegisterID] = takings.Clone()
	return nil
}
