package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	domain "github.com/Zhima-Mochi/pos-checkout/internal/domain/order"
)

// OrderRepository keeps finalized orders for the lifetime of the process.
type OrderRepository struct {
	mu         sync.RWMutex
	orders     map[string]*domain.Order
	byRegister map[int][]string
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders:     make(map[string]*domain.Order),
		byRegister: make(map[int][]string),
	}
}

func (r *OrderRepository) Insert(ctx context.Context, order *domain.Order) error {
	_ = ctx
	if order == nil || order.ID == "" {
		return fmt.Errorf("order repository: id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.ID]; exists {
		return domain.ErrConflict
	}

	r.orders[order.ID] = order.Clone()
	r.byRegister[order.RegisterID] = append(r.byRegister[order.RegisterID], order.ID)
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, id string) (*domain.Order, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	return order.Clone(), nil
}

// ListByRegister returns the register's orders, oldest first.
func (r *OrderRepository) ListByRegister(ctx context.Context, registerID int) ([]*domain.Order, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byRegister[registerID]
	out := make([]*domain.Order, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.orders[id].Clone())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].FinalizedAt.Before(out[j].FinalizedAt) })
	return out, nil
}
