package order

import "context"

type Repository interface {
	Insert(ctx context.Context, order *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	ListByRegister(ctx context.Context, registerID int) ([]*Order, error)
}
