package application

import "context"

// UseCase is an instrumented application operation taking a command C and producing R.
type UseCase[C any, R any] interface {
	Execute(ctx context.Context, cmd C) (R, error)
}
