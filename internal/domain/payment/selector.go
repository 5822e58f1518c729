package payment

import (
	"fmt"
	"strings"

	pkgerrors "github.com/Zhima-Mochi/pos-checkout/internal/pkg/errors"
)

// Selector tracks the single payment method chosen for the order being built.
type Selector struct {
	registry Registry
	current  *Method
}

func NewSelector(registry Registry) *Selector {
	return &Selector{registry: registry}
}

// SelectMethod validates id against the standard and optional methods and replaces any
// previous selection. A failed selection keeps the previous one.
func (s *Selector) SelectMethod(id string) (Method, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Method{}, pkgerrors.New(pkgerrors.CodeValidation, "payment method id is required")
	}
	method, err := s.registry.GetMethod(id)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return Method{}, err
		}
		return Method{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, fmt.Sprintf("payment method %q not found", id))
	}
	s.current = &method
	return method, nil
}

func (s *Selector) CurrentMethod() (Method, bool) {
	if s.current == nil {
		return Method{}, false
	}
	return *s.current, true
}

func (s *Selector) Clear() {
	s.current = nil
}
