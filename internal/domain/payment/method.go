package payment

import (
	"errors"
	"fmt"
)

var ErrMethodNotFound = errors.New("payment: method not found")

// Group partitions payment methods into the ones every store accepts and the ones a
// store opts into.
type Group string

const (
	GroupStandard Group = "standard"
	GroupOptional Group = "optional"
)

var validGroups = []Group{
	GroupStandard,
	GroupOptional,
}

// String implements fmt.Stringer.
func (g Group) String() string {
	return string(g)
}

// IsValid reports whether the value is a known Group.
func (g Group) IsValid() bool {
	for _, candidate := range validGroups {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseGroup converts raw input into a Group.
func ParseGroup(value string) (Group, error) {
	for _, candidate := range validGroups {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method group %q", value)
}

type Method struct {
	ID    string
	Name  string
	Group Group
}

type Registry interface {
	ListStandardMethods() []Method
	ListOptionalMethods() []Method
	GetMethod(id string) (Method, error)
}
