// Package guard provides ConstructorGuard, a marker that distinguishes values
// built through their constructor from zero values.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in entities, value objects and commands so that
// a zero-value struct can be told apart from one built by its constructor.
//
// Example usage:
//
//	var ErrCellNotConstructed = errors.New("Cell must be created via NewCell")
//
//	type Cell struct {
//	    capacity int
//	    guard    guard.ConstructorGuard
//	}
//
//	func NewCell(capacity int) (*Cell, error) {
//	    if capacity <= 0 {
//	        return nil, errors.New("capacity must be positive")
//	    }
//	    return &Cell{capacity: capacity, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (c *Cell) Validate() error {
//	    return c.guard.Validate(ErrCellNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard marks the enclosing object as properly constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
