// Package guard provides ConstructorGuard, a marker embedded in value objects,
// aggregates, commands and queries so that zero values created with a struct
// literal can be told apart from values built by their constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is given.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is set only by NewConstructorGuard. It is immutable and safe
// to copy and share between goroutines.
//
//	type SubmitOfferCommand struct {
//	    price kernel.Money
//	    guard guard.ConstructorGuard
//	}
//
//	func (c SubmitOfferCommand) Validate() error {
//	    return c.guard.Validate(ErrSubmitOfferCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard marks the enclosing value as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
