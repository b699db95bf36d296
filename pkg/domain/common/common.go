// Package common holds the contracts shared by all domain events.
package common

// Event is the marker interface implemented by every domain event.
type Event interface {
	Type() string
}

// Validatable defines an interface for objects that can be validated.
type Validatable interface {
	Validate() error
}
