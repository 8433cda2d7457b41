package rlwe

import (
	"fmt"
)

// ConfigurationError is returned when a parameter or an argument of a key generation
// method is outside of its valid range.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("rlwe: invalid configuration: %s %s", e.Field, e.Reason)
}

// DimensionMismatchError is returned when a polynomial does not have the
// dimension of the ring it is used with.
type DimensionMismatchError struct {
	Want int
	Have int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("rlwe: dimension mismatch: want N=%d but have N=%d", e.Want, e.Have)
}

// ArithmeticRangeError is returned when a derived value would not fit in the
// coefficient representation of [ring.Ring].
type ArithmeticRangeError struct {
	Operation string
	Limit     uint64
}

func (e *ArithmeticRangeError) Error() string {
	return fmt.Sprintf("rlwe: arithmetic range exceeded: %s is larger than %d", e.Operation, e.Limit)
}
