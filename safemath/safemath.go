// Package safemath provides checked 256-bit unsigned integer arithmetic.
// Every operation either returns an exact result or a sentinel error;
// nothing wraps, saturates, or divides by zero silently. Callers treat any
// error as aborting the enclosing operation with no partial state change.
package safemath

import (
	"errors"

	"github.com/holiman/uint256"
)

var (
	ErrOverflow     = errors.New("safemath: arithmetic overflow")
	ErrUnderflow    = errors.New("safemath: arithmetic underflow")
	ErrDivideByZero = errors.New("safemath: division by zero")
)

// Add returns a+b, or ErrOverflow if the sum exceeds 2^256-1.
func Add(a, b *uint256.Int) (*uint256.Int, error) {
	sum, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	return sum, nil
}

// Sub returns a-b, or ErrUnderflow if b > a.
func Sub(a, b *uint256.Int) (*uint256.Int, error) {
	diff, underflow := new(uint256.Int).SubOverflow(a, b)
	if underflow {
		return nil, ErrUnderflow
	}
	return diff, nil
}

// Mul returns a*b, or ErrOverflow if the mathematical product exceeds
// 2^256-1. A zero operand short-circuits to zero.
func Mul(a, b *uint256.Int) (*uint256.Int, error) {
	if a.IsZero() || b.IsZero() {
		return new(uint256.Int), nil
	}
	product, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	return product, nil
}

// Div returns the floor quotient a/b, or ErrDivideByZero if b is zero.
func Div(a, b *uint256.Int) (*uint256.Int, error) {
	if b.IsZero() {
		return nil, ErrDivideByZero
	}
	return new(uint256.Int).Div(a, b), nil
}

// MulDiv returns floor(a*b/c) with the intermediate product checked for
// overflow. It does not widen the intermediate: a product above 2^256-1
// fails even when the final quotient would fit.
func MulDiv(a, b, c *uint256.Int) (*uint256.Int, error) {
	product, err := Mul(a, b)
	if err != nil {
		return nil, err
	}
	return Div(product, c)
}

// Min returns the smaller of a and b as a fresh value.
func Min(a, b *uint256.Int) *uint256.Int {
	if a.Cmp(b) <= 0 {
		return new(uint256.Int).Set(a)
	}
	return new(uint256.Int).Set(b)
}
