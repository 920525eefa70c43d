// Package mico implements the Multidimensional Image COdec entropy
// stage: a level-addressed space-partitioning tree with Empty / Full /
// Split decisions over interior regions and value / zero decisions at
// unit regions, driven by a per-level bitplane table and a Lagrangian
// rate-distortion search.
package mico

import "errors"

var (
	// ErrInvalidFlag is returned when a flag outside the permitted set
	// is met for the current region, or the flag sequence runs short.
	ErrInvalidFlag = errors.New("invalid encoding flag")

	// ErrBitplaneRange is returned when a bitplane value does not fit
	// the coder's 32-bit coefficient model.
	ErrBitplaneRange = errors.New("bitplane out of range")
)
