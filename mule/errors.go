// Package mule implements the bit-plane space-partitioning entropy
// codec. A block is coded as a recursive tree of Zero / Lower-bitplane
// / Split decisions chosen by a Lagrangian rate-distortion search, with
// unit regions coded bit by bit through per-bitplane contexts.
package mule

import "errors"

var (
	// ErrInvalidFlag is returned when a flag outside the permitted set
	// is met for the current region, or the flag sequence runs short.
	ErrInvalidFlag = errors.New("invalid encoding flag")

	// ErrBitplaneRange is returned when a bitplane bound does not fit
	// the coder's 32-bit coefficient model.
	ErrBitplaneRange = errors.New("bitplane out of range")
)
