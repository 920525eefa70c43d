// Package cabac implements Context-Adaptive Binary Arithmetic Coding
// with configurable precision and pluggable per-bit probability models.
//
// The interval subdivision follows the classic low/mid/high scheme with
// E3 underflow counting. Encoder and decoder must be driven with the
// same models in the same order; that contract is not checked in-band.
package cabac

import "errors"

var (
	// ErrInvalidStream is returned when the decoder's arithmetic state
	// becomes inconsistent, which indicates corrupt input.
	ErrInvalidStream = errors.New("invalid encoding sequence")

	// ErrInvalidPrecision is returned for precisions outside [2, 30].
	ErrInvalidPrecision = errors.New("invalid entropy precision")
)
